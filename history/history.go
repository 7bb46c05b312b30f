// Package history reads commit history to supply recency signals: recently
// changed files, change-frequency hotspots, and per-file last-modified
// times for impact scoring.
package history

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// ErrNoRepository is returned when the root is not a git repository.
var ErrNoRepository = errors.New("not a git repository")

// DefaultCommitDepth bounds how far back recent-change scans walk.
const DefaultCommitDepth = 50

// Change is a recently modified file with the subject of its last commit.
type Change struct {
	File    string `json:"file"`
	Message string `json:"message"`
}

// Hotspot is a file ranked by how often it changed inside the window.
type Hotspot struct {
	File    string `json:"file"`
	Changes int    `json:"changes"`
}

// Repo wraps a git repository for history queries.
type Repo struct {
	repo       *gogit.Repository
	extensions map[string]bool
}

// Open opens the repository at root. The extensions filter restricts every
// query to matching files (e.g. ".py", ".m"); empty means no filter.
func Open(root string, extensions []string) (*Repo, error) {
	repo, err := gogit.PlainOpen(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoRepository, err)
	}
	extSet := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		extSet[ext] = true
	}
	return &Repo{repo: repo, extensions: extSet}, nil
}

func (r *Repo) matches(file string) bool {
	if len(r.extensions) == 0 {
		return true
	}
	idx := strings.LastIndex(file, ".")
	if idx < 0 {
		return false
	}
	return r.extensions[file[idx:]]
}

// RecentChanges returns up to n unique files touched by the most recent
// commits, newest first, each with the subject line of the commit that last
// touched it.
func (r *Repo) RecentChanges(n int) ([]Change, error) {
	iter, err := r.repo.Log(&gogit.LogOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to read log: %w", err)
	}
	defer iter.Close()

	seen := make(map[string]bool)
	var changes []Change
	depth := 0
	err = iter.ForEach(func(commit *object.Commit) error {
		if depth >= DefaultCommitDepth || len(changes) >= n {
			return storer.ErrStop
		}
		depth++
		stats, err := commit.Stats()
		if err != nil {
			return nil
		}
		subject := strings.SplitN(commit.Message, "\n", 2)[0]
		for _, stat := range stats {
			if seen[stat.Name] || !r.matches(stat.Name) {
				continue
			}
			seen[stat.Name] = true
			changes = append(changes, Change{File: stat.Name, Message: subject})
			if len(changes) >= n {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return changes, nil
}

// Hotspots counts per-file changes over the lookback window and returns the
// topN most frequently changed files, ordered by count descending with
// lexical tie-break.
func (r *Repo) Hotspots(window time.Duration, topN int) ([]Hotspot, error) {
	since := time.Now().Add(-window)
	iter, err := r.repo.Log(&gogit.LogOptions{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("failed to read log: %w", err)
	}
	defer iter.Close()

	counts := make(map[string]int)
	err = iter.ForEach(func(commit *object.Commit) error {
		stats, err := commit.Stats()
		if err != nil {
			return nil
		}
		for _, stat := range stats {
			if r.matches(stat.Name) {
				counts[stat.Name]++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	hotspots := make([]Hotspot, 0, len(counts))
	for file, count := range counts {
		hotspots = append(hotspots, Hotspot{File: file, Changes: count})
	}
	sort.Slice(hotspots, func(i, j int) bool {
		if hotspots[i].Changes != hotspots[j].Changes {
			return hotspots[i].Changes > hotspots[j].Changes
		}
		return hotspots[i].File < hotspots[j].File
	})
	if topN > 0 && len(hotspots) > topN {
		hotspots = hotspots[:topN]
	}
	return hotspots, nil
}

// LastModified maps every file touched within the window to the commit time
// of its most recent change. Feeds the impact scorer's recency bonus.
func (r *Repo) LastModified(window time.Duration) (map[string]time.Time, error) {
	since := time.Now().Add(-window)
	iter, err := r.repo.Log(&gogit.LogOptions{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("failed to read log: %w", err)
	}
	defer iter.Close()

	modified := make(map[string]time.Time)
	err = iter.ForEach(func(commit *object.Commit) error {
		stats, err := commit.Stats()
		if err != nil {
			return nil
		}
		when := commit.Committer.When
		for _, stat := range stats {
			if !r.matches(stat.Name) {
				continue
			}
			if existing, ok := modified[stat.Name]; !ok || when.After(existing) {
				modified[stat.Name] = when
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return modified, nil
}
