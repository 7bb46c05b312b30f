// Package repository locates project and VCS roots for an analysis target,
// so index paths can be reported relative to a stable root.
package repository

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"golang.org/x/mod/modfile"
)

// Detector identifies project root folders and project metadata
type Detector struct {
	markers []string
}

// New creates a project detector
func New() *Detector {
	return &Detector{
		markers: []string{
			"pyproject.toml",   // Python projects
			"requirements.txt", // Python projects
			"setup.py",         // Python projects
			"package.json",     // JavaScript/Node projects
			"go.mod",           // Go projects
			".git",             // Generic VCS marker
		},
	}
}

// DetectProject identifies the project root for the given path and returns
// project info. Directories are searched upward for marker files.
func (d *Detector) DetectProject(path string) (*Project, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	startDir := absPath
	fileInfo, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	if !fileInfo.IsDir() {
		startDir = filepath.Dir(absPath)
	}

	rootPath, projectType := d.findProjectRoot(startDir)

	info := &Project{
		Type:     "unknown",
		RootPath: absPath,
	}
	if rootPath != "" {
		info.RootPath = rootPath
		info.Type = projectType
	}

	relPath, err := filepath.Rel(info.RootPath, absPath)
	if err != nil {
		relPath = filepath.Base(absPath)
	}
	info.RelativePath = filepath.ToSlash(relPath)

	if projectType != "" {
		info.Name = extractProjectName(rootPath, projectType)
	}
	return info, nil
}

// DetectRepository identifies the repository containing the given path.
func (d *Detector) DetectRepository(path string) (*Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	startDir := absPath
	fileInfo, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	if !fileInfo.IsDir() {
		startDir = filepath.Dir(absPath)
	}

	if gitRoot := findGitRoot(startDir); gitRoot != "" {
		repo := &Repository{
			Kind:   "git",
			Root:   gitRoot,
			Origin: extractGitOrigin(gitRoot),
		}
		if info, err := d.DetectProject(path); err == nil {
			repo.Info = info
		}
		return repo, nil
	}

	info, err := d.DetectProject(path)
	if err != nil {
		return nil, err
	}
	return &Repository{
		Kind: info.Type,
		Root: info.RootPath,
		Info: info,
	}, nil
}

// findProjectRoot searches up from startDir for project markers
func (d *Detector) findProjectRoot(startDir string) (string, string) {
	dir := startDir
	for {
		for _, marker := range d.markers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, projectType(marker)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", ""
}

// findGitRoot finds the root of the git repository containing startDir
func findGitRoot(startDir string) string {
	dir := startDir
	homeDir := os.Getenv("HOME")
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		if parent == homeDir {
			return ""
		}
		dir = parent
	}
	return ""
}

// extractGitOrigin reads the origin remote URL
func extractGitOrigin(gitRoot string) string {
	repo, err := gogit.PlainOpen(gitRoot)
	if err != nil {
		return ""
	}
	remote, err := repo.Remote("origin")
	if err != nil {
		return ""
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return ""
	}
	return urls[0]
}

func extractProjectName(rootPath, kind string) string {
	switch kind {
	case "python":
		if name := extractPyProjectName(filepath.Join(rootPath, "pyproject.toml")); name != "" {
			return name
		}
		return extractSetupName(rootPath)
	case "javascript":
		return extractJSPackageName(filepath.Join(rootPath, "package.json"))
	case "go":
		return extractGoModuleName(filepath.Join(rootPath, "go.mod"))
	case "git":
		return extractGitProjectName(rootPath)
	default:
		return filepath.Base(rootPath)
	}
}

var (
	pyProjectNameRegex = regexp.MustCompile(`(?m)^name\s*=\s*["']([^"']+)["']`)
	setupNameRegex     = regexp.MustCompile(`name\s*=\s*["']([^"']+)["']`)
	jsNameRegex        = regexp.MustCompile(`"name"\s*:\s*"([^"]+)"`)
)

func extractPyProjectName(pyprojectPath string) string {
	data, err := os.ReadFile(pyprojectPath)
	if err != nil {
		return ""
	}
	matches := pyProjectNameRegex.FindSubmatch(data)
	if len(matches) < 2 {
		return ""
	}
	return string(matches[1])
}

func extractSetupName(rootPath string) string {
	data, err := os.ReadFile(filepath.Join(rootPath, "setup.py"))
	if err == nil {
		if matches := setupNameRegex.FindSubmatch(data); len(matches) >= 2 {
			return string(matches[1])
		}
	}
	return filepath.Base(rootPath)
}

func extractJSPackageName(packageJSONPath string) string {
	data, err := os.ReadFile(packageJSONPath)
	if err != nil {
		return filepath.Base(filepath.Dir(packageJSONPath))
	}
	matches := jsNameRegex.FindSubmatch(data)
	if len(matches) < 2 {
		return filepath.Base(filepath.Dir(packageJSONPath))
	}
	return string(matches[1])
}

func extractGoModuleName(goModPath string) string {
	data, err := os.ReadFile(goModPath)
	if err != nil {
		return filepath.Base(filepath.Dir(goModPath))
	}
	if mod, _ := modfile.Parse(goModPath, data, nil); mod != nil && mod.Module != nil {
		return mod.Module.Mod.Path
	}
	return filepath.Base(filepath.Dir(goModPath))
}

func extractGitProjectName(gitRoot string) string {
	if origin := extractGitOrigin(gitRoot); origin != "" {
		origin = strings.TrimSuffix(origin, ".git")
		parts := strings.Split(origin, "/")
		if len(parts) > 0 && parts[len(parts)-1] != "" {
			return parts[len(parts)-1]
		}
	}
	return filepath.Base(gitRoot)
}

func projectType(marker string) string {
	switch marker {
	case "pyproject.toml", "requirements.txt", "setup.py":
		return "python"
	case "package.json":
		return "javascript"
	case "go.mod":
		return "go"
	case ".git":
		return "git"
	default:
		return "unknown"
	}
}
