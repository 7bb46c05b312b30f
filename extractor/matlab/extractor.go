package matlab

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/seqra/depscope/extractor/index"
)

// Extractor is the token/pattern-based heuristic extractor for MATLAB
// sources, where no structural parser is available. It is name-based rather
// than scope-aware and may both under- and over-report dependencies; that
// imprecision is the accepted cost of universality.
type Extractor struct {
	maxFileSize int
}

// NewExtractor creates a MATLAB heuristic extractor
func NewExtractor(maxFileSize int) *Extractor {
	return &Extractor{maxFileSize: maxFileSize}
}

// Language returns the language name handled by this extractor
func (e *Extractor) Language() string { return "matlab" }

var (
	commentPattern  = regexp.MustCompile(`(?m)%.*$`)
	callPattern     = regexp.MustCompile(`\b([a-zA-Z_][a-zA-Z0-9_]*)\s*\(`)
	fileRefPattern  = regexp.MustCompile(`['"]([a-zA-Z0-9_]+)\.m['"]`)
	functionPattern = regexp.MustCompile(`(?m)^\s*function\s+(?:\[?[a-zA-Z0-9_,\s]*\]?\s*=\s*)?([a-zA-Z_][a-zA-Z0-9_]*)\s*(?:\(([^)]*)\))?`)
)

// builtins are common MATLAB keywords and library functions that must not
// pollute the dependency graph.
var builtins = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "function": true,
	"end": true, "return": true,
	"size": true, "length": true, "zeros": true, "ones": true, "eye": true,
	"rand": true, "randn": true,
	"disp": true, "fprintf": true, "sprintf": true, "error": true, "warning": true,
	"plot": true, "figure": true, "subplot": true, "title": true, "xlabel": true,
	"ylabel": true,
	"sin":    true, "cos": true, "tan": true, "exp": true, "log": true, "sqrt": true,
	"abs": true,
	"max": true, "min": true, "sum": true, "mean": true, "std": true, "var": true,
	"struct": true, "cell": true, "class": true, "isa": true, "isempty": true,
	"isnan": true, "isinf": true,
	"load": true, "save": true, "exist": true, "cd": true, "pwd": true,
	"addpath": true,
}

// Extract scans src for call-like identifier patterns and quoted .m file
// references, and records function definitions in the shared record shape.
func (e *Extractor) Extract(ctx context.Context, src []byte, relPath string) *index.FileIndex {
	out := &index.FileIndex{File: relPath}

	if e.maxFileSize > 0 && len(src) > e.maxFileSize {
		out.Err = &index.ExtractError{Category: "io", Message: "file exceeds size limit"}
		return out
	}
	if err := ctx.Err(); err != nil {
		out.Err = &index.ExtractError{Category: "io", Message: err.Error()}
		return out
	}

	out.Hash = index.Fingerprint(src)
	out.LOC = countLines(src)

	content := commentPattern.ReplaceAllString(string(src), "")

	out.Functions = extractFunctions(content, relPath)

	refs := make(map[string]bool)
	for _, match := range callPattern.FindAllStringSubmatch(content, -1) {
		name := match[1]
		if len(name) > 1 && !builtins[strings.ToLower(name)] {
			refs[name] = true
		}
	}
	for _, match := range fileRefPattern.FindAllStringSubmatch(content, -1) {
		refs[match[1]] = true
	}

	out.Refs = make([]string, 0, len(refs))
	for name := range refs {
		out.Refs = append(out.Refs, name)
	}
	sort.Strings(out.Refs)
	return out
}

// extractFunctions records "function out = name(args)" definitions
func extractFunctions(content, relPath string) []index.FunctionRecord {
	var records []index.FunctionRecord
	lines := strings.Split(content, "\n")
	for lineNo, line := range lines {
		match := functionPattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		record := index.FunctionRecord{
			Name: match[1],
			File: relPath,
			Line: lineNo + 1,
		}
		if len(match) > 2 && strings.TrimSpace(match[2]) != "" {
			for _, arg := range strings.Split(match[2], ",") {
				arg = strings.TrimSpace(arg)
				if arg != "" {
					record.Params = append(record.Params, index.Param{Name: arg})
				}
			}
		}
		records = append(records, record)
	}
	return records
}

func countLines(src []byte) int {
	if len(src) == 0 {
		return 0
	}
	lines := strings.Count(string(src), "\n")
	if src[len(src)-1] != '\n' {
		lines++
	}
	return lines
}
