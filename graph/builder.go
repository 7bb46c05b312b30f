package graph

import (
	"path"
	"strings"

	"github.com/seqra/depscope/extractor/index"
)

// pythonStdlib lists top-level standard library modules that must not be
// resolved against corpus files.
var pythonStdlib = map[string]bool{
	"os": true, "sys": true, "re": true, "json": true, "datetime": true,
	"pathlib": true, "collections": true, "typing": true, "functools": true,
	"itertools": true, "math": true, "random": true, "time": true,
	"subprocess": true, "shutil": true, "tempfile": true, "glob": true,
	"hashlib": true, "argparse": true, "dataclasses": true, "copy": true,
	"io": true, "unittest": true, "pytest": true, "abc": true, "enum": true,
	"logging": true, "threading": true, "asyncio": true, "contextlib": true,
}

// sourceExts mirrors the extractor factory's dispatch table; specifiers
// carrying one of these are trimmed before path resolution.
var sourceExts = map[string]bool{
	".py": true, ".js": true, ".mjs": true, ".cjs": true, ".m": true,
}

// Build constructs the dependency graph from an aggregate index. Referenced
// names resolve against corpus file stems; references that do not resolve
// point outside the corpus and are dropped silently. Building twice from the
// same index yields an identical edge set.
func Build(files []*index.FileIndex) *DependencyGraph {
	g := NewDependencyGraph()
	r := newResolver(files)

	for _, file := range files {
		if file.Failed() {
			continue
		}
		g.AddNode(file.File)

		for _, imp := range file.Imports {
			if target, ok := r.resolveImport(imp); ok {
				g.AddEdge(file.File, target)
			}
		}
		for _, ref := range file.Refs {
			if target, ok := r.resolveStem(ref); ok {
				g.AddEdge(file.File, target)
			}
		}
	}
	return g
}

// resolver performs name-based resolution: bare stems and slash paths are
// matched for equality against the known corpus files. This is deliberately
// not a linker; no namespace or search-path semantics are applied.
type resolver struct {
	byStem map[string]string // stem -> lexicographically smallest path
	byPath map[string]string // extension-less slash path -> path
}

func newResolver(files []*index.FileIndex) *resolver {
	r := &resolver{
		byStem: make(map[string]string),
		byPath: make(map[string]string),
	}
	for _, file := range files {
		if file.Failed() {
			continue
		}
		noExt := trimExt(file.File)
		if existing, ok := r.byPath[noExt]; !ok || file.File < existing {
			r.byPath[noExt] = file.File
		}
		stem := path.Base(noExt)
		if existing, ok := r.byStem[stem]; !ok || file.File < existing {
			r.byStem[stem] = file.File
		}
	}
	return r
}

func (r *resolver) resolveImport(imp index.ImportRecord) (string, bool) {
	module := imp.Module

	// JavaScript-style relative specifier: resolve against the importing dir.
	// ESM specifiers usually keep their extension, byPath keys do not.
	if strings.HasPrefix(module, ".") {
		candidate := path.Clean(path.Join(path.Dir(imp.File), module))
		if sourceExts[path.Ext(candidate)] {
			candidate = trimExt(candidate)
		}
		return r.resolvePath(candidate)
	}

	// Python-style relative import: climb Level-1 directories from the
	// importing package, then descend into the dotted module
	if imp.Level > 0 {
		base := path.Dir(imp.File)
		for i := 1; i < imp.Level; i++ {
			base = path.Dir(base)
		}
		candidate := strings.ReplaceAll(module, ".", "/")
		if candidate == "" {
			candidate = base
		} else if base != "." {
			candidate = path.Join(base, candidate)
		}
		return r.resolvePath(candidate)
	}

	top := module
	if idx := strings.Index(module, "."); idx >= 0 {
		top = module[:idx]
	}
	if pythonStdlib[top] {
		return "", false
	}

	if target, ok := r.resolvePath(strings.ReplaceAll(module, ".", "/")); ok {
		return target, true
	}

	// fall back to stem equality on the last segment
	segments := strings.Split(module, ".")
	return r.resolveStem(segments[len(segments)-1])
}

func (r *resolver) resolvePath(candidate string) (string, bool) {
	if target, ok := r.byPath[candidate]; ok {
		return target, true
	}
	if target, ok := r.byPath[candidate+"/__init__"]; ok {
		return target, true
	}
	if target, ok := r.byPath[candidate+"/index"]; ok {
		return target, true
	}
	return "", false
}

func (r *resolver) resolveStem(name string) (string, bool) {
	target, ok := r.byStem[name]
	return target, ok
}

func trimExt(file string) string {
	ext := path.Ext(file)
	return strings.TrimSuffix(file, ext)
}
