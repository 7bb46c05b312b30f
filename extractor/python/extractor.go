package python

import (
	"context"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/seqra/depscope/extractor/index"
)

// Extractor extracts symbols from Python source using a tree-sitter syntax tree.
// Safe for concurrent use; each Extract call owns its parser and walker state.
type Extractor struct {
	maxFileSize int
}

// NewExtractor creates a Python structural extractor
func NewExtractor(maxFileSize int) *Extractor {
	return &Extractor{maxFileSize: maxFileSize}
}

// Language returns the language name handled by this extractor
func (e *Extractor) Language() string { return "python" }

// Extract parses src and returns the per-file index. Parse failures are
// captured in the result error descriptor, never returned as a Go error.
func (e *Extractor) Extract(ctx context.Context, src []byte, relPath string) *index.FileIndex {
	out := &index.FileIndex{File: relPath}

	if e.maxFileSize > 0 && len(src) > e.maxFileSize {
		out.Err = &index.ExtractError{Category: "io", Message: "file exceeds size limit"}
		return out
	}
	if !utf8.Valid(src) {
		out.Err = &index.ExtractError{Category: "encoding", Message: "invalid UTF-8"}
		return out
	}

	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		out.Err = &index.ExtractError{Category: "syntax", Message: err.Error()}
		return out
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		line := firstErrorLine(root)
		out.Err = &index.ExtractError{Category: "syntax", Message: "invalid syntax", Line: line}
		return out
	}

	out.Hash = index.Fingerprint(src)
	out.LOC = countLines(src)

	w := &walker{src: src, relPath: relPath, out: out}
	w.walk(root)
	return out
}

// walker carries traversal state. currentClass is the single mutable
// "current class" cursor: it is set while visiting a class body and restored
// afterwards, which attributes nested methods without global state.
type walker struct {
	src          []byte
	relPath      string
	currentClass string
	out          *index.FileIndex
}

func (w *walker) walk(node *sitter.Node) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "function_definition":
			w.function(child, nil)
		case "class_definition":
			w.class(child, nil)
		case "decorated_definition":
			w.decorated(child)
		case "import_statement":
			w.importStatement(child)
		case "import_from_statement":
			w.importFromStatement(child)
		default:
			w.walk(child)
		}
	}
}

// decorated unwraps a decorated_definition, collecting decorator texts for
// the inner function or class.
func (w *walker) decorated(node *sitter.Node) {
	var decorators []string
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "decorator" {
			text := strings.TrimPrefix(child.Content(w.src), "@")
			decorators = append(decorators, strings.TrimSpace(text))
		}
	}
	definition := node.ChildByFieldName("definition")
	if definition == nil {
		return
	}
	switch definition.Type() {
	case "function_definition":
		w.function(definition, decorators)
	case "class_definition":
		w.class(definition, decorators)
	}
}

func (w *walker) function(node *sitter.Node, decorators []string) {
	record := index.FunctionRecord{
		File:       w.relPath,
		Line:       int(node.StartPoint().Row) + 1,
		Decorators: decorators,
		IsAsync:    isAsync(node),
		IsMethod:   w.currentClass != "",
		ClassName:  w.currentClass,
	}
	if name := node.ChildByFieldName("name"); name != nil {
		record.Name = name.Content(w.src)
	}
	if params := node.ChildByFieldName("parameters"); params != nil {
		record.Params = w.parameters(params)
	}
	if returns := node.ChildByFieldName("return_type"); returns != nil {
		record.Returns = returns.Content(w.src)
	}
	body := node.ChildByFieldName("body")
	if body != nil {
		record.Doc = docstring(body, w.src)
	}
	w.out.Functions = append(w.out.Functions, record)

	if body != nil {
		w.walk(body)
	}
}

func (w *walker) class(node *sitter.Node, decorators []string) {
	record := index.ClassRecord{
		File:       w.relPath,
		Line:       int(node.StartPoint().Row) + 1,
		Decorators: decorators,
	}
	if name := node.ChildByFieldName("name"); name != nil {
		record.Name = name.Content(w.src)
	}
	if superclasses := node.ChildByFieldName("superclasses"); superclasses != nil {
		for i := 0; i < int(superclasses.NamedChildCount()); i++ {
			record.Bases = append(record.Bases, superclasses.NamedChild(i).Content(w.src))
		}
	}
	body := node.ChildByFieldName("body")
	if body != nil {
		record.Doc = docstring(body, w.src)
		record.Methods = methodNames(body, w.src)
	}
	w.out.Classes = append(w.out.Classes, record)

	if body != nil {
		prev := w.currentClass
		w.currentClass = record.Name
		w.walk(body)
		w.currentClass = prev
	}
}

// methodNames lists direct function definitions of a class body; full detail
// is recorded by the function walker.
func methodNames(body *sitter.Node, src []byte) []string {
	var names []string
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		definition := child
		if child.Type() == "decorated_definition" {
			definition = child.ChildByFieldName("definition")
			if definition == nil {
				continue
			}
		}
		if definition.Type() != "function_definition" {
			continue
		}
		if name := definition.ChildByFieldName("name"); name != nil {
			names = append(names, name.Content(src))
		}
	}
	return names
}

func (w *walker) parameters(params *sitter.Node) []index.Param {
	var out []index.Param
	for i := 0; i < int(params.NamedChildCount()); i++ {
		child := params.NamedChild(i)
		switch child.Type() {
		case "identifier", "list_splat_pattern", "dictionary_splat_pattern", "tuple_pattern":
			out = append(out, index.Param{Name: child.Content(w.src)})
		case "typed_parameter":
			param := index.Param{}
			if child.NamedChildCount() > 0 {
				param.Name = child.NamedChild(0).Content(w.src)
			}
			if typ := child.ChildByFieldName("type"); typ != nil {
				param.Type = typ.Content(w.src)
			}
			out = append(out, param)
		case "default_parameter", "typed_default_parameter":
			param := index.Param{}
			if name := child.ChildByFieldName("name"); name != nil {
				param.Name = name.Content(w.src)
			}
			if typ := child.ChildByFieldName("type"); typ != nil {
				param.Type = typ.Content(w.src)
			}
			out = append(out, param)
		}
	}
	return out
}

// importStatement handles "import a.b" and "import a.b as c"
func (w *walker) importStatement(node *sitter.Node) {
	line := int(node.StartPoint().Row) + 1
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "dotted_name":
			module := child.Content(w.src)
			w.out.Imports = append(w.out.Imports, index.ImportRecord{
				File:   w.relPath,
				Line:   line,
				Module: module,
				Names:  []string{module},
			})
		case "aliased_import":
			name := child.ChildByFieldName("name")
			alias := child.ChildByFieldName("alias")
			if name == nil {
				continue
			}
			module := name.Content(w.src)
			imported := module
			if alias != nil {
				imported = alias.Content(w.src)
			}
			w.out.Imports = append(w.out.Imports, index.ImportRecord{
				File:   w.relPath,
				Line:   line,
				Module: module,
				Names:  []string{imported},
			})
		}
	}
}

// importFromStatement handles "from a.b import c, d" with relative depth
// derived from the leading dots.
func (w *walker) importFromStatement(node *sitter.Node) {
	record := index.ImportRecord{
		File:   w.relPath,
		Line:   int(node.StartPoint().Row) + 1,
		IsFrom: true,
	}

	moduleNode := node.ChildByFieldName("module_name")
	if moduleNode != nil {
		switch moduleNode.Type() {
		case "dotted_name":
			record.Module = moduleNode.Content(w.src)
		case "relative_import":
			text := moduleNode.Content(w.src)
			trimmed := strings.TrimLeft(text, ".")
			record.Level = len(text) - len(trimmed)
			record.Module = trimmed
		}
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if moduleNode != nil && child.StartByte() == moduleNode.StartByte() {
			continue
		}
		switch child.Type() {
		case "dotted_name", "identifier":
			record.Names = append(record.Names, child.Content(w.src))
		case "aliased_import":
			if name := child.ChildByFieldName("name"); name != nil {
				record.Names = append(record.Names, name.Content(w.src))
			}
		case "wildcard_import":
			record.Names = append(record.Names, "*")
		}
	}

	w.out.Imports = append(w.out.Imports, record)
}

// isAsync reports whether the function_definition carries the async keyword
func isAsync(node *sitter.Node) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "async" {
			return true
		}
		if child.Type() == "def" {
			break
		}
	}
	return false
}

// docstring returns the cleaned text of a leading documentation string
func docstring(body *sitter.Node, src []byte) string {
	if body.NamedChildCount() == 0 {
		return ""
	}
	first := body.NamedChild(0)
	if first.Type() != "expression_statement" || first.NamedChildCount() == 0 {
		return ""
	}
	str := first.NamedChild(0)
	if str.Type() != "string" {
		return ""
	}
	return cleanDocstring(str.Content(src))
}

// cleanDocstring strips string prefixes and quotes from a raw string literal
func cleanDocstring(raw string) string {
	s := strings.TrimLeft(raw, "rRbBuUfF")
	for _, quote := range []string{`"""`, "'''", `"`, `'`} {
		if strings.HasPrefix(s, quote) && strings.HasSuffix(s, quote) && len(s) >= 2*len(quote) {
			return strings.TrimSpace(s[len(quote) : len(s)-len(quote)])
		}
	}
	return strings.TrimSpace(s)
}

// firstErrorLine locates the first ERROR node for the error descriptor
func firstErrorLine(node *sitter.Node) int {
	if node.IsError() || node.IsMissing() {
		return int(node.StartPoint().Row) + 1
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if line := firstErrorLine(node.Child(i)); line > 0 {
			return line
		}
	}
	return 0
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
