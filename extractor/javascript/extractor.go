package javascript

import (
	"context"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/seqra/depscope/extractor/index"
)

// Extractor extracts symbols from JavaScript source using a tree-sitter
// syntax tree. It understands ES module imports, CommonJS require calls,
// function/class declarations, and arrow functions bound to declarations.
type Extractor struct {
	maxFileSize int
}

// NewExtractor creates a JavaScript structural extractor
func NewExtractor(maxFileSize int) *Extractor {
	return &Extractor{maxFileSize: maxFileSize}
}

// Language returns the language name handled by this extractor
func (e *Extractor) Language() string { return "javascript" }

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
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		out.Err = &index.ExtractError{Category: "syntax", Message: err.Error()}
		return out
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		out.Err = &index.ExtractError{Category: "syntax", Message: "invalid syntax", Line: firstErrorLine(root)}
		return out
	}

	out.Hash = index.Fingerprint(src)
	out.LOC = countLines(src)

	w := &walker{src: src, relPath: relPath, out: out}
	w.walk(root)
	return out
}

// walker carries traversal state; currentClass attributes method records the
// same way the Python walker does.
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
		case "function_declaration", "generator_function_declaration":
			w.function(child, nameOf(child, w.src))
		case "class_declaration":
			w.class(child)
		case "method_definition":
			w.method(child)
		case "import_statement":
			w.importStatement(child)
		case "lexical_declaration", "variable_declaration":
			w.declaration(child)
		case "call_expression":
			w.requireCall(child)
			w.walk(child)
		default:
			w.walk(child)
		}
	}
}

func (w *walker) function(node *sitter.Node, name string) {
	record := index.FunctionRecord{
		Name:      name,
		File:      w.relPath,
		Line:      int(node.StartPoint().Row) + 1,
		Params:    w.parameters(node.ChildByFieldName("parameters")),
		Doc:       leadingComment(node, w.src),
		IsAsync:   isAsync(node),
		IsMethod:  w.currentClass != "",
		ClassName: w.currentClass,
	}
	w.out.Functions = append(w.out.Functions, record)
	if body := node.ChildByFieldName("body"); body != nil {
		w.walk(body)
	}
}

func (w *walker) method(node *sitter.Node) {
	w.function(node, nameOf(node, w.src))
}

func (w *walker) class(node *sitter.Node) {
	record := index.ClassRecord{
		Name: nameOf(node, w.src),
		File: w.relPath,
		Line: int(node.StartPoint().Row) + 1,
		Doc:  leadingComment(node, w.src),
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "class_heritage" {
			text := strings.TrimSpace(strings.TrimPrefix(child.Content(w.src), "extends"))
			if text != "" {
				record.Bases = append(record.Bases, text)
			}
		}
	}

	body := node.ChildByFieldName("body")
	if body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			member := body.NamedChild(i)
			if member.Type() == "method_definition" {
				record.Methods = append(record.Methods, nameOf(member, w.src))
			}
		}
	}
	w.out.Classes = append(w.out.Classes, record)

	if body != nil {
		prev := w.currentClass
		w.currentClass = record.Name
		w.walk(body)
		w.currentClass = prev
	}
}

// declaration records arrow functions and function expressions bound to
// const/let/var names as functions.
func (w *walker) declaration(node *sitter.Node) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		declarator := node.NamedChild(i)
		if declarator.Type() != "variable_declarator" {
			continue
		}
		value := declarator.ChildByFieldName("value")
		if value == nil {
			continue
		}
		switch value.Type() {
		case "arrow_function", "function_expression", "function", "generator_function":
			name := ""
			if nameNode := declarator.ChildByFieldName("name"); nameNode != nil {
				name = nameNode.Content(w.src)
			}
			w.function(value, name)
		default:
			w.walk(declarator)
		}
	}
}

// importStatement handles ES module imports: import x from "./mod"
func (w *walker) importStatement(node *sitter.Node) {
	source := node.ChildByFieldName("source")
	if source == nil {
		return
	}
	module := trimQuotes(source.Content(w.src))
	record := index.ImportRecord{
		File:   w.relPath,
		Line:   int(node.StartPoint().Row) + 1,
		Module: module,
		IsFrom: true,
		Level:  relativeLevel(module),
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "import_clause" {
			continue
		}
		record.Names = append(record.Names, importedNames(child, w.src)...)
	}
	w.out.Imports = append(w.out.Imports, record)
}

// requireCall records CommonJS require("./mod") dependencies
func (w *walker) requireCall(call *sitter.Node) {
	fn := call.ChildByFieldName("function")
	if fn == nil || fn.Content(w.src) != "require" {
		return
	}
	args := call.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() == 0 {
		return
	}
	arg := args.NamedChild(0)
	if arg.Type() != "string" {
		return
	}
	module := trimQuotes(arg.Content(w.src))
	w.out.Imports = append(w.out.Imports, index.ImportRecord{
		File:   w.relPath,
		Line:   int(call.StartPoint().Row) + 1,
		Module: module,
		Level:  relativeLevel(module),
	})
}

func importedNames(clause *sitter.Node, src []byte) []string {
	var names []string
	for i := 0; i < int(clause.NamedChildCount()); i++ {
		child := clause.NamedChild(i)
		switch child.Type() {
		case "identifier":
			names = append(names, child.Content(src))
		case "namespace_import":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				if child.NamedChild(j).Type() == "identifier" {
					names = append(names, child.NamedChild(j).Content(src))
				}
			}
		case "named_imports":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				spec := child.NamedChild(j)
				if spec.Type() != "import_specifier" {
					continue
				}
				if name := spec.ChildByFieldName("name"); name != nil {
					names = append(names, name.Content(src))
				}
			}
		}
	}
	return names
}

func (w *walker) parameters(params *sitter.Node) []index.Param {
	if params == nil {
		return nil
	}
	var out []index.Param
	for i := 0; i < int(params.NamedChildCount()); i++ {
		child := params.NamedChild(i)
		switch child.Type() {
		case "identifier", "rest_pattern", "object_pattern", "array_pattern":
			out = append(out, index.Param{Name: child.Content(w.src)})
		case "assignment_pattern":
			if left := child.ChildByFieldName("left"); left != nil {
				out = append(out, index.Param{Name: left.Content(w.src)})
			}
		}
	}
	return out
}

func nameOf(node *sitter.Node, src []byte) string {
	if name := node.ChildByFieldName("name"); name != nil {
		return name.Content(src)
	}
	return ""
}

// isAsync reports whether the declaration carries the async keyword
func isAsync(node *sitter.Node) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if !child.IsNamed() && child.Type() == "async" {
			return true
		}
	}
	return false
}

// leadingComment returns the text of a JSDoc comment directly above the node
func leadingComment(node *sitter.Node, src []byte) string {
	prev := node.PrevNamedSibling()
	if prev == nil || prev.Type() != "comment" {
		return ""
	}
	text := prev.Content(src)
	if !strings.HasPrefix(text, "/**") {
		return ""
	}
	text = strings.TrimSuffix(strings.TrimPrefix(text, "/**"), "*/")
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "*"))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// relativeLevel maps a JS module specifier to the relative-depth convention:
// "./x" is level 1, "../x" level 2, each further ".." adds one.
func relativeLevel(module string) int {
	if !strings.HasPrefix(module, ".") {
		return 0
	}
	level := 1
	rest := module
	for strings.HasPrefix(rest, "../") {
		level++
		rest = strings.TrimPrefix(rest, "../")
	}
	return level
}

func trimQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'' || s[0] == '`') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
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
