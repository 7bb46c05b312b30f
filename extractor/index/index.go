package index

import "fmt"

// Param represents a single function parameter with its optional type annotation text
type Param struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"` // Rendered annotation text, empty when unannotated
}

// FunctionRecord represents a function or method extracted from a source file
type FunctionRecord struct {
	Name       string   `json:"name"`
	File       string   `json:"file"` // Root-relative path
	Line       int      `json:"line"` // 1-based
	Params     []Param  `json:"params"`
	Returns    string   `json:"returns,omitempty"`    // Rendered return annotation text
	Doc        string   `json:"docstring,omitempty"`  // Leading documentation text
	Decorators []string `json:"decorators,omitempty"` // Decorator/annotation expression texts
	IsAsync    bool     `json:"is_async"`
	IsMethod   bool     `json:"is_method"`
	ClassName  string   `json:"class_name,omitempty"` // Owning class when IsMethod
}

// ClassRecord represents a class-like declaration extracted from a source file
type ClassRecord struct {
	Name       string   `json:"name"`
	File       string   `json:"file"`
	Line       int      `json:"line"`
	Bases      []string `json:"bases,omitempty"`   // Base-type texts in declaration order
	Methods    []string `json:"methods,omitempty"` // Method names only; detail lives in FunctionRecords
	Doc        string   `json:"docstring,omitempty"`
	Decorators []string `json:"decorators,omitempty"`
}

// ImportRecord represents a single import statement
type ImportRecord struct {
	File   string   `json:"file"`
	Line   int      `json:"line"`
	Module string   `json:"module"`          // Referenced module/path text
	Names  []string `json:"names,omitempty"` // Imported names
	IsFrom bool     `json:"is_from"`         // from-import vs plain import
	Level  int      `json:"level"`           // Relative depth, 0 = absolute
}

// ExtractError describes a per-file extraction failure
type ExtractError struct {
	Category string `json:"category"` // "syntax", "io", "encoding"
	Message  string `json:"message"`
	Line     int    `json:"line,omitempty"` // 1-based when known, 0 otherwise
}

// Error implements the error interface
func (e *ExtractError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: %s at line %d", e.Category, e.Message, e.Line)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

// FileIndex is the normalized per-file extraction result.
// Err is set if and only if no records were extracted: a file either indexes
// successfully or carries exactly one error, never both.
type FileIndex struct {
	File      string           `json:"file"` // Root-relative path
	Hash      string           `json:"hash"` // Content fingerprint of the raw bytes
	LOC       int              `json:"loc"`
	Functions []FunctionRecord `json:"functions,omitempty"`
	Classes   []ClassRecord    `json:"classes,omitempty"`
	Imports   []ImportRecord   `json:"imports,omitempty"`
	Refs      []string         `json:"refs,omitempty"` // Heuristic-mode reference names
	Err       *ExtractError    `json:"error,omitempty"`
}

// HasRecords reports whether any symbol records were extracted
func (f *FileIndex) HasRecords() bool {
	return len(f.Functions) > 0 || len(f.Classes) > 0 || len(f.Imports) > 0 || len(f.Refs) > 0
}

// Failed reports whether the file carries an extraction error
func (f *FileIndex) Failed() bool {
	return f.Err != nil
}
