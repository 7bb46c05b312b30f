package index_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seqra/depscope/extractor/index"
)

func TestFingerprint(t *testing.T) {
	a := index.Fingerprint([]byte("def f():\n    pass\n"))
	b := index.Fingerprint([]byte("def f():\n    pass\n"))
	c := index.Fingerprint([]byte("def g():\n    pass\n"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 16)
}

func TestExtractError_Error(t *testing.T) {
	withLine := &index.ExtractError{Category: "syntax", Message: "invalid syntax", Line: 3}
	assert.Equal(t, "syntax: invalid syntax at line 3", withLine.Error())

	withoutLine := &index.ExtractError{Category: "io", Message: "file exceeds size limit"}
	assert.Equal(t, "io: file exceeds size limit", withoutLine.Error())
}

func TestFileIndex_Failed(t *testing.T) {
	ok := &index.FileIndex{File: "a.py", Functions: []index.FunctionRecord{{Name: "f"}}}
	assert.False(t, ok.Failed())
	assert.True(t, ok.HasRecords())

	failed := &index.FileIndex{File: "b.py", Err: &index.ExtractError{Category: "syntax", Message: "invalid syntax"}}
	assert.True(t, failed.Failed())
	assert.False(t, failed.HasRecords())
}
