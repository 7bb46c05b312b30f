package javascript_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqra/depscope/extractor/javascript"
)

func TestExtractor_Functions(t *testing.T) {
	src := `/**
 * Formats a label.
 */
function format(value, width = 10) {
  return value;
}

const render = async (items) => items.join(",");
`
	extractor := javascript.NewExtractor(0)
	out := extractor.Extract(context.Background(), []byte(src), "lib/format.js")

	require.Nil(t, out.Err)
	require.Len(t, out.Functions, 2)

	format := out.Functions[0]
	assert.Equal(t, "format", format.Name)
	assert.Equal(t, 4, format.Line)
	assert.Equal(t, "Formats a label.", format.Doc)
	require.Len(t, format.Params, 2)
	assert.Equal(t, "value", format.Params[0].Name)
	assert.Equal(t, "width", format.Params[1].Name)

	render := out.Functions[1]
	assert.Equal(t, "render", render.Name)
	assert.True(t, render.IsAsync)
}

func TestExtractor_Classes(t *testing.T) {
	src := `class Widget extends Base {
  constructor(id) {
    this.id = id;
  }

  draw() {}
}
`
	extractor := javascript.NewExtractor(0)
	out := extractor.Extract(context.Background(), []byte(src), "widget.js")

	require.Nil(t, out.Err)
	require.Len(t, out.Classes, 1)
	widget := out.Classes[0]
	assert.Equal(t, "Widget", widget.Name)
	assert.Equal(t, []string{"Base"}, widget.Bases)
	assert.Equal(t, []string{"constructor", "draw"}, widget.Methods)

	require.Len(t, out.Functions, 2)
	assert.True(t, out.Functions[0].IsMethod)
	assert.Equal(t, "Widget", out.Functions[0].ClassName)
}

func TestExtractor_Imports(t *testing.T) {
	src := `import fs from "fs";
import { join, resolve } from "./paths.js";
import * as utils from "../lib/utils.js";
const legacy = require('./legacy.js');
`
	extractor := javascript.NewExtractor(0)
	out := extractor.Extract(context.Background(), []byte(src), "app.js")

	require.Nil(t, out.Err)
	require.Len(t, out.Imports, 4)

	assert.Equal(t, "fs", out.Imports[0].Module)
	assert.Equal(t, 0, out.Imports[0].Level)
	assert.Equal(t, []string{"fs"}, out.Imports[0].Names)

	paths := out.Imports[1]
	assert.Equal(t, "./paths.js", paths.Module)
	assert.Equal(t, 1, paths.Level)
	assert.Equal(t, []string{"join", "resolve"}, paths.Names)

	utils := out.Imports[2]
	assert.Equal(t, "../lib/utils.js", utils.Module)
	assert.Equal(t, 2, utils.Level)
	assert.Equal(t, []string{"utils"}, utils.Names)

	legacy := out.Imports[3]
	assert.Equal(t, "./legacy.js", legacy.Module)
	assert.Equal(t, 1, legacy.Level)
	assert.Equal(t, 4, legacy.Line)
}

func TestExtractor_SyntaxError(t *testing.T) {
	src := "function broken( {\n"
	extractor := javascript.NewExtractor(0)
	out := extractor.Extract(context.Background(), []byte(src), "broken.js")

	require.NotNil(t, out.Err)
	assert.Equal(t, "syntax", out.Err.Category)
	assert.False(t, out.HasRecords())
}
