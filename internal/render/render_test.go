package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domlens/domlens-cli/api/schemas"
)

func sampleResult() *schemas.BuildResult {
	return &schemas.BuildResult{
		BuildID: "b-1",
		Seq:     7,
		Root: &schemas.TreeNode{
			Kind: schemas.NodeElement,
			Tag:  "body",
			Children: []*schemas.TreeNode{
				{
					Kind:    schemas.NodeElement,
					Tag:     "div",
					ID:      "main",
					Classes: []string{"card", "wide"},
					Layout: &schemas.LayoutSummary{
						Chips: []schemas.LayoutChip{
							{Property: "display", Value: "flex", Title: "display: flex", Declared: true},
							{Property: "position", Value: "static", Title: "position: static"},
						},
						RulesCount:     2,
						PropsCount:     3,
						LonghandsCount: 4,
						Density:        schemas.DensityLow,
					},
					Children: []*schemas.TreeNode{
						{Kind: schemas.NodeText, Text: "hello"},
					},
				},
			},
		},
		Counts: schemas.Counts{Elements: 1, Texts: 1, Total: 2},
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"tree":  FormatTree,
		"JSON":  FormatJSON,
		" xml ": FormatXML,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got)
	}

	_, err := ParseFormat("yaml")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestWriteTree(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleResult(), FormatTree))
	out := buf.String()

	assert.Contains(t, out, "body")
	assert.Contains(t, out, "div#main.card.wide")
	assert.Contains(t, out, "flex · 2 rules · low")
	assert.Contains(t, out, `"hello"`)
	assert.Contains(t, out, "1 elements, 1 text nodes")
	assert.NotContains(t, out, "styles unavailable")
}

func TestWriteTreeDegraded(t *testing.T) {
	res := sampleResult()
	res.Degraded = true
	res.Root.Children[0].Layout = nil

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, res, FormatTree))
	out := buf.String()

	assert.Contains(t, out, "styles unavailable")
	assert.Contains(t, out, "div#main.card.wide\n", "no layout meta without a summary")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleResult(), FormatJSON))

	var decoded schemas.BuildResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "b-1", decoded.BuildID)
	assert.Equal(t, uint64(7), decoded.Seq)
	require.NotNil(t, decoded.Root)
	assert.Equal(t, "div", decoded.Root.Children[0].Tag)
}

func TestWriteXML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleResult(), FormatXML))

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(buf.Bytes()))

	build := doc.SelectElement("build")
	require.NotNil(t, build)
	assert.Equal(t, "b-1", build.SelectAttrValue("id", ""))
	assert.Equal(t, "7", build.SelectAttrValue("seq", ""))
	assert.Empty(t, build.SelectAttrValue("degraded", ""))

	counts := build.SelectElement("counts")
	require.NotNil(t, counts)
	assert.Equal(t, "2", counts.SelectAttrValue("total", ""))

	body := build.SelectElement("body")
	require.NotNil(t, body)
	div := body.SelectElement("div")
	require.NotNil(t, div)
	assert.Equal(t, "main", div.SelectAttrValue("id", ""))
	assert.Equal(t, "card wide", div.SelectAttrValue("class", ""))

	layout := div.SelectElement("layout")
	require.NotNil(t, layout)
	assert.Equal(t, "low", layout.SelectAttrValue("density", ""))
	chips := layout.SelectElements("chip")
	require.Len(t, chips, 2)
	assert.Equal(t, "display", chips[0].SelectAttrValue("property", ""))
	assert.Equal(t, "true", chips[0].SelectAttrValue("declared", ""))

	text := div.SelectElement("text")
	require.NotNil(t, text)
	assert.Equal(t, "hello", text.Text())
}

func TestWriteUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, sampleResult(), Format("bogus"))
	assert.Error(t, err)
}

func TestNodeLabelPlain(t *testing.T) {
	n := &schemas.TreeNode{Kind: schemas.NodeElement, Tag: "p"}
	assert.Equal(t, "p", nodeLabel(n))
	assert.False(t, strings.Contains(nodeLabel(n), "["))
}
