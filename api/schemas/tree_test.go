package schemas

import (
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func TestTreeNodeRoundTrip(t *testing.T) {
	root := &TreeNode{
		Kind:    NodeElement,
		Tag:     "div",
		ID:      "main",
		Classes: []string{"a", "b"},
		Children: []*TreeNode{
			{Kind: NodeText, Text: "hello"},
			{Kind: NodeElement, Tag: "span"},
		},
		Layout: &LayoutSummary{
			Chips: []LayoutChip{
				{Property: "display", Value: "flex", Title: "display: flex", Declared: true},
			},
			RulesCount:     2,
			PropsCount:     5,
			LonghandsCount: 9,
			Density:        DensityLow,
		},
	}

	data, err := json.Marshal(root)
	require.NoError(t, err)

	var back TreeNode
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, root.Tag, back.Tag)
	assert.Equal(t, root.Classes, back.Classes)
	require.Len(t, back.Children, 2)
	assert.Equal(t, NodeText, back.Children[0].Kind)
	assert.Equal(t, "hello", back.Children[0].Text)
	require.NotNil(t, back.Layout)
	assert.Equal(t, DensityLow, back.Layout.Density)
}

func TestTextNodeOmitsElementFields(t *testing.T) {
	data, err := json.Marshal(&TreeNode{Kind: NodeText, Text: "x"})
	require.NoError(t, err)
	s := string(data)
	assert.NotContains(t, s, `"tag"`)
	assert.NotContains(t, s, `"layout"`)
	assert.Contains(t, s, `"text":"x"`)
}

func TestLeafElementOmitsLayout(t *testing.T) {
	data, err := json.Marshal(&TreeNode{Kind: NodeElement, Tag: "img"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"layout"`)
}

func TestBuildResultFields(t *testing.T) {
	res := BuildResult{
		BuildID:  "id",
		Seq:      7,
		Degraded: true,
		Root:     &TreeNode{Kind: NodeElement, Tag: "body"},
		Counts:   Counts{Elements: 3, Texts: 2, Total: 5},
	}
	data, err := json.Marshal(res)
	require.NoError(t, err)
	s := string(data)
	assert.Contains(t, s, `"seq":7`)
	assert.Contains(t, s, `"degraded":true`)
	assert.Contains(t, s, `"total":5`)
}
