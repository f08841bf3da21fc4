// File: internal/render/tree.go

// Package render turns a build result into one of the supported output
// encodings: an indented text tree, JSON, or XML.
package render

import (
	"fmt"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/xlab/treeprint"

	"github.com/domlens/domlens-cli/api/schemas"
)

// Format names an output encoding.
type Format string

const (
	FormatTree Format = "tree"
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatTree:
		return FormatTree, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatXML:
		return FormatXML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected tree, json or xml)", s)
	}
}

// Write encodes the result in the given format.
func Write(w io.Writer, res *schemas.BuildResult, format Format) error {
	switch format {
	case FormatTree:
		return writeTree(w, res)
	case FormatJSON:
		return writeJSON(w, res)
	case FormatXML:
		return writeXML(w, res)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func writeJSON(w io.Writer, res *schemas.BuildResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func writeTree(w io.Writer, res *schemas.BuildResult) error {
	tree := treeprint.New()
	if res.Root != nil {
		tree.SetValue(nodeLabel(res.Root))
		for _, c := range res.Root.Children {
			addNode(tree, c)
		}
	}
	if _, err := io.WriteString(w, tree.String()); err != nil {
		return err
	}
	footer := fmt.Sprintf("%d elements, %d text nodes", res.Counts.Elements, res.Counts.Texts)
	if res.Degraded {
		footer += " (styles unavailable)"
	}
	_, err := fmt.Fprintln(w, footer)
	return err
}

func addNode(branch treeprint.Tree, n *schemas.TreeNode) {
	if n.Kind == schemas.NodeText {
		branch.AddNode(fmt.Sprintf("%q", n.Text))
		return
	}
	child := branch.AddBranch(nodeLabel(n))
	for _, c := range n.Children {
		addNode(child, c)
	}
}

// nodeLabel renders an element as a CSS-ish selector plus its layout meta,
// e.g. `div#main.card [flex · 3 rules · low]`.
func nodeLabel(n *schemas.TreeNode) string {
	var sb strings.Builder
	sb.WriteString(n.Tag)
	if n.ID != "" {
		sb.WriteString("#")
		sb.WriteString(n.ID)
	}
	for _, c := range n.Classes {
		sb.WriteString(".")
		sb.WriteString(c)
	}
	if meta := layoutMeta(n.Layout); meta != "" {
		sb.WriteString(" [")
		sb.WriteString(meta)
		sb.WriteString("]")
	}
	return sb.String()
}

func layoutMeta(l *schemas.LayoutSummary) string {
	if l == nil {
		return ""
	}
	parts := make([]string, 0, 3)
	for _, chip := range l.Chips {
		if chip.Property == "display" && chip.Value != "" {
			parts = append(parts, chip.Value)
			break
		}
	}
	parts = append(parts,
		fmt.Sprintf("%d rules", l.RulesCount),
		string(l.Density),
	)
	return strings.Join(parts, " · ")
}
