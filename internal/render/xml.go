// File: internal/render/xml.go

package render

import (
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/domlens/domlens-cli/api/schemas"
)

// writeXML encodes the result as an XML document. Elements map to tags of
// their own name, text nodes to character data, and the layout summary to a
// nested <layout> element.
func writeXML(w io.Writer, res *schemas.BuildResult) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	build := doc.CreateElement("build")
	build.CreateAttr("id", res.BuildID)
	build.CreateAttr("seq", strconv.FormatUint(res.Seq, 10))
	if res.Degraded {
		build.CreateAttr("degraded", "true")
	}

	counts := build.CreateElement("counts")
	counts.CreateAttr("elements", strconv.Itoa(res.Counts.Elements))
	counts.CreateAttr("texts", strconv.Itoa(res.Counts.Texts))
	counts.CreateAttr("total", strconv.Itoa(res.Counts.Total))

	if res.Root != nil {
		appendXMLNode(build, res.Root)
	}

	doc.Indent(2)
	_, err := doc.WriteTo(w)
	return err
}

func appendXMLNode(parent *etree.Element, n *schemas.TreeNode) {
	if n.Kind == schemas.NodeText {
		parent.CreateElement("text").SetText(n.Text)
		return
	}

	el := parent.CreateElement(n.Tag)
	if n.ID != "" {
		el.CreateAttr("id", n.ID)
	}
	if len(n.Classes) > 0 {
		el.CreateAttr("class", strings.Join(n.Classes, " "))
	}
	if n.Layout != nil {
		appendXMLLayout(el, n.Layout)
	}
	for _, c := range n.Children {
		appendXMLNode(el, c)
	}
}

func appendXMLLayout(parent *etree.Element, l *schemas.LayoutSummary) {
	layout := parent.CreateElement("layout")
	layout.CreateAttr("rules", strconv.Itoa(l.RulesCount))
	layout.CreateAttr("props", strconv.Itoa(l.PropsCount))
	layout.CreateAttr("longhands", strconv.Itoa(l.LonghandsCount))
	layout.CreateAttr("density", string(l.Density))
	for _, chip := range l.Chips {
		c := layout.CreateElement("chip")
		c.CreateAttr("property", chip.Property)
		c.CreateAttr("value", chip.Value)
		if chip.Declared {
			c.CreateAttr("declared", "true")
		}
	}
}
