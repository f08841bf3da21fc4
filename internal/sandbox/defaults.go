// File: internal/sandbox/defaults.go
package sandbox

import (
	"strings"

	"golang.org/x/net/html"
)

// blockTags are elements that default to display:block.
var blockTags = map[string]struct{}{}

func init() {
	for _, t := range []string{
		"address", "article", "aside", "blockquote", "body", "details",
		"dialog", "dd", "div", "dl", "dt", "fieldset", "figcaption",
		"figure", "footer", "form", "h1", "h2", "h3", "h4", "h5", "h6",
		"header", "hgroup", "hr", "html", "main", "nav", "ol", "p", "pre",
		"section", "table", "ul",
	} {
		blockTags[t] = struct{}{}
	}
}

// defaultDisplay returns the user-agent display value for a tag.
func defaultDisplay(tag string) string {
	tag = strings.ToLower(tag)
	if _, ok := blockTags[tag]; ok {
		if tag == "table" {
			return "table"
		}
		return "block"
	}
	switch tag {
	case "li":
		return "list-item"
	case "tr":
		return "table-row"
	case "td", "th":
		return "table-cell"
	case "thead":
		return "table-header-group"
	case "tbody":
		return "table-row-group"
	case "tfoot":
		return "table-footer-group"
	case "input", "button", "textarea", "select", "img":
		return "inline-block"
	default:
		return "inline"
	}
}

// layoutDefaults are the host-default computed values for the non-display
// layout properties the summary reads.
var layoutDefaults = map[string]string{
	"position":        "static",
	"flex-direction":  "row",
	"justify-content": "normal",
	"align-items":     "normal",
	"gap":             "normal",
	"visibility":      "visible",
	"float":           "none",
}

// defaultValue resolves the host default for a property on an element.
// Properties outside the table resolve to "", never an error.
func defaultValue(n *html.Node, prop string) string {
	if prop == "display" {
		return defaultDisplay(n.Data)
	}
	if v, ok := layoutDefaults[prop]; ok {
		return v
	}
	return ""
}
