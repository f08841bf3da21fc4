// File: internal/match/stats.go

// Package match computes per-element rule-match statistics: which active
// rules apply to an element and what they declare, aggregated into the
// normalized groups the layout summary reports on.
package match

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/domlens/domlens-cli/internal/cssom"
	"github.com/domlens/domlens-cli/internal/sandbox"
)

// LayoutProperties are the recognized layout-relevant property names.
var LayoutProperties = []string{
	"display",
	"position",
	"flex-direction",
	"justify-content",
	"align-items",
	"gap",
}

var layoutPropertySet = func() map[string]struct{} {
	s := make(map[string]struct{}, len(LayoutProperties))
	for _, p := range LayoutProperties {
		s[p] = struct{}{}
	}
	return s
}()

// Stats is the transient per-element aggregate over matched rules and
// inline style.
type Stats struct {
	// MatchedRules counts rules whose selector matched the element.
	// Inline style is tracked by HasInlineStyle, not here.
	MatchedRules int
	// Longhands counts every declared property across matched rules and
	// inline style, duplicates included.
	Longhands int
	// Groups is the deduplicated set of normalized property groups.
	Groups map[string]struct{}
	// DeclaredLayout is the deduplicated set of recognized layout
	// properties that were explicitly declared.
	DeclaredLayout map[string]struct{}
	// HasInlineStyle is true when the element carries a non-empty style
	// attribute.
	HasInlineStyle bool
}

func newStats() Stats {
	return Stats{
		Groups:         make(map[string]struct{}),
		DeclaredLayout: make(map[string]struct{}),
	}
}

// Declared reports whether the given layout property was explicitly set by
// a matched rule or inline style.
func (s Stats) Declared(prop string) bool {
	_, ok := s.DeclaredLayout[strings.ToLower(prop)]
	return ok
}

// Compute aggregates match statistics for one element. A nil style context
// yields a zeroed result, never an error; a rule whose selector fails to
// parse contributes nothing.
func Compute(n *html.Node, sc *sandbox.StyleContext) Stats {
	stats := newStats()
	if sc == nil || n == nil || n.Type != html.ElementNode {
		return stats
	}

	for _, rule := range sc.Rules() {
		if !rule.Match(n) {
			continue
		}
		stats.MatchedRules++
		for _, d := range rule.Declarations {
			stats.fold(d.Property)
		}
	}

	if style := styleAttr(n); strings.TrimSpace(style) != "" {
		stats.HasInlineStyle = true
		for _, d := range cssom.ParseInlineDeclarations(style) {
			stats.fold(d.Property)
		}
	}

	return stats
}

// fold accounts one declared longhand into the counters and sets.
func (s *Stats) fold(prop string) {
	prop = strings.ToLower(strings.TrimSpace(prop))
	if prop == "" {
		return
	}
	s.Longhands++
	s.Groups[NormalizeGroup(prop)] = struct{}{}
	if _, ok := layoutPropertySet[prop]; ok {
		s.DeclaredLayout[prop] = struct{}{}
	}
}

// NormalizeGroup collapses longhand and shorthand variants of a property
// family under one label so the distinct-properties metric is not inflated
// by four padding sides.
func NormalizeGroup(prop string) string {
	p := strings.ToLower(strings.TrimSpace(prop))
	switch {
	case strings.HasPrefix(p, "padding"):
		return "padding"
	case strings.HasPrefix(p, "margin"):
		return "margin"
	case strings.HasSuffix(p, "radius"):
		return "border-radius"
	case strings.HasPrefix(p, "border"):
		return "border"
	case strings.HasPrefix(p, "background"):
		return "background"
	case strings.HasPrefix(p, "font"):
		return "font"
	case strings.HasPrefix(p, "transition"):
		return "transition"
	case strings.HasPrefix(p, "animation"):
		return "animation"
	default:
		return p
	}
}

func styleAttr(n *html.Node) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, "style") {
			return a.Val
		}
	}
	return ""
}
