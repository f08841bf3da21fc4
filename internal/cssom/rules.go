// File: internal/cssom/rules.go

// Package cssom turns raw CSS source into the flat, ordered rule sequence
// the match and summary engines consume. Parsing is delegated to douceur,
// selector matching to cascadia; this package only owns the flattening of
// conditional grouping rules and the evaluation of their conditions.
package cssom

import (
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"
)

// Rule is one flattened simple style rule: selector text plus its declared
// longhands, in stylesheet source order.
type Rule struct {
	Selector     string
	Declarations []*css.Declaration

	compileOnce sync.Once
	group       cascadia.SelectorGroup
	compileErr  error
}

// compile parses the selector text once. A parse failure is remembered and
// the rule simply never matches; it must not poison the rest of the build.
func (r *Rule) compile() {
	r.compileOnce.Do(func() {
		r.group, r.compileErr = cascadia.ParseGroup(r.Selector)
	})
}

// Valid reports whether the selector text parsed.
func (r *Rule) Valid() bool {
	r.compile()
	return r.compileErr == nil
}

// Match reports whether the element matches any selector in the rule's
// selector group. Invalid selectors match nothing.
func (r *Rule) Match(n *html.Node) bool {
	_, ok := r.MatchWithSpecificity(n)
	return ok
}

// MatchWithSpecificity returns the specificity of the first matching
// selector in the group, mirroring how a matched complex selector (not the
// whole comma list) determines cascade weight.
func (r *Rule) MatchWithSpecificity(n *html.Node) (cascadia.Specificity, bool) {
	if n == nil || n.Type != html.ElementNode {
		return cascadia.Specificity{}, false
	}
	r.compile()
	if r.compileErr != nil {
		return cascadia.Specificity{}, false
	}
	for _, sel := range r.group {
		if sel.Match(n) {
			return sel.Specificity(), true
		}
	}
	return cascadia.Specificity{}, false
}

// ParseStylesheet parses CSS source into a douceur rule tree. Parse failures
// yield a nil stylesheet: the build degrades to zero active rules rather
// than surfacing an error.
func ParseStylesheet(src string) *css.Stylesheet {
	if strings.TrimSpace(src) == "" {
		return &css.Stylesheet{}
	}
	sheet, err := parser.Parse(src)
	if err != nil {
		return nil
	}
	return sheet
}

// ParseInlineDeclarations parses the contents of a style attribute. A parse
// failure contributes nothing.
func ParseInlineDeclarations(styleAttr string) []*css.Declaration {
	if strings.TrimSpace(styleAttr) == "" {
		return nil
	}
	decls, err := parser.ParseDeclarations(styleAttr)
	if err != nil {
		return nil
	}
	return decls
}
