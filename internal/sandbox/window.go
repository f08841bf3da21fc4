// File: internal/sandbox/window.go
package sandbox

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/domlens/domlens-cli/internal/cssom"
)

// Window is the handle through which computed style values are read. It
// carries the environment that conditional rules were evaluated against.
type Window struct {
	env cssom.Environment
}

// Environment returns the window's media environment.
func (w *Window) Environment() cssom.Environment {
	return w.env
}

// StyleContext is the per-build pairing of a window with the ordered active
// rules extracted from the injected stylesheet. Its lifetime is one tree
// build; nothing in it is cached across injections.
type StyleContext struct {
	win   *Window
	rules []*cssom.Rule

	// computed caches the cascade winner per element for the duration of
	// one build, keyed by live node identity.
	computed map[*html.Node]map[string]string
}

func newStyleContext(win *Window, rules []*cssom.Rule) *StyleContext {
	return &StyleContext{
		win:      win,
		rules:    rules,
		computed: make(map[*html.Node]map[string]string),
	}
}

// Window returns the evaluating window.
func (sc *StyleContext) Window() *Window {
	return sc.win
}

// Rules returns the active simple style rules in source order.
func (sc *StyleContext) Rules() []*cssom.Rule {
	return sc.rules
}

// ComputedValue resolves one property for an element as a trimmed string.
// Resolution follows the matched-rule cascade (origin, importance,
// specificity, source order), then inline style, then inheritance keywords,
// then the host defaults. Any failure resolves to "".
func (sc *StyleContext) ComputedValue(n *html.Node, prop string) string {
	return sc.computedValue(n, strings.ToLower(strings.TrimSpace(prop)), 0)
}

// maxInheritDepth bounds `inherit` chains; real documents are shallow.
const maxInheritDepth = 256

func (sc *StyleContext) computedValue(n *html.Node, prop string, depth int) string {
	if sc == nil || n == nil || n.Type != html.ElementNode || prop == "" || depth > maxInheritDepth {
		return ""
	}

	if v, ok := sc.winnerMap(n)[prop]; ok {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "inherit":
			if p := parentElement(n); p != nil {
				return sc.computedValue(p, prop, depth+1)
			}
			return defaultValue(n, prop)
		case "initial", "unset", "revert":
			return defaultValue(n, prop)
		}
		return strings.TrimSpace(v)
	}
	return defaultValue(n, prop)
}

// Origin ranks for cascade priority; user-agent defaults are handled by the
// defaultValue fallback rather than a synthetic sheet.
const (
	originAuthor = iota
	originInline
)

type winner struct {
	value     string
	important bool
	origin    int
	spec      cascadia.Specificity
	order     int
}

func cascadePriority(w winner) int {
	if w.important {
		return 4
	}
	if w.origin == originInline {
		return 3
	}
	return 2
}

// beats reports whether candidate wins over incumbent. Ties on priority and
// specificity go to the later declaration.
func beats(candidate, incumbent winner) bool {
	cp, ip := cascadePriority(candidate), cascadePriority(incumbent)
	if cp != ip {
		return cp > ip
	}
	if candidate.spec != incumbent.spec {
		return incumbent.spec.Less(candidate.spec)
	}
	return candidate.order >= incumbent.order
}

// winnerMap runs the cascade once per element per build and memoizes the
// winning declared value per property.
func (sc *StyleContext) winnerMap(n *html.Node) map[string]string {
	if cached, ok := sc.computed[n]; ok {
		return cached
	}

	winners := make(map[string]winner)
	order := 0
	consider := func(prop, value string, important bool, origin int, spec cascadia.Specificity) {
		prop = strings.ToLower(strings.TrimSpace(prop))
		if prop == "" {
			return
		}
		cand := winner{value: value, important: important, origin: origin, spec: spec, order: order}
		order++
		if incumbent, ok := winners[prop]; !ok || beats(cand, incumbent) {
			winners[prop] = cand
		}
	}

	for _, rule := range sc.rules {
		spec, ok := rule.MatchWithSpecificity(n)
		if !ok {
			continue
		}
		for _, d := range rule.Declarations {
			consider(d.Property, d.Value, d.Important, originAuthor, spec)
		}
	}
	for _, d := range cssom.ParseInlineDeclarations(attrValue(n, "style")) {
		consider(d.Property, d.Value, d.Important, originInline, cascadia.Specificity{1, 0, 0})
	}

	resolved := make(map[string]string, len(winners))
	for prop, w := range winners {
		resolved[prop] = w.value
	}
	sc.computed[n] = resolved
	return resolved
}

func parentElement(n *html.Node) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode {
			return p
		}
	}
	return nil
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}
