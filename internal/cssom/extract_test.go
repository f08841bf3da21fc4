package cssom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func flattenCSS(t *testing.T, src string, env Environment) []*Rule {
	t.Helper()
	sheet := ParseStylesheet(src)
	require.NotNil(t, sheet)
	return Flatten(sheet, env, nil)
}

func selectors(rules []*Rule) []string {
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.Selector)
	}
	return out
}

func TestFlattenPlainRulesKeepSourceOrder(t *testing.T) {
	rules := flattenCSS(t, `
		div { color: red; }
		.card { padding: 4px; }
		#main { margin: 0; }
	`, DefaultEnvironment())

	assert.Equal(t, []string{"div", ".card", "#main"}, selectors(rules))
	require.Len(t, rules[0].Declarations, 1)
	assert.Equal(t, "color", rules[0].Declarations[0].Property)
}

func TestFlattenNilStylesheet(t *testing.T) {
	assert.Nil(t, Flatten(nil, DefaultEnvironment(), nil))
}

func TestFlattenMediaConditions(t *testing.T) {
	env := DefaultEnvironment() // 1280x800 screen

	t.Run("matching media expands", func(t *testing.T) {
		rules := flattenCSS(t, `
			@media (min-width: 600px) {
				p { color: blue; }
			}
			span { color: green; }
		`, env)
		assert.Equal(t, []string{"p", "span"}, selectors(rules))
	})

	t.Run("non-matching media is skipped entirely", func(t *testing.T) {
		rules := flattenCSS(t, `
			@media (max-width: 400px) {
				p { color: blue; }
				@media (min-width: 0px) { b { color: red; } }
			}
		`, env)
		assert.Empty(t, rules)
	})

	t.Run("nested media both evaluated", func(t *testing.T) {
		rules := flattenCSS(t, `
			@media screen {
				@media (min-width: 600px) { p { color: blue; } }
				@media (min-width: 9000px) { b { color: red; } }
			}
		`, env)
		assert.Equal(t, []string{"p"}, selectors(rules))
	})
}

func TestFlattenSupportsConditions(t *testing.T) {
	env := DefaultEnvironment()

	t.Run("holding condition expands", func(t *testing.T) {
		rules := flattenCSS(t, `@supports (display: grid) { div { gap: 4px; } }`, env)
		assert.Equal(t, []string{"div"}, selectors(rules))
	})

	t.Run("false condition skips", func(t *testing.T) {
		rules := flattenCSS(t, `@supports not (display: grid) { div { gap: 4px; } }`, env)
		assert.Empty(t, rules)
	})

	t.Run("unevaluable condition fails open", func(t *testing.T) {
		rules := flattenCSS(t, `@supports (frobnicate: 12px) { div { gap: 4px; } }`, env)
		assert.Equal(t, []string{"div"}, selectors(rules))
	})
}

func TestRuleMatching(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<div class="card wide" id="main"><p>x</p></div>`))
	require.NoError(t, err)

	var target *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "div" {
			target = n
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	require.NotNil(t, target)

	t.Run("matching selector", func(t *testing.T) {
		r := &Rule{Selector: "div.card"}
		assert.True(t, r.Match(target))
		assert.True(t, r.Valid())
	})

	t.Run("non-matching selector", func(t *testing.T) {
		r := &Rule{Selector: "span.card"}
		assert.False(t, r.Match(target))
	})

	t.Run("invalid selector never matches and never panics", func(t *testing.T) {
		r := &Rule{Selector: ":::broken"}
		assert.False(t, r.Match(target))
		assert.False(t, r.Valid())
	})

	t.Run("specificity of the matching complex selector", func(t *testing.T) {
		r := &Rule{Selector: "#main, div"}
		spec, ok := r.MatchWithSpecificity(target)
		require.True(t, ok)
		assert.Equal(t, [3]int{1, 0, 0}, [3]int(spec))
	})
}

func TestParseStylesheetToleratesInvalidSelectors(t *testing.T) {
	rules := flattenCSS(t, `
		:::broken { color: red; }
		p { color: blue; }
	`, DefaultEnvironment())
	// Both rules survive extraction; the broken one just never matches.
	require.Len(t, rules, 2)
	assert.False(t, rules[0].Valid())
	assert.True(t, rules[1].Valid())
}

func TestParseInlineDeclarations(t *testing.T) {
	decls := ParseInlineDeclarations("color: red; padding-top: 4px")
	require.Len(t, decls, 2)
	assert.Equal(t, "color", decls[0].Property)
	assert.Equal(t, "padding-top", decls[1].Property)

	assert.Nil(t, ParseInlineDeclarations("   "))
}
