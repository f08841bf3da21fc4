// File: internal/cssom/supports.go
package cssom

import "strings"

// knownProperties is the vocabulary the @supports evaluator can reason
// about. Conditions naming anything outside it are reported as
// not-evaluable, which the extractor treats as supported (fail open).
var knownProperties = map[string]struct{}{}

func init() {
	for _, p := range []string{
		"align-content", "align-items", "align-self", "animation",
		"animation-delay", "animation-duration", "animation-name",
		"background", "background-color", "background-image",
		"background-position", "background-repeat", "background-size",
		"border", "border-bottom", "border-color", "border-left",
		"border-radius", "border-right", "border-style", "border-top",
		"border-width", "bottom", "box-shadow", "box-sizing", "clear",
		"color", "column-gap", "cursor", "display", "flex", "flex-basis",
		"flex-direction", "flex-flow", "flex-grow", "flex-shrink",
		"flex-wrap", "float", "font", "font-family", "font-size",
		"font-style", "font-weight", "gap", "grid", "grid-area",
		"grid-column", "grid-row", "grid-template-columns",
		"grid-template-rows", "height", "justify-content", "left",
		"letter-spacing", "line-height", "margin", "margin-bottom",
		"margin-left", "margin-right", "margin-top", "max-height",
		"max-width", "min-height", "min-width", "opacity", "order",
		"outline", "overflow", "overflow-x", "overflow-y", "padding",
		"padding-bottom", "padding-left", "padding-right", "padding-top",
		"position", "right", "row-gap", "text-align", "text-decoration",
		"text-transform", "top", "transform", "transition", "vertical-align",
		"visibility", "white-space", "width", "word-break", "z-index",
	} {
		knownProperties[p] = struct{}{}
	}
}

// EvalSupports evaluates an @supports condition. The second return value is
// false when the condition cannot be evaluated at all (unknown property,
// unrecognized construct, malformed input); the caller decides what that
// means — the rule extractor fails open.
func EvalSupports(condition string) (supported bool, evaluable bool) {
	return evalSupportsExpr(strings.TrimSpace(condition))
}

func evalSupportsExpr(expr string) (bool, bool) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return false, false
	}

	lower := strings.ToLower(expr)
	if strings.HasPrefix(lower, "not") && len(expr) > 3 && (expr[3] == ' ' || expr[3] == '(') {
		inner, ok := evalSupportsExpr(expr[3:])
		if !ok {
			return false, false
		}
		return !inner, true
	}

	// Conjunction / disjunction of parenthesized groups.
	if parts := splitOnKeyword(expr, "and"); len(parts) > 1 {
		for _, p := range parts {
			v, ok := evalSupportsExpr(p)
			if !ok {
				return false, false
			}
			if !v {
				return false, true
			}
		}
		return true, true
	}
	if parts := splitOnKeyword(expr, "or"); len(parts) > 1 {
		for _, p := range parts {
			v, ok := evalSupportsExpr(p)
			if !ok {
				return false, false
			}
			if v {
				return true, true
			}
		}
		return false, true
	}

	// Parenthesized group or leaf declaration.
	if strings.HasPrefix(expr, "(") && strings.HasSuffix(expr, ")") && balanced(expr) {
		return evalSupportsLeaf(expr[1 : len(expr)-1])
	}
	return false, false
}

// evalSupportsLeaf handles the inside of "(...)": either a nested condition
// or a "property: value" declaration test.
func evalSupportsLeaf(inner string) (bool, bool) {
	inner = strings.TrimSpace(inner)
	if strings.HasPrefix(inner, "(") || strings.HasPrefix(strings.ToLower(inner), "not") {
		return evalSupportsExpr(inner)
	}
	idx := strings.Index(inner, ":")
	if idx < 0 {
		return false, false
	}
	prop := strings.ToLower(strings.TrimSpace(inner[:idx]))
	value := strings.TrimSpace(inner[idx+1:])
	if prop == "" || value == "" {
		return false, false
	}
	// Custom properties always register as supported.
	if strings.HasPrefix(prop, "--") {
		return true, true
	}
	if _, ok := knownProperties[prop]; !ok {
		return false, false
	}
	return true, true
}

// balanced reports whether the outermost parentheses of expr enclose the
// whole expression.
func balanced(expr string) bool {
	depth := 0
	for i := 0; i < len(expr); i++ {
		switch expr[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(expr)-1 {
				return false
			}
		}
	}
	return depth == 0
}

// splitOnKeyword splits on a bare keyword outside parentheses; returns a
// single-element slice when the keyword does not occur at top level.
func splitOnKeyword(expr, kw string) []string {
	var parts []string
	depth := 0
	last := 0
	lower := strings.ToLower(expr)
	for i := 0; i+len(kw) <= len(expr); i++ {
		switch expr[i] {
		case '(':
			depth++
			continue
		case ')':
			depth--
			continue
		}
		if depth == 0 && lower[i:i+len(kw)] == kw {
			beforeOK := i == 0 || expr[i-1] == ' ' || expr[i-1] == ')'
			after := i + len(kw)
			afterOK := after < len(expr) && (expr[after] == ' ' || expr[after] == '(')
			if beforeOK && afterOK && strings.TrimSpace(expr[last:i]) != "" {
				parts = append(parts, expr[last:i])
				last = after
			}
		}
	}
	parts = append(parts, expr[last:])
	return parts
}
