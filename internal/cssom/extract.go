// File: internal/cssom/extract.go
package cssom

import (
	"strings"

	"github.com/aymerick/douceur/css"
	"go.uber.org/zap"
)

// Flatten walks a stylesheet's rule tree depth-first and returns the active
// simple style rules in source order, expanding conditional grouping rules
// against the environment:
//
//   - @media groups expand when the prelude is empty or currently matches;
//     otherwise the whole group (children included) is skipped.
//   - @supports groups expand when the condition holds, or when it cannot
//     be evaluated (fail open).
//   - Any other grouping rule exposing nested rules expands unconditionally.
//
// A nil stylesheet, or any failure during traversal, yields an empty
// sequence; flattening never fails.
func Flatten(sheet *css.Stylesheet, env Environment, logger *zap.Logger) (rules []*Rule) {
	if sheet == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			if logger != nil {
				logger.Warn("Stylesheet traversal aborted", zap.Any("cause", r))
			}
			rules = nil
		}
	}()
	return flattenRules(sheet.Rules, env, logger)
}

func flattenRules(in []*css.Rule, env Environment, logger *zap.Logger) []*Rule {
	var out []*Rule
	for _, r := range in {
		if r == nil {
			continue
		}
		switch r.Kind {
		case css.QualifiedRule:
			out = append(out, &Rule{
				Selector:     selectorText(r),
				Declarations: r.Declarations,
			})
		case css.AtRule:
			out = append(out, flattenAtRule(r, env, logger)...)
		}
	}
	return out
}

func flattenAtRule(r *css.Rule, env Environment, logger *zap.Logger) []*Rule {
	switch strings.ToLower(r.Name) {
	case "@media":
		prelude := strings.TrimSpace(r.Prelude)
		if prelude != "" && !MatchMedia(prelude, env) {
			return nil
		}
		return flattenRules(r.Rules, env, logger)
	case "@supports":
		supported, evaluable := EvalSupports(r.Prelude)
		if evaluable && !supported {
			return nil
		}
		if !evaluable && logger != nil {
			logger.Debug("Unevaluable @supports condition treated as supported",
				zap.String("condition", r.Prelude))
		}
		return flattenRules(r.Rules, env, logger)
	default:
		// Grouping at-rules without conditions (@document and friends)
		// expand unconditionally; leaf at-rules contribute nothing.
		if len(r.Rules) > 0 {
			return flattenRules(r.Rules, env, logger)
		}
		return nil
	}
}

func selectorText(r *css.Rule) string {
	if len(r.Selectors) > 0 {
		return strings.Join(r.Selectors, ", ")
	}
	return strings.TrimSpace(r.Prelude)
}
