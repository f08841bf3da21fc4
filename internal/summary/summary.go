// File: internal/summary/summary.go

// Package summary derives the per-element layout summary: a small fixed set
// of chips over computed layout values plus the match-statistics metrics.
package summary

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/domlens/domlens-cli/api/schemas"
	"github.com/domlens/domlens-cli/internal/match"
	"github.com/domlens/domlens-cli/internal/sandbox"
)

// Density bucket boundaries for the distinct property-group count,
// inclusive on the low end of each band.
const (
	lowDensityMax    = 8
	mediumDensityMax = 18
)

func classifyDensity(propsCount int) schemas.Density {
	switch {
	case propsCount <= lowDensityMax:
		return schemas.DensityLow
	case propsCount <= mediumDensityMax:
		return schemas.DensityMedium
	default:
		return schemas.DensityHigh
	}
}

// Build produces the layout summary for one element. A nil style context
// yields a nil summary — "no layout data" is distinct from "zero layout
// signal" — and Build never fails: an unreadable computed value becomes an
// empty chip value.
func Build(n *html.Node, sc *sandbox.StyleContext) *schemas.LayoutSummary {
	if sc == nil || n == nil || n.Type != html.ElementNode {
		return nil
	}

	stats := match.Compute(n, sc)

	rulesCount := stats.MatchedRules
	if stats.HasInlineStyle {
		rulesCount++
	}

	display := sc.ComputedValue(n, "display")
	position := sc.ComputedValue(n, "position")

	isFlex := strings.Contains(display, "flex")
	isGrid := strings.Contains(display, "grid")

	chips := []schemas.LayoutChip{
		newChip("display", display, stats),
		newChip("position", position, stats),
	}

	// Flex alignment properties are shown for flex containers, and for any
	// element that declares them: flex properties set on a non-flex element
	// are inert but informative.
	for _, prop := range []string{"flex-direction", "justify-content", "align-items"} {
		if isFlex || stats.Declared(prop) {
			chips = append(chips, newChip(prop, sc.ComputedValue(n, prop), stats))
		}
	}
	if isFlex || isGrid || stats.Declared("gap") {
		chips = append(chips, newChip("gap", sc.ComputedValue(n, "gap"), stats))
	}

	return &schemas.LayoutSummary{
		Chips:          chips,
		RulesCount:     rulesCount,
		PropsCount:     len(stats.Groups),
		LonghandsCount: stats.Longhands,
		Density:        classifyDensity(len(stats.Groups)),
	}
}

func newChip(prop, value string, stats match.Stats) schemas.LayoutChip {
	return schemas.LayoutChip{
		Property: prop,
		Value:    value,
		Title:    prop + ": " + value,
		Declared: stats.Declared(prop),
	}
}
