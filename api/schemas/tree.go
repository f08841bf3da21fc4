// File: api/schemas/tree.go
package schemas

// -- Tree Schemas --

// NodeKind discriminates the TreeNode union. Consumers are expected to
// switch over it exhaustively; there is no class hierarchy behind it.
type NodeKind string

const (
	// NodeElement marks a TreeNode that carries element data.
	NodeElement NodeKind = "element"
	// NodeText marks a TreeNode that carries normalized text content.
	NodeText NodeKind = "text"
)

// TreeNode is one node of the serializable structural tree. Exactly one of
// the element field set or Text is populated, selected by Kind. The struct
// holds no references back to any live document.
type TreeNode struct {
	Kind NodeKind `json:"kind"`

	// Element variant.
	Tag      string         `json:"tag,omitempty"`
	ID       string         `json:"id,omitempty"`
	Classes  []string       `json:"classes,omitempty"`
	Children []*TreeNode    `json:"children,omitempty"`
	Layout   *LayoutSummary `json:"layout,omitempty"`

	// Text variant. Never empty: whitespace-only text produces no node.
	Text string `json:"text,omitempty"`
}

// Density is the qualitative classification of an element's distinct
// property-group count.
type Density string

const (
	DensityLow    Density = "low"    // propsCount <= 8
	DensityMedium Density = "medium" // propsCount <= 18
	DensityHigh   Density = "high"   // propsCount > 18
)

// LayoutChip summarizes one key layout property of an element.
type LayoutChip struct {
	Property string `json:"property"`
	Value    string `json:"value"`
	// Title is a human-readable "property: value" string for tooltips.
	Title string `json:"title"`
	// Declared is true when the property was explicitly set by a matched
	// rule or inline style, as opposed to inherited or host-default.
	Declared bool `json:"declared"`
}

// LayoutSummary is the derived, read-only layout view for one element.
type LayoutSummary struct {
	Chips []LayoutChip `json:"chips"`
	// RulesCount is matched rules plus one if inline style is present.
	RulesCount int `json:"rules_count"`
	// PropsCount is the number of distinct normalized property groups.
	PropsCount int `json:"props_count"`
	// LonghandsCount is the raw declared longhand total across matches
	// and inline style, duplicates included.
	LonghandsCount int     `json:"longhands_count"`
	Density        Density `json:"density"`
}

// Counts aggregates node totals for one built tree.
type Counts struct {
	Elements int `json:"elements"`
	Texts    int `json:"texts"`
	Total    int `json:"total"`
}

// BuildResult is the envelope returned by one tree build.
type BuildResult struct {
	// BuildID uniquely identifies this build.
	BuildID string `json:"build_id"`
	// Seq increases monotonically per builder; consumers discard results
	// whose Seq is older than the last one they rendered.
	Seq uint64 `json:"seq"`
	// Degraded is true when the render context was unavailable and the
	// tree was built from a style-less parse (all layouts nil).
	Degraded bool      `json:"degraded"`
	Root     *TreeNode `json:"root"`
	Counts   Counts    `json:"counts"`
}
