// File: internal/inspector/builder.go

// Package inspector exposes the core entry point: turn an (html, css) pair
// into a serializable, layout-annotated structural tree plus node counts.
package inspector

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/domlens/domlens-cli/api/schemas"
	"github.com/domlens/domlens-cli/internal/config"
	"github.com/domlens/domlens-cli/internal/observability"
	"github.com/domlens/domlens-cli/internal/sandbox"
	"github.com/domlens/domlens-cli/internal/summary"
)

// ErrEmptyInput marks a blank HTML buffer. It is a no-op state, not a build
// failure: callers simply do not render anything.
var ErrEmptyInput = errors.New("inspector: empty html input")

// Builder runs tree builds against the shared render context. Builds are
// serialized by the context's permit; each result carries a monotonically
// increasing sequence number so consumers can discard stale output.
type Builder struct {
	cfg    config.InspectorConfig
	logger *zap.Logger
	seq    atomic.Uint64
}

// New creates a Builder. A nil logger falls back to the global one.
func New(cfg config.InspectorConfig, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = observability.GetLogger()
	}
	return &Builder{
		cfg:    cfg,
		logger: logger.With(zap.String("component", "inspector")),
	}
}

// Generate builds the annotated tree for one (html, css) pair. Any failure
// to obtain or use the render context degrades to a style-less parse — the
// returned tree then has no layout summaries and Degraded is set. The only
// error conditions are a blank HTML buffer and context cancellation while
// waiting for the build permit.
func (b *Builder) Generate(ctx context.Context, htmlSrc, cssSrc string) (*schemas.BuildResult, error) {
	if strings.TrimSpace(htmlSrc) == "" {
		return nil, ErrEmptyInput
	}

	root, degraded, err := b.buildRoot(ctx, htmlSrc, cssSrc)
	if err != nil {
		return nil, err
	}

	return &schemas.BuildResult{
		BuildID:  uuid.New().String(),
		Seq:      b.seq.Add(1),
		Degraded: degraded,
		Root:     root,
		Counts:   countNodes(root),
	}, nil
}

func (b *Builder) buildRoot(ctx context.Context, htmlSrc, cssSrc string) (*schemas.TreeNode, bool, error) {
	sb, err := sandbox.Shared(b.cfg, b.logger)
	if err != nil {
		b.logger.Warn("Render context unavailable; building without styles", zap.Error(err))
		return b.degradedRoot(htmlSrc), true, nil
	}

	if err := sb.Acquire(ctx); err != nil {
		return nil, false, err
	}
	defer sb.Release()

	sc, err := sb.Inject(htmlSrc, cssSrc)
	if err != nil {
		b.logger.Warn("Injection failed; building without styles", zap.Error(err))
		return b.degradedRoot(htmlSrc), true, nil
	}

	return convertElement(sb.Body(), sc), false, nil
}

// degradedRoot parses the raw HTML alone: no CSS, no style context, every
// element gets a nil layout.
func (b *Builder) degradedRoot(htmlSrc string) *schemas.TreeNode {
	doc, err := html.Parse(strings.NewReader(htmlSrc))
	if err != nil {
		b.logger.Warn("Fallback parse failed; returning an empty tree", zap.Error(err))
		return &schemas.TreeNode{Kind: schemas.NodeElement, Tag: "body"}
	}
	body := findBody(doc)
	if body == nil {
		return &schemas.TreeNode{Kind: schemas.NodeElement, Tag: "body"}
	}
	return convertElement(body, nil)
}

// convertElement recursively converts a live element into a plain TreeNode.
// Element children recurse, text children are normalized and kept only when
// non-empty, every other node kind is ignored. The layout summary is
// computed only for elements with at least one surviving child.
func convertElement(n *html.Node, sc *sandbox.StyleContext) *schemas.TreeNode {
	node := &schemas.TreeNode{
		Kind: schemas.NodeElement,
		Tag:  strings.ToLower(n.Data),
	}
	for _, a := range n.Attr {
		switch a.Key {
		case "id":
			node.ID = a.Val
		case "class":
			node.Classes = strings.Fields(a.Val)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			node.Children = append(node.Children, convertElement(c, sc))
		case html.TextNode:
			if text := NormalizeText(c.Data); text != "" {
				node.Children = append(node.Children, &schemas.TreeNode{
					Kind: schemas.NodeText,
					Text: text,
				})
			}
		}
	}

	if len(node.Children) > 0 {
		node.Layout = summary.Build(n, sc)
	}
	return node
}

// NormalizeText collapses consecutive whitespace to single spaces and trims
// the ends. Normalization is idempotent.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// countNodes tallies the descendants of the root in one traversal. The root
// itself (the injected body) is not counted.
func countNodes(root *schemas.TreeNode) schemas.Counts {
	var counts schemas.Counts
	var walk func(n *schemas.TreeNode)
	walk = func(n *schemas.TreeNode) {
		for _, c := range n.Children {
			switch c.Kind {
			case schemas.NodeElement:
				counts.Elements++
				walk(c)
			case schemas.NodeText:
				counts.Texts++
			}
		}
	}
	if root != nil {
		walk(root)
	}
	counts.Total = counts.Elements + counts.Texts
	return counts
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findBody(c); found != nil {
			return found
		}
	}
	return nil
}
