// File: internal/sandbox/context.go

// Package sandbox owns the isolated render context: a single reusable
// in-process document that HTML and CSS are injected into before style
// computation. The document has no network, script, or frame surface at
// all; isolation is structural. Builds against the shared context are
// serialized explicitly with a single-permit semaphore.
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/sync/semaphore"

	"github.com/domlens/domlens-cli/internal/config"
	"github.com/domlens/domlens-cli/internal/cssom"
)

// ErrUnusable marks a render context whose construction failed; callers
// must fall back to a style-less parse.
var ErrUnusable = errors.New("render context unusable")

const skeletonMarkup = `<!DOCTYPE html><html><head><style></style></head><body></body></html>`

// Context is the isolated render context. One live document is owned for
// the whole process lifetime and mutated in place on every injection, so a
// build must hold the context from Acquire until it has finished walking
// the live tree.
type Context struct {
	sem    *semaphore.Weighted
	logger *zap.Logger
	env    cssom.Environment

	doc     *html.Node
	body    *html.Node
	styleEl *html.Node
}

var (
	sharedOnce sync.Once
	sharedCtx  *Context
	sharedErr  error
)

// Shared returns the lazily-created, memoized render context for this
// process. The first caller's configuration wins; a construction failure is
// remembered and returned to every subsequent caller.
func Shared(cfg config.InspectorConfig, logger *zap.Logger) (*Context, error) {
	sharedOnce.Do(func() {
		sharedCtx, sharedErr = New(cfg, logger)
	})
	return sharedCtx, sharedErr
}

// ResetSharedForTest clears the memoized shared context.
// This function should ONLY be used in tests to ensure isolation.
func ResetSharedForTest() {
	sharedCtx = nil
	sharedErr = nil
	sharedOnce = sync.Once{}
}

// New constructs a fresh render context. If the skeleton document fails to
// expose its body or style node, the context is unusable for the session.
func New(cfg config.InspectorConfig, logger *zap.Logger) (*Context, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	doc, err := html.Parse(strings.NewReader(skeletonMarkup))
	if err != nil {
		return nil, fmt.Errorf("%w: skeleton parse: %v", ErrUnusable, err)
	}

	body := findElement(doc, atom.Body)
	styleEl := findElement(doc, atom.Style)
	if body == nil || styleEl == nil {
		return nil, fmt.Errorf("%w: skeleton document incomplete", ErrUnusable)
	}

	env := cssom.DefaultEnvironment()
	if cfg.ViewportWidth > 0 {
		env.ViewportWidth = cfg.ViewportWidth
	}
	if cfg.ViewportHeight > 0 {
		env.ViewportHeight = cfg.ViewportHeight
	}
	if cfg.RootFontSize > 0 {
		env.RootFontSize = cfg.RootFontSize
	}
	if cfg.MediaType != "" {
		env.MediaType = cfg.MediaType
	}

	return &Context{
		sem:     semaphore.NewWeighted(1),
		logger:  logger.With(zap.String("component", "sandbox")),
		env:     env,
		doc:     doc,
		body:    body,
		styleEl: styleEl,
	}, nil
}

// Acquire takes the single build permit, blocking until the context is free
// or ctx is done. Every Acquire must be paired with Release.
func (c *Context) Acquire(ctx context.Context) error {
	return c.sem.Acquire(ctx, 1)
}

// Release returns the build permit.
func (c *Context) Release() {
	c.sem.Release(1)
}

// Body exposes the live traversal root. Valid only while the permit is held.
func (c *Context) Body() *html.Node {
	return c.body
}

// Inject replaces the context's style text and body content with the given
// sources and returns the style context for this build. Replacement, not
// append: nothing accumulates across builds. The caller must hold the
// permit.
func (c *Context) Inject(htmlSrc, cssSrc string) (*StyleContext, error) {
	parsed, err := html.Parse(strings.NewReader(htmlSrc))
	if err != nil {
		return nil, fmt.Errorf("parsing input markup: %w", err)
	}
	newBody := findElement(parsed, atom.Body)
	if newBody == nil {
		return nil, fmt.Errorf("input markup yielded no body")
	}

	// Body attributes follow the parsed input exactly: attributes from a
	// previous build that the new input does not carry are dropped.
	c.body.Attr = append([]html.Attribute(nil), newBody.Attr...)

	for c.body.FirstChild != nil {
		c.body.RemoveChild(c.body.FirstChild)
	}
	for child := newBody.FirstChild; child != nil; {
		next := child.NextSibling
		newBody.RemoveChild(child)
		c.body.AppendChild(child)
		child = next
	}

	c.setStyleText(cssSrc)

	// Rebuilding the style context after mutation is the settling step:
	// rules are recomputed from the freshly injected stylesheet, never
	// carried over from a previous build.
	sheet := cssom.ParseStylesheet(cssSrc)
	if sheet == nil {
		c.logger.Warn("Stylesheet did not parse; building with zero active rules")
	}
	rules := cssom.Flatten(sheet, c.env, c.logger)

	return newStyleContext(&Window{env: c.env}, rules), nil
}

func (c *Context) setStyleText(cssSrc string) {
	for c.styleEl.FirstChild != nil {
		c.styleEl.RemoveChild(c.styleEl.FirstChild)
	}
	c.styleEl.AppendChild(&html.Node{Type: html.TextNode, Data: cssSrc})
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findElement(child, a); found != nil {
			return found
		}
	}
	return nil
}
