// Package compaction implements the design-tree semantic compaction engine:
// expansion of raw container trees into addressable screens, and rewriting
// of screen subtrees into compact semantically-labeled text. Raw payloads
// routinely exceed 1 MB per screen; the compact form targets a two-orders-
// of-magnitude reduction while keeping behaviorally relevant content.
package compaction

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/design-compactor/backend/internal/models"
)

// ErrInvalidNode is returned when the compactor is handed something that is
// not a decoded design node.
var ErrInvalidNode = errors.New("invalid node data")

// Compactor rewrites one screen subtree into compact semantic text.
// It is pure and stateless across calls; a single instance is safe for
// concurrent use over disjoint subtrees.
type Compactor struct {
	h *Heuristics
}

// NewCompactor creates a compactor with the reference heuristics.
func NewCompactor() *Compactor {
	return &Compactor{h: DefaultHeuristics()}
}

// NewCompactorWithRules creates a compactor with overridden heuristics.
func NewCompactorWithRules(rules *models.CompactionRules) (*Compactor, error) {
	h, err := NewHeuristics(rules)
	if err != nil {
		return nil, err
	}
	return &Compactor{h: h}, nil
}

// Compact renders a screen's subtree as a compact semantic document.
// The input tree is never mutated; identical input yields byte-identical
// output. The only error is a non-node top-level input.
func (c *Compactor) Compact(root *models.DesignNode) (string, error) {
	if root == nil || root.Type == "" {
		return "", ErrInvalidNode
	}

	var kids []*models.SemanticNode
	for _, child := range root.Children {
		kids = append(kids, c.build(child)...)
	}

	screen := &models.SemanticNode{
		Tag: "Screen",
		Attrs: []models.Attr{
			{Name: "name", Value: root.Name},
			{Name: "type", Value: string(root.Type)},
		},
	}
	aggregate(screen, kids)

	return serializeDocument(root.Name, screen), nil
}

// build renders one raw node into zero or more semantic nodes. A filtered
// node yields nothing; a hoisted wrapper yields its children spliced in
// place.
func (c *Compactor) build(n *models.DesignNode) []*models.SemanticNode {
	if n == nil || !n.IsVisible() {
		return nil
	}
	if n.Type == models.NodeTypeVector || c.h.IsDecorative(n) {
		return nil
	}

	// Icons collapse whole: internal vector paths are never surfaced.
	if c.h.IsIcon(n) {
		return []*models.SemanticNode{{
			Tag:         tagNameFor(n),
			Attrs:       c.attrsFor(n),
			SelfClosing: true,
		}}
	}

	if c.h.IsGenericWrapper(n) {
		var hoisted []*models.SemanticNode
		for _, child := range n.Children {
			hoisted = append(hoisted, c.build(child)...)
		}
		return hoisted
	}

	tag := tagNameFor(n)

	if n.Type == models.NodeTypeText {
		if text := strings.TrimSpace(n.Characters); text != "" {
			// A tag that only restates its text, or an auto-generated
			// placeholder name, adds nothing: emit the text bare.
			if isPlaceholderTag(tag) || tagMatchesText(tag, text) {
				return []*models.SemanticNode{{Text: text}}
			}
			return []*models.SemanticNode{{Tag: tag, Attrs: c.attrsFor(n), Text: text}}
		}
	}

	var kids []*models.SemanticNode
	for _, child := range n.Children {
		kids = append(kids, c.build(child)...)
	}

	out := &models.SemanticNode{Tag: tag, Attrs: c.attrsFor(n)}
	aggregate(out, kids)
	return []*models.SemanticNode{out}
}

// aggregate attaches surviving children to a parent: none makes the parent
// self-closing, a single bare-text child is inlined, anything else becomes
// a child block.
func aggregate(parent *models.SemanticNode, kids []*models.SemanticNode) {
	switch {
	case len(kids) == 0:
		parent.SelfClosing = true
	case len(kids) == 1 && kids[0].IsBareText():
		parent.Text = kids[0].Text
	default:
		parent.Children = kids
	}
}

// attrsFor synthesizes the attribute list for a node, in stable order:
// component kind, interactivity, then component properties by sorted name.
func (c *Compactor) attrsFor(n *models.DesignNode) []models.Attr {
	var attrs []models.Attr

	switch n.Type {
	case models.NodeTypeInstance:
		attrs = append(attrs, models.Attr{Name: "type", Value: "instance"})
	case models.NodeTypeComponent:
		attrs = append(attrs, models.Attr{Name: "type", Value: "component"})
	}

	if c.h.IsInteractive(n) {
		attrs = append(attrs, models.Attr{Name: "interactive", Value: "true"})
	}

	if len(n.ComponentProperties) > 0 {
		// Property maps decode in random order; sort keys so identical
		// input always yields byte-identical output.
		keys := make([]string, 0, len(n.ComponentProperties))
		for k := range n.ComponentProperties {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			prop := n.ComponentProperties[k]
			if prop.Value == nil {
				continue
			}
			attrs = append(attrs, models.Attr{
				Name:  toAttrName(k),
				Value: fmt.Sprintf("%v", prop.Value),
			})
		}
	}

	return attrs
}
