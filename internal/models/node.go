// Package models contains domain types for the Design Compaction service.
package models

// NodeType is the type discriminator of a raw design node.
type NodeType string

const (
	NodeTypeFrame        NodeType = "FRAME"
	NodeTypeGroup        NodeType = "GROUP"
	NodeTypeText         NodeType = "TEXT"
	NodeTypeRectangle    NodeType = "RECTANGLE"
	NodeTypeEllipse      NodeType = "ELLIPSE"
	NodeTypeVector       NodeType = "VECTOR"
	NodeTypeInstance     NodeType = "INSTANCE"
	NodeTypeComponent    NodeType = "COMPONENT"
	NodeTypeComponentSet NodeType = "COMPONENT_SET"
	NodeTypeCanvas       NodeType = "CANVAS"
	NodeTypeSection      NodeType = "SECTION"
)

// NoteName is the exact (case-sensitive) name of an annotation-note instance.
const NoteName = "Note"

// BoundingBox is a node's absolute bounding box in the design file.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Reaction is an interaction-trigger record attached to a node.
// Only its presence matters to compaction; the trigger/action payloads
// are carried through untouched.
type Reaction struct {
	Trigger map[string]interface{} `json:"trigger,omitempty"`
	Action  map[string]interface{} `json:"action,omitempty"`
}

// ComponentProperty is a named state/variant value on a component instance.
type ComponentProperty struct {
	Value interface{} `json:"value"`
	Type  string      `json:"type,omitempty"`
}

// DesignNode is a node in the raw design-file tree. Children order is
// visual/DOM order and is preserved through every transform. Visible and
// Opacity are pointers because the export omits them when defaulted.
type DesignNode struct {
	ID                  string                       `json:"id"`
	Name                string                       `json:"name"`
	Type                NodeType                     `json:"type"`
	Visible             *bool                        `json:"visible,omitempty"`
	Opacity             *float64                     `json:"opacity,omitempty"`
	AbsoluteBoundingBox *BoundingBox                 `json:"absoluteBoundingBox,omitempty"`
	Characters          string                       `json:"characters,omitempty"`
	ComponentProperties map[string]ComponentProperty `json:"componentProperties,omitempty"`
	Reactions           []Reaction                   `json:"reactions,omitempty"`
	Children            []*DesignNode                `json:"children,omitempty"`
}

// IsVisible reports whether the node is visible. Absent means visible.
func (n *DesignNode) IsVisible() bool {
	return n.Visible == nil || *n.Visible
}

// IsNote reports whether the node is an annotation note: an INSTANCE
// named exactly "Note".
func (n *DesignNode) IsNote() bool {
	return n.Type == NodeTypeInstance && n.Name == NoteName
}
