package compaction

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/design-compactor/backend/internal/models"
)

// Document is a decoded design export: a name plus the ordered top-level
// nodes to expand. Slice order is the insertion order the expander's dedup
// depends on.
type Document struct {
	Name  string
	Nodes []*models.DesignNode
}

// Decoder decodes one design export format.
type Decoder interface {
	// Name returns the unique name of the decoder.
	Name() string
	// CanDecode returns true if this decoder recognizes the payload.
	CanDecode(data []byte) bool
	// Decode parses the payload into a Document.
	Decode(data []byte) (*Document, error)
}

// probe is the minimal shape sniffed by CanDecode implementations.
type probe struct {
	Name     string            `json:"name"`
	Type     string            `json:"type"`
	Document *json.RawMessage  `json:"document"`
	Nodes    []json.RawMessage `json:"nodes"`
}

func sniff(data []byte) (*probe, bool) {
	var p probe
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, false
	}
	return &p, true
}

// FileExportDecoder handles a whole-file export:
// {"name": ..., "document": {"children": [CANVAS, ...]}}.
type FileExportDecoder struct{}

func NewFileExportDecoder() *FileExportDecoder { return &FileExportDecoder{} }

func (d *FileExportDecoder) Name() string { return "file-export" }

func (d *FileExportDecoder) CanDecode(data []byte) bool {
	p, ok := sniff(data)
	return ok && p.Document != nil
}

func (d *FileExportDecoder) Decode(data []byte) (*Document, error) {
	var payload struct {
		Name     string             `json:"name"`
		Document *models.DesignNode `json:"document"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decoding file export: %w", err)
	}
	if payload.Document == nil {
		return nil, fmt.Errorf("file export has no document")
	}
	doc := &Document{Name: payload.Name, Nodes: payload.Document.Children}
	internDocument(doc)
	return doc, nil
}

// NodeListDecoder handles an ordered node-list export:
// {"name": ..., "nodes": [node, ...]}.
type NodeListDecoder struct{}

func NewNodeListDecoder() *NodeListDecoder { return &NodeListDecoder{} }

func (d *NodeListDecoder) Name() string { return "node-list" }

func (d *NodeListDecoder) CanDecode(data []byte) bool {
	p, ok := sniff(data)
	return ok && p.Document == nil && p.Nodes != nil
}

func (d *NodeListDecoder) Decode(data []byte) (*Document, error) {
	var payload struct {
		Name  string               `json:"name"`
		Nodes []*models.DesignNode `json:"nodes"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decoding node list: %w", err)
	}
	doc := &Document{Name: payload.Name, Nodes: payload.Nodes}
	internDocument(doc)
	return doc, nil
}

// RawNodeDecoder handles a single bare node object.
type RawNodeDecoder struct{}

func NewRawNodeDecoder() *RawNodeDecoder { return &RawNodeDecoder{} }

func (d *RawNodeDecoder) Name() string { return "raw-node" }

func (d *RawNodeDecoder) CanDecode(data []byte) bool {
	p, ok := sniff(data)
	return ok && p.Document == nil && p.Nodes == nil && p.Type != ""
}

func (d *RawNodeDecoder) Decode(data []byte) (*Document, error) {
	var node models.DesignNode
	if err := json.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("decoding node: %w", err)
	}
	doc := &Document{Name: node.Name, Nodes: []*models.DesignNode{&node}}
	internDocument(doc)
	return doc, nil
}

// internDocument canonicalizes the strings that repeat across a document.
func internDocument(doc *Document) {
	si := GetGlobalIntern()
	for _, n := range doc.Nodes {
		internTree(si, n)
	}
}

func internTree(si *StringIntern, n *models.DesignNode) {
	if n == nil {
		return
	}
	n.Name = si.Intern(n.Name)
	n.Type = models.NodeType(si.Intern(string(n.Type)))
	for _, child := range n.Children {
		internTree(si, child)
	}
}
