package compaction

import (
	"testing"

	"github.com/design-compactor/backend/internal/models"
)

const fileExportJSON = `{
	"name": "Mobile App",
	"document": {
		"id": "0:0",
		"name": "Document",
		"type": "DOCUMENT",
		"children": [
			{"id": "0:1", "name": "Page 1", "type": "CANVAS", "children": [
				{"id": "1:1", "name": "Home", "type": "FRAME"}
			]},
			{"id": "0:2", "name": "Page 2", "type": "CANVAS"}
		]
	}
}`

const nodeListJSON = `{
	"name": "Selection",
	"nodes": [
		{"id": "1:1", "name": "Home", "type": "FRAME"},
		{"id": "1:2", "name": "Note", "type": "INSTANCE"}
	]
}`

const rawNodeJSON = `{"id": "1:1", "name": "Home", "type": "FRAME", "visible": false, "opacity": 0.5}`

func TestFileExportDecoder(t *testing.T) {
	d := NewFileExportDecoder()
	if !d.CanDecode([]byte(fileExportJSON)) {
		t.Fatal("expected CanDecode true for file export")
	}

	doc, err := d.Decode([]byte(fileExportJSON))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if doc.Name != "Mobile App" {
		t.Errorf("expected name Mobile App, got %s", doc.Name)
	}
	if len(doc.Nodes) != 2 || doc.Nodes[0].Type != models.NodeTypeCanvas {
		t.Fatalf("expected 2 canvas nodes, got %+v", doc.Nodes)
	}
	if len(doc.Nodes[0].Children) != 1 || doc.Nodes[0].Children[0].Name != "Home" {
		t.Errorf("expected canvas children preserved")
	}
}

func TestNodeListDecoder(t *testing.T) {
	d := NewNodeListDecoder()
	if d.CanDecode([]byte(fileExportJSON)) {
		t.Error("node list decoder must not claim a file export")
	}
	if !d.CanDecode([]byte(nodeListJSON)) {
		t.Fatal("expected CanDecode true for node list")
	}

	doc, err := d.Decode([]byte(nodeListJSON))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(doc.Nodes) != 2 || doc.Nodes[0].ID != "1:1" || doc.Nodes[1].ID != "1:2" {
		t.Errorf("expected ordered nodes, got %+v", doc.Nodes)
	}
}

func TestRawNodeDecoder(t *testing.T) {
	d := NewRawNodeDecoder()
	if !d.CanDecode([]byte(rawNodeJSON)) {
		t.Fatal("expected CanDecode true for raw node")
	}

	doc, err := d.Decode([]byte(rawNodeJSON))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	n := doc.Nodes[0]
	if n.Visible == nil || *n.Visible {
		t.Error("expected visible false decoded")
	}
	if n.Opacity == nil || *n.Opacity != 0.5 {
		t.Error("expected opacity 0.5 decoded")
	}
}

func TestRegistryAutoDetect(t *testing.T) {
	r := GetGlobalRegistry()

	for _, payload := range []string{fileExportJSON, nodeListJSON, rawNodeJSON} {
		if _, err := r.DecodeDocument([]byte(payload)); err != nil {
			t.Errorf("DecodeDocument failed for valid payload: %v", err)
		}
	}

	for _, bad := range []string{`42`, `null`, `"hello"`, `not json`, `{"unrelated": true}`} {
		if _, err := r.DecodeDocument([]byte(bad)); err == nil {
			t.Errorf("expected error for payload %s", bad)
		}
	}
}

func TestDecodeInternsStrings(t *testing.T) {
	ResetGlobalIntern()

	doc, err := GetGlobalRegistry().DecodeDocument([]byte(nodeListJSON))
	if err != nil {
		t.Fatalf("DecodeDocument failed: %v", err)
	}
	_ = doc

	if GetGlobalIntern().Len() == 0 {
		t.Error("expected decoded names and types to be interned")
	}
}
