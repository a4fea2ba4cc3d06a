package storage

import (
	"bytes"
	"compress/gzip"
	"os"
	"strings"
	"testing"
)

func TestLocalStoreSaveAndGet(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}

	payload := `{"id":"1:1","name":"Home","type":"FRAME"}`
	info, err := store.Save("home.json", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if info.Size != int64(len(payload)) {
		t.Errorf("expected size %d, got %d", len(payload), info.Size)
	}

	got, err := store.Get(info.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "home.json" {
		t.Errorf("expected name home.json, got %s", got.Name)
	}

	path, err := store.GetFilePath(info.ID)
	if err != nil {
		t.Fatalf("GetFilePath failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	if string(data) != payload {
		t.Errorf("stored content mismatch: %s", data)
	}
}

func TestLocalStoreSaveGzip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}

	payload := `{"name":"Doc","nodes":[{"id":"1:1","name":"Home","type":"FRAME"}]}`
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	gz.Write([]byte(payload))
	gz.Close()

	info, err := store.Save("doc.json.gz", &buf)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	path, _ := store.GetFilePath(info.ID)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != payload {
		t.Errorf("expected transparent decompression, got: %s", data)
	}
	if info.Size != int64(len(payload)) {
		t.Errorf("expected decompressed size %d, got %d", len(payload), info.Size)
	}
}

func TestLocalStoreListAndDelete(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}

	a, _ := store.Save("a.json", strings.NewReader("{}"))
	b, _ := store.Save("b.json", strings.NewReader("{}"))

	list, err := store.List(10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 files, got %d", len(list))
	}

	if err := store.Delete(a.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(a.ID); err == nil {
		t.Error("expected error for deleted file")
	}
	if _, err := store.Get(b.ID); err != nil {
		t.Errorf("unrelated file should survive: %v", err)
	}

	if err := store.Delete("missing"); err == nil {
		t.Error("expected error deleting unknown file")
	}
}
