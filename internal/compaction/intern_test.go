package compaction

import (
	"testing"
)

func TestStringIntern(t *testing.T) {
	si := NewStringIntern()

	s1 := si.Intern("FRAME")
	s2 := si.Intern("FRAME")
	if s1 != s2 {
		t.Error("Expected same pooled string for equal inputs")
	}

	s3 := si.Intern("CANVAS")
	if s1 == s3 {
		t.Error("Expected different strings for different inputs")
	}

	if si.Len() != 2 {
		t.Errorf("Expected pool size 2, got %d", si.Len())
	}

	si.Clear()
	if si.Len() != 0 {
		t.Errorf("Expected pool size 0 after clear, got %d", si.Len())
	}
}

func TestGlobalIntern(t *testing.T) {
	ResetGlobalIntern()

	s1 := GetGlobalIntern().Intern("Primary Button")
	s2 := GetGlobalIntern().Intern("Primary Button")
	if s1 != s2 {
		t.Error("Expected global intern to deduplicate")
	}
}

// Benchmark interning with duplicates (typical design-export scenario:
// a handful of type strings across thousands of nodes).
func BenchmarkStringInternDuplicates(b *testing.B) {
	si := NewStringIntern()
	types := []string{"FRAME", "GROUP", "TEXT", "VECTOR", "INSTANCE", "RECTANGLE"}
	for _, s := range types {
		si.Intern(s)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		si.Intern(types[i%len(types)])
	}
}
