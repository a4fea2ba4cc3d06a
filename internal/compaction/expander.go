package compaction

import "github.com/design-compactor/backend/internal/models"

// Expand classifies one top-level node and produces the screens and notes
// reachable from it. A CANVAS or SECTION is examined one level deep, with
// nested sections flattened recursively; a FRAME is itself a screen; an
// INSTANCE named "Note" is itself a note. Anything else yields an empty
// collection, which is a normal outcome rather than an error.
func Expand(node *models.DesignNode) *models.ScreenCollection {
	sc := models.NewScreenCollection()
	if node == nil {
		return sc
	}

	switch node.Type {
	case models.NodeTypeCanvas:
		expandContainer(node, sc)
	case models.NodeTypeSection:
		expandContainer(node, sc)
		name := node.Name
		if name == "" {
			name = "Unnamed Section"
		}
		sc.SectionContext = &models.SectionContext{SectionName: name, SectionID: node.ID}
	case models.NodeTypeFrame:
		sc.AddScreen(node)
	case models.NodeTypeInstance:
		if node.IsNote() {
			sc.AddNote(node)
		}
	}

	return sc
}

// expandContainer pulls a container's direct Frame and Note children into
// the collection. Sections never produce output themselves, only their
// contents; frames found inside a nested section are not stamped with the
// section's identity.
func expandContainer(node *models.DesignNode, sc *models.ScreenCollection) {
	for _, child := range node.Children {
		sc.RegisterNode(child)
		switch {
		case child.Type == models.NodeTypeFrame:
			sc.AddScreen(child)
		case child.IsNote():
			sc.AddNote(child)
		case child.Type == models.NodeTypeSection:
			expandContainer(child, sc)
		}
	}
}

// ExpandAll batches multiple top-level nodes. Input order determines output
// order; screens and notes are deduplicated by ID with the first occurrence
// kept. Direct children of every input are registered so later subtree
// lookups succeed without re-fetching.
func ExpandAll(nodes []*models.DesignNode) *models.ScreenCollection {
	sc := models.NewScreenCollection()
	for _, node := range nodes {
		if node == nil {
			continue
		}
		sc.RegisterNode(node)
		for _, child := range node.Children {
			sc.RegisterNode(child)
		}
		sc.Merge(Expand(node))
	}
	return sc
}
