package compaction

import (
	"fmt"

	"github.com/design-compactor/backend/internal/models"
)

// Test tree builders shared by the engine tests.

var nextTestID int

func node(typ models.NodeType, name string, children ...*models.DesignNode) *models.DesignNode {
	nextTestID++
	return &models.DesignNode{
		ID:       fmt.Sprintf("t:%d", nextTestID),
		Name:     name,
		Type:     typ,
		Children: children,
	}
}

func textNode(name, characters string) *models.DesignNode {
	n := node(models.NodeTypeText, name)
	n.Characters = characters
	return n
}

func withBox(n *models.DesignNode, w, h float64) *models.DesignNode {
	n.AbsoluteBoundingBox = &models.BoundingBox{Width: w, Height: h}
	return n
}

func withOpacity(n *models.DesignNode, o float64) *models.DesignNode {
	n.Opacity = &o
	return n
}

func hidden(n *models.DesignNode) *models.DesignNode {
	v := false
	n.Visible = &v
	return n
}
