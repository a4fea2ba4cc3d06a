package compaction

import (
	"strings"

	"github.com/design-compactor/backend/internal/models"
)

const (
	xmlDeclaration = `<?xml version="1.0" encoding="UTF-8"?>`
	indentUnit     = "  "
)

// serializeDocument renders the final text document: XML declaration, a
// comment naming the screen, and the <Screen> root element.
func serializeDocument(screenName string, root *models.SemanticNode) string {
	var sb strings.Builder
	sb.WriteString(xmlDeclaration)
	sb.WriteByte('\n')
	sb.WriteString("<!-- Screen: ")
	sb.WriteString(EscapeXML(screenName))
	sb.WriteString(" -->\n")
	writeNode(&sb, root, 0)
	return sb.String()
}

// writeNode serializes one semantic node at the given depth. Escaping
// happens here, in one place, so the tree holds raw values.
func writeNode(sb *strings.Builder, n *models.SemanticNode, depth int) {
	indent := strings.Repeat(indentUnit, depth)

	if n.Tag == "" {
		sb.WriteString(indent)
		sb.WriteString(EscapeXML(n.Text))
		sb.WriteByte('\n')
		return
	}

	sb.WriteString(indent)
	sb.WriteByte('<')
	sb.WriteString(n.Tag)
	for _, a := range n.Attrs {
		sb.WriteByte(' ')
		sb.WriteString(a.Name)
		sb.WriteString(`="`)
		sb.WriteString(EscapeXML(a.Value))
		sb.WriteByte('"')
	}

	switch {
	case n.SelfClosing:
		sb.WriteString(" />\n")
	case len(n.Children) == 0:
		sb.WriteByte('>')
		sb.WriteString(EscapeXML(n.Text))
		sb.WriteString("</")
		sb.WriteString(n.Tag)
		sb.WriteString(">\n")
	default:
		sb.WriteString(">\n")
		for _, child := range n.Children {
			writeNode(sb, child, depth+1)
		}
		sb.WriteString(indent)
		sb.WriteString("</")
		sb.WriteString(n.Tag)
		sb.WriteString(">\n")
	}
}
