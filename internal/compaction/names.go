package compaction

import (
	"regexp"
	"strings"

	"github.com/design-compactor/backend/internal/models"
)

var (
	// invalidTagChars matches everything not allowed in a tag token.
	invalidTagChars = regexp.MustCompile(`[^A-Za-z0-9\-_ ]+`)

	// genericNameRe matches tool-generated placeholder names like
	// "Frame 12" or "Rectangle 3".
	genericNameRe = regexp.MustCompile(`^(Frame|Group|Text|Rectangle|Ellipse|Vector|Instance|Component) \d+$`)

	// placeholderTagRe matches auto-generated text layer names that carry
	// no meaning of their own ("_1", "Text", "Text2").
	placeholderTagRe = regexp.MustCompile(`^(_\d+|Text\d*)$`)

	xmlEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
)

// typeTagNames maps node types to their fallback tag names.
var typeTagNames = map[models.NodeType]string{
	models.NodeTypeFrame:     "Frame",
	models.NodeTypeGroup:     "Group",
	models.NodeTypeText:      "Text",
	models.NodeTypeRectangle: "Rectangle",
	models.NodeTypeEllipse:   "Ellipse",
	models.NodeTypeComponent: "Component",
}

// EscapeXML escapes text for use in element content and attribute values.
func EscapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

// ToTagName sanitizes a free-text layer name into a tag token: characters
// outside [A-Za-z0-9-_ ] are stripped, whitespace runs collapse to a single
// hyphen, a leading digit gets a "_" prefix. Empty input yields "Element".
func ToTagName(name string) string {
	return sanitizeToken(name, "Element")
}

// toAttrName sanitizes a component property name the same way as tag names
// but defaults to "attr".
func toAttrName(name string) string {
	return sanitizeToken(name, "attr")
}

func sanitizeToken(name, fallback string) string {
	s := invalidTagChars.ReplaceAllString(name, "")
	s = strings.Join(strings.Fields(s), "-")
	if s == "" {
		return fallback
	}
	if s[0] >= '0' && s[0] <= '9' {
		s = "_" + s
	}
	return s
}

// tagNameFor picks the output tag for a node. Component identity wins when
// present; otherwise a human-authored name beats the type fallback.
func tagNameFor(n *models.DesignNode) string {
	switch n.Type {
	case models.NodeTypeInstance, models.NodeTypeComponent, models.NodeTypeComponentSet:
		if n.Name != "" {
			return ToTagName(n.Name)
		}
	}
	if n.Name != "" && !genericNameRe.MatchString(n.Name) {
		return ToTagName(n.Name)
	}
	if tag, ok := typeTagNames[n.Type]; ok {
		return tag
	}
	return "Element"
}

// isPlaceholderTag reports whether a tag is an auto-generated text layer name.
func isPlaceholderTag(tag string) bool {
	return placeholderTagRe.MatchString(tag)
}

// tagMatchesText reports whether a tag is just a restatement of the text it
// would wrap ("Submit" around "Submit", "My-Label" around "my label").
func tagMatchesText(tag, text string) bool {
	return strings.EqualFold(strings.ReplaceAll(tag, "-", " "), text)
}
