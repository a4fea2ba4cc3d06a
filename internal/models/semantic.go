package models

// Attr is a single name/value attribute on a semantic node. Order of
// attributes is meaningful and preserved.
type Attr struct {
	Name  string
	Value string
}

// SemanticNode is the compactor's intermediate form: a tag with ordered
// attributes and either children or text. A node with an empty Tag is bare
// text that renders without a wrapping element.
type SemanticNode struct {
	Tag         string
	Attrs       []Attr
	Children    []*SemanticNode
	Text        string
	SelfClosing bool
}

// IsBareText reports whether the node renders as unwrapped text.
func (n *SemanticNode) IsBareText() bool {
	return n.Tag == "" && n.Text != ""
}
