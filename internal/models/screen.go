package models

// SectionContext identifies a directly-expanded SECTION node.
type SectionContext struct {
	SectionName string `json:"sectionName"`
	SectionID   string `json:"sectionId"`
}

// ScreenCollection is the result of expanding one or more top-level nodes.
// Screens and Notes are ordered and deduplicated by node ID, first
// occurrence wins. NodeDataByID accumulates every node encountered during
// expansion so later stages can resolve subtrees without re-fetching.
type ScreenCollection struct {
	Screens        []*DesignNode          `json:"screens"`
	Notes          []*DesignNode          `json:"notes"`
	NodeDataByID   map[string]*DesignNode `json:"-"`
	SectionContext *SectionContext        `json:"sectionContext,omitempty"`

	seenScreens map[string]struct{}
	seenNotes   map[string]struct{}
}

// NewScreenCollection creates an empty ScreenCollection.
func NewScreenCollection() *ScreenCollection {
	return &ScreenCollection{
		Screens:      make([]*DesignNode, 0),
		Notes:        make([]*DesignNode, 0),
		NodeDataByID: make(map[string]*DesignNode),
		seenScreens:  make(map[string]struct{}),
		seenNotes:    make(map[string]struct{}),
	}
}

// AddScreen appends a screen unless its ID was already added.
func (sc *ScreenCollection) AddScreen(n *DesignNode) {
	if _, ok := sc.seenScreens[n.ID]; ok {
		return
	}
	sc.seenScreens[n.ID] = struct{}{}
	sc.Screens = append(sc.Screens, n)
}

// AddNote appends a note unless its ID was already added.
func (sc *ScreenCollection) AddNote(n *DesignNode) {
	if _, ok := sc.seenNotes[n.ID]; ok {
		return
	}
	sc.seenNotes[n.ID] = struct{}{}
	sc.Notes = append(sc.Notes, n)
}

// RegisterNode records a node's raw data for later subtree lookups.
func (sc *ScreenCollection) RegisterNode(n *DesignNode) {
	if n == nil || n.ID == "" {
		return
	}
	sc.NodeDataByID[n.ID] = n
}

// Merge folds another collection into this one, preserving order and
// first-occurrence dedup.
func (sc *ScreenCollection) Merge(other *ScreenCollection) {
	if other == nil {
		return
	}
	for _, s := range other.Screens {
		sc.AddScreen(s)
	}
	for _, n := range other.Notes {
		sc.AddNote(n)
	}
	for id, n := range other.NodeDataByID {
		sc.NodeDataByID[id] = n
	}
}
