package models

// CompactionRules are the tunable heuristic thresholds of the compactor.
// The defaults reproduce the reference behavior; a deployment may override
// them with a YAML rules file.
type CompactionRules struct {
	// OpacityThreshold: nodes with opacity below this are decorative.
	OpacityThreshold float64 `yaml:"opacityThreshold" json:"opacityThreshold"`
	// DecorativeMaxSize: nodes at or under this square size are decorative.
	DecorativeMaxSize float64 `yaml:"decorativeMaxSize" json:"decorativeMaxSize"`
	// IconMaxSize: bounding box side length under which a vector-heavy
	// node collapses to a self-closing icon tag.
	IconMaxSize float64 `yaml:"iconMaxSize" json:"iconMaxSize"`
	// DecorativeNames: names (lowercased) treated as decorative.
	DecorativeNames []string `yaml:"decorativeNames" json:"decorativeNames"`
	// WrapperSuffix: name suffix (lowercased) treated as decorative.
	WrapperSuffix string `yaml:"wrapperSuffix" json:"wrapperSuffix"`
	// InteractivePattern: regex over names that marks a node interactive.
	InteractivePattern string `yaml:"interactivePattern" json:"interactivePattern"`
}

// DefaultCompactionRules returns the reference thresholds.
func DefaultCompactionRules() *CompactionRules {
	return &CompactionRules{
		OpacityThreshold:   0.1,
		DecorativeMaxSize:  2,
		IconMaxSize:        48,
		DecorativeNames:    []string{"background", "pixel", "divider"},
		WrapperSuffix:      "-wrapper",
		InteractivePattern: `button|btn|click|action`,
	}
}
