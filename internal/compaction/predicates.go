package compaction

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/design-compactor/backend/internal/models"
)

// genericWrapperRe matches anonymous layout container names.
var genericWrapperRe = regexp.MustCompile(`^(Frame|Group) \d+$`)

// Heuristics holds the compiled heuristic predicates of the compactor.
// All predicates are pure functions over node shape.
type Heuristics struct {
	opacityThreshold  float64
	decorativeMaxSize float64
	iconMaxSize       float64
	decorativeNames   map[string]struct{}
	wrapperSuffix     string
	interactiveRe     *regexp.Regexp
}

// NewHeuristics compiles a rule set into predicates.
func NewHeuristics(rules *models.CompactionRules) (*Heuristics, error) {
	if rules == nil {
		rules = models.DefaultCompactionRules()
	}

	re, err := regexp.Compile(`(?i)` + rules.InteractivePattern)
	if err != nil {
		return nil, fmt.Errorf("compiling interactive pattern: %w", err)
	}

	names := make(map[string]struct{}, len(rules.DecorativeNames))
	for _, name := range rules.DecorativeNames {
		names[strings.ToLower(name)] = struct{}{}
	}

	return &Heuristics{
		opacityThreshold:  rules.OpacityThreshold,
		decorativeMaxSize: rules.DecorativeMaxSize,
		iconMaxSize:       rules.IconMaxSize,
		decorativeNames:   names,
		wrapperSuffix:     strings.ToLower(rules.WrapperSuffix),
		interactiveRe:     re,
	}, nil
}

// DefaultHeuristics returns predicates compiled from the reference rules.
func DefaultHeuristics() *Heuristics {
	h, err := NewHeuristics(models.DefaultCompactionRules())
	if err != nil {
		// Default rules are compiled constants; this cannot fail.
		panic(err)
	}
	return h
}

// IsDecorative reports whether a node carries no behavioral meaning:
// near-transparent, degenerate or tiny bounding box, or a spacer-style name.
func (h *Heuristics) IsDecorative(n *models.DesignNode) bool {
	if n.Opacity != nil && *n.Opacity < h.opacityThreshold {
		return true
	}
	if bb := n.AbsoluteBoundingBox; bb != nil {
		if bb.Width == 0 || bb.Height == 0 {
			return true
		}
		if bb.Width <= h.decorativeMaxSize && bb.Height <= h.decorativeMaxSize {
			return true
		}
	}
	name := strings.ToLower(n.Name)
	if h.wrapperSuffix != "" && strings.HasSuffix(name, h.wrapperSuffix) {
		return true
	}
	_, ok := h.decorativeNames[name]
	return ok
}

// IsIcon reports whether a node should collapse to a self-closing icon tag:
// named like an icon, or small enough with mostly vector children.
func (h *Heuristics) IsIcon(n *models.DesignNode) bool {
	if strings.Contains(strings.ToLower(n.Name), "icon") {
		return true
	}
	bb := n.AbsoluteBoundingBox
	if bb == nil || bb.Width > h.iconMaxSize || bb.Height > h.iconMaxSize {
		return false
	}
	if len(n.Children) == 0 {
		return false
	}
	vectors := 0
	for _, c := range n.Children {
		if c.Type == models.NodeTypeVector {
			vectors++
		}
	}
	return vectors*2 > len(n.Children)
}

// IsGenericWrapper reports whether a container contributes no tag of its own:
// an unnamed or auto-named Frame/Group, or a Frame literally named "Text".
func (h *Heuristics) IsGenericWrapper(n *models.DesignNode) bool {
	if n.Type != models.NodeTypeFrame && n.Type != models.NodeTypeGroup {
		return false
	}
	if n.Name == "" || genericWrapperRe.MatchString(n.Name) {
		return true
	}
	return n.Type == models.NodeTypeFrame && n.Name == "Text"
}

// IsInteractive reports whether a node looks actionable: an interaction
// reaction is attached, or the name suggests a control.
func (h *Heuristics) IsInteractive(n *models.DesignNode) bool {
	if len(n.Reactions) > 0 {
		return true
	}
	return h.interactiveRe.MatchString(n.Name)
}
