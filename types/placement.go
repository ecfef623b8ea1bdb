package types

import (
	"fmt"
	"strings"
)

// PlacementMode selects which command configuration drives placement.
// The two modes are mutually exclusive.
type PlacementMode uint8

const (
	// ElementFill places one copy of a single template on every element.
	ElementFill PlacementMode = iota
	// Lattice places a node template on every node and an edge template on
	// every unique edge.
	Lattice
)

var PlacementModeNameMap = map[string]PlacementMode{
	"elementfill": ElementFill,
	"element":     ElementFill,
	"elements":    ElementFill,
	"fill":        ElementFill,
	"lattice":     Lattice,
	"joint":       Lattice,
	"joints":      Lattice,
}

func (pm PlacementMode) String() string {
	switch pm {
	case ElementFill:
		return "ElementFill"
	case Lattice:
		return "Lattice"
	default:
		return fmt.Sprintf("PlacementMode(%d)", uint8(pm))
	}
}

// NewPlacementMode parses a mode name, case insensitive. An empty name
// selects ElementFill.
func NewPlacementMode(label string) (pm PlacementMode, err error) {
	label = strings.ToLower(strings.TrimSpace(label))
	if len(label) == 0 {
		return ElementFill, nil
	}
	var ok bool
	if pm, ok = PlacementModeNameMap[label]; !ok {
		err = NewSelectionError("unknown placement mode %q, use ElementFill or Lattice", label)
	}
	return
}
