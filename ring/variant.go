package ring

import (
	"fmt"
	"strings"
)

// Variant selects the cross-section and contact topology of a ring.
type Variant uint8

const (
	// Convex rings carry a rounded lip on the bore that curves toward the lens.
	Convex Variant = iota
	// Concave rings carry a cove on the bore that cradles the lens edge.
	Concave
	// ThreePoint rings touch the lens on three raised pads 120° apart.
	ThreePoint
)

type variantInfo struct {
	Code        string
	Label       string
	Description string
}

// variants is consulted wherever a variant is displayed or encoded.
var variants = [...]variantInfo{
	Convex:     {Code: "CX", Label: "Convex", Description: "Curves inward toward lens"},
	Concave:    {Code: "CC", Label: "Concave", Description: "Curves outward from lens"},
	ThreePoint: {Code: "3P", Label: "Three-point", Description: "Minimal contact points"},
}

// Variants returns all variants in declaration order.
func Variants() []Variant {
	return []Variant{Convex, Concave, ThreePoint}
}

// Valid reports whether v is one of the declared variants.
func (v Variant) Valid() bool { return int(v) < len(variants) }

// Code returns the short code used in file names, i.e: "CX".
func (v Variant) Code() string {
	if !v.Valid() {
		return "??"
	}
	return variants[v].Code
}

// Label returns the human readable name, i.e: "Three-point".
func (v Variant) Label() string {
	if !v.Valid() {
		return fmt.Sprintf("Variant(%d)", uint8(v))
	}
	return variants[v].Label
}

// Description returns a one line description of the contact geometry.
func (v Variant) Description() string {
	if !v.Valid() {
		return ""
	}
	return variants[v].Description
}

func (v Variant) String() string { return v.Code() }

// ParseVariant parses a variant code ("CX", "3p"), label ("convex")
// or command line name, case insensitively.
func ParseVariant(s string) (Variant, error) {
	s = strings.TrimSpace(s)
	for _, v := range Variants() {
		info := variants[v]
		if strings.EqualFold(s, info.Code) || strings.EqualFold(s, info.Label) {
			return v, nil
		}
	}
	switch strings.ToLower(s) {
	case "three-point", "threepoint", "three_point":
		return ThreePoint, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownVariant, s)
}
