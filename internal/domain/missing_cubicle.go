package domain

import (
	"errors"
	"time"
)

const (
	// BaseTimeMinutes is the scheduled work time for replacing a cubicle: one in-game week.
	BaseTimeMinutes = 3360
	// NoCheckRequired is the difficulty of work that needs no skill roll.
	NoCheckRequired = -1
	// LocNone means the part is not in a hit location.
	LocNone = -1
)

var ErrNotPlaceholder = errors.New("part is not a missing cubicle")

// MissingCubicle is the placeholder left in a unit when a cubicle is destroyed or
// removed. It requests a replacement and never holds stock.
type MissingCubicle struct {
	*Part
}

// NewMissingCubicle builds a placeholder row for the given kind.
func NewMissingCubicle(unitTonnage int, bay BayType) *Part {
	p := &Part{
		PartType:    PartTypeCubicle,
		Missing:     true,
		BayType:     bay,
		UnitTonnage: unitTonnage,
		Condition:   0,
	}
	if bay.Valid() {
		p.Name = bay.DisplayName() + " Cubicle"
	}
	return p
}

// AsMissingCubicle views p as a placeholder.
func AsMissingCubicle(p *Part) (MissingCubicle, error) {
	if p == nil || !p.Missing || p.PartType != PartTypeCubicle {
		return MissingCubicle{}, ErrNotPlaceholder
	}
	return MissingCubicle{Part: p}, nil
}

// IsAcceptableReplacement reports whether candidate can fill this slot: it must be a
// concrete cubicle of exactly the same bay type. Tonnage and refit play no part.
func (m MissingCubicle) IsAcceptableReplacement(candidate *Part, refit bool) bool {
	return candidate != nil &&
		!candidate.Missing &&
		candidate.PartType == PartTypeCubicle &&
		candidate.BayType == m.BayType
}

func (m MissingCubicle) BaseTime() time.Duration {
	return BaseTimeMinutes * time.Minute
}

func (m MissingCubicle) Difficulty() int {
	return NoCheckRequired
}

func (m MissingCubicle) Location() int {
	return LocNone
}

func (m MissingCubicle) LocationName() string {
	return ""
}

// CheckFixable returns a reason the work cannot start, or "".
func (m MissingCubicle) CheckFixable() string {
	return ""
}

// DisplayName prefers the parent assembly's name when one is known.
func (m MissingCubicle) DisplayName(parent *Part) string {
	if parent != nil {
		return parent.Name + " Cubicle"
	}
	return m.Name
}

func (m MissingCubicle) Tonnage() float64 {
	return m.BayType.Weight()
}

func (m MissingCubicle) TechAdvancement() BayType {
	return m.BayType
}

// NewPart is the part to acquire for this slot.
func (m MissingCubicle) NewPart() *Part {
	return NewCubicle(m.UnitTonnage, m.BayType)
}

// NewReplacement copies the matched spare's kind data into a fresh instance sized
// for the placeholder's unit.
func (m MissingCubicle) NewReplacement(match *Part) *Part {
	r := match.Clone()
	r.UnitTonnage = m.UnitTonnage
	r.Condition = 1
	return r
}
