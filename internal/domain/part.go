package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Part types stored in Parts.part_type.
const (
	PartTypeCubicle      = "Cubicle"
	PartTypeTransportBay = "TransportBay"
)

// Part is one part instance: a spare stack in the quartermaster store (UnitID nil),
// a part mounted on a unit, or a missing-part placeholder (Missing true).
// ParentPartID is a weak handle into the same table; it never implies ownership.
type Part struct {
	PartID       uuid.UUID  `gorm:"column:part_id;type:uuid;primaryKey" json:"part_id"`
	UnitID       *uuid.UUID `gorm:"column:unit_id;type:uuid;index" json:"unit_id"`
	ParentPartID *uuid.UUID `gorm:"column:parent_part_id;type:uuid;index" json:"parent_part_id"`
	PartType     string     `gorm:"column:part_type;type:varchar(30);not null" json:"part_type"`
	Missing      bool       `gorm:"column:missing;not null;default:false" json:"missing"`
	BayType      BayType    `gorm:"column:bay_type;type:varchar(32)" json:"bay_type"`
	Name         string     `gorm:"column:name;type:varchar(100)" json:"name"`
	UnitTonnage  int        `gorm:"column:unit_tonnage;not null;default:0" json:"unit_tonnage"`
	Quantity     int        `gorm:"column:quantity;not null;default:0" json:"quantity"`
	Condition    float64    `gorm:"column:condition;not null" json:"condition"`
	CreatedAt    time.Time  `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt    time.Time  `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Part) TableName() string {
	return "Parts"
}

func (p *Part) BeforeCreate(tx *gorm.DB) error {
	if p.PartID == uuid.Nil {
		p.PartID = uuid.New()
	}
	return nil
}

// InStorage reports whether the quartermaster owns the part.
func (p *Part) InStorage() bool {
	return p.UnitID == nil
}

// IsSpare reports whether the part can be drawn from storage.
func (p *Part) IsSpare() bool {
	return p.InStorage() && !p.Missing && p.Quantity > 0
}

// Clone returns a copy that shares no references with p. The copy has no id,
// owner, or parent and a quantity of one.
func (p *Part) Clone() *Part {
	return &Part{
		PartType:    p.PartType,
		Missing:     p.Missing,
		BayType:     p.BayType,
		Name:        p.Name,
		UnitTonnage: p.UnitTonnage,
		Quantity:    1,
		Condition:   p.Condition,
	}
}

// NewCubicle builds a concrete cubicle of the given kind.
func NewCubicle(unitTonnage int, bay BayType) *Part {
	return &Part{
		PartType:    PartTypeCubicle,
		BayType:     bay,
		Name:        bay.DisplayName() + " Cubicle",
		UnitTonnage: unitTonnage,
		Quantity:    1,
		Condition:   1,
	}
}

// NewTransportBay builds a parent assembly housing cubicles of the given kind.
func NewTransportBay(unitTonnage int, bay BayType) *Part {
	return &Part{
		PartType:    PartTypeTransportBay,
		BayType:     bay,
		Name:        bay.DisplayName() + " Bay",
		UnitTonnage: unitTonnage,
		Quantity:    1,
		Condition:   1,
	}
}

// Unit owns the parts mounted on it.
type Unit struct {
	UnitID    uuid.UUID `gorm:"column:unit_id;type:uuid;primaryKey" json:"unit_id"`
	Name      string    `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Tonnage   int       `gorm:"column:tonnage;not null;default:0" json:"tonnage"`
	CreatedAt time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Unit) TableName() string {
	return "Units"
}

func (u *Unit) BeforeCreate(tx *gorm.DB) error {
	if u.UnitID == uuid.Nil {
		u.UnitID = uuid.New()
	}
	return nil
}
