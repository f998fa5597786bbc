package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RepairEventFixed marks a placeholder that was replaced from stock.
const RepairEventFixed = "FIXED"

// RepairEvent is the audit row written with every successful replacement.
type RepairEvent struct {
	EventID       uuid.UUID      `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	EventType     string         `gorm:"column:event_type;type:varchar(30);not null" json:"event_type"`
	UnitID        uuid.UUID      `gorm:"column:unit_id;type:uuid;not null;index" json:"unit_id"`
	PlaceholderID uuid.UUID      `gorm:"column:placeholder_id;type:uuid;not null" json:"placeholder_id"`
	ReplacementID uuid.UUID      `gorm:"column:replacement_id;type:uuid;not null" json:"replacement_id"`
	SourcePartID  uuid.UUID      `gorm:"column:source_part_id;type:uuid;not null" json:"source_part_id"`
	EventData     datatypes.JSON `gorm:"column:event_data;type:jsonb;not null" json:"event_data"`
	CreatedAt     time.Time      `gorm:"column:createdAt" json:"createdAt"`
}

func (RepairEvent) TableName() string {
	return "RepairEvents"
}

func (e *RepairEvent) BeforeCreate(tx *gorm.DB) error {
	if e.EventID == uuid.Nil {
		e.EventID = uuid.New()
	}
	return nil
}
