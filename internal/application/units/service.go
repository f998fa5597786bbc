// Package units maintains each unit's installed-part graph.
package units

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"quartermaster-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUnitNotFound   = errors.New("unit not found")
	ErrPartNotFound   = errors.New("part not found")
	ErrParentMismatch = errors.New("parent assembly belongs to another unit")
	ErrInvalidUnit    = errors.New("unit name is required")
	ErrPartOwned      = errors.New("part is held by storage or another unit")
)

// Graph stores installed parts. Parent links are plain ids; a child never keeps its
// parent alive and deleting either side leaves the other intact.
type Graph struct {
	DB *gorm.DB
}

// WithTx returns a Graph bound to tx.
func (g *Graph) WithTx(tx *gorm.DB) *Graph {
	return &Graph{DB: tx}
}

func (g *Graph) CreateUnit(ctx context.Context, name string, tonnage int) (*domain.Unit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidUnit
	}
	u := &domain.Unit{Name: name, Tonnage: tonnage}
	if err := g.DB.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

func (g *Graph) FindUnit(ctx context.Context, unitID uuid.UUID) (*domain.Unit, error) {
	var u domain.Unit
	if err := g.DB.WithContext(ctx).Where("unit_id = ?", unitID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnitNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (g *Graph) FindPart(ctx context.Context, partID uuid.UUID) (*domain.Part, error) {
	var p domain.Part
	if err := g.DB.WithContext(ctx).Where("part_id = ?", partID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (g *Graph) ordered(ctx context.Context) *gorm.DB {
	return g.DB.WithContext(ctx).Order(`"createdAt" ASC`).Order("part_id ASC")
}

// ListParts returns every part on the unit, placeholders included.
func (g *Graph) ListParts(ctx context.Context, unitID uuid.UUID) ([]domain.Part, error) {
	var parts []domain.Part
	if err := g.ordered(ctx).Where("unit_id = ?", unitID).Find(&parts).Error; err != nil {
		return nil, err
	}
	return parts, nil
}

// MissingParts returns the unit's placeholders in the order repairs visit them.
func (g *Graph) MissingParts(ctx context.Context, unitID uuid.UUID) ([]domain.Part, error) {
	var parts []domain.Part
	if err := g.ordered(ctx).Where("unit_id = ? AND missing = ?", unitID, true).Find(&parts).Error; err != nil {
		return nil, err
	}
	return parts, nil
}

func (g *Graph) Children(ctx context.Context, parentID uuid.UUID) ([]domain.Part, error) {
	var parts []domain.Part
	if err := g.ordered(ctx).Where("parent_part_id = ?", parentID).Find(&parts).Error; err != nil {
		return nil, err
	}
	return parts, nil
}

// AddPart mounts part on the unit. New parts are created; stored ones are moved.
func (g *Graph) AddPart(ctx context.Context, unitID uuid.UUID, part *domain.Part) error {
	if _, err := g.FindUnit(ctx, unitID); err != nil {
		return err
	}
	part.UnitID = &unitID
	if part.PartID == uuid.Nil {
		return g.DB.WithContext(ctx).Create(part).Error
	}
	return g.DB.WithContext(ctx).Model(part).Update("unit_id", unitID).Error
}

// RemovePart deletes part from the graph.
func (g *Graph) RemovePart(ctx context.Context, part *domain.Part) error {
	res := g.DB.WithContext(ctx).Where("part_id = ?", part.PartID).Delete(&domain.Part{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPartNotFound
	}
	return nil
}

// AddChildPart links child under parent.
func (g *Graph) AddChildPart(ctx context.Context, parent, child *domain.Part) error {
	if parent.UnitID != nil && child.UnitID != nil && *parent.UnitID != *child.UnitID {
		return ErrParentMismatch
	}
	res := g.DB.WithContext(ctx).Model(&domain.Part{}).
		Where("part_id = ?", child.PartID).
		Update("parent_part_id", parent.PartID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPartNotFound
	}
	pid := parent.PartID
	child.ParentPartID = &pid
	return nil
}

// UpdateConditionFromPart recomputes an assembly's condition as the share of its
// child slots that hold a working part. An assembly without children is intact.
func (g *Graph) UpdateConditionFromPart(ctx context.Context, parent *domain.Part) error {
	children, err := g.Children(ctx, parent.PartID)
	if err != nil {
		return err
	}
	condition := 1.0
	if len(children) > 0 {
		present := 0
		for _, c := range children {
			if !c.Missing {
				present++
			}
		}
		condition = float64(present) / float64(len(children))
	}
	if err := g.DB.WithContext(ctx).Model(&domain.Part{}).
		Where("part_id = ?", parent.PartID).
		Update("condition", condition).Error; err != nil {
		return err
	}
	parent.Condition = condition
	return nil
}

// Import restores saved parts onto the unit. Parts keep their ids so parent links
// survive; a part the unit already owns is overwritten. Ids held by storage or another
// unit are refused, since parts only change owner through a repair. Nothing is written
// unless every part is stored.
func (g *Graph) Import(ctx context.Context, unitID uuid.UUID, parts []*domain.Part) error {
	if _, err := g.FindUnit(ctx, unitID); err != nil {
		return err
	}
	incoming := make(map[uuid.UUID]bool, len(parts))
	for _, p := range parts {
		if p.PartID != uuid.Nil {
			incoming[p.PartID] = true
		}
	}
	return g.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tg := g.WithTx(tx)
		for _, p := range parts {
			if p.PartID != uuid.Nil {
				existing, err := tg.FindPart(ctx, p.PartID)
				switch {
				case errors.Is(err, ErrPartNotFound):
				case err != nil:
					return err
				case existing.UnitID == nil || *existing.UnitID != unitID:
					return fmt.Errorf("%w: %s", ErrPartOwned, p.PartID)
				}
			}
			if p.ParentPartID != nil && !incoming[*p.ParentPartID] {
				parent, err := tg.FindPart(ctx, *p.ParentPartID)
				switch {
				case errors.Is(err, ErrPartNotFound):
					p.ParentPartID = nil
				case err != nil:
					return err
				case parent.UnitID == nil || *parent.UnitID != unitID:
					return ErrParentMismatch
				}
			}
			id := unitID
			p.UnitID = &id
			if p.Missing {
				p.Quantity = 0
			} else {
				p.Quantity = 1
			}
			if err := tx.Save(p).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// AddAssembly mounts a transport bay on the unit.
func (g *Graph) AddAssembly(ctx context.Context, unitID uuid.UUID, bay domain.BayType) (*domain.Part, error) {
	u, err := g.FindUnit(ctx, unitID)
	if err != nil {
		return nil, err
	}
	p := domain.NewTransportBay(u.Tonnage, bay)
	if err := g.AddPart(ctx, unitID, p); err != nil {
		return nil, err
	}
	return p, nil
}

// AddMissingPart records a destroyed cubicle as a placeholder on the unit, linked
// under parentID when given, and refreshes the parent's condition.
func (g *Graph) AddMissingPart(ctx context.Context, unitID uuid.UUID, parentID *uuid.UUID, bay domain.BayType) (*domain.Part, error) {
	var p *domain.Part
	err := g.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tg := g.WithTx(tx)
		u, err := tg.FindUnit(ctx, unitID)
		if err != nil {
			return err
		}
		var parent *domain.Part
		if parentID != nil {
			if parent, err = tg.FindPart(ctx, *parentID); err != nil {
				return err
			}
			if parent.UnitID == nil || *parent.UnitID != unitID {
				return ErrParentMismatch
			}
		}
		slot := domain.NewMissingCubicle(u.Tonnage, bay)
		if err := tg.AddPart(ctx, unitID, slot); err != nil {
			return err
		}
		if parent != nil {
			if err := tg.AddChildPart(ctx, parent, slot); err != nil {
				return err
			}
			if err := tg.UpdateConditionFromPart(ctx, parent); err != nil {
				return err
			}
		}
		p = slot
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}
