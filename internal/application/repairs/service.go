// Package repairs replaces missing cubicles with spares drawn from the quartermaster.
package repairs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"quartermaster-backend/internal/application/quartermaster"
	"quartermaster-backend/internal/application/units"
	"quartermaster-backend/internal/domain"
	"quartermaster-backend/internal/infrastructure/lock"
	"quartermaster-backend/internal/infrastructure/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// InventoryLockKey names the critical section around stock selection and mutation.
const InventoryLockKey = "quartermaster"

var (
	ErrPlaceholderNotFound = errors.New("placeholder not found")
	ErrNotMissing          = errors.New("part is not a missing cubicle on a unit")
)

// Inventory is the spare-part store the resolver draws from.
type Inventory interface {
	FindBestMatch(ctx context.Context, match func(*domain.Part) bool) (*domain.Part, error)
	DecrementQuantity(ctx context.Context, part *domain.Part, amount int) error
	AddPart(ctx context.Context, part *domain.Part, quantity int) (*domain.Part, error)
	ListSpares(ctx context.Context) ([]domain.Part, error)
}

// PartGraph is the installed-part graph the resolver mounts replacements into.
type PartGraph interface {
	FindUnit(ctx context.Context, unitID uuid.UUID) (*domain.Unit, error)
	FindPart(ctx context.Context, partID uuid.UUID) (*domain.Part, error)
	MissingParts(ctx context.Context, unitID uuid.UUID) ([]domain.Part, error)
	AddPart(ctx context.Context, unitID uuid.UUID, part *domain.Part) error
	RemovePart(ctx context.Context, part *domain.Part) error
	AddChildPart(ctx context.Context, parent, child *domain.Part) error
	UpdateConditionFromPart(ctx context.Context, parent *domain.Part) error
}

// Service resolves placeholders. Inventory and Graph bind a store to the
// transaction each attempt runs in.
type Service struct {
	DB        *gorm.DB
	Inventory func(tx *gorm.DB) Inventory
	Graph     func(tx *gorm.DB) PartGraph
	Locker    lock.Locker
	Log       zerolog.Logger
}

func NewService(db *gorm.DB, locker lock.Locker, log zerolog.Logger) *Service {
	return &Service{
		DB:        db,
		Inventory: func(tx *gorm.DB) Inventory { return &quartermaster.Store{DB: tx} },
		Graph:     func(tx *gorm.DB) PartGraph { return &units.Graph{DB: tx} },
		Locker:    locker,
		Log:       log.With().Str("component", "repairs").Logger(),
	}
}

// Result is the outcome of one replacement attempt.
type Result struct {
	PlaceholderID uuid.UUID      `json:"placeholder_id"`
	BayType       domain.BayType `json:"bay_type"`
	Fixed         bool           `json:"fixed"`
	ReplacementID *uuid.UUID     `json:"replacement_id,omitempty"`
	SourcePartID  *uuid.UUID     `json:"source_part_id,omitempty"`
}

// AttemptFix looks for an acceptable spare for the placeholder and, when one exists,
// mounts a copy in its place and draws one unit from stock. Without a spare nothing
// is written and Fixed is false. Every write of a successful attempt commits
// together or not at all.
func (s *Service) AttemptFix(ctx context.Context, placeholderID uuid.UUID) (Result, error) {
	unlock, err := s.Locker.Lock(ctx, InventoryLockKey)
	if err != nil {
		metrics.RepairsTotal.WithLabelValues(metrics.ResultError).Inc()
		return Result{PlaceholderID: placeholderID}, err
	}
	defer unlock()

	var res Result
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		res, err = s.fix(ctx, tx, placeholderID)
		return err
	})
	if err != nil {
		metrics.RepairsTotal.WithLabelValues(metrics.ResultError).Inc()
		ev := s.Log.Warn()
		if errors.Is(err, quartermaster.ErrQuantityUnderflow) {
			ev = s.Log.Error()
		}
		ev.Err(err).Str("placeholder_id", placeholderID.String()).Msg("replacement rolled back")
		return Result{PlaceholderID: placeholderID}, err
	}

	if !res.Fixed {
		metrics.RepairsTotal.WithLabelValues(metrics.ResultUnresolved).Inc()
		s.Log.Debug().
			Str("placeholder_id", placeholderID.String()).
			Str("bay_type", res.BayType.String()).
			Msg("no spare available")
		return res, nil
	}
	metrics.RepairsTotal.WithLabelValues(metrics.ResultFixed).Inc()
	metrics.SparesConsumed.WithLabelValues(res.BayType.String()).Inc()
	s.Log.Info().
		Str("placeholder_id", placeholderID.String()).
		Str("replacement_id", res.ReplacementID.String()).
		Str("source_part_id", res.SourcePartID.String()).
		Str("bay_type", res.BayType.String()).
		Msg("placeholder replaced")
	return res, nil
}

func (s *Service) fix(ctx context.Context, tx *gorm.DB, placeholderID uuid.UUID) (Result, error) {
	inv := s.Inventory(tx)
	graph := s.Graph(tx)

	p, err := graph.FindPart(ctx, placeholderID)
	if err != nil {
		if errors.Is(err, units.ErrPartNotFound) {
			return Result{}, ErrPlaceholderNotFound
		}
		return Result{}, err
	}
	slot, err := domain.AsMissingCubicle(p)
	if err != nil || p.UnitID == nil {
		return Result{}, ErrNotMissing
	}
	res := Result{PlaceholderID: p.PartID, BayType: p.BayType}

	match, err := inv.FindBestMatch(ctx, func(c *domain.Part) bool {
		return slot.IsAcceptableReplacement(c, false)
	})
	if err != nil {
		return Result{}, err
	}
	if match == nil {
		return res, nil
	}

	unitID := *p.UnitID
	replacement := slot.NewReplacement(match)
	if err := graph.AddPart(ctx, unitID, replacement); err != nil {
		return Result{}, fmt.Errorf("mount replacement: %w", err)
	}
	if _, err := inv.AddPart(ctx, replacement, 0); err != nil {
		return Result{}, fmt.Errorf("register replacement: %w", err)
	}
	if err := inv.DecrementQuantity(ctx, match, 1); err != nil {
		return Result{}, err
	}
	if err := graph.RemovePart(ctx, p); err != nil {
		return Result{}, fmt.Errorf("remove placeholder: %w", err)
	}

	if p.ParentPartID != nil {
		parent, err := graph.FindPart(ctx, *p.ParentPartID)
		switch {
		case errors.Is(err, units.ErrPartNotFound):
			// parent link is weak; the assembly may already be gone
		case err != nil:
			return Result{}, err
		default:
			if err := graph.AddChildPart(ctx, parent, replacement); err != nil {
				return Result{}, fmt.Errorf("link replacement: %w", err)
			}
			if err := graph.UpdateConditionFromPart(ctx, parent); err != nil {
				return Result{}, fmt.Errorf("update parent condition: %w", err)
			}
		}
	}

	data, err := json.Marshal(map[string]interface{}{
		"bay_type":       p.BayType.String(),
		"name":           replacement.Name,
		"unit_tonnage":   replacement.UnitTonnage,
		"parent_part_id": p.ParentPartID,
		"base_minutes":   int(slot.BaseTime().Minutes()),
	})
	if err != nil {
		return Result{}, err
	}
	event := domain.RepairEvent{
		EventType:     domain.RepairEventFixed,
		UnitID:        unitID,
		PlaceholderID: p.PartID,
		ReplacementID: replacement.PartID,
		SourcePartID:  match.PartID,
		EventData:     datatypes.JSON(data),
	}
	if err := tx.WithContext(ctx).Create(&event).Error; err != nil {
		return Result{}, err
	}

	rid, sid := replacement.PartID, match.PartID
	res.Fixed = true
	res.ReplacementID = &rid
	res.SourcePartID = &sid
	return res, nil
}

// FixAll attempts every placeholder on the unit, oldest first. A placeholder that
// disappears between listing and fixing is skipped.
func (s *Service) FixAll(ctx context.Context, unitID uuid.UUID) ([]Result, error) {
	graph := s.Graph(s.DB)
	if _, err := graph.FindUnit(ctx, unitID); err != nil {
		return nil, err
	}
	missing, err := graph.MissingParts(ctx, unitID)
	if err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(missing))
	for _, p := range missing {
		res, err := s.AttemptFix(ctx, p.PartID)
		if errors.Is(err, ErrPlaceholderNotFound) {
			continue
		}
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// ShoppingItem is a part to acquire for a placeholder current stock cannot cover.
type ShoppingItem struct {
	PlaceholderID uuid.UUID    `json:"placeholder_id"`
	Name          string       `json:"name"`
	Part          *domain.Part `json:"part"`
}

// ShoppingList walks the unit's placeholders in repair order against a snapshot of
// stock and lists a new part for each one that would stay unresolved.
func (s *Service) ShoppingList(ctx context.Context, unitID uuid.UUID) ([]ShoppingItem, error) {
	graph := s.Graph(s.DB)
	if _, err := graph.FindUnit(ctx, unitID); err != nil {
		return nil, err
	}
	missing, err := graph.MissingParts(ctx, unitID)
	if err != nil {
		return nil, err
	}
	spares, err := s.Inventory(s.DB).ListSpares(ctx)
	if err != nil {
		return nil, err
	}

	items := []ShoppingItem{}
	for i := range missing {
		slot, err := domain.AsMissingCubicle(&missing[i])
		if err != nil {
			continue
		}
		covered := false
		for j := range spares {
			if spares[j].Quantity > 0 && slot.IsAcceptableReplacement(&spares[j], false) {
				spares[j].Quantity--
				covered = true
				break
			}
		}
		if covered {
			continue
		}
		var parent *domain.Part
		if slot.ParentPartID != nil {
			parent, _ = graph.FindPart(ctx, *slot.ParentPartID)
		}
		items = append(items, ShoppingItem{
			PlaceholderID: slot.PartID,
			Name:          slot.DisplayName(parent),
			Part:          slot.NewPart(),
		})
	}
	return items, nil
}
