// Package quartermaster is the shared store of spare parts.
package quartermaster

import (
	"context"
	"errors"
	"fmt"

	"quartermaster-backend/internal/domain"

	"gorm.io/gorm"
)

var (
	// ErrQuantityUnderflow means a decrement would drive a stack below zero. The
	// resolver's critical section makes this unreachable; seeing it means a caller
	// mutated stock outside that section.
	ErrQuantityUnderflow = errors.New("inventory quantity would become negative")
	// ErrMountedStock is returned when stock quantity is added for a mounted part.
	ErrMountedStock = errors.New("mounted parts carry no stock quantity")
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrInvalidBayType = errors.New("unknown bay type")
)

// Store is the gorm-backed quartermaster. The zero value is not usable.
type Store struct {
	DB *gorm.DB
}

// WithTx returns a Store bound to tx.
func (s *Store) WithTx(tx *gorm.DB) *Store {
	return &Store{DB: tx}
}

func (s *Store) spares(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx).
		Where("unit_id IS NULL AND missing = ? AND quantity > 0", false).
		Order(`"createdAt" ASC`).
		Order("part_id ASC")
}

// FindBestMatch returns the oldest spare stack accepted by match, or nil when there
// is none. Ties on age break on the lower part id, so repeated calls over the same
// stock choose the same stack.
func (s *Store) FindBestMatch(ctx context.Context, match func(*domain.Part) bool) (*domain.Part, error) {
	var candidates []domain.Part
	if err := s.spares(ctx).Find(&candidates).Error; err != nil {
		return nil, err
	}
	for i := range candidates {
		if match(&candidates[i]) {
			return &candidates[i], nil
		}
	}
	return nil, nil
}

// DecrementQuantity removes amount units from a spare stack. The update is a
// compare-and-decrement, so it cannot take a stack below zero.
func (s *Store) DecrementQuantity(ctx context.Context, part *domain.Part, amount int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	res := s.DB.WithContext(ctx).Model(&domain.Part{}).
		Where("part_id = ? AND unit_id IS NULL AND quantity >= ?", part.PartID, amount).
		Update("quantity", gorm.Expr("quantity - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: part %s by %d", ErrQuantityUnderflow, part.PartID, amount)
	}
	part.Quantity -= amount
	return nil
}

// AddPart registers part with the quartermaster. A spare is merged into an identical
// stack when one exists, otherwise stored with the given quantity. A mounted part is
// recorded for accounting with quantity 1 and adds nothing to stock.
func (s *Store) AddPart(ctx context.Context, part *domain.Part, quantity int) (*domain.Part, error) {
	if quantity < 0 {
		return nil, ErrInvalidAmount
	}
	if !part.BayType.Valid() {
		return nil, ErrInvalidBayType
	}
	db := s.DB.WithContext(ctx)

	if !part.InStorage() {
		if quantity != 0 {
			return nil, ErrMountedStock
		}
		part.Quantity = 1
		if err := db.Save(part).Error; err != nil {
			return nil, err
		}
		return part, nil
	}

	var stack domain.Part
	err := db.Where("unit_id IS NULL AND missing = ? AND part_type = ? AND bay_type = ? AND unit_tonnage = ?",
		false, part.PartType, part.BayType, part.UnitTonnage).
		Order(`"createdAt" ASC`).Order("part_id ASC").
		First(&stack).Error
	switch {
	case err == nil:
		if err := db.Model(&stack).Update("quantity", gorm.Expr("quantity + ?", quantity)).Error; err != nil {
			return nil, err
		}
		stack.Quantity += quantity
		return &stack, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		part.Quantity = quantity
		if err := db.Create(part).Error; err != nil {
			return nil, err
		}
		return part, nil
	default:
		return nil, err
	}
}

// ListSpares returns every stocked stack, oldest first.
func (s *Store) ListSpares(ctx context.Context) ([]domain.Part, error) {
	var parts []domain.Part
	if err := s.spares(ctx).Find(&parts).Error; err != nil {
		return nil, err
	}
	return parts, nil
}

// StockOf returns the total spare quantity of one bay type.
func (s *Store) StockOf(ctx context.Context, bay domain.BayType) (int, error) {
	var total int64
	err := s.DB.WithContext(ctx).Model(&domain.Part{}).
		Where("unit_id IS NULL AND missing = ? AND part_type = ? AND bay_type = ?", false, domain.PartTypeCubicle, bay).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return int(total), nil
}
