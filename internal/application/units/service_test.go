package units

import (
	"context"
	"errors"
	"testing"

	"quartermaster-backend/internal/domain"
	"quartermaster-backend/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupGraph(t *testing.T) (*Graph, *domain.Unit) {
	g := &Graph{DB: testutil.NewDB(t)}
	u, err := g.CreateUnit(context.Background(), "Union DropShip", 3500)
	require.NoError(t, err)
	return g, u
}

func TestCreateUnit(t *testing.T) {
	g := &Graph{DB: testutil.NewDB(t)}
	ctx := context.Background()

	_, err := g.CreateUnit(ctx, "   ", 100)
	assert.ErrorIs(t, err, ErrInvalidUnit)

	u, err := g.CreateUnit(ctx, " Leopard ", 1900)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, u.UnitID)

	found, err := g.FindUnit(ctx, u.UnitID)
	require.NoError(t, err)
	assert.Equal(t, "Leopard", found.Name)
	assert.Equal(t, 1900, found.Tonnage)

	_, err = g.FindUnit(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrUnitNotFound)
}

func TestAddMissingPart_UpdatesParentCondition(t *testing.T) {
	g, u := setupGraph(t)
	ctx := context.Background()

	bay, err := g.AddAssembly(ctx, u.UnitID, domain.BayMek)
	require.NoError(t, err)

	installed := domain.NewCubicle(u.Tonnage, domain.BayMek)
	require.NoError(t, g.AddPart(ctx, u.UnitID, installed))
	require.NoError(t, g.AddChildPart(ctx, bay, installed))
	require.NoError(t, g.UpdateConditionFromPart(ctx, bay))
	assert.Equal(t, 1.0, bay.Condition)

	missing, err := g.AddMissingPart(ctx, u.UnitID, &bay.PartID, domain.BayMek)
	require.NoError(t, err)
	assert.True(t, missing.Missing)
	assert.Equal(t, u.Tonnage, missing.UnitTonnage)
	require.NotNil(t, missing.ParentPartID)
	assert.Equal(t, bay.PartID, *missing.ParentPartID)

	stored, err := g.FindPart(ctx, bay.PartID)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, stored.Condition, 1e-9)

	placeholder, err := g.FindPart(ctx, missing.PartID)
	require.NoError(t, err)
	assert.True(t, placeholder.Missing)
	assert.Equal(t, 0.0, placeholder.Condition)

	children, err := g.Children(ctx, bay.PartID)
	require.NoError(t, err)
	assert.Len(t, children, 2)
}

func TestAddMissingPart_WithoutParent(t *testing.T) {
	g, u := setupGraph(t)
	ctx := context.Background()

	p, err := g.AddMissingPart(ctx, u.UnitID, nil, domain.BayFighter)
	require.NoError(t, err)
	assert.Nil(t, p.ParentPartID)

	missing, err := g.MissingParts(ctx, u.UnitID)
	require.NoError(t, err)
	require.Len(t, missing, 1)
	assert.Equal(t, p.PartID, missing[0].PartID)
	assert.Equal(t, domain.BayFighter, missing[0].BayType)
}

func TestAddMissingPart_RejectsForeignParent(t *testing.T) {
	g, u := setupGraph(t)
	ctx := context.Background()

	other, err := g.CreateUnit(ctx, "Overlord", 9700)
	require.NoError(t, err)
	foreign, err := g.AddAssembly(ctx, other.UnitID, domain.BayMek)
	require.NoError(t, err)

	_, err = g.AddMissingPart(ctx, u.UnitID, &foreign.PartID, domain.BayMek)
	assert.ErrorIs(t, err, ErrParentMismatch)

	_, err = g.AddMissingPart(ctx, uuid.New(), nil, domain.BayMek)
	assert.ErrorIs(t, err, ErrUnitNotFound)

	ghost := uuid.New()
	_, err = g.AddMissingPart(ctx, u.UnitID, &ghost, domain.BayMek)
	assert.ErrorIs(t, err, ErrPartNotFound)
}

func TestRemovePart_LeavesParentIntact(t *testing.T) {
	g, u := setupGraph(t)
	ctx := context.Background()

	bay, err := g.AddAssembly(ctx, u.UnitID, domain.BayVehicleHeavy)
	require.NoError(t, err)
	child, err := g.AddMissingPart(ctx, u.UnitID, &bay.PartID, domain.BayVehicleHeavy)
	require.NoError(t, err)

	require.NoError(t, g.RemovePart(ctx, child))
	assert.ErrorIs(t, g.RemovePart(ctx, child), ErrPartNotFound)

	_, err = g.FindPart(ctx, bay.PartID)
	require.NoError(t, err)

	parts, err := g.ListParts(ctx, u.UnitID)
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, bay.PartID, parts[0].PartID)

	require.NoError(t, g.UpdateConditionFromPart(ctx, bay))
	assert.Equal(t, 1.0, bay.Condition)
}

func TestAddPart_MovesStoredPart(t *testing.T) {
	g, u := setupGraph(t)
	ctx := context.Background()

	spare := domain.NewCubicle(0, domain.BayMek)
	require.NoError(t, g.DB.Create(spare).Error)
	require.True(t, spare.InStorage())

	require.NoError(t, g.AddPart(ctx, u.UnitID, spare))

	stored, err := g.FindPart(ctx, spare.PartID)
	require.NoError(t, err)
	require.NotNil(t, stored.UnitID)
	assert.Equal(t, u.UnitID, *stored.UnitID)

	assert.ErrorIs(t, g.AddPart(ctx, uuid.New(), domain.NewCubicle(0, domain.BayMek)), ErrUnitNotFound)
}

func TestImport_RestoresPartsOntoUnit(t *testing.T) {
	g, u := setupGraph(t)
	ctx := context.Background()

	bay := domain.NewTransportBay(0, domain.BayFighter)
	bay.PartID = uuid.New()
	slot := domain.NewMissingCubicle(0, domain.BayFighter)
	slot.PartID = uuid.New()
	slot.ParentPartID = &bay.PartID

	require.NoError(t, g.Import(ctx, u.UnitID, []*domain.Part{bay, slot}))

	parts, err := g.ListParts(ctx, u.UnitID)
	require.NoError(t, err)
	assert.Len(t, parts, 2)

	children, err := g.Children(ctx, bay.PartID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, slot.PartID, children[0].PartID)

	slot.UnitTonnage = 42
	require.NoError(t, g.Import(ctx, u.UnitID, []*domain.Part{slot}))
	stored, err := g.FindPart(ctx, slot.PartID)
	require.NoError(t, err)
	assert.Equal(t, 42, stored.UnitTonnage)

	assert.ErrorIs(t, g.Import(ctx, uuid.New(), nil), ErrUnitNotFound)
}

func TestImport_RefusesPartsOwnedElsewhere(t *testing.T) {
	g, u := setupGraph(t)
	ctx := context.Background()

	spare := domain.NewCubicle(0, domain.BayMek)
	spare.Quantity = 5
	require.NoError(t, g.DB.Create(spare).Error)

	other, err := g.CreateUnit(ctx, "Overlord", 9700)
	require.NoError(t, err)
	mounted := domain.NewCubicle(other.Tonnage, domain.BayFighter)
	require.NoError(t, g.AddPart(ctx, other.UnitID, mounted))

	fromStorage := domain.NewCubicle(0, domain.BayMek)
	fromStorage.PartID = spare.PartID
	err = g.Import(ctx, u.UnitID, []*domain.Part{fromStorage})
	assert.ErrorIs(t, err, ErrPartOwned)

	fresh := domain.NewMissingCubicle(0, domain.BayMek)
	fresh.PartID = uuid.New()
	fromOther := domain.NewCubicle(0, domain.BayFighter)
	fromOther.PartID = mounted.PartID
	err = g.Import(ctx, u.UnitID, []*domain.Part{fresh, fromOther})
	assert.ErrorIs(t, err, ErrPartOwned)

	stock, err := g.FindPart(ctx, spare.PartID)
	require.NoError(t, err)
	assert.Nil(t, stock.UnitID)
	assert.Equal(t, 5, stock.Quantity)

	still, err := g.ListParts(ctx, other.UnitID)
	require.NoError(t, err)
	require.Len(t, still, 1)
	assert.Equal(t, mounted.PartID, still[0].PartID)

	parts, err := g.ListParts(ctx, u.UnitID)
	require.NoError(t, err)
	assert.Empty(t, parts)
}

func TestImport_NormalizesQuantityAndParents(t *testing.T) {
	g, u := setupGraph(t)
	ctx := context.Background()

	other, err := g.CreateUnit(ctx, "Overlord", 9700)
	require.NoError(t, err)
	foreignBay, err := g.AddAssembly(ctx, other.UnitID, domain.BayMek)
	require.NoError(t, err)

	slot := domain.NewMissingCubicle(0, domain.BayMek)
	slot.PartID = uuid.New()
	slot.Quantity = 9
	installed := domain.NewCubicle(0, domain.BayMek)
	installed.PartID = uuid.New()
	installed.Quantity = 4
	dangling := uuid.New()
	installed.ParentPartID = &dangling

	require.NoError(t, g.Import(ctx, u.UnitID, []*domain.Part{slot, installed}))

	stored, err := g.FindPart(ctx, slot.PartID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Quantity)

	stored, err = g.FindPart(ctx, installed.PartID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Quantity)
	assert.Nil(t, stored.ParentPartID)

	linked := domain.NewMissingCubicle(0, domain.BayMek)
	linked.PartID = uuid.New()
	linked.ParentPartID = &foreignBay.PartID
	assert.ErrorIs(t, g.Import(ctx, u.UnitID, []*domain.Part{linked}), ErrParentMismatch)
	_, err = g.FindPart(ctx, linked.PartID)
	assert.ErrorIs(t, err, ErrPartNotFound)
}

func TestAddMissingPart_RollsBackWhenLinkFails(t *testing.T) {
	g, u := setupGraph(t)
	ctx := context.Background()

	bay, err := g.AddAssembly(ctx, u.UnitID, domain.BayMek)
	require.NoError(t, err)

	errLink := errors.New("link failed")
	require.NoError(t, g.DB.Callback().Update().Before("gorm:update").Register("test:fail_link", func(db *gorm.DB) {
		if m, ok := db.Statement.Dest.(map[string]interface{}); ok {
			if _, ok := m["parent_part_id"]; ok {
				_ = db.AddError(errLink)
			}
		}
	}))

	_, err = g.AddMissingPart(ctx, u.UnitID, &bay.PartID, domain.BayMek)
	assert.ErrorIs(t, err, errLink)

	missing, err := g.MissingParts(ctx, u.UnitID)
	require.NoError(t, err)
	assert.Empty(t, missing)

	stored, err := g.FindPart(ctx, bay.PartID)
	require.NoError(t, err)
	assert.Equal(t, 1.0, stored.Condition)
}
