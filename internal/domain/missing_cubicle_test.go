package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAcceptableReplacement_KindIdentity(t *testing.T) {
	for _, want := range BayTypes() {
		placeholder, err := AsMissingCubicle(NewMissingCubicle(500, want))
		require.NoError(t, err)

		for _, have := range BayTypes() {
			for _, refit := range []bool{false, true} {
				for _, tonnage := range []int{0, 100, 5000} {
					candidate := NewCubicle(tonnage, have)
					assert.Equal(t, want == have, placeholder.IsAcceptableReplacement(candidate, refit),
						"want %s have %s refit %v tonnage %d", want, have, refit, tonnage)
				}
			}
		}
	}
}

func TestIsAcceptableReplacement_RejectsNonCubicles(t *testing.T) {
	placeholder, err := AsMissingCubicle(NewMissingCubicle(500, BayMek))
	require.NoError(t, err)

	assert.False(t, placeholder.IsAcceptableReplacement(nil, false))
	assert.False(t, placeholder.IsAcceptableReplacement(NewTransportBay(500, BayMek), false))
	assert.False(t, placeholder.IsAcceptableReplacement(NewMissingCubicle(500, BayMek), false))
}

func TestMissingCubicle_Constants(t *testing.T) {
	placeholder, err := AsMissingCubicle(NewMissingCubicle(500, BayFighter))
	require.NoError(t, err)

	assert.Equal(t, 3360*time.Minute, placeholder.BaseTime())
	assert.Equal(t, 56*time.Hour, placeholder.BaseTime())
	assert.Equal(t, -1, placeholder.Difficulty())
	assert.Less(t, placeholder.Difficulty(), 0)
	assert.Equal(t, LocNone, placeholder.Location())
	assert.Empty(t, placeholder.LocationName())
	assert.Empty(t, placeholder.CheckFixable())
	assert.Equal(t, 150.0, placeholder.Tonnage())
	assert.Equal(t, BayFighter, placeholder.TechAdvancement())
}

func TestMissingCubicle_DisplayName(t *testing.T) {
	placeholder, err := AsMissingCubicle(NewMissingCubicle(500, BayVehicleHeavy))
	require.NoError(t, err)

	assert.Equal(t, "Heavy Vehicle Cubicle", placeholder.DisplayName(nil))

	bay := NewTransportBay(500, BayVehicleHeavy)
	assert.Equal(t, "Heavy Vehicle Bay Cubicle", placeholder.DisplayName(bay))
}

func TestAsMissingCubicle_RejectsConcreteParts(t *testing.T) {
	_, err := AsMissingCubicle(NewCubicle(100, BayMek))
	assert.ErrorIs(t, err, ErrNotPlaceholder)

	_, err = AsMissingCubicle(nil)
	assert.ErrorIs(t, err, ErrNotPlaceholder)
}

func TestNewReplacement_SharesNothingWithSource(t *testing.T) {
	unitID := uuid.New()
	parentID := uuid.New()
	placeholder, err := AsMissingCubicle(NewMissingCubicle(750, BayProtoMek))
	require.NoError(t, err)

	spare := NewCubicle(0, BayProtoMek)
	spare.PartID = uuid.New()
	spare.Quantity = 4
	spare.UnitID = &unitID
	spare.ParentPartID = &parentID

	r := placeholder.NewReplacement(spare)
	assert.Equal(t, uuid.Nil, r.PartID)
	assert.Nil(t, r.UnitID)
	assert.Nil(t, r.ParentPartID)
	assert.Equal(t, 1, r.Quantity)
	assert.Equal(t, 750, r.UnitTonnage)
	assert.Equal(t, BayProtoMek, r.BayType)
	assert.False(t, r.Missing)
	assert.Equal(t, 4, spare.Quantity)
}

func TestNewPart(t *testing.T) {
	placeholder, err := AsMissingCubicle(NewMissingCubicle(300, BaySmallCraft))
	require.NoError(t, err)

	p := placeholder.NewPart()
	assert.Equal(t, PartTypeCubicle, p.PartType)
	assert.Equal(t, BaySmallCraft, p.BayType)
	assert.Equal(t, "Small Craft Cubicle", p.Name)
	assert.True(t, placeholder.IsAcceptableReplacement(p, false))
}
