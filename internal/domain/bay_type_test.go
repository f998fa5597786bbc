package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBayType(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  BayType
		ok    bool
	}{
		{name: "canonical", input: "MEK", want: BayMek, ok: true},
		{name: "lower_case", input: "protomek", want: BayProtoMek, ok: true},
		{name: "padded", input: "  FIGHTER ", want: BayFighter, ok: true},
		{name: "legacy_token_not_resolved_here", input: "MECH", ok: false},
		{name: "empty", input: "", ok: false},
		{name: "garbage", input: "HOVERTANK", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseBayType(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestBayTypes_RoundTripNames(t *testing.T) {
	all := BayTypes()
	require.Len(t, all, 15)
	for _, b := range all {
		assert.True(t, b.Valid())
		parsed, ok := ParseBayType(b.String())
		require.True(t, ok, b.String())
		assert.Equal(t, b, parsed)
		assert.NotEmpty(t, b.DisplayName())
		assert.Greater(t, b.Weight(), 0.0)
	}
	assert.Equal(t, BayMek, DefaultBayType)
}

func TestBayType_SQLValue(t *testing.T) {
	v, err := BayVehicleLight.Value()
	require.NoError(t, err)
	assert.Equal(t, "VEHICLE_LIGHT", v)

	_, err = BayType(99).Value()
	assert.Error(t, err)

	var b BayType
	require.NoError(t, b.Scan([]byte("SMALL_CRAFT")))
	assert.Equal(t, BaySmallCraft, b)
	require.NoError(t, b.Scan("CARGO"))
	assert.Equal(t, BayCargo, b)
	require.NoError(t, b.Scan(nil))
	assert.Equal(t, BayType(0), b)
	assert.Error(t, b.Scan("NOPE"))
	assert.Error(t, b.Scan(42))
}

func TestBayType_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Bay BayType `json:"bay"`
	}{Bay: BayInfantryJump})
	require.NoError(t, err)
	assert.JSONEq(t, `{"bay":"INFANTRY_JUMP"}`, string(b))

	var out struct {
		Bay BayType `json:"bay"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"bay":"DROPSHUTTLE"}`), &out))
	assert.Equal(t, BayDropShuttle, out.Bay)
	assert.Error(t, json.Unmarshal([]byte(`{"bay":"MECH"}`), &out))
}
