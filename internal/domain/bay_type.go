package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// BayType identifies a kind of transport-bay cubicle. Two parts satisfy each other
// only when their BayType values are identical.
type BayType int

const (
	BayMek BayType = iota + 1
	BayProtoMek
	BayVehicleLight
	BayVehicleHeavy
	BayVehicleSuperHeavy
	BayInfantryFoot
	BayInfantryJump
	BayInfantryMotorized
	BayInfantryMechanized
	BayBattleArmor
	BayBattleArmorClan
	BayFighter
	BaySmallCraft
	BayDropShuttle
	BayCargo
)

// DefaultBayType is substituted when a persisted kind cannot be resolved.
const DefaultBayType = BayMek

// Tech bases.
const (
	TechBaseAll  = "ALL"
	TechBaseIS   = "IS"
	TechBaseClan = "CLAN"
)

type bayInfo struct {
	name        string
	displayName string
	weight      float64
	techBase    string
	techRating  string
}

var bayCatalog = map[BayType]bayInfo{
	BayMek:                {"MEK", "Mek", 150, TechBaseAll, "C"},
	BayProtoMek:           {"PROTOMEK", "ProtoMek", 50, TechBaseClan, "F"},
	BayVehicleLight:       {"VEHICLE_LIGHT", "Light Vehicle", 50, TechBaseAll, "B"},
	BayVehicleHeavy:       {"VEHICLE_HEAVY", "Heavy Vehicle", 100, TechBaseAll, "B"},
	BayVehicleSuperHeavy:  {"VEHICLE_SH", "Superheavy Vehicle", 200, TechBaseAll, "C"},
	BayInfantryFoot:       {"INFANTRY_FOOT", "Foot Infantry", 5, TechBaseAll, "A"},
	BayInfantryJump:       {"INFANTRY_JUMP", "Jump Infantry", 6, TechBaseAll, "B"},
	BayInfantryMotorized:  {"INFANTRY_MOTORIZED", "Motorized Infantry", 7, TechBaseAll, "B"},
	BayInfantryMechanized: {"INFANTRY_MECHANIZED", "Mechanized Infantry", 8, TechBaseAll, "B"},
	BayBattleArmor:        {"IS_BATTLE_ARMOR", "Battle Armor", 8, TechBaseIS, "D"},
	BayBattleArmorClan:    {"CLAN_BATTLE_ARMOR", "Battle Armor (Clan)", 10, TechBaseClan, "D"},
	BayFighter:            {"FIGHTER", "Fighter", 150, TechBaseAll, "C"},
	BaySmallCraft:         {"SMALL_CRAFT", "Small Craft", 200, TechBaseAll, "C"},
	BayDropShuttle:        {"DROPSHUTTLE", "Dropshuttle", 11000, TechBaseAll, "D"},
	BayCargo:              {"CARGO", "Cargo", 1, TechBaseAll, "A"},
}

// BayTypes returns every known kind in declaration order.
func BayTypes() []BayType {
	out := make([]BayType, 0, len(bayCatalog))
	for b := BayMek; b <= BayCargo; b++ {
		out = append(out, b)
	}
	return out
}

// ParseBayType resolves a canonical symbolic name, ignoring case.
func ParseBayType(name string) (BayType, bool) {
	name = strings.TrimSpace(name)
	for b, info := range bayCatalog {
		if strings.EqualFold(info.name, name) {
			return b, true
		}
	}
	return 0, false
}

// Valid reports whether b is a catalogued kind.
func (b BayType) Valid() bool {
	_, ok := bayCatalog[b]
	return ok
}

// String returns the canonical symbolic name.
func (b BayType) String() string {
	if info, ok := bayCatalog[b]; ok {
		return info.name
	}
	return fmt.Sprintf("BayType(%d)", int(b))
}

func (b BayType) DisplayName() string { return bayCatalog[b].displayName }

// Weight is the tonnage of one cubicle of this kind.
func (b BayType) Weight() float64 { return bayCatalog[b].weight }

func (b BayType) TechBase() string { return bayCatalog[b].techBase }

func (b BayType) TechRating() string { return bayCatalog[b].techRating }

// MarshalJSON writes the canonical name.
func (b BayType) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

// UnmarshalJSON accepts canonical names only.
func (b *BayType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, ok := ParseBayType(s)
	if !ok {
		return fmt.Errorf("unknown bay type %q", s)
	}
	*b = parsed
	return nil
}

// Scan implements sql.Scanner; the column holds the canonical name.
func (b *BayType) Scan(value interface{}) error {
	var s string
	switch v := value.(type) {
	case nil:
		*b = 0
		return nil
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return fmt.Errorf("unsupported type %T for BayType", value)
	}
	if s == "" {
		*b = 0
		return nil
	}
	parsed, ok := ParseBayType(s)
	if !ok {
		return fmt.Errorf("unknown bay type %q", s)
	}
	*b = parsed
	return nil
}

// Value implements driver.Valuer.
func (b BayType) Value() (driver.Value, error) {
	if b == 0 {
		return "", nil
	}
	if !b.Valid() {
		return nil, fmt.Errorf("invalid bay type %d", int(b))
	}
	return b.String(), nil
}
