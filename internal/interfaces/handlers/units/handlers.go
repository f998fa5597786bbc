package units

import (
	"errors"
	"strings"

	unitsvc "quartermaster-backend/internal/application/units"
	"quartermaster-backend/internal/domain"
	"quartermaster-backend/internal/pkg/partxml"
	"quartermaster-backend/internal/pkg/response"
	"quartermaster-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Graph *unitsvc.Graph
	Codec *partxml.Codec
}

func unitID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("unit_id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid UUID format for unit_id")
	}
	return id, nil
}

func parseBayType(raw string) (domain.BayType, error) {
	if raw == "" {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Missing required field: bay_type")
	}
	bay, ok := domain.ParseBayType(raw)
	if !ok {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Unknown bay_type: "+raw)
	}
	return bay, nil
}

// POST /api/v1/units
func (h *Handlers) CreateUnit(c *fiber.Ctx) error {
	var body struct {
		Name    string `json:"name"`
		Tonnage int    `json:"tonnage"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	if !validation.IsValidUnitName(body.Name) {
		return response.Error(c, "Invalid unit name", fiber.StatusBadRequest, nil)
	}
	if !validation.IsValidTonnage(body.Tonnage) {
		return response.Error(c, "Invalid tonnage", fiber.StatusBadRequest, nil)
	}
	u, err := h.Graph.CreateUnit(c.Context(), body.Name, body.Tonnage)
	if err != nil {
		return err
	}
	return response.SuccessCreated(c, "Unit created", u, nil)
}

// GET /api/v1/units/:unit_id/parts
func (h *Handlers) ListParts(c *fiber.Ctx) error {
	id, err := unitID(c)
	if err != nil {
		return err
	}
	if _, err := h.Graph.FindUnit(c.Context(), id); err != nil {
		return err
	}
	parts, err := h.Graph.ListParts(c.Context(), id)
	if err != nil {
		return err
	}
	return response.Success(c, "Parts retrieved", parts, fiber.Map{"count": len(parts)})
}

// POST /api/v1/units/:unit_id/bays
func (h *Handlers) AddBay(c *fiber.Ctx) error {
	id, err := unitID(c)
	if err != nil {
		return err
	}
	var body struct {
		BayType string `json:"bay_type"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	bay, err := parseBayType(body.BayType)
	if err != nil {
		return err
	}
	p, err := h.Graph.AddAssembly(c.Context(), id, bay)
	if err != nil {
		return err
	}
	return response.SuccessCreated(c, "Bay added", p, nil)
}

// MissingView describes a placeholder awaiting repair.
type MissingView struct {
	PartID       uuid.UUID      `json:"part_id"`
	ParentPartID *uuid.UUID     `json:"parent_part_id"`
	Name         string         `json:"name"`
	BayType      domain.BayType `json:"bay_type"`
	Tonnage      float64        `json:"tonnage"`
	BaseMinutes  int            `json:"base_minutes"`
	Difficulty   int            `json:"difficulty"`
	Location     string         `json:"location"`
	TechBase     string         `json:"tech_base"`
	TechRating   string         `json:"tech_rating"`
}

func (h *Handlers) missingView(c *fiber.Ctx, p *domain.Part) (MissingView, error) {
	slot, err := domain.AsMissingCubicle(p)
	if err != nil {
		return MissingView{}, err
	}
	var parent *domain.Part
	if p.ParentPartID != nil {
		parent, err = h.Graph.FindPart(c.Context(), *p.ParentPartID)
		if err != nil && !errors.Is(err, unitsvc.ErrPartNotFound) {
			return MissingView{}, err
		}
	}
	return MissingView{
		PartID:       p.PartID,
		ParentPartID: p.ParentPartID,
		Name:         slot.DisplayName(parent),
		BayType:      slot.TechAdvancement(),
		Tonnage:      slot.Tonnage(),
		BaseMinutes:  int(slot.BaseTime().Minutes()),
		Difficulty:   slot.Difficulty(),
		Location:     slot.LocationName(),
		TechBase:     p.BayType.TechBase(),
		TechRating:   p.BayType.TechRating(),
	}, nil
}

// POST /api/v1/units/:unit_id/missing
func (h *Handlers) AddMissing(c *fiber.Ctx) error {
	id, err := unitID(c)
	if err != nil {
		return err
	}
	var body struct {
		BayType      string `json:"bay_type"`
		ParentPartID string `json:"parent_part_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	bay, err := parseBayType(body.BayType)
	if err != nil {
		return err
	}
	var parentID *uuid.UUID
	if s := strings.TrimSpace(body.ParentPartID); s != "" {
		pid, err := uuid.Parse(s)
		if err != nil {
			return response.Error(c, "Invalid UUID format for parent_part_id", fiber.StatusBadRequest, nil)
		}
		parentID = &pid
	}
	p, err := h.Graph.AddMissingPart(c.Context(), id, parentID, bay)
	if err != nil {
		return err
	}
	view, err := h.missingView(c, p)
	if err != nil {
		return err
	}
	return response.SuccessCreated(c, "Missing part recorded", view, nil)
}

// GET /api/v1/units/:unit_id/missing
func (h *Handlers) ListMissing(c *fiber.Ctx) error {
	id, err := unitID(c)
	if err != nil {
		return err
	}
	if _, err := h.Graph.FindUnit(c.Context(), id); err != nil {
		return err
	}
	missing, err := h.Graph.MissingParts(c.Context(), id)
	if err != nil {
		return err
	}
	views := make([]MissingView, 0, len(missing))
	for i := range missing {
		v, err := h.missingView(c, &missing[i])
		if err != nil {
			return err
		}
		views = append(views, v)
	}
	return response.Success(c, "Missing parts retrieved", views, fiber.Map{"count": len(views)})
}

// GET /api/v1/units/:unit_id/parts/export
func (h *Handlers) Export(c *fiber.Ctx) error {
	id, err := unitID(c)
	if err != nil {
		return err
	}
	if _, err := h.Graph.FindUnit(c.Context(), id); err != nil {
		return err
	}
	parts, err := h.Graph.ListParts(c.Context(), id)
	if err != nil {
		return err
	}
	ptrs := make([]*domain.Part, len(parts))
	for i := range parts {
		ptrs[i] = &parts[i]
	}
	data, err := h.Codec.Marshal(ptrs)
	if err != nil {
		return err
	}
	return response.XML(c, "unit-"+id.String()+".xml", data)
}

// POST /api/v1/units/:unit_id/parts/import
func (h *Handlers) Import(c *fiber.Ctx) error {
	id, err := unitID(c)
	if err != nil {
		return err
	}
	parts, err := h.Codec.Unmarshal(c.Body())
	if err != nil {
		return response.Error(c, "Invalid parts document: "+err.Error(), fiber.StatusBadRequest, nil)
	}
	if err := h.Graph.Import(c.Context(), id, parts); err != nil {
		return err
	}
	return response.SuccessCreated(c, "Parts imported", fiber.Map{"imported": len(parts)}, nil)
}
