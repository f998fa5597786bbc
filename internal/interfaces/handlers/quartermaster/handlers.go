package quartermaster

import (
	qmsvc "quartermaster-backend/internal/application/quartermaster"
	"quartermaster-backend/internal/domain"
	"quartermaster-backend/internal/pkg/response"
	"quartermaster-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Store *qmsvc.Store
}

// GET /api/v1/quartermaster/parts
func (h *Handlers) ListSpares(c *fiber.Ctx) error {
	spares, err := h.Store.ListSpares(c.Context())
	if err != nil {
		return err
	}
	return response.Success(c, "Spares retrieved", spares, fiber.Map{"count": len(spares)})
}

// POST /api/v1/quartermaster/parts delivers cubicles into storage.
func (h *Handlers) AddSpares(c *fiber.Ctx) error {
	var body struct {
		BayType     string `json:"bay_type"`
		Quantity    int    `json:"quantity"`
		UnitTonnage int    `json:"unit_tonnage"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	bay, ok := domain.ParseBayType(body.BayType)
	if !ok {
		return response.Error(c, "Unknown bay_type: "+body.BayType, fiber.StatusBadRequest, nil)
	}
	if !validation.IsValidQuantity(body.Quantity) {
		return response.Error(c, "Invalid quantity", fiber.StatusBadRequest, nil)
	}
	if !validation.IsValidTonnage(body.UnitTonnage) {
		return response.Error(c, "Invalid unit_tonnage", fiber.StatusBadRequest, nil)
	}
	stack, err := h.Store.AddPart(c.Context(), domain.NewCubicle(body.UnitTonnage, bay), body.Quantity)
	if err != nil {
		return err
	}
	return response.SuccessCreated(c, "Spares stored", stack, nil)
}
