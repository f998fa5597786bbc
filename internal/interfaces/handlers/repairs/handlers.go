package repairs

import (
	repairsvc "quartermaster-backend/internal/application/repairs"
	"quartermaster-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *repairsvc.Service
}

func pathID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid UUID format for "+name)
	}
	return id, nil
}

// POST /api/v1/repairs/:part_id/fix
func (h *Handlers) Fix(c *fiber.Ctx) error {
	id, err := pathID(c, "part_id")
	if err != nil {
		return err
	}
	res, err := h.Service.AttemptFix(c.Context(), id)
	if err != nil {
		return err
	}
	msg := "Placeholder replaced"
	if !res.Fixed {
		msg = "No acceptable spare in stock"
	}
	return response.Success(c, msg, res, nil)
}

// POST /api/v1/units/:unit_id/repairs
func (h *Handlers) FixAll(c *fiber.Ctx) error {
	id, err := pathID(c, "unit_id")
	if err != nil {
		return err
	}
	results, err := h.Service.FixAll(c.Context(), id)
	if err != nil {
		return err
	}
	fixed := 0
	for _, r := range results {
		if r.Fixed {
			fixed++
		}
	}
	return response.Success(c, "Repairs attempted", results, fiber.Map{
		"attempted":  len(results),
		"fixed":      fixed,
		"unresolved": len(results) - fixed,
	})
}

// GET /api/v1/units/:unit_id/shopping-list
func (h *Handlers) ShoppingList(c *fiber.Ctx) error {
	id, err := pathID(c, "unit_id")
	if err != nil {
		return err
	}
	items, err := h.Service.ShoppingList(c.Context(), id)
	if err != nil {
		return err
	}
	return response.Success(c, "Shopping list retrieved", items, fiber.Map{"count": len(items)})
}
