package rations

import (
	compsvc "confina-backend/internal/application/compositions"
	"confina-backend/internal/middleware"
	"confina-backend/internal/pkg/response"
	"confina-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *compsvc.Service
}

var statusMap = map[error]int{
	compsvc.ErrFeedTypeNotFound:    404,
	compsvc.ErrCompositionNotFound: 404,
	compsvc.ErrNameRequired:        400,
	compsvc.ErrInvalidBaseQty:      400,
	compsvc.ErrNoItems:             400,
	compsvc.ErrInvalidItem:         400,
}

func fail(c *fiber.Ctx, err error) error {
	if code, ok := statusMap[err]; ok {
		return response.Error(c, err.Error(), code, nil)
	}
	return response.Error(c, "Internal Server Error", 500, nil)
}

// List GET /api/v1/rations — rations with current version and derived costs.
func (h *Handlers) List(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Error(c, "User is not associated with any farm", 403, nil)
	}
	views, err := h.Service.ListFeedTypes(c.Context(), actor.FarmID)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Rations retrieved", fiber.Map{"rations": views}, nil)
}

// Create POST /api/v1/rations — register a ration (no cost stored here).
func (h *Handlers) Create(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Error(c, "User is not associated with any farm", 403, nil)
	}
	var body struct {
		Name         string   `json:"name"`
		DryMatterPct *float64 `json:"dry_matter_pct"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	ft, err := h.Service.CreateFeedType(c.Context(), actor.FarmID, body.Name, body.DryMatterPct)
	if err != nil {
		return fail(c, err)
	}
	return response.SuccessCreated(c, "Ration created", fiber.Map{"ration": ft}, nil)
}

type versionItemBody struct {
	IngredientID  string  `json:"ingredient_id"`
	ProportionPct float64 `json:"proportion_pct"`
	QuantityKg    float64 `json:"quantity_kg"`
	PricePerUnit  float64 `json:"price_per_unit"`
}

// CreateVersion POST /api/v1/rations/:id/compositions — append an immutable
// composition version. Totals are recomputed server-side.
func (h *Handlers) CreateVersion(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Error(c, "User is not associated with any farm", 403, nil)
	}
	feedTypeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid ration id", 400, nil)
	}
	var body struct {
		BaseQtyKg     float64           `json:"base_qty_kg"`
		EffectiveDate string            `json:"effective_date"`
		Items         []versionItemBody `json:"items"`
		Notes         *string           `json:"notes"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}

	in := compsvc.VersionInput{BaseQtyKg: body.BaseQtyKg, Notes: body.Notes}
	if body.EffectiveDate != "" {
		d, err := validation.ParseDate(body.EffectiveDate)
		if err != nil {
			return response.Error(c, "Invalid effective_date, expected YYYY-MM-DD", 400, nil)
		}
		in.EffectiveDate = d
	}
	for _, it := range body.Items {
		ingredientID, err := uuid.Parse(it.IngredientID)
		if err != nil {
			return response.Error(c, "Invalid ingredient_id in items", 400, nil)
		}
		in.Items = append(in.Items, compsvc.ItemInput{
			IngredientID:  ingredientID,
			ProportionPct: it.ProportionPct,
			QuantityKg:    it.QuantityKg,
			PricePerUnit:  it.PricePerUnit,
		})
	}

	comp, err := h.Service.CreateVersion(c.Context(), actor.FarmID, actor.UserID, feedTypeID, in)
	if err != nil {
		return fail(c, err)
	}
	return response.SuccessCreated(c, "Composition version created", fiber.Map{"composition": comp}, nil)
}

// ListVersions GET /api/v1/rations/:id/compositions — full version history.
func (h *Handlers) ListVersions(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Error(c, "User is not associated with any farm", 403, nil)
	}
	feedTypeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid ration id", 400, nil)
	}
	comps, err := h.Service.ListVersions(c.Context(), actor.FarmID, feedTypeID)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Composition versions retrieved", fiber.Map{"compositions": comps}, nil)
}

// Current GET /api/v1/rations/:id/compositions/current — the newest version.
func (h *Handlers) Current(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Error(c, "User is not associated with any farm", 403, nil)
	}
	feedTypeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid ration id", 400, nil)
	}
	comp, err := h.Service.Current(c.Context(), actor.FarmID, feedTypeID)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Current composition retrieved", fiber.Map{"composition": comp}, nil)
}
