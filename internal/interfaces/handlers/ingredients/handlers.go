package ingredients

import (
	pricesvc "confina-backend/internal/application/pricing"
	"confina-backend/internal/middleware"
	"confina-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *pricesvc.Service
}

var statusMap = map[error]int{
	pricesvc.ErrIngredientNotFound: 404,
	pricesvc.ErrNameRequired:       400,
	pricesvc.ErrInvalidPrice:       400,
}

func fail(c *fiber.Ctx, err error) error {
	if code, ok := statusMap[err]; ok {
		return response.Error(c, err.Error(), code, nil)
	}
	return response.Error(c, "Internal Server Error", 500, nil)
}

type ingredientBody struct {
	Name  string  `json:"name"`
	Unit  string  `json:"unit"`
	Price float64 `json:"price"`
	Notes *string `json:"notes"`
}

// List GET /api/v1/ingredients — active ingredients with current prices.
func (h *Handlers) List(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Error(c, "User is not associated with any farm", 403, nil)
	}
	ings, err := h.Service.List(c.Context(), actor.FarmID)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Ingredients retrieved", fiber.Map{"ingredients": ings}, nil)
}

// Create POST /api/v1/ingredients — register ingredient + opening price point.
func (h *Handlers) Create(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Error(c, "User is not associated with any farm", 403, nil)
	}
	var body ingredientBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	ing, err := h.Service.CreateIngredient(c.Context(), actor.FarmID, actor.UserID, pricesvc.IngredientInput{
		Name:  body.Name,
		Unit:  body.Unit,
		Price: body.Price,
		Notes: body.Notes,
	})
	if err != nil {
		return fail(c, err)
	}
	return response.SuccessCreated(c, "Ingredient created", fiber.Map{"ingredient": ing}, nil)
}

// Update PUT /api/v1/ingredients/:id — edit fields; a price change appends a
// ledger point.
func (h *Handlers) Update(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Error(c, "User is not associated with any farm", 403, nil)
	}
	ingredientID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid ingredient id", 400, nil)
	}
	var body ingredientBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	ing, err := h.Service.UpdateIngredient(c.Context(), actor.FarmID, actor.UserID, ingredientID, pricesvc.IngredientInput{
		Name:  body.Name,
		Unit:  body.Unit,
		Price: body.Price,
		Notes: body.Notes,
	})
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Ingredient updated", fiber.Map{"ingredient": ing}, nil)
}

// Deactivate DELETE /api/v1/ingredients/:id — soft delete so past
// compositions keep resolving.
func (h *Handlers) Deactivate(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Error(c, "User is not associated with any farm", 403, nil)
	}
	ingredientID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid ingredient id", 400, nil)
	}
	if err := h.Service.Deactivate(c.Context(), actor.FarmID, ingredientID); err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Ingredient deactivated", nil, nil)
}

// History GET /api/v1/ingredients/:id/prices — the full price ledger.
func (h *Handlers) History(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Error(c, "User is not associated with any farm", 403, nil)
	}
	ingredientID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid ingredient id", 400, nil)
	}
	points, err := h.Service.History(c.Context(), actor.FarmID, ingredientID)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Price history retrieved", fiber.Map{"prices": points}, nil)
}
