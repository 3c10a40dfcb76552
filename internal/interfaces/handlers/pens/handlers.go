package pens

import (
	pensvc "confina-backend/internal/application/pens"
	"confina-backend/internal/middleware"
	"confina-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *pensvc.Service
}

var statusMap = map[error]int{
	pensvc.ErrPenNotFound:      404,
	pensvc.ErrNumberRequired:   400,
	pensvc.ErrNumberTaken:      409,
	pensvc.ErrInvalidCapacity:  400,
	pensvc.ErrInvalidFeedBound: 400,
	pensvc.ErrInvalidStatus:    400,
}

func fail(c *fiber.Ctx, err error) error {
	if code, ok := statusMap[err]; ok {
		return response.Error(c, err.Error(), code, nil)
	}
	return response.Error(c, "Internal Server Error", 500, nil)
}

type penBody struct {
	PenNumber     string   `json:"pen_number"`
	Capacity      int      `json:"capacity"`
	MinFeedKg     *float64 `json:"min_feed_kg"`
	MaxFeedKg     *float64 `json:"max_feed_kg"`
	MinLeftoverKg *float64 `json:"min_leftover_kg"`
	MaxLeftoverKg *float64 `json:"max_leftover_kg"`
	Notes         *string  `json:"notes"`
}

func (b penBody) toInput() pensvc.Input {
	return pensvc.Input{
		PenNumber:     b.PenNumber,
		Capacity:      b.Capacity,
		MinFeedKg:     b.MinFeedKg,
		MaxFeedKg:     b.MaxFeedKg,
		MinLeftoverKg: b.MinLeftoverKg,
		MaxLeftoverKg: b.MaxLeftoverKg,
		Notes:         b.Notes,
	}
}

// List GET /api/v1/pens
func (h *Handlers) List(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Error(c, "User is not associated with any farm", 403, nil)
	}
	pens, err := h.Service.List(c.Context(), actor.FarmID)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Pens retrieved", fiber.Map{"pens": pens}, nil)
}

// Get GET /api/v1/pens/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Error(c, "User is not associated with any farm", 403, nil)
	}
	penID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid pen id", 400, nil)
	}
	pen, err := h.Service.Get(c.Context(), actor.FarmID, penID)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Pen retrieved", fiber.Map{"pen": pen}, nil)
}

// Create POST /api/v1/pens
func (h *Handlers) Create(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Error(c, "User is not associated with any farm", 403, nil)
	}
	var body penBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	pen, err := h.Service.Create(c.Context(), actor.FarmID, body.toInput())
	if err != nil {
		return fail(c, err)
	}
	return response.SuccessCreated(c, "Pen created", fiber.Map{"pen": pen}, nil)
}

// Update PUT /api/v1/pens/:id — full replacement of editable fields.
func (h *Handlers) Update(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Error(c, "User is not associated with any farm", 403, nil)
	}
	penID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid pen id", 400, nil)
	}
	var body penBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	pen, err := h.Service.Update(c.Context(), actor.FarmID, penID, body.toInput())
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Pen updated", fiber.Map{"pen": pen}, nil)
}

// SetStatus PATCH /api/v1/pens/:id/status
func (h *Handlers) SetStatus(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Error(c, "User is not associated with any farm", 403, nil)
	}
	penID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid pen id", 400, nil)
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	if err := h.Service.SetStatus(c.Context(), actor.FarmID, penID, body.Status); err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Pen status updated", nil, nil)
}
