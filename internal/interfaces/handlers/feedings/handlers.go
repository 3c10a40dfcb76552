package feedings

import (
	"time"

	feedsvc "confina-backend/internal/application/feeding"
	"confina-backend/internal/middleware"
	"confina-backend/internal/pkg/response"
	"confina-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *feedsvc.Service
}

var statusMap = map[error]int{
	feedsvc.ErrPenNotFound:            404,
	feedsvc.ErrLotNotFound:            404,
	feedsvc.ErrRecordNotFound:         404,
	feedsvc.ErrInvalidQuantity:        400,
	feedsvc.ErrNegativeLeftover:       400,
	feedsvc.ErrLeftoverExceedsDeliver: 400,
}

func fail(c *fiber.Ctx, err error) error {
	if code, ok := statusMap[err]; ok {
		return response.Error(c, err.Error(), code, nil)
	}
	return response.Error(c, "Internal Server Error", 500, nil)
}

// Create POST /api/v1/feedings — record a delivery; the cost per kg is locked
// from the composition effective on the feeding date.
func (h *Handlers) Create(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Error(c, "User is not associated with any farm", 403, nil)
	}
	var body struct {
		PenID       string   `json:"pen_id"`
		LotID       *string  `json:"lot_id"`
		FeedTypeID  string   `json:"feed_type_id"`
		FeedingDate string   `json:"feeding_date"`
		QuantityKg  float64  `json:"quantity_kg"`
		LeftoverKg  *float64 `json:"leftover_kg"`
		Notes       *string  `json:"notes"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}

	penID, err := uuid.Parse(body.PenID)
	if err != nil {
		return response.Error(c, "Invalid pen_id", 400, nil)
	}
	feedTypeID, err := uuid.Parse(body.FeedTypeID)
	if err != nil {
		return response.Error(c, "Invalid feed_type_id", 400, nil)
	}
	var lotID *uuid.UUID
	if body.LotID != nil && *body.LotID != "" {
		id, err := uuid.Parse(*body.LotID)
		if err != nil {
			return response.Error(c, "Invalid lot_id", 400, nil)
		}
		lotID = &id
	}
	date := time.Now().UTC().Truncate(24 * time.Hour)
	if body.FeedingDate != "" {
		date, err = validation.ParseDate(body.FeedingDate)
		if err != nil {
			return response.Error(c, "Invalid feeding_date, expected YYYY-MM-DD", 400, nil)
		}
	}

	rec, err := h.Service.Create(c.Context(), actor.FarmID, actor.UserID, feedsvc.CreateInput{
		PenID:       penID,
		LotID:       lotID,
		FeedTypeID:  feedTypeID,
		FeedingDate: date,
		QuantityKg:  body.QuantityKg,
		LeftoverKg:  body.LeftoverKg,
		Notes:       body.Notes,
	})
	if err != nil {
		return fail(c, err)
	}
	return response.SuccessCreated(c, "Feeding recorded", fiber.Map{"feeding": rec}, nil)
}

// List GET /api/v1/feedings?pen_id=&lot_id=&from=&to=&limit=
func (h *Handlers) List(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Error(c, "User is not associated with any farm", 403, nil)
	}
	var filter feedsvc.ListFilter
	if v := c.Query("pen_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return response.Error(c, "Invalid pen_id", 400, nil)
		}
		filter.PenID = &id
	}
	if v := c.Query("lot_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return response.Error(c, "Invalid lot_id", 400, nil)
		}
		filter.LotID = &id
	}
	if v := c.Query("from"); v != "" {
		d, err := validation.ParseDate(v)
		if err != nil {
			return response.Error(c, "Invalid from date, expected YYYY-MM-DD", 400, nil)
		}
		filter.DateFrom = &d
	}
	if v := c.Query("to"); v != "" {
		d, err := validation.ParseDate(v)
		if err != nil {
			return response.Error(c, "Invalid to date, expected YYYY-MM-DD", 400, nil)
		}
		filter.DateTo = &d
	}
	filter.Limit = c.QueryInt("limit")

	recs, err := h.Service.List(c.Context(), actor.FarmID, filter)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Feedings retrieved", fiber.Map{"feedings": recs}, nil)
}

// Delete DELETE /api/v1/feedings/:id
func (h *Handlers) Delete(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Error(c, "User is not associated with any farm", 403, nil)
	}
	feedingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid feeding id", 400, nil)
	}
	if err := h.Service.Delete(c.Context(), actor.FarmID, feedingID); err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Feeding deleted", nil, nil)
}

// Summary GET /api/v1/feedings/summary?date=YYYY-MM-DD — one day's totals.
func (h *Handlers) Summary(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Error(c, "User is not associated with any farm", 403, nil)
	}
	date := time.Now().UTC().Truncate(24 * time.Hour)
	if v := c.Query("date"); v != "" {
		d, err := validation.ParseDate(v)
		if err != nil {
			return response.Error(c, "Invalid date, expected YYYY-MM-DD", 400, nil)
		}
		date = d
	}
	sum, err := h.Service.Summarize(c.Context(), actor.FarmID, date)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Feeding summary retrieved", fiber.Map{"summary": sum}, nil)
}
