package financial

import (
	finsvc "confina-backend/internal/application/financial"
	"confina-backend/internal/middleware"
	"confina-backend/internal/pkg/response"
	"confina-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *finsvc.Service
}

var statusMap = map[error]int{
	finsvc.ErrRecordNotFound:   404,
	finsvc.ErrInvalidType:      400,
	finsvc.ErrCategoryRequired: 400,
	finsvc.ErrInvalidAmount:    400,
}

func fail(c *fiber.Ctx, err error) error {
	if code, ok := statusMap[err]; ok {
		return response.Error(c, err.Error(), code, nil)
	}
	return response.Error(c, "Internal Server Error", 500, nil)
}

// Create POST /api/v1/financial
func (h *Handlers) Create(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Error(c, "User is not associated with any farm", 403, nil)
	}
	var body struct {
		Type        string  `json:"type"`
		Category    string  `json:"category"`
		Description *string `json:"description"`
		Amount      float64 `json:"amount"`
		RecordDate  string  `json:"record_date"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	recordDate, err := validation.ParseDate(body.RecordDate)
	if err != nil {
		return response.Error(c, "Invalid record_date, expected YYYY-MM-DD", 400, nil)
	}
	rec, err := h.Service.Create(c.Context(), actor.FarmID, actor.UserID, finsvc.CreateInput{
		Type:        body.Type,
		Category:    body.Category,
		Description: body.Description,
		Amount:      body.Amount,
		RecordDate:  recordDate,
	})
	if err != nil {
		return fail(c, err)
	}
	return response.SuccessCreated(c, "Financial record created", fiber.Map{"record": rec}, nil)
}

func parseFilter(c *fiber.Ctx) (finsvc.ListFilter, error) {
	var f finsvc.ListFilter
	f.Type = c.Query("type")
	f.Category = c.Query("category")
	if v := c.Query("from"); v != "" {
		d, err := validation.ParseDate(v)
		if err != nil {
			return f, err
		}
		f.DateFrom = d
	}
	if v := c.Query("to"); v != "" {
		d, err := validation.ParseDate(v)
		if err != nil {
			return f, err
		}
		f.DateTo = d
	}
	return f, nil
}

// List GET /api/v1/financial?type=&category=&from=&to=
func (h *Handlers) List(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Error(c, "User is not associated with any farm", 403, nil)
	}
	filter, err := parseFilter(c)
	if err != nil {
		return response.Error(c, "Invalid date filter, expected YYYY-MM-DD", 400, nil)
	}
	recs, err := h.Service.List(c.Context(), actor.FarmID, filter)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Financial records retrieved", fiber.Map{"records": recs}, nil)
}

// Summary GET /api/v1/financial/summary?from=&to= — period totals.
func (h *Handlers) Summary(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Error(c, "User is not associated with any farm", 403, nil)
	}
	filter, err := parseFilter(c)
	if err != nil {
		return response.Error(c, "Invalid date filter, expected YYYY-MM-DD", 400, nil)
	}
	sum, err := h.Service.Summarize(c.Context(), actor.FarmID, filter)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Financial summary retrieved", fiber.Map{"summary": sum}, nil)
}

// Delete DELETE /api/v1/financial/:id
func (h *Handlers) Delete(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Error(c, "User is not associated with any farm", 403, nil)
	}
	recordID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid record id", 400, nil)
	}
	if err := h.Service.Delete(c.Context(), actor.FarmID, recordID); err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Financial record deleted", nil, nil)
}
