package intake

import (
	"time"

	intakesvc "confina-backend/internal/application/intake"
	"confina-backend/internal/middleware"
	"confina-backend/internal/pkg/response"
	"confina-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *intakesvc.Service
}

// Board GET /api/v1/intake?date=YYYY-MM-DD — the day's per-pen intake rows
// with their alerts. Defaults to today.
func (h *Handlers) Board(c *fiber.Ctx) error {
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
	rows, err := h.Service.ForDate(c.Context(), actor.FarmID, date)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	alerts := 0
	for _, r := range rows {
		alerts += len(r.Alerts)
	}
	return response.Success(c, "Intake board retrieved", fiber.Map{
		"date":    validation.FormatDate(date),
		"intakes": rows,
	}, fiber.Map{"alert_count": alerts})
}
