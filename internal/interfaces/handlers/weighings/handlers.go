package weighings

import (
	weighsvc "confina-backend/internal/application/weighings"
	"confina-backend/internal/middleware"
	"confina-backend/internal/pkg/response"
	"confina-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *weighsvc.Service
}

var statusMap = map[error]int{
	weighsvc.ErrLotNotFound:      404,
	weighsvc.ErrInvalidHeadCount: 400,
	weighsvc.ErrInvalidWeight:    400,
}

func fail(c *fiber.Ctx, err error) error {
	if code, ok := statusMap[err]; ok {
		return response.Error(c, err.Error(), code, nil)
	}
	return response.Error(c, "Internal Server Error", 500, nil)
}

// Create POST /api/v1/lots/:lotId/weighings — record a weighing with its
// interval GMD snapshot.
func (h *Handlers) Create(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Error(c, "User is not associated with any farm", 403, nil)
	}
	lotID, err := uuid.Parse(c.Params("lotId"))
	if err != nil {
		return response.Error(c, "Invalid lot id", 400, nil)
	}
	var body struct {
		WeighingDate string  `json:"weighing_date"`
		HeadWeighed  int     `json:"head_weighed"`
		AvgWeightKg  float64 `json:"avg_weight_kg"`
		Notes        *string `json:"notes"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	date, err := validation.ParseDate(body.WeighingDate)
	if err != nil {
		return response.Error(c, "Invalid weighing_date, expected YYYY-MM-DD", 400, nil)
	}

	rec, err := h.Service.Create(c.Context(), actor.FarmID, actor.UserID, weighsvc.CreateInput{
		LotID:        lotID,
		WeighingDate: date,
		HeadWeighed:  body.HeadWeighed,
		AvgWeightKg:  body.AvgWeightKg,
		Notes:        body.Notes,
	})
	if err != nil {
		return fail(c, err)
	}
	return response.SuccessCreated(c, "Weighing recorded", fiber.Map{"weighing": rec}, nil)
}

// List GET /api/v1/lots/:lotId/weighings — weighings plus the mean of the
// interval GMD snapshots (null when no interval produced one).
func (h *Handlers) List(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Error(c, "User is not associated with any farm", 403, nil)
	}
	lotID, err := uuid.Parse(c.Params("lotId"))
	if err != nil {
		return response.Error(c, "Invalid lot id", 400, nil)
	}
	recs, err := h.Service.ListByLot(c.Context(), actor.FarmID, lotID)
	if err != nil {
		return fail(c, err)
	}
	mean, err := h.Service.MeanGMD(c.Context(), actor.FarmID, lotID)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Weighings retrieved", fiber.Map{
		"weighings":   recs,
		"mean_gmd_kg": mean,
	}, nil)
}
