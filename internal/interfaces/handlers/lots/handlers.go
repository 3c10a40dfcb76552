package lots

import (
	closesvc "confina-backend/internal/application/closeout"
	lotsvc "confina-backend/internal/application/lots"
	"confina-backend/internal/middleware"
	"confina-backend/internal/pkg/response"
	"confina-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service  *lotsvc.Service
	Closeout *closesvc.Service
}

var statusMap = map[error]int{
	lotsvc.ErrLotNotFound:        404,
	lotsvc.ErrPenNotFound:        404,
	lotsvc.ErrCostNotFound:       404,
	lotsvc.ErrCodeRequired:       400,
	lotsvc.ErrCodeTaken:          409,
	lotsvc.ErrInvalidHeadCount:   400,
	lotsvc.ErrInvalidWeight:      400,
	lotsvc.ErrInvalidEntryDate:   400,
	lotsvc.ErrInvalidDivisor:     400,
	lotsvc.ErrInvalidCostAmount:  400,
	lotsvc.ErrLotClosed:          409,
	closesvc.ErrLotNotFound:      404,
	closesvc.ErrLotAlreadyClosed: 409,
	closesvc.ErrInvalidSalePrice: 400,
}

func fail(c *fiber.Ctx, err error) error {
	if code, ok := statusMap[err]; ok {
		return response.Error(c, err.Error(), code, nil)
	}
	return response.Error(c, "Internal Server Error", 500, nil)
}

type lotBody struct {
	PenID               *string  `json:"pen_id"`
	LotCode             string   `json:"lot_code"`
	Category            string   `json:"category"`
	Origin              *string  `json:"origin"`
	HeadCount           int      `json:"head_count"`
	AvgEntryWeightKg    float64  `json:"avg_entry_weight_kg"`
	EntryDate           string   `json:"entry_date"`
	TargetGMDKg         *float64 `json:"target_gmd_kg"`
	TargetLeftoverPct   *float64 `json:"target_leftover_pct"`
	PurchasePriceArroba *float64 `json:"purchase_price_arroba"`
	CarcassYieldPct     *float64 `json:"carcass_yield_pct"`
	CostPerHeadDay      *float64 `json:"cost_per_head_day"`
	ArrobaDivisor       *float64 `json:"arroba_divisor"`
	Notes               *string  `json:"notes"`
}

func parsePenID(s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// Create POST /api/v1/lots
func (h *Handlers) Create(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Error(c, "User is not associated with any farm", 403, nil)
	}
	var body lotBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	penID, err := parsePenID(body.PenID)
	if err != nil {
		return response.Error(c, "Invalid pen_id", 400, nil)
	}
	entryDate, err := validation.ParseDate(body.EntryDate)
	if err != nil {
		return response.Error(c, "Invalid entry_date, expected YYYY-MM-DD", 400, nil)
	}

	lot, err := h.Service.Create(c.Context(), actor.FarmID, lotsvc.CreateInput{
		PenID:               penID,
		LotCode:             body.LotCode,
		Category:            body.Category,
		Origin:              body.Origin,
		HeadCount:           body.HeadCount,
		AvgEntryWeightKg:    body.AvgEntryWeightKg,
		EntryDate:           entryDate,
		TargetGMDKg:         body.TargetGMDKg,
		TargetLeftoverPct:   body.TargetLeftoverPct,
		PurchasePriceArroba: body.PurchasePriceArroba,
		CarcassYieldPct:     body.CarcassYieldPct,
		CostPerHeadDay:      body.CostPerHeadDay,
		ArrobaDivisor:       body.ArrobaDivisor,
		Notes:               body.Notes,
	})
	if err != nil {
		return fail(c, err)
	}
	return response.SuccessCreated(c, "Lot created", fiber.Map{"lot": lot}, nil)
}

// Update PUT /api/v1/lots/:id — patch targets and negotiables only.
func (h *Handlers) Update(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Error(c, "User is not associated with any farm", 403, nil)
	}
	lotID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid lot id", 400, nil)
	}
	var body struct {
		PenID               *string  `json:"pen_id"`
		Category            *string  `json:"category"`
		Origin              *string  `json:"origin"`
		TargetGMDKg         *float64 `json:"target_gmd_kg"`
		TargetLeftoverPct   *float64 `json:"target_leftover_pct"`
		PurchasePriceArroba *float64 `json:"purchase_price_arroba"`
		CarcassYieldPct     *float64 `json:"carcass_yield_pct"`
		CostPerHeadDay      *float64 `json:"cost_per_head_day"`
		ArrobaDivisor       *float64 `json:"arroba_divisor"`
		Notes               *string  `json:"notes"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	penID, err := parsePenID(body.PenID)
	if err != nil {
		return response.Error(c, "Invalid pen_id", 400, nil)
	}

	lot, err := h.Service.Update(c.Context(), actor.FarmID, lotID, lotsvc.UpdateInput{
		PenID:               penID,
		Category:            body.Category,
		Origin:              body.Origin,
		TargetGMDKg:         body.TargetGMDKg,
		TargetLeftoverPct:   body.TargetLeftoverPct,
		PurchasePriceArroba: body.PurchasePriceArroba,
		CarcassYieldPct:     body.CarcassYieldPct,
		CostPerHeadDay:      body.CostPerHeadDay,
		ArrobaDivisor:       body.ArrobaDivisor,
		Notes:               body.Notes,
	})
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Lot updated", fiber.Map{"lot": lot}, nil)
}

// List GET /api/v1/lots?status=active|closed
func (h *Handlers) List(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Error(c, "User is not associated with any farm", 403, nil)
	}
	lots, err := h.Service.List(c.Context(), actor.FarmID, c.Query("status"))
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Lots retrieved", fiber.Map{"lots": lots}, nil)
}

// Get GET /api/v1/lots/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Error(c, "User is not associated with any farm", 403, nil)
	}
	lotID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid lot id", 400, nil)
	}
	lot, err := h.Service.Get(c.Context(), actor.FarmID, lotID)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Lot retrieved", fiber.Map{"lot": lot}, nil)
}

// GetCloseout GET /api/v1/lots/:id/closeout — the live reconciled view.
func (h *Handlers) GetCloseout(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Error(c, "User is not associated with any farm", 403, nil)
	}
	lotID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid lot id", 400, nil)
	}
	out, err := h.Closeout.Reconcile(c.Context(), actor.FarmID, lotID)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Closeout retrieved", fiber.Map{"closeout": out}, nil)
}

// Simulate GET /api/v1/lots/:id/simulate?price_per_arroba=260
func (h *Handlers) Simulate(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Error(c, "User is not associated with any farm", 403, nil)
	}
	lotID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid lot id", 400, nil)
	}
	price := c.QueryFloat("price_per_arroba")
	out, sim, err := h.Closeout.Simulate(c.Context(), actor.FarmID, lotID, price)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Simulation computed", fiber.Map{
		"closeout":   out,
		"simulation": sim,
	}, nil)
}

// Close POST /api/v1/lots/:id/close — freeze the closeout snapshot and mark
// the lot closed.
func (h *Handlers) Close(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Error(c, "User is not associated with any farm", 403, nil)
	}
	lotID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid lot id", 400, nil)
	}
	var body struct {
		SalePricePerArroba *float64 `json:"sale_price_per_arroba"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return response.Error(c, "Invalid request body", 400, nil)
		}
	}
	out, err := h.Closeout.Close(c.Context(), actor.FarmID, lotID, actor.UserID, body.SalePricePerArroba)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Lot closed", fiber.Map{"closeout": out}, nil)
}

// AddExtraCost POST /api/v1/lots/:id/costs
func (h *Handlers) AddExtraCost(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Error(c, "User is not associated with any farm", 403, nil)
	}
	lotID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid lot id", 400, nil)
	}
	var body struct {
		Description string  `json:"description"`
		TotalAmount float64 `json:"total_amount"`
		CostDate    string  `json:"cost_date"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	costDate, err := validation.ParseDate(body.CostDate)
	if err != nil {
		return response.Error(c, "Invalid cost_date, expected YYYY-MM-DD", 400, nil)
	}
	cost, err := h.Service.AddExtraCost(c.Context(), actor.FarmID, lotID, actor.UserID, lotsvc.ExtraCostInput{
		Description: body.Description,
		TotalAmount: body.TotalAmount,
		CostDate:    costDate,
	})
	if err != nil {
		return fail(c, err)
	}
	return response.SuccessCreated(c, "Extra cost added", fiber.Map{"cost": cost}, nil)
}

// ListExtraCosts GET /api/v1/lots/:id/costs
func (h *Handlers) ListExtraCosts(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Error(c, "User is not associated with any farm", 403, nil)
	}
	lotID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid lot id", 400, nil)
	}
	costs, err := h.Service.ListExtraCosts(c.Context(), actor.FarmID, lotID)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Extra costs retrieved", fiber.Map{"costs": costs}, nil)
}

// DeleteExtraCost DELETE /api/v1/lots/costs/:costId
func (h *Handlers) DeleteExtraCost(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Error(c, "User is not associated with any farm", 403, nil)
	}
	costID, err := uuid.Parse(c.Params("costId"))
	if err != nil {
		return response.Error(c, "Invalid cost id", 400, nil)
	}
	if err := h.Service.DeleteExtraCost(c.Context(), actor.FarmID, costID); err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Extra cost deleted", nil, nil)
}
