package constants

const (
	ViewData           = "view_data"
	ManagePens         = "manage_pens"
	ManageLots         = "manage_lots"
	CloseLot           = "close_lot"
	ManageIngredients  = "manage_ingredients"
	ManageCompositions = "manage_compositions"
	CreateFeeding      = "create_feeding"
	DeleteFeeding      = "delete_feeding"
	CreateWeighing     = "create_weighing"
	ManageExtraCosts   = "manage_extra_costs"
	ManageFinancial    = "manage_financial"
	ManageMembers      = "manage_members"
)
