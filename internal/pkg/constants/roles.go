package constants

const (
	Owner    = "owner"
	Manager  = "manager"
	Operator = "operator"
	Viewer   = "viewer"
)
