package constants

import pkgconst "confina-backend/internal/pkg/constants"

// PermissionRoles maps each permission to the farm roles allowed to perform it.
// The calculation engine itself never consults this; it gates handlers only.
var PermissionRoles = map[string][]string{
	ViewData:           {pkgconst.Viewer, pkgconst.Operator, pkgconst.Manager, pkgconst.Owner},
	ManagePens:         {pkgconst.Manager, pkgconst.Owner},
	ManageLots:         {pkgconst.Manager, pkgconst.Owner},
	CloseLot:           {pkgconst.Manager, pkgconst.Owner},
	ManageIngredients:  {pkgconst.Manager, pkgconst.Owner},
	ManageCompositions: {pkgconst.Manager, pkgconst.Owner},
	CreateFeeding:      {pkgconst.Operator, pkgconst.Manager, pkgconst.Owner},
	DeleteFeeding:      {pkgconst.Manager, pkgconst.Owner},
	CreateWeighing:     {pkgconst.Operator, pkgconst.Manager, pkgconst.Owner},
	ManageExtraCosts:   {pkgconst.Manager, pkgconst.Owner},
	ManageFinancial:    {pkgconst.Manager, pkgconst.Owner},
	ManageMembers:      {pkgconst.Owner},
}

// AllowedRole returns true if role is in the list of allowed roles for the permission.
func AllowedRole(permission, role string) bool {
	roles, ok := PermissionRoles[permission]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
