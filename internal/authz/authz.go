// Package authz holds the static role/operation authorization table.
// It is the single source of truth for permissions: UI-level hiding of
// controls is a convenience, every mutating entry point re-checks here.
package authz

import "github.com/retailops/erp-backend/internal/models"

// Operations gated by the table.
const (
	OpAddProduct    = "add_product"
	OpEditProduct   = "edit_product" // also covers delete
	OpRecordSale    = "record_sale"
	OpViewFinance   = "view_finance"
	OpManageFinance = "manage_finance"
)

var table = map[string]map[string]bool{
	models.RoleAdmin: {
		OpAddProduct:    true,
		OpEditProduct:   true,
		OpRecordSale:    true,
		OpViewFinance:   true,
		OpManageFinance: true,
	},
	models.RoleManager: {
		OpAddProduct: true,
	},
	models.RoleCashier: {
		OpRecordSale: true,
	},
}

// Allowed reports whether role may perform op. Pairs not in the table
// deny: unknown roles and unknown operations fail closed.
func Allowed(role, op string) bool {
	return table[role][op]
}
