package authz

import (
	"testing"

	"github.com/retailops/erp-backend/internal/models"
)

func TestAllowed(t *testing.T) {
	tests := []struct {
		role string
		op   string
		want bool
	}{
		{models.RoleAdmin, OpAddProduct, true},
		{models.RoleAdmin, OpEditProduct, true},
		{models.RoleAdmin, OpRecordSale, true},
		{models.RoleAdmin, OpViewFinance, true},
		{models.RoleAdmin, OpManageFinance, true},

		{models.RoleManager, OpAddProduct, true},
		{models.RoleManager, OpEditProduct, false},
		{models.RoleManager, OpRecordSale, false},
		{models.RoleManager, OpViewFinance, false},

		{models.RoleCashier, OpRecordSale, true},
		{models.RoleCashier, OpAddProduct, false},
		{models.RoleCashier, OpViewFinance, false},
	}

	for _, tt := range tests {
		if got := Allowed(tt.role, tt.op); got != tt.want {
			t.Errorf("Allowed(%q, %q) = %v, want %v", tt.role, tt.op, got, tt.want)
		}
	}
}

func TestAllowed_FailsClosed(t *testing.T) {
	if Allowed("", OpRecordSale) {
		t.Error("empty role must be denied")
	}
	if Allowed("superuser", OpRecordSale) {
		t.Error("unknown role must be denied")
	}
	if Allowed(models.RoleAdmin, "unknown_op") {
		t.Error("unknown operation must be denied")
	}
}
