package model

import "testing"

func TestParseRole(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want Role
	}{
		{"admin", RoleAdmin},
		{"user", RoleUser},
		{"", RoleUser},
		{"superuser", RoleUser},
		{"ADMIN", RoleUser},
	}
	for _, tc := range cases {
		if got := ParseRole(tc.in); got != tc.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCanManageCatalog(t *testing.T) {
	t.Parallel()

	if !RoleAdmin.CanManageCatalog() {
		t.Error("admin should manage the catalog")
	}
	if RoleUser.CanManageCatalog() {
		t.Error("user should not manage the catalog")
	}
}

func TestDeriveStockStatus(t *testing.T) {
	t.Parallel()

	p := Product{Stock: 2}
	p.DeriveStockStatus()
	if p.StockStatus != StockStatusIn {
		t.Errorf("status = %q, want %q", p.StockStatus, StockStatusIn)
	}

	p.Stock = 0
	p.DeriveStockStatus()
	if p.StockStatus != StockStatusOut {
		t.Errorf("status = %q, want %q", p.StockStatus, StockStatusOut)
	}
}
