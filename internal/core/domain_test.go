package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestStatusToggle(t *testing.T) {
	if got := StatusPending.Toggle(); got != StatusPaid {
		t.Fatalf("expected paid, got %s", got)
	}
	if got := StatusPending.Toggle().Toggle(); got != StatusPending {
		t.Fatalf("double toggle should restore pending, got %s", got)
	}
	if got := Status("").Toggle(); got != StatusPending {
		t.Fatalf("unknown status should become pending, got %s", got)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year() != 2024 || d.Month() != time.January || d.Day() != 5 {
		t.Fatalf("unexpected date %v", d)
	}
	if _, err := ParseDate(""); !errors.Is(err, ErrEmptyDate) {
		t.Fatalf("expected ErrEmptyDate, got %v", err)
	}
	if _, err := ParseDate("05/01/2024"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestDateOfDropsClock(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	now := time.Date(2024, 3, 15, 23, 30, 0, 0, loc)
	d := DateOf(now)
	want, _ := ParseDate("2024-03-15")
	if !d.Equal(want) {
		t.Fatalf("expected %v, got %v", want, d)
	}
}

func TestParseStoreUnit(t *testing.T) {
	units := []StoreUnit{"loja1", "loja2"}
	if u, err := ParseStoreUnit(" loja2 ", units); err != nil || u != "loja2" {
		t.Fatalf("expected loja2, got %q (%v)", u, err)
	}
	if _, err := ParseStoreUnit("loja3", units); !errors.Is(err, ErrInvalidStoreUnit) {
		t.Fatalf("expected ErrInvalidStoreUnit, got %v", err)
	}
}

func TestBoletoLegacyCategoryID(t *testing.T) {
	var b Boleto
	raw := `{"id":"b1","description":"Gas","value":10,"dueDate":"2024-02-01","status":"pending","categoryId":"s-20"}`
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if b.SupplierID != "s-20" {
		t.Fatalf("expected supplier from legacy key, got %q", b.SupplierID)
	}

	raw = `{"id":"b2","supplierId":"s-1","categoryId":"s-2"}`
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if b.SupplierID != "s-1" {
		t.Fatalf("supplierId should win over legacy key, got %q", b.SupplierID)
	}

	out, _ := json.Marshal(b)
	var m map[string]any
	_ = json.Unmarshal(out, &m)
	if _, ok := m["categoryId"]; ok {
		t.Fatalf("legacy key must not be written back: %s", out)
	}
}

func TestRecordValidate(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"supplier ok", Supplier{Name: "AMBEV"}.Validate(), nil},
		{"supplier blank", Supplier{Name: "  "}.Validate(), ErrEmptyName},
		{"product no unit", Product{Name: "ARROZ"}.Validate(), ErrEmptyUnit},
		{"product ok", Product{Name: "ARROZ", Unit: "KG"}.Validate(), nil},
		{"sale zero", DailySale{Date: "2024-01-01"}.Validate(), ErrInvalidAmount},
		{"sale no date", DailySale{TotalValue: 1}.Validate(), ErrEmptyDate},
		{"boleto bad status", Boleto{Description: "x", Value: 1, DueDate: "2024-01-01", Status: "late"}.Validate(), ErrInvalidStatus},
		{"boleto ok", Boleto{Description: "x", Value: 1, DueDate: "2024-01-01", Status: StatusPaid}.Validate(), nil},
		{"fixed cost no description", FixedCost{Value: 1, DueDate: "2024-01-01", Status: StatusPending}.Validate(), ErrEmptyDescription},
		{"maintenance ok", MaintenanceRecord{Description: "x", Value: 1, Date: "2024-01-01"}.Validate(), nil},
		{"receipt zero qty", Receipt{ProductID: "p", UnitPrice: 1}.Validate(), ErrInvalidQuantity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !errors.Is(tc.err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, tc.err)
			}
		})
	}
}

func TestSeedSuppliers(t *testing.T) {
	s := SeedSuppliers()
	if len(s) != 43 {
		t.Fatalf("expected 43 seed suppliers, got %d", len(s))
	}
	if s[0].ID != "s-0" || s[0].Name != "AJES" {
		t.Fatalf("unexpected first supplier %+v", s[0])
	}
	if s[42].ID != "s-42" || s[42].Name != "WL" {
		t.Fatalf("unexpected last supplier %+v", s[42])
	}
}

func TestCategories(t *testing.T) {
	c := Categories()
	if len(c) != 25 {
		t.Fatalf("expected 25 categories, got %d", len(c))
	}
	c[0].Name = "changed"
	if CategoryName("c1") != "MERCEARIA" {
		t.Fatalf("Categories must return a copy")
	}
	if CategoryName("nope") != "" {
		t.Fatalf("unknown category should resolve to empty")
	}
}
