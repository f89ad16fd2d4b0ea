package core

import (
	"errors"
	"testing"
)

func TestSupplierFormUppercasesName(t *testing.T) {
	s, err := SupplierForm{Name: " fornecedor novo ", Contact: "x"}.Build("id1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Name != "FORNECEDOR NOVO" || s.ID != "id1" || s.Contact != "x" {
		t.Fatalf("unexpected supplier %+v", s)
	}
	if _, err := (SupplierForm{}).Build("id2"); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func TestProductFormRequiresUnit(t *testing.T) {
	if _, err := (ProductForm{Name: "arroz"}).Build("p"); !errors.Is(err, ErrEmptyUnit) {
		t.Fatalf("expected ErrEmptyUnit, got %v", err)
	}
	p, err := ProductForm{Name: "arroz", Unit: " kg ", CategoryID: "c1"}.Build("p")
	if err != nil || p.Name != "ARROZ" || p.Unit != "KG" {
		t.Fatalf("unexpected %+v (%v)", p, err)
	}
	if _, err := (ProductForm{Name: "arroz", Unit: "SACO"}).Build("p"); !errors.Is(err, ErrInvalidUnit) || !IsValidation(err) {
		t.Fatalf("expected ErrInvalidUnit, got %v", err)
	}
}

func TestItemForm(t *testing.T) {
	cases := []struct {
		form ItemForm
		want error
	}{
		{ItemForm{ProductID: "p1", Quantity: "2", UnitPrice: "10"}, nil},
		{ItemForm{ProductID: "p1", Quantity: "1,5", UnitPrice: "3.20"}, nil},
		{ItemForm{Quantity: "2", UnitPrice: "10"}, ErrEmptyProduct},
		{ItemForm{ProductID: "p1", Quantity: "0", UnitPrice: "10"}, ErrInvalidQuantity},
		{ItemForm{ProductID: "p1", Quantity: "2", UnitPrice: "abc"}, ErrInvalidPrice},
		{ItemForm{ProductID: "p1", Quantity: "1e200", UnitPrice: "1e200"}, ErrInvalidQuantity},
		{ItemForm{ProductID: "p1", Quantity: "2", UnitPrice: "1e400"}, ErrInvalidPrice},
		{ItemForm{ProductID: "p1", Quantity: "10000000", UnitPrice: "1000000"}, ErrInvalidAmount},
	}
	for i, tc := range cases {
		_, err := tc.form.Build()
		if !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestDraftItemReceipt(t *testing.T) {
	item := DraftItem{ProductID: "p1", Quantity: 2, UnitPrice: 10}
	h := InvoiceHeader{InvoiceNumber: "N1", SupplierID: "s1", Date: "2024-03-01"}
	r := item.Receipt("r1", h)
	if r.TotalValue != 20 || r.SupplierID != "s1" || r.InvoiceNumber != "N1" || r.Date != "2024-03-01" {
		t.Fatalf("unexpected receipt %+v", r)
	}
}

func TestBoletoFormDefaultsPending(t *testing.T) {
	b, err := BoletoForm{Description: "Gás", Value: "150,00", DueDate: "2024-04-10", SupplierID: "s-20"}.Build("b1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Status != StatusPending || b.Value != 150 || b.SupplierID != "s-20" {
		t.Fatalf("unexpected boleto %+v", b)
	}
	if _, err := (BoletoForm{Description: "x", Value: "1"}).Build("b2"); !errors.Is(err, ErrEmptyDate) {
		t.Fatalf("expected ErrEmptyDate, got %v", err)
	}
}

func TestSaleAndMaintenanceForms(t *testing.T) {
	if _, err := (SaleForm{Date: "2024-01-01", TotalValue: "-3"}).Build("s"); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := (MaintenanceForm{Value: "10", Date: "2024-01-01"}).Build("m"); !errors.Is(err, ErrEmptyDescription) {
		t.Fatalf("expected ErrEmptyDescription, got %v", err)
	}
	fc, err := FixedCostForm{Description: "Aluguel", Value: "3000", DueDate: "2024-01-05"}.Build("f")
	if err != nil || fc.Status != StatusPending {
		t.Fatalf("unexpected %+v (%v)", fc, err)
	}
}
