package analytics

import (
	"strings"
	"time"

	"compras/internal/core"
)

// ReportFilter narrows the receipt report. Empty fields match everything;
// StartDate and EndDate are inclusive.
type ReportFilter struct {
	ProductID  string `json:"productId"`
	SupplierID string `json:"supplierId"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
}

// MonthToDate returns a filter from the first day of now's month to today.
func MonthToDate(now time.Time) ReportFilter {
	today := core.DateOf(now)
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	return ReportFilter{StartDate: core.FormatDate(first), EndDate: core.FormatDate(today)}
}

func (f ReportFilter) matches(r core.Receipt) bool {
	if f.ProductID != "" && r.ProductID != f.ProductID {
		return false
	}
	if f.SupplierID != "" && r.SupplierID != f.SupplierID {
		return false
	}
	if f.StartDate == "" && f.EndDate == "" {
		return true
	}
	d, err := core.ParseDate(r.Date)
	if err != nil {
		return false
	}
	if f.StartDate != "" {
		if start, err := core.ParseDate(f.StartDate); err == nil && d.Before(start) {
			return false
		}
	}
	if f.EndDate != "" {
		if end, err := core.ParseDate(f.EndDate); err == nil && d.After(end) {
			return false
		}
	}
	return true
}

// FilterReceipts keeps the receipts matching every set field of f, in their
// original order.
func FilterReceipts(receipts []core.Receipt, f ReportFilter) []core.Receipt {
	out := make([]core.Receipt, 0)
	for _, r := range receipts {
		if f.matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// Lookup resolves catalog references, falling back to core.Unknown.
type Lookup struct {
	suppliers map[string]core.Supplier
	products  map[string]core.Product
}

func NewLookup(suppliers []core.Supplier, products []core.Product) Lookup {
	l := Lookup{
		suppliers: make(map[string]core.Supplier, len(suppliers)),
		products:  make(map[string]core.Product, len(products)),
	}
	for _, s := range suppliers {
		l.suppliers[s.ID] = s
	}
	for _, p := range products {
		l.products[p.ID] = p
	}
	return l
}

func (l Lookup) SupplierName(id string) string {
	if s, ok := l.suppliers[id]; ok {
		return s.Name
	}
	return core.Unknown
}

func (l Lookup) ProductName(id string) string {
	if p, ok := l.products[id]; ok {
		return p.Name
	}
	return core.Unknown
}

func (l Lookup) ProductUnit(id string) string {
	if p, ok := l.products[id]; ok {
		return p.Unit
	}
	return ""
}

// CategoryName returns the category of the product, or "" when either the
// product or its category is unknown.
func (l Lookup) CategoryName(productID string) string {
	p, ok := l.products[productID]
	if !ok {
		return ""
	}
	return core.CategoryName(p.CategoryID)
}

// ReceiptRow is a receipt with its references resolved for display.
type ReceiptRow struct {
	core.Receipt
	SupplierName string `json:"supplierName"`
	ProductName  string `json:"productName"`
	ProductUnit  string `json:"productUnit"`
}

func ResolveReceipts(receipts []core.Receipt, l Lookup) []ReceiptRow {
	rows := make([]ReceiptRow, 0, len(receipts))
	for _, r := range receipts {
		rows = append(rows, ReceiptRow{
			Receipt:      r,
			SupplierName: l.SupplierName(r.SupplierID),
			ProductName:  l.ProductName(r.ProductID),
			ProductUnit:  l.ProductUnit(r.ProductID),
		})
	}
	return rows
}

// SearchProducts matches query case-insensitively against product names and
// returns at most limit results in catalog order.
func SearchProducts(products []core.Product, query string, limit int) []core.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]core.Product, 0)
	for _, p := range products {
		if len(out) == limit {
			break
		}
		if strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p)
		}
	}
	return out
}
