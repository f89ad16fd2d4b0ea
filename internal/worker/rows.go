package worker

import (
	"context"
	"fmt"

	"compras/internal/analytics"
	"compras/internal/core"
	"compras/internal/storage"
)

var headers = map[storage.Collection][]any{
	storage.Suppliers:   {"ID", "Nome", "CNPJ", "Contato", "Vendedor", "Telefone vendedor"},
	storage.Products:    {"ID", "Nome", "SKU", "Categoria", "Unidade"},
	storage.Receipts:    {"ID", "Data", "Nota", "Fornecedor", "Produto", "Quantidade", "Unidade", "Preço unitário", "Total"},
	storage.Sales:       {"ID", "Data", "Total", "Observações"},
	storage.Boletos:     {"ID", "Descrição", "Fornecedor", "Vencimento", "Valor", "Status"},
	storage.Maintenance: {"ID", "Data", "Descrição", "Fornecedor", "Valor"},
	storage.FixedCosts:  {"ID", "Descrição", "Vencimento", "Valor", "Status"},
}

// Rows loads the collection behind ref and renders it as a header row plus
// one row per record, with catalog references resolved to names.
func Rows(ctx context.Context, store storage.Store, keys storage.Keys, ref storage.Ref) ([][]any, error) {
	header, ok := headers[ref.Collection]
	if !ok {
		return nil, fmt.Errorf("unknown collection %q", ref.Collection)
	}
	rows := [][]any{header}

	suppliers := storage.Load(ctx, store, keys.Suppliers(), core.SeedSuppliers())
	products := storage.Load(ctx, store, keys.Products(), []core.Product{})
	lookup := analytics.NewLookup(suppliers, products)

	switch ref.Collection {
	case storage.Suppliers:
		for _, s := range suppliers {
			rows = append(rows, []any{s.ID, s.Name, s.TaxID, s.Contact, s.VendorName, s.VendorPhone})
		}
	case storage.Products:
		for _, p := range products {
			rows = append(rows, []any{p.ID, p.Name, p.SKU, core.CategoryName(p.CategoryID), p.Unit})
		}
	case storage.Receipts:
		for _, r := range storage.Load(ctx, store, ref.Key, []core.Receipt{}) {
			rows = append(rows, []any{
				r.ID, r.Date, r.InvoiceNumber,
				supplierName(lookup, r.SupplierID), lookup.ProductName(r.ProductID),
				r.Quantity, lookup.ProductUnit(r.ProductID), r.UnitPrice, r.TotalValue,
			})
		}
	case storage.Sales:
		for _, s := range storage.Load(ctx, store, ref.Key, []core.DailySale{}) {
			rows = append(rows, []any{s.ID, s.Date, s.TotalValue, s.Notes})
		}
	case storage.Boletos:
		for _, b := range storage.Load(ctx, store, ref.Key, []core.Boleto{}) {
			rows = append(rows, []any{b.ID, b.Description, supplierName(lookup, b.SupplierID), b.DueDate, b.Value, string(b.Status)})
		}
	case storage.Maintenance:
		for _, m := range storage.Load(ctx, store, ref.Key, []core.MaintenanceRecord{}) {
			rows = append(rows, []any{m.ID, m.Date, m.Description, supplierName(lookup, m.SupplierID), m.Value})
		}
	case storage.FixedCosts:
		for _, c := range storage.Load(ctx, store, ref.Key, []core.FixedCost{}) {
			rows = append(rows, []any{c.ID, c.Description, c.DueDate, c.Value, string(c.Status)})
		}
	}
	return rows, nil
}

// supplierName leaves optional supplier references blank.
func supplierName(l analytics.Lookup, id string) string {
	if id == "" {
		return ""
	}
	return l.SupplierName(id)
}

// TabName is the spreadsheet tab of ref: the key without the prefix.
func TabName(ref storage.Ref) string {
	if ref.Collection.Global() {
		return string(ref.Collection)
	}
	return string(ref.Unit) + "_" + string(ref.Collection)
}
