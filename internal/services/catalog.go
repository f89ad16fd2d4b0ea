package services

import (
	"cmp"
	"context"
	"slices"

	"compras/internal/analytics"
	"compras/internal/core"
	"compras/internal/storage"
)

// ProductSearchLimit caps SearchProducts results.
const ProductSearchLimit = 20

func supplierID(s core.Supplier) string { return s.ID }
func productID(p core.Product) string   { return p.ID }

// Suppliers returns the supplier list sorted by name.
func (w *Workspace) Suppliers() []core.Supplier {
	w.mu.Lock()
	out := slices.Clone(w.suppliers)
	w.mu.Unlock()

	slices.SortStableFunc(out, func(a, b core.Supplier) int { return cmp.Compare(a.Name, b.Name) })
	return out
}

// Products returns the product list, newest first.
func (w *Workspace) Products() []core.Product {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.products)
}

// SearchProducts matches query against product names.
func (w *Workspace) SearchProducts(query string) []core.Product {
	w.mu.Lock()
	defer w.mu.Unlock()
	return analytics.SearchProducts(w.products, query, ProductSearchLimit)
}

func (w *Workspace) AddSupplier(ctx context.Context, form core.SupplierForm) (core.Supplier, error) {
	s, err := form.Build(w.newID())
	if err != nil {
		return core.Supplier{}, w.rejected(ctx, storage.Suppliers, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.suppliers = prepend(w.suppliers, s)
	w.created(ctx, storage.Suppliers, s.ID)
	return s, persist(ctx, w, storage.Suppliers, w.suppliers)
}

func (w *Workspace) AddProduct(ctx context.Context, form core.ProductForm) (core.Product, error) {
	p, err := form.Build(w.newID())
	if err != nil {
		return core.Product{}, w.rejected(ctx, storage.Products, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.products = prepend(w.products, p)
	w.created(ctx, storage.Products, p.ID)
	return p, persist(ctx, w, storage.Products, w.products)
}

// DeleteSupplier removes the supplier. Receipts and boletos that point to it
// keep the dangling id.
func (w *Workspace) DeleteSupplier(ctx context.Context, id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	next, ok := without(w.suppliers, id, supplierID)
	if !ok {
		return ErrNotFound
	}
	w.suppliers = next
	w.deleted(ctx, storage.Suppliers, id)
	return persist(ctx, w, storage.Suppliers, w.suppliers)
}

func (w *Workspace) DeleteProduct(ctx context.Context, id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	next, ok := without(w.products, id, productID)
	if !ok {
		return ErrNotFound
	}
	w.products = next
	w.deleted(ctx, storage.Products, id)
	return persist(ctx, w, storage.Products, w.products)
}
