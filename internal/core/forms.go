package core

import "strings"

// Form types carry raw user input for one entry workflow. Each Build method
// validates the input and returns the record to store, or a validation
// error when nothing should be stored.

type SupplierForm struct {
	Name        string `json:"name"`
	TaxID       string `json:"taxId"`
	Contact     string `json:"contact"`
	VendorName  string `json:"vendorName"`
	VendorPhone string `json:"vendorPhone"`
}

func (f SupplierForm) Build(id string) (Supplier, error) {
	s := Supplier{
		ID:          id,
		Name:        upper(f.Name),
		TaxID:       strings.TrimSpace(f.TaxID),
		Contact:     strings.TrimSpace(f.Contact),
		VendorName:  strings.TrimSpace(f.VendorName),
		VendorPhone: strings.TrimSpace(f.VendorPhone),
	}
	return s, s.Validate()
}

type ProductForm struct {
	Name       string `json:"name"`
	SKU        string `json:"sku"`
	CategoryID string `json:"categoryId"`
	Unit       string `json:"unit"`
}

func (f ProductForm) Build(id string) (Product, error) {
	p := Product{
		ID:         id,
		Name:       upper(f.Name),
		SKU:        strings.TrimSpace(f.SKU),
		CategoryID: strings.TrimSpace(f.CategoryID),
		Unit:       upper(f.Unit),
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	if !ValidUnit(p.Unit) {
		return p, ErrInvalidUnit
	}
	return p, nil
}

// InvoiceHeader is shared by every item of a purchase draft.
type InvoiceHeader struct {
	InvoiceNumber string `json:"invoiceNumber"`
	SupplierID    string `json:"supplierId"`
	Date          string `json:"date"`
}

// DraftItem is one line of a purchase draft, already validated.
type DraftItem struct {
	ProductID string  `json:"productId"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// Total returns quantity × unit price.
func (d DraftItem) Total() float64 {
	return Multiply(d.Quantity, d.UnitPrice)
}

// Receipt combines the item with header into a stored line.
func (d DraftItem) Receipt(id string, h InvoiceHeader) Receipt {
	return Receipt{
		ID:            id,
		InvoiceNumber: h.InvoiceNumber,
		SupplierID:    h.SupplierID,
		ProductID:     d.ProductID,
		Quantity:      d.Quantity,
		UnitPrice:     d.UnitPrice,
		TotalValue:    d.Total(),
		Date:          h.Date,
	}
}

type ItemForm struct {
	ProductID string `json:"productId"`
	Quantity  string `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
}

func (f ItemForm) Build() (DraftItem, error) {
	productID := strings.TrimSpace(f.ProductID)
	if productID == "" {
		return DraftItem{}, ErrEmptyProduct
	}
	qty, err := ParseAmount(f.Quantity)
	if err != nil {
		return DraftItem{}, ErrInvalidQuantity
	}
	price, err := ParseAmount(f.UnitPrice)
	if err != nil {
		return DraftItem{}, ErrInvalidPrice
	}
	item := DraftItem{ProductID: productID, Quantity: qty, UnitPrice: price}
	if !InRange(item.Total()) {
		return DraftItem{}, ErrInvalidAmount
	}
	return item, nil
}

type SaleForm struct {
	Date       string `json:"date"`
	TotalValue string `json:"totalValue"`
	Notes      string `json:"notes"`
}

func (f SaleForm) Build(id string) (DailySale, error) {
	v, err := ParseAmount(f.TotalValue)
	if err != nil {
		return DailySale{}, err
	}
	s := DailySale{ID: id, TotalValue: v, Date: strings.TrimSpace(f.Date), Notes: strings.TrimSpace(f.Notes)}
	return s, s.Validate()
}

type BoletoForm struct {
	Description string `json:"description"`
	Value       string `json:"value"`
	DueDate     string `json:"dueDate"`
	SupplierID  string `json:"supplierId"`
}

// Build returns a pending boleto.
func (f BoletoForm) Build(id string) (Boleto, error) {
	b := Boleto{
		ID:          id,
		Description: strings.TrimSpace(f.Description),
		DueDate:     strings.TrimSpace(f.DueDate),
		Status:      StatusPending,
		SupplierID:  strings.TrimSpace(f.SupplierID),
	}
	if b.Description == "" {
		return b, ErrEmptyDescription
	}
	v, err := ParseAmount(f.Value)
	if err != nil {
		return b, err
	}
	b.Value = v
	return b, b.Validate()
}

type FixedCostForm struct {
	Description string `json:"description"`
	Value       string `json:"value"`
	DueDate     string `json:"dueDate"`
}

func (f FixedCostForm) Build(id string) (FixedCost, error) {
	c := FixedCost{
		ID:          id,
		Description: strings.TrimSpace(f.Description),
		DueDate:     strings.TrimSpace(f.DueDate),
		Status:      StatusPending,
	}
	if c.Description == "" {
		return c, ErrEmptyDescription
	}
	v, err := ParseAmount(f.Value)
	if err != nil {
		return c, err
	}
	c.Value = v
	return c, c.Validate()
}

type MaintenanceForm struct {
	Description string `json:"description"`
	SupplierID  string `json:"supplierId"`
	Date        string `json:"date"`
	Value       string `json:"value"`
}

func (f MaintenanceForm) Build(id string) (MaintenanceRecord, error) {
	m := MaintenanceRecord{
		ID:          id,
		Description: strings.TrimSpace(f.Description),
		SupplierID:  strings.TrimSpace(f.SupplierID),
		Date:        strings.TrimSpace(f.Date),
	}
	if m.Description == "" {
		return m, ErrEmptyDescription
	}
	v, err := ParseAmount(f.Value)
	if err != nil {
		return m, err
	}
	m.Value = v
	return m, m.Validate()
}

func upper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
