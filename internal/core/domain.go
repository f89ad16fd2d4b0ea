package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// DateLayout is the calendar date format used by every record.
const DateLayout = "2006-01-02"

// Unknown is shown in place of a supplier or product that no longer exists.
const Unknown = "—"

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

type (
	// StoreUnit names an operational location. Transactional collections are
	// kept separately per unit; the catalog is shared.
	StoreUnit string

	Status string

	Supplier struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		TaxID       string `json:"taxId"`
		Contact     string `json:"contact"`
		VendorName  string `json:"vendorName,omitempty"`
		VendorPhone string `json:"vendorPhone,omitempty"`
	}

	Category struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	Product struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		SKU        string `json:"sku"`
		CategoryID string `json:"categoryId"`
		Unit       string `json:"unit"`
	}

	// Receipt is one purchased line item of an invoice. TotalValue is fixed
	// at creation and never recomputed.
	Receipt struct {
		ID            string  `json:"id"`
		InvoiceNumber string  `json:"invoiceNumber"`
		SupplierID    string  `json:"supplierId"`
		ProductID     string  `json:"productId"`
		Quantity      float64 `json:"quantity"`
		UnitPrice     float64 `json:"unitPrice"`
		TotalValue    float64 `json:"totalValue"`
		Date          string  `json:"date"`
	}

	DailySale struct {
		ID         string  `json:"id"`
		TotalValue float64 `json:"totalValue"`
		Date       string  `json:"date"`
		Notes      string  `json:"notes,omitempty"`
	}

	// Boleto is a payable bill with a due date.
	Boleto struct {
		ID          string  `json:"id"`
		Description string  `json:"description"`
		Value       float64 `json:"value"`
		DueDate     string  `json:"dueDate"`
		Status      Status  `json:"status"`
		SupplierID  string  `json:"supplierId"`
	}

	MaintenanceRecord struct {
		ID          string  `json:"id"`
		Description string  `json:"description"`
		SupplierID  string  `json:"supplierId"`
		Date        string  `json:"date"`
		Value       float64 `json:"value"`
	}

	FixedCost struct {
		ID          string  `json:"id"`
		Description string  `json:"description"`
		Value       float64 `json:"value"`
		DueDate     string  `json:"dueDate"`
		Status      Status  `json:"status"`
	}
)

var (
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyUnit        = errors.New("empty unit")
	ErrInvalidUnit      = errors.New("unknown product unit")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyDate        = errors.New("empty date")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidQuantity  = errors.New("invalid quantity")
	ErrInvalidPrice     = errors.New("invalid unit price")
	ErrEmptyProduct     = errors.New("empty product")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidStoreUnit = errors.New("invalid store unit")
)

var validationErrors = []error{
	ErrEmptyName, ErrEmptyUnit, ErrInvalidUnit, ErrEmptyDescription, ErrEmptyDate, ErrInvalidDate,
	ErrInvalidAmount, ErrInvalidQuantity, ErrInvalidPrice, ErrEmptyProduct,
	ErrInvalidStatus, ErrInvalidStoreUnit,
}

// IsValidation reports whether err is one of the input validation errors.
func IsValidation(err error) bool {
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

// Toggle flips pending and paid. Any other value becomes pending.
func (s Status) Toggle() Status {
	if s == StatusPending {
		return StatusPaid
	}
	return StatusPending
}

func (s Status) Validate() error {
	switch s {
	case StatusPending, StatusPaid:
		return nil
	default:
		return ErrInvalidStatus
	}
}

func (u StoreUnit) String() string {
	return string(u)
}

// ParseStoreUnit checks raw against the configured units.
func ParseStoreUnit(raw string, valid []StoreUnit) (StoreUnit, error) {
	raw = strings.TrimSpace(raw)
	for _, u := range valid {
		if string(u) == raw {
			return u, nil
		}
	}
	return "", ErrInvalidStoreUnit
}

// UnmarshalJSON accepts the legacy "categoryId" key, which older data used
// to hold the supplier reference.
func (b *Boleto) UnmarshalJSON(data []byte) error {
	type plain Boleto
	var aux struct {
		plain
		LegacyCategoryID string `json:"categoryId"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*b = Boleto(aux.plain)
	if b.SupplierID == "" {
		b.SupplierID = aux.LegacyCategoryID
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD string into midnight UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrEmptyDate
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// DateOf returns the calendar day of t as midnight UTC, so it compares
// directly with values from ParseDate.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func validateDate(s string) error {
	_, err := ParseDate(s)
	return err
}

func (s Supplier) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(p.Unit) == "" {
		return ErrEmptyUnit
	}
	return nil
}

func (r Receipt) Validate() error {
	if strings.TrimSpace(r.ProductID) == "" {
		return ErrEmptyProduct
	}
	if r.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if r.UnitPrice <= 0 {
		return ErrInvalidPrice
	}
	return nil
}

func (d DailySale) Validate() error {
	if d.TotalValue <= 0 {
		return ErrInvalidAmount
	}
	return validateDate(d.Date)
}

func (b Boleto) Validate() error {
	if strings.TrimSpace(b.Description) == "" {
		return ErrEmptyDescription
	}
	if b.Value <= 0 {
		return ErrInvalidAmount
	}
	if err := validateDate(b.DueDate); err != nil {
		return err
	}
	return b.Status.Validate()
}

func (m MaintenanceRecord) Validate() error {
	if strings.TrimSpace(m.Description) == "" {
		return ErrEmptyDescription
	}
	if m.Value <= 0 {
		return ErrInvalidAmount
	}
	return validateDate(m.Date)
}

func (f FixedCost) Validate() error {
	if strings.TrimSpace(f.Description) == "" {
		return ErrEmptyDescription
	}
	if f.Value <= 0 {
		return ErrInvalidAmount
	}
	if err := validateDate(f.DueDate); err != nil {
		return err
	}
	return f.Status.Validate()
}
