package http

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"compras/internal/analytics"
	"compras/internal/core"
)

// maxBodyBytes caps every request body.
const maxBodyBytes = 1 << 20

// RequestBodyParser reads a JSON object or a form-encoded body once and
// serves its fields as strings. Numbers in JSON are accepted wherever the
// forms expect text. A JSON or form Content-Type selects the decoder; any
// other type is decided from the first byte of the body.
type RequestBodyParser struct {
	body      []byte
	mediaType string
	jsonData  map[string]any
	formData  url.Values
	parsed    bool
	err       error
}

const (
	mediaJSON = "application/json"
	mediaForm = "application/x-www-form-urlencoded"
)

func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{}
	if ct := r.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err == nil {
			p.mediaType = mt
		}
	}
	if r.Body != nil {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			p.err = fmt.Errorf("%w: read body: %v", errBadRequest, err)
		}
		p.body = body
	}
	return p
}

func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true
	if p.err != nil {
		return p.err
	}

	trimmed := strings.TrimSpace(string(p.body))
	if trimmed == "" {
		p.formData = url.Values{}
		return nil
	}

	switch {
	case p.mediaType == mediaJSON:
		p.err = p.parseJSON(trimmed)
	case p.mediaType == mediaForm:
		p.err = p.parseForm(trimmed)
	case strings.HasPrefix(trimmed, "{"), strings.HasPrefix(trimmed, "["):
		p.err = p.parseJSON(trimmed)
	default:
		p.err = p.parseForm(trimmed)
	}
	return p.err
}

func (p *RequestBodyParser) parseJSON(body string) error {
	if !strings.HasPrefix(body, "{") {
		return fmt.Errorf("%w: expected a JSON object", errBadRequest)
	}
	p.jsonData = make(map[string]any)
	if err := json.Unmarshal([]byte(body), &p.jsonData); err != nil {
		p.jsonData = nil
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func (p *RequestBodyParser) parseForm(body string) error {
	values, err := url.ParseQuery(body)
	if err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	p.formData = values
	return nil
}

// Get returns the sanitized value of key, or "".
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// parseBody reads r into a parser, reporting malformed bodies as
// errBadRequest.
func parseBody(r *http.Request) (*RequestBodyParser, error) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		return nil, err
	}
	return p, nil
}

func supplierForm(p *RequestBodyParser) core.SupplierForm {
	return core.SupplierForm{
		Name:        p.Get("name"),
		TaxID:       p.Get("taxId"),
		Contact:     p.Get("contact"),
		VendorName:  p.Get("vendorName"),
		VendorPhone: p.Get("vendorPhone"),
	}
}

func productForm(p *RequestBodyParser) core.ProductForm {
	return core.ProductForm{
		Name:       p.Get("name"),
		SKU:        p.Get("sku"),
		CategoryID: p.Get("categoryId"),
		Unit:       p.Get("unit"),
	}
}

func invoiceHeader(p *RequestBodyParser) core.InvoiceHeader {
	return core.InvoiceHeader{
		InvoiceNumber: p.Get("invoiceNumber"),
		SupplierID:    p.Get("supplierId"),
		Date:          p.Get("date"),
	}
}

func itemForm(p *RequestBodyParser) core.ItemForm {
	return core.ItemForm{
		ProductID: p.Get("productId"),
		Quantity:  p.Get("quantity"),
		UnitPrice: p.Get("unitPrice"),
	}
}

func saleForm(p *RequestBodyParser) core.SaleForm {
	return core.SaleForm{
		Date:       p.Get("date"),
		TotalValue: p.Get("totalValue"),
		Notes:      p.Get("notes"),
	}
}

func boletoForm(p *RequestBodyParser) core.BoletoForm {
	return core.BoletoForm{
		Description: p.Get("description"),
		Value:       p.Get("value"),
		DueDate:     p.Get("dueDate"),
		SupplierID:  p.Get("supplierId"),
	}
}

func fixedCostForm(p *RequestBodyParser) core.FixedCostForm {
	return core.FixedCostForm{
		Description: p.Get("description"),
		Value:       p.Get("value"),
		DueDate:     p.Get("dueDate"),
	}
}

func maintenanceForm(p *RequestBodyParser) core.MaintenanceForm {
	return core.MaintenanceForm{
		Description: p.Get("description"),
		SupplierID:  p.Get("supplierId"),
		Date:        p.Get("date"),
		Value:       p.Get("value"),
	}
}

// ParseReportFilter reads the report filter from query parameters. With
// preset=month and no explicit dates the period is month to date. Dates
// that are set must be valid.
func ParseReportFilter(query url.Values, now time.Time) (analytics.ReportFilter, error) {
	f := analytics.ReportFilter{
		ProductID:  strings.TrimSpace(query.Get("productId")),
		SupplierID: strings.TrimSpace(query.Get("supplierId")),
		StartDate:  strings.TrimSpace(query.Get("startDate")),
		EndDate:    strings.TrimSpace(query.Get("endDate")),
	}
	if query.Get("preset") == "month" && f.StartDate == "" && f.EndDate == "" {
		def := analytics.MonthToDate(now)
		f.StartDate, f.EndDate = def.StartDate, def.EndDate
	}
	for _, d := range []string{f.StartDate, f.EndDate} {
		if d == "" {
			continue
		}
		if _, err := core.ParseDate(d); err != nil {
			return f, core.ErrInvalidDate
		}
	}
	return f, nil
}
