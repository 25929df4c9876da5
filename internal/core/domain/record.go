package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ExtractedRecord is the fixed invoice extraction schema. Every field is
// optional; nil means the model found nothing trustworthy for it.
type ExtractedRecord struct {
	InvoiceID   *string  `json:"invoice_id,omitempty"`
	VendorName  *string  `json:"vendor_name,omitempty"`
	InvoiceDate *string  `json:"invoice_date,omitempty"`
	TotalAmount *float64 `json:"total_amount,omitempty"`
}

// ParseExtractedRecord validates raw model output against the record
// schema. Fields that are absent or fail type validation are coerced to
// absent, never fabricated as defaults. Output that is not a JSON object
// at all is an ErrExtraction.
func ParseExtractedRecord(raw string) (ExtractedRecord, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return ExtractedRecord{}, WrapError(ErrExtraction, "parse extracted record",
			fmt.Errorf("model output is not a JSON object: %w", err))
	}

	record := ExtractedRecord{
		InvoiceID:   coerceString(fields["invoice_id"]),
		VendorName:  coerceString(fields["vendor_name"]),
		InvoiceDate: coerceString(fields["invoice_date"]),
		TotalAmount: coerceNumber(fields["total_amount"]),
	}
	return record, nil
}

func coerceString(raw json.RawMessage) *string {
	if len(raw) == 0 {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// coerceNumber accepts a JSON number or a numeric string such as
// "450.00" or "$450.00", since models frequently quote amounts.
func coerceNumber(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return &n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	s = strings.TrimSpace(strings.TrimLeft(s, "$€£ "))
	s = strings.ReplaceAll(s, ",", "")
	parsed, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &parsed
}
