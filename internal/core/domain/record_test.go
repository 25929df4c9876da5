package domain

import "testing"

func TestParseExtractedRecord(t *testing.T) {
	raw := `{"invoice_id": "A123", "vendor_name": "Acme Corp", "invoice_date": "2024-03-01", "total_amount": 450.00}`

	record, err := ParseExtractedRecord(raw)
	if err != nil {
		t.Fatalf("ParseExtractedRecord: %v", err)
	}
	if record.InvoiceID == nil || *record.InvoiceID != "A123" {
		t.Errorf("InvoiceID = %v, want A123", record.InvoiceID)
	}
	if record.VendorName == nil || *record.VendorName != "Acme Corp" {
		t.Errorf("VendorName = %v, want Acme Corp", record.VendorName)
	}
	if record.TotalAmount == nil || *record.TotalAmount != 450.0 {
		t.Errorf("TotalAmount = %v, want 450", record.TotalAmount)
	}
}

func TestParseExtractedRecordOmitsUnknownAndMistypedFields(t *testing.T) {
	raw := `{"invoice_id": 42, "total_amount": "not a number", "customer": "ignored"}`

	record, err := ParseExtractedRecord(raw)
	if err != nil {
		t.Fatalf("ParseExtractedRecord: %v", err)
	}
	if record.InvoiceID != nil {
		t.Errorf("mistyped invoice_id coerced to %q, want absent", *record.InvoiceID)
	}
	if record.TotalAmount != nil {
		t.Errorf("mistyped total_amount coerced to %f, want absent", *record.TotalAmount)
	}
	if record.VendorName != nil || record.InvoiceDate != nil {
		t.Error("absent fields were fabricated")
	}
}

func TestParseExtractedRecordQuotedAmounts(t *testing.T) {
	for raw, want := range map[string]float64{
		`{"total_amount": "450.00"}`:   450,
		`{"total_amount": "$1,234.5"}`: 1234.5,
		`{"total_amount": "€99"}`:      99,
	} {
		record, err := ParseExtractedRecord(raw)
		if err != nil {
			t.Fatalf("ParseExtractedRecord(%s): %v", raw, err)
		}
		if record.TotalAmount == nil || *record.TotalAmount != want {
			t.Errorf("ParseExtractedRecord(%s).TotalAmount = %v, want %f", raw, record.TotalAmount, want)
		}
	}
}

func TestParseExtractedRecordRejectsNonObjects(t *testing.T) {
	for _, raw := range []string{"", "not json", `"just a string"`, `[1, 2]`} {
		_, err := ParseExtractedRecord(raw)
		if !IsKind(err, ErrExtraction) {
			t.Errorf("ParseExtractedRecord(%q) error = %v, want extraction kind", raw, err)
		}
	}
}

func TestParseExtractedRecordBlankStringsAreAbsent(t *testing.T) {
	record, err := ParseExtractedRecord(`{"vendor_name": "   "}`)
	if err != nil {
		t.Fatalf("ParseExtractedRecord: %v", err)
	}
	if record.VendorName != nil {
		t.Errorf("blank vendor_name = %q, want absent", *record.VendorName)
	}
}
