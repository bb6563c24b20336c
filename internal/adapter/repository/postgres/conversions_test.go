package postgres

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestDecimalNumericRoundTrip(t *testing.T) {
	values := []string{"0", "0.01", "-30.00", "1234567.89", "999999999999.99"}

	for _, v := range values {
		d, err := decimal.NewFromString(v)
		if err != nil {
			t.Fatalf("parse %q: %v", v, err)
		}

		got := numericToDecimal(decimalToNumeric(d))
		if !got.Equal(d) {
			t.Errorf("round trip %s: got %s", v, got)
		}
	}
}

func TestDateToPgDateTruncates(t *testing.T) {
	in := time.Date(2024, 3, 15, 23, 45, 1, 0, time.FixedZone("UTC+8", 8*3600))

	got := dateToPgDate(in)
	if !got.Valid {
		t.Fatal("expected valid date")
	}

	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if !got.Time.Equal(want) {
		t.Errorf("expected %v, got %v", want, got.Time)
	}
}
