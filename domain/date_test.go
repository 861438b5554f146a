package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := map[string]string{
		"2025-03-10":                "2025-03-10",
		" 2025-03-10 ":              "2025-03-10",
		"2025-03-10T08:15:00Z":      "2025-03-10",
		"2025-03-10 08:15:00":       "2025-03-10",
		"2025-03-10T08:15:00.000Z":  "2025-03-10",
		"2025-03-10T23:30:00-05:00": "2025-03-10",
	}
	for in, want := range cases {
		d, err := ParseDate(in)
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if d.String() != want {
			t.Fatalf("%q: got %s want %s", in, d, want)
		}
	}
	for _, bad := range []string{"10/03/2025", "2025-03-1099", "2025-03-10garbage", "2025-03-10!!", "2025-03-10T", "2025-03-10 25:00:00"} {
		if _, err := ParseDate(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestDateOfIgnoresTimeOfDay(t *testing.T) {
	late := time.Date(2025, 3, 10, 23, 59, 0, 0, time.Local)
	if got := DateOf(late); !got.Equal(NewDate(2025, 3, 10)) {
		t.Fatalf("got %s", got)
	}
}

func TestDaysUntilAcrossMonths(t *testing.T) {
	from := NewDate(2025, 3, 1)
	if got := from.DaysUntil(NewDate(2025, 4, 1)); got != 31 {
		t.Fatalf("expected 31 days, got %d", got)
	}
	if got := from.DaysUntil(from.AddDays(-400)); got != -400 {
		t.Fatalf("expected -400 days, got %d", got)
	}
}

func TestDateScanAndValue(t *testing.T) {
	var d Date
	for _, src := range []any{"2025-01-02", []byte("2025-01-02"), time.Date(2025, 1, 2, 13, 0, 0, 0, time.UTC)} {
		if err := d.Scan(src); err != nil {
			t.Fatalf("scan %T: %v", src, err)
		}
		if d.String() != "2025-01-02" {
			t.Fatalf("scan %T: got %s", src, d)
		}
	}
	if err := d.Scan(nil); err != nil || !d.IsZero() {
		t.Fatalf("nil must scan to zero date, got %s (%v)", d, err)
	}
	if err := d.Scan(42); err == nil {
		t.Fatalf("expected error scanning int")
	}

	v, err := NewDate(2025, 1, 2).Value()
	if err != nil || v != "2025-01-02" {
		t.Fatalf("unexpected value %v (%v)", v, err)
	}
	if v, _ := (Date{}).Value(); v != nil {
		t.Fatalf("zero date must be NULL, got %v", v)
	}
}

func TestDateJSON(t *testing.T) {
	var payload struct {
		Expiry Date `json:"expiry"`
	}
	if err := json.Unmarshal([]byte(`{"expiry":"2030-06-01"}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"expiry":"2030-06-01"}` {
		t.Fatalf("unexpected json %s", out)
	}
	if err := json.Unmarshal([]byte(`{"expiry":null}`), &payload); err != nil || !payload.Expiry.IsZero() {
		t.Fatalf("null must decode to zero date: %v", err)
	}
	if err := json.Unmarshal([]byte(`{"expiry":"soon"}`), &payload); err == nil {
		t.Fatalf("expected error for invalid date")
	}
}

func TestTimestampSortsLexically(t *testing.T) {
	a := Timestamp(time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC))
	b := Timestamp(time.Date(2025, 1, 1, 9, 0, 0, 5_000_000, time.UTC))
	if a != "2025-01-01T09:00:00.000Z" || !(a < b) {
		t.Fatalf("unexpected timestamps %s %s", a, b)
	}
}
