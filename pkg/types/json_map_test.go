package types

import (
	"encoding/json"
	"testing"
)

func TestJSONMapRoundTripKeepsUnknownKeys(t *testing.T) {
	raw := []byte(`{"tech":"FDM","infill":35,"custom_vendor_field":{"a":1}}`)

	var m JSONMap
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	out, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back JSONMap
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("unmarshal round trip: %v", err)
	}
	if _, ok := back["custom_vendor_field"]; !ok {
		t.Fatalf("unknown key dropped in round trip: %s", out)
	}
}

func TestJSONMapAccessors(t *testing.T) {
	var m JSONMap
	if err := json.Unmarshal([]byte(`{"tech":"FDM","material":"PLA","infill":35,"volume":"12"}`), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got := m.String("tech", "N/A"); got != "FDM" {
		t.Fatalf("tech = %q", got)
	}
	if got := m.String("missing", "N/A"); got != "N/A" {
		t.Fatalf("missing string fallback = %q", got)
	}
	if got := m.Int("infill", 0); got != 35 {
		t.Fatalf("infill = %d", got)
	}
	if got := m.Int("volume", 0); got != 12 {
		t.Fatalf("numeric string coercion = %d", got)
	}
	if got := m.Int("material", 7); got != 7 {
		t.Fatalf("non-numeric fallback = %d", got)
	}

	var nilMap JSONMap
	if got := nilMap.Int("infill", 100); got != 100 {
		t.Fatalf("nil map fallback = %d", got)
	}
}
