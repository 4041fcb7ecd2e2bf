package admin_test

import (
	"encoding/json"
	"testing"

	"receitas/internal/domain/admin"
)

// TestID_UnmarshalJSON accepts numeric, string and null identifiers.
func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		raw  string
		want admin.ID
	}{
		{`{"id": 42}`, "42"},
		{`{"id": "pi_123"}`, "pi_123"},
		{`{"id": null}`, ""},
		{`{}`, ""},
	}
	for _, tt := range tests {
		var p admin.Payment
		if err := json.Unmarshal([]byte(tt.raw), &p); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.raw, err)
		}
		if p.ID != tt.want {
			t.Errorf("%s: ID = %q, want %q", tt.raw, p.ID, tt.want)
		}
	}
}

// TestUser_Key falls back to the email when the server sends no id.
func TestUser_Key(t *testing.T) {
	if got := (admin.User{ID: "9", Email: "a@b.c"}).Key(); got != "9" {
		t.Errorf("Key() = %q, want 9", got)
	}
	if got := (admin.User{Email: "a@b.c"}).Key(); got != "a@b.c" {
		t.Errorf("Key() = %q, want a@b.c", got)
	}
}

// TestNormalizeCurrency defaults and upper-cases.
func TestNormalizeCurrency(t *testing.T) {
	tests := map[string]string{"": "BRL", "brl": "BRL", " usd ": "USD"}
	for in, want := range tests {
		if got := admin.NormalizeCurrency(in); got != want {
			t.Errorf("NormalizeCurrency(%q) = %q, want %q", in, got, want)
		}
	}
}

// TestStats_MissingFields keeps absent numbers as nil.
func TestStats_MissingFields(t *testing.T) {
	var s admin.Stats
	if err := json.Unmarshal([]byte(`{"users":{"total":3},"payments":{"currency":"brl"}}`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.Users.Total == nil || *s.Users.Total != 3 {
		t.Errorf("users.total = %v", s.Users.Total)
	}
	if s.Users.Paid != nil || s.Payments.TotalAmountCents != nil {
		t.Error("expected absent fields to stay nil")
	}
}
