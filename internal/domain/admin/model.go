package admin

import (
	"bytes"
	"encoding/json"
	"strings"
)

// DefaultCurrency is used when the server omits a currency code.
const DefaultCurrency = "BRL"

// Stats is the server aggregate shown on the admin panel.
// Numeric fields are pointers because the server may omit them.
type Stats struct {
	Users    UserStats    `json:"users"`
	Recipes  RecipeStats  `json:"recipes"`
	Payments PaymentStats `json:"payments"`
}

// UserStats counts accounts.
type UserStats struct {
	Total *float64 `json:"total"`
	Paid  *float64 `json:"paid"`
}

// RecipeStats counts recipes by visibility.
type RecipeStats struct {
	Total   *float64 `json:"total"`
	Public  *float64 `json:"public"`
	Private *float64 `json:"private"`
}

// PaymentStats is the payment volume.
type PaymentStats struct {
	TotalAmountCents *float64 `json:"total_amount_cents"`
	Currency         string   `json:"currency"`
}

// User is an account as listed by the admin endpoints.
type User struct {
	ID      ID     `json:"id,omitempty"`
	Email   string `json:"email"`
	HasPaid bool   `json:"has_paid"`
}

// Key returns the identifier used for PUT /admin/users/:id, falling back to the email.
func (u User) Key() string {
	if u.ID != "" {
		return string(u.ID)
	}
	return u.Email
}

// PaymentStatusLabel returns the badge text for the user.
func (u User) PaymentStatusLabel() string {
	if u.HasPaid {
		return "Pago"
	}
	return "Pendente"
}

// UserUpdate is the body of PUT /admin/users/:id.
type UserUpdate struct {
	HasPaid *bool `json:"has_paid,omitempty"`
}

// Payment is a completed checkout as listed by the admin endpoints.
type Payment struct {
	ID          ID       `json:"id"`
	Email       string   `json:"email"`
	AmountCents *float64 `json:"amount_cents"`
	Currency    string   `json:"currency"`
	CreatedAt   string   `json:"created_at"`
}

// CurrencyOrDefault returns the upper-cased currency code or DefaultCurrency.
func (p Payment) CurrencyOrDefault() string {
	return NormalizeCurrency(p.Currency)
}

// NormalizeCurrency upper-cases a currency code, defaulting to DefaultCurrency.
func NormalizeCurrency(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return DefaultCurrency
	}
	return code
}

// ID accepts identifiers the server sends either as JSON strings or numbers.
type ID string

// UnmarshalJSON decodes a string or number into an ID.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}
