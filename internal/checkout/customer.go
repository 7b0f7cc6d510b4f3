package checkout

import (
	"net/mail"
	"strings"

	pkgerrors "github.com/tienditalabs/tiendita-backend/pkg/errors"
)

// CustomerInfo is the buyer data collected on the checkout form.
type CustomerInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
}

// Validate checks required fields in form order and reports the first
// failure, matching how the checkout form highlights a single field.
func (c CustomerInfo) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fieldError("name", "name is required")
	}
	email := strings.TrimSpace(c.Email)
	if email == "" {
		return fieldError("email", "email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fieldError("email", "email is invalid")
	}
	if strings.TrimSpace(c.Phone) == "" {
		return fieldError("phone", "phone is required")
	}
	return nil
}

func fieldError(field, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).
		WithDetails(map[string]string{"field": field})
}

// splitName divides a full name into given name and surname on the first
// space. Single-word names leave the surname empty.
func splitName(full string) (string, string) {
	trimmed := strings.TrimSpace(full)
	if trimmed == "" {
		return "", ""
	}
	parts := strings.SplitN(trimmed, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.TrimSpace(parts[1])
}

// splitPhone separates the area code from the local number. Only digits
// survive; numbers longer than eight digits treat the leading digits as the
// area code, which covers AR mobile formats like "11 5555-4444".
func splitPhone(raw string) (string, string) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	number := digits.String()
	number = strings.TrimPrefix(number, "54")
	number = strings.TrimPrefix(number, "0")
	if len(number) > 8 {
		return number[:len(number)-8], number[len(number)-8:]
	}
	return "", number
}
