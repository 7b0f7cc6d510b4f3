package checkout

import (
	"testing"

	pkgerrors "github.com/tienditalabs/tiendita-backend/pkg/errors"
)

func validCustomer() CustomerInfo {
	return CustomerInfo{
		Name:  "Ana Gomez",
		Email: "ana@example.com",
		Phone: "11 5555-4444",
	}
}

func failingField(t *testing.T, err error) string {
	t.Helper()
	domainErr := pkgerrors.As(err)
	if domainErr == nil {
		t.Fatalf("expected domain error, got %v", err)
	}
	if domainErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %s", domainErr.Code())
	}
	details, ok := domainErr.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", domainErr.Details())
	}
	return details["field"]
}

func TestValidateReportsFirstFailingField(t *testing.T) {
	t.Parallel()

	customer := CustomerInfo{}
	if field := failingField(t, customer.Validate()); field != "name" {
		t.Fatalf("expected name first, got %s", field)
	}

	customer.Name = "Ana"
	if field := failingField(t, customer.Validate()); field != "email" {
		t.Fatalf("expected email next, got %s", field)
	}

	customer.Email = "not-an-email"
	if field := failingField(t, customer.Validate()); field != "email" {
		t.Fatalf("expected email format failure, got %s", field)
	}

	customer.Email = "ana@example.com"
	if field := failingField(t, customer.Validate()); field != "phone" {
		t.Fatalf("expected phone last, got %s", field)
	}

	customer.Phone = "1155554444"
	if err := customer.Validate(); err != nil {
		t.Fatalf("expected valid customer, got %v", err)
	}
}

func TestSplitName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		full    string
		name    string
		surname string
	}{
		{"Ana Gomez", "Ana", "Gomez"},
		{"Ana Maria Gomez", "Ana", "Maria Gomez"},
		{"Ana", "Ana", ""},
		{"  Ana  Gomez ", "Ana", "Gomez"},
		{"", "", ""},
	}
	for _, tc := range cases {
		name, surname := splitName(tc.full)
		if name != tc.name || surname != tc.surname {
			t.Errorf("splitName(%q) = %q, %q; want %q, %q", tc.full, name, surname, tc.name, tc.surname)
		}
	}
}

func TestSplitPhone(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw    string
		area   string
		number string
	}{
		{"11 5555-4444", "11", "55554444"},
		{"(011) 5555-4444", "11", "55554444"},
		{"+54 11 5555 4444", "11", "55554444"},
		{"5555-4444", "", "55554444"},
	}
	for _, tc := range cases {
		area, number := splitPhone(tc.raw)
		if area != tc.area || number != tc.number {
			t.Errorf("splitPhone(%q) = %q, %q; want %q, %q", tc.raw, area, number, tc.area, tc.number)
		}
	}
}
