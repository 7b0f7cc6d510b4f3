package payments

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// PreferenceItem is one purchasable line inside a preference request.
type PreferenceItem struct {
	ID          string          `json:"id,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	PictureURL  string          `json:"picture_url,omitempty"`
	Quantity    int             `json:"quantity"`
	CurrencyID  string          `json:"currency_id"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// PreferencePhone carries the provider's split phone shape.
type PreferencePhone struct {
	AreaCode string `json:"area_code,omitempty"`
	Number   string `json:"number,omitempty"`
}

// PreferencePayer identifies the buyer on the hosted checkout page.
type PreferencePayer struct {
	Name    string           `json:"name,omitempty"`
	Surname string           `json:"surname,omitempty"`
	Email   string           `json:"email"`
	Phone   *PreferencePhone `json:"phone,omitempty"`
}

// BackURLs tell the provider where to send the buyer after payment.
type BackURLs struct {
	Success string `json:"success,omitempty"`
	Failure string `json:"failure,omitempty"`
	Pending string `json:"pending,omitempty"`
}

// PreferenceRequest is the payload sent to the preference endpoint.
type PreferenceRequest struct {
	Items               []PreferenceItem `json:"items"`
	Payer               PreferencePayer  `json:"payer"`
	BackURLs            *BackURLs        `json:"back_urls,omitempty"`
	AutoReturn          string           `json:"auto_return,omitempty"`
	ExternalReference   string           `json:"external_reference,omitempty"`
	NotificationURL     string           `json:"notification_url,omitempty"`
	StatementDescriptor string           `json:"statement_descriptor,omitempty"`
}

// Preference is the provider's created-preference response. Provider
// deployments disagree on field casing for the redirect links, so decoding
// accepts both snake_case and camelCase spellings.
type Preference struct {
	ID               string
	InitPoint        string
	SandboxInitPoint string
}

// UnmarshalJSON tolerates init_point/initPoint and
// sandbox_init_point/sandboxInitPoint interchangeably.
func (p *Preference) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID                    string `json:"id"`
		InitPoint             string `json:"init_point"`
		InitPointCamel        string `json:"initPoint"`
		SandboxInitPoint      string `json:"sandbox_init_point"`
		SandboxInitPointCamel string `json:"sandboxInitPoint"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.ID = raw.ID
	p.InitPoint = firstNonEmpty(raw.InitPoint, raw.InitPointCamel)
	p.SandboxInitPoint = firstNonEmpty(raw.SandboxInitPoint, raw.SandboxInitPointCamel)
	return nil
}

// RedirectURL picks the hosted checkout link for the given environment.
// Sandbox runs prefer the sandbox link but fall back to the live one when
// the provider omits it.
func (p *Preference) RedirectURL(environment string) string {
	if strings.EqualFold(environment, EnvSandbox) {
		if p.SandboxInitPoint != "" {
			return p.SandboxInitPoint
		}
		return p.InitPoint
	}
	if p.InitPoint != "" {
		return p.InitPoint
	}
	return p.SandboxInitPoint
}

// Payment is the provider's payment resource, fetched when polling order
// status or handling webhooks.
type Payment struct {
	ID                json.Number `json:"id"`
	Status            string      `json:"status"`
	StatusDetail      string      `json:"status_detail"`
	ExternalReference string      `json:"external_reference"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
