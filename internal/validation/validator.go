// Package validation turns decoded lead-capture payloads into normalized
// submissions by checking every field against fixed allowlists.
package validation

import "github.com/latampartners/landing/internal/models"

// DefaultHoneypotField is the form field hidden from humans and used to trap bots.
const DefaultHoneypotField = "website"

// Result is either a normalized value (Error empty) or the reason the payload
// was rejected. There is no partial success.
type Result[T any] struct {
	Data  T
	Error string
}

// OK reports whether the payload was accepted.
func (r Result[T]) OK() bool {
	return r.Error == ""
}

func reject[T any](reason string) Result[T] {
	return Result[T]{Error: reason}
}

// Validator checks submissions. The zero value uses DefaultHoneypotField.
type Validator struct {
	HoneypotField string
}

// ValidateSellerPayload validates body with the default honeypot field.
func ValidateSellerPayload(body any) Result[models.SellerSubmission] {
	return Validator{}.ValidateSeller(body)
}

// ValidatePartnerPayload validates body with the default honeypot field.
func ValidatePartnerPayload(body any) Result[models.PartnerSubmission] {
	return Validator{}.ValidatePartner(body)
}

func (v Validator) trapField() string {
	if v.HoneypotField == "" {
		return DefaultHoneypotField
	}
	return v.HoneypotField
}

// ValidateSeller checks a seller payload field by field, stopping at the
// first failure so error messages are deterministic.
func (v Validator) ValidateSeller(body any) Result[models.SellerSubmission] {
	payload, ok := body.(map[string]any)
	if !ok {
		return reject[models.SellerSubmission]("Invalid request body")
	}

	var (
		out    models.SellerSubmission
		reason string
	)

	if out.Company, reason = requiredString(payload["company"], "company", maxNameLength); reason != "" {
		return reject[models.SellerSubmission](reason)
	}
	if out.Name, reason = requiredString(payload["name"], "name", maxNameLength); reason != "" {
		return reject[models.SellerSubmission](reason)
	}
	if out.Email, reason = email(payload["email"]); reason != "" {
		return reject[models.SellerSubmission](reason)
	}
	if out.Phone, reason = optionalString(payload["phone"], "phone", maxOptionalLength); reason != "" {
		return reject[models.SellerSubmission](reason)
	}
	if out.Volume, reason = allowedValue(payload["volume"], "volume", allowedVolumes); reason != "" {
		return reject[models.SellerSubmission](reason)
	}
	if out.LatamPresence, reason = allowedValue(payload["latamPresence"], "latamPresence", allowedPresence); reason != "" {
		return reject[models.SellerSubmission](reason)
	}
	if out.Countries, reason = allowedSet(payload["countries"], "countries", allowedCountries); reason != "" {
		return reject[models.SellerSubmission](reason)
	}
	if out.PartnerTypes, reason = allowedSet(payload["partnerTypes"], "partnerTypes", allowedServices); reason != "" {
		return reject[models.SellerSubmission](reason)
	}
	if out.Timeline, reason = allowedValue(payload["timeline"], "timeline", allowedTimelines); reason != "" {
		return reject[models.SellerSubmission](reason)
	}
	if out.BusinessType, reason = allowedValue(payload["businessType"], "businessType", allowedBusinessTypes); reason != "" {
		return reject[models.SellerSubmission](reason)
	}
	trap := v.trapField()
	if out.Website, reason = honeypot(payload[trap], trap); reason != "" {
		return reject[models.SellerSubmission](reason)
	}

	return Result[models.SellerSubmission]{Data: out}
}

// ValidatePartner checks a partner payload field by field, stopping at the
// first failure.
func (v Validator) ValidatePartner(body any) Result[models.PartnerSubmission] {
	payload, ok := body.(map[string]any)
	if !ok {
		return reject[models.PartnerSubmission]("Invalid request body")
	}

	var (
		out    models.PartnerSubmission
		reason string
	)

	if out.Company, reason = requiredString(payload["company"], "company", maxNameLength); reason != "" {
		return reject[models.PartnerSubmission](reason)
	}
	if out.Name, reason = requiredString(payload["name"], "name", maxNameLength); reason != "" {
		return reject[models.PartnerSubmission](reason)
	}
	if out.Email, reason = email(payload["email"]); reason != "" {
		return reject[models.PartnerSubmission](reason)
	}
	if out.Phone, reason = optionalString(payload["phone"], "phone", maxOptionalLength); reason != "" {
		return reject[models.PartnerSubmission](reason)
	}
	if out.Countries, reason = allowedSet(payload["countries"], "countries", allowedCountries); reason != "" {
		return reject[models.PartnerSubmission](reason)
	}
	if out.Services, reason = allowedSet(payload["services"], "services", allowedServices); reason != "" {
		return reject[models.PartnerSubmission](reason)
	}
	if out.MinSize, reason = allowedValue(payload["minSize"], "minSize", allowedMinSizes); reason != "" {
		return reject[models.PartnerSubmission](reason)
	}
	if out.Languages, reason = allowedSet(payload["languages"], "languages", allowedLanguages); reason != "" {
		return reject[models.PartnerSubmission](reason)
	}
	if out.Credentials, reason = optionalString(payload["credentials"], "credentials", maxCredentialsLength); reason != "" {
		return reject[models.PartnerSubmission](reason)
	}
	if out.Capacity, reason = allowedValue(payload["capacity"], "capacity", allowedCapacities); reason != "" {
		return reject[models.PartnerSubmission](reason)
	}
	trap := v.trapField()
	if out.Website, reason = honeypot(payload[trap], trap); reason != "" {
		return reject[models.PartnerSubmission](reason)
	}

	return Result[models.PartnerSubmission]{Data: out}
}
