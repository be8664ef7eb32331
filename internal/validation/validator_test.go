package validation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/latampartners/landing/internal/models"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var body any
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return body
}

func sellerFixture() map[string]any {
	return map[string]any{
		"company":       "  Acme  ",
		"name":          "Jo",
		"email":         "JO@Acme.COM",
		"phone":         nil,
		"volume":        "10k_50k",
		"latamPresence": "yes",
		"countries":     []any{"mexico", " brazil "},
		"partnerTypes":  []any{"legal"},
		"timeline":      "short_term",
		"businessType":  "ecommerce",
		"website":       "",
	}
}

func partnerFixture() map[string]any {
	return map[string]any{
		"company":     "Lex SA",
		"name":        "Ana",
		"email":       "ana@lex.com.br",
		"phone":       "+55 11 5555 0000",
		"countries":   []any{"brazil"},
		"services":    []any{"legal", "tax"},
		"minSize":     "no_min",
		"languages":   []any{"portuguese", "english"},
		"credentials": "  OAB registered  ",
		"capacity":    "one_month",
	}
}

func TestValidateSellerPayloadNormalizes(t *testing.T) {
	result := ValidateSellerPayload(sellerFixture())
	if !result.OK() {
		t.Fatalf("expected payload to be accepted, got %q", result.Error)
	}

	want := models.SellerSubmission{
		Company:       "Acme",
		Name:          "Jo",
		Email:         "jo@acme.com",
		Volume:        "10k_50k",
		LatamPresence: "yes",
		Countries:     []string{"mexico", "brazil"},
		PartnerTypes:  []string{"legal"},
		Timeline:      "short_term",
		BusinessType:  "ecommerce",
	}
	if diff := cmp.Diff(want, result.Data); diff != "" {
		t.Fatalf("unexpected submission (-want +got):\n%s", diff)
	}
}

func TestValidatePartnerPayloadNormalizes(t *testing.T) {
	result := ValidatePartnerPayload(partnerFixture())
	if !result.OK() {
		t.Fatalf("expected payload to be accepted, got %q", result.Error)
	}

	phone := "+55 11 5555 0000"
	credentials := "OAB registered"
	want := models.PartnerSubmission{
		Company:     "Lex SA",
		Name:        "Ana",
		Email:       "ana@lex.com.br",
		Phone:       &phone,
		Countries:   []string{"brazil"},
		Services:    []string{"legal", "tax"},
		MinSize:     "no_min",
		Languages:   []string{"portuguese", "english"},
		Credentials: &credentials,
		Capacity:    "one_month",
	}
	if diff := cmp.Diff(want, result.Data); diff != "" {
		t.Fatalf("unexpected submission (-want +got):\n%s", diff)
	}
}

func TestValidateSellerPayloadRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]any)
		want   string
	}{
		{"missing company", func(p map[string]any) { delete(p, "company") }, "company is required"},
		{"blank name", func(p map[string]any) { p["name"] = "   " }, "name is required"},
		{"numeric name", func(p map[string]any) { p["name"] = 42.0 }, "name is required"},
		{"long company", func(p map[string]any) { p["company"] = strings.Repeat("a", 201) }, "company is too long"},
		{"missing email", func(p map[string]any) { p["email"] = "" }, "email is required"},
		{"email without tld", func(p map[string]any) { p["email"] = "jo@acme" }, "email is invalid"},
		{"email with space", func(p map[string]any) { p["email"] = "jo doe@acme.com" }, "email is invalid"},
		{"long email", func(p map[string]any) { p["email"] = strings.Repeat("a", 320) + "@x.io" }, "email is invalid"},
		{"email with vertical tab", func(p map[string]any) { p["email"] = "jo\vdoe@acme.com" }, "email is invalid"},
		{"email with nbsp", func(p map[string]any) { p["email"] = "jo\u00a0doe@acme.com" }, "email is invalid"},
		{"email with em space", func(p map[string]any) { p["email"] = "jo@ac\u2003me.com" }, "email is invalid"},
		{"email with line separator", func(p map[string]any) { p["email"] = "jo@acme\u2028.com" }, "email is invalid"},
		{"email with inner bom", func(p map[string]any) { p["email"] = "jo@ac\ufeffme.com" }, "email is invalid"},
		{"blank unicode company", func(p map[string]any) { p["company"] = "\u00a0\ufeff\u3000" }, "company is required"},
		{"phone not string", func(p map[string]any) { p["phone"] = 5.0 }, "phone must be a string"},
		{"long phone", func(p map[string]any) { p["phone"] = strings.Repeat("1", 501) }, "phone is too long"},
		{"missing volume", func(p map[string]any) { delete(p, "volume") }, "volume is required"},
		{"volume wrong case", func(p map[string]any) { p["volume"] = "10K_50K" }, "volume has an invalid value"},
		{"presence unknown", func(p map[string]any) { p["latamPresence"] = "maybe" }, "latamPresence has an invalid value"},
		{"countries not array", func(p map[string]any) { p["countries"] = "mexico" }, "countries must be an array"},
		{"countries empty", func(p map[string]any) { p["countries"] = []any{" ", 3.0, nil} }, "countries must include at least one value"},
		{"countries unknown", func(p map[string]any) { p["countries"] = []any{"mexico", "peru"} }, "countries contains an invalid value"},
		{"partner types too many", func(p map[string]any) {
			items := make([]any, 21)
			for i := range items {
				items[i] = "legal"
			}
			p["partnerTypes"] = items
		}, "partnerTypes has too many values"},
		{"timeline unknown", func(p map[string]any) { p["timeline"] = "never" }, "timeline has an invalid value"},
		{"business type missing", func(p map[string]any) { p["businessType"] = nil }, "businessType is required"},
		{"honeypot not string", func(p map[string]any) { p["website"] = true }, "website must be a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := sellerFixture()
			tt.mutate(payload)

			result := ValidateSellerPayload(payload)
			if result.OK() {
				t.Fatalf("expected rejection %q, payload was accepted", tt.want)
			}
			if result.Error != tt.want {
				t.Fatalf("expected %q got %q", tt.want, result.Error)
			}
		})
	}
}

func TestValidatePartnerPayloadRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]any)
		want   string
	}{
		{"services unknown", func(p map[string]any) { p["services"] = []any{"banking"} }, "services contains an invalid value"},
		{"min size unknown", func(p map[string]any) { p["minSize"] = "1m" }, "minSize has an invalid value"},
		{"languages missing", func(p map[string]any) { delete(p, "languages") }, "languages must be an array"},
		{"long credentials", func(p map[string]any) { p["credentials"] = strings.Repeat("c", 2001) }, "credentials is too long"},
		{"capacity unknown", func(p map[string]any) { p["capacity"] = "later" }, "capacity has an invalid value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := partnerFixture()
			tt.mutate(payload)

			result := ValidatePartnerPayload(payload)
			if result.Error != tt.want {
				t.Fatalf("expected %q got %q", tt.want, result.Error)
			}
		})
	}
}

func TestValidateRejectsNonObjects(t *testing.T) {
	for _, raw := range []string{`null`, `[]`, `"text"`, `12`} {
		body := decode(t, raw)
		if got := ValidateSellerPayload(body).Error; got != "Invalid request body" {
			t.Fatalf("seller %s: expected invalid body got %q", raw, got)
		}
		if got := ValidatePartnerPayload(body).Error; got != "Invalid request body" {
			t.Fatalf("partner %s: expected invalid body got %q", raw, got)
		}
	}
}

func TestValidateFirstFailureWins(t *testing.T) {
	payload := sellerFixture()
	payload["email"] = "nope"
	payload["volume"] = "nope"
	payload["countries"] = []any{}

	if got := ValidateSellerPayload(payload).Error; got != "email is invalid" {
		t.Fatalf("expected email failure first got %q", got)
	}
}

func TestValidateCountsCharactersNotBytes(t *testing.T) {
	payload := sellerFixture()
	payload["company"] = strings.Repeat("ñ", 200)

	if result := ValidateSellerPayload(payload); !result.OK() {
		t.Fatalf("expected 200 multibyte characters to be accepted, got %q", result.Error)
	}
}

func TestValidateHoneypotPassesThrough(t *testing.T) {
	payload := sellerFixture()
	payload["website"] = "  http://spam.example "

	result := ValidateSellerPayload(payload)
	if !result.OK() {
		t.Fatalf("expected honeypot payload to validate, got %q", result.Error)
	}
	if result.Data.Website != "http://spam.example" {
		t.Fatalf("expected trimmed honeypot value got %q", result.Data.Website)
	}
}

func TestValidatorCustomHoneypotField(t *testing.T) {
	v := Validator{HoneypotField: "fax_extension"}

	payload := partnerFixture()
	payload["website"] = "https://legit.example"
	payload["fax_extension"] = "bot"

	result := v.ValidatePartner(payload)
	if !result.OK() {
		t.Fatalf("unexpected rejection %q", result.Error)
	}
	if result.Data.Website != "bot" {
		t.Fatalf("expected trap value from custom field, got %q", result.Data.Website)
	}
}

func TestValidateIsIdempotent(t *testing.T) {
	first := ValidateSellerPayload(sellerFixture())
	if !first.OK() {
		t.Fatalf("first pass rejected: %q", first.Error)
	}

	raw, err := json.Marshal(first.Data)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second := ValidateSellerPayload(decode(t, string(raw)))
	if !second.OK() {
		t.Fatalf("second pass rejected: %q", second.Error)
	}
	if diff := cmp.Diff(first.Data, second.Data); diff != "" {
		t.Fatalf("second pass changed submission (-first +second):\n%s", diff)
	}

	partner := ValidatePartnerPayload(partnerFixture())
	raw, err = json.Marshal(partner.Data)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	again := ValidatePartnerPayload(decode(t, string(raw)))
	if diff := cmp.Diff(partner.Data, again.Data); diff != "" {
		t.Fatalf("second pass changed partner submission (-first +second):\n%s", diff)
	}
}

func TestValidateAcceptsEveryAllowlistedValue(t *testing.T) {
	payload := sellerFixture()
	countries := make([]any, 0, len(allowedCountries))
	for _, c := range allowedCountries {
		countries = append(countries, c)
	}
	services := make([]any, 0, len(allowedServices))
	for _, s := range allowedServices {
		services = append(services, s)
	}
	payload["countries"] = countries
	payload["partnerTypes"] = services

	for _, volume := range allowedVolumes {
		payload["volume"] = volume
		result := ValidateSellerPayload(payload)
		if !result.OK() {
			t.Fatalf("volume %q rejected: %q", volume, result.Error)
		}
		if diff := cmp.Diff(allowedServices, result.Data.PartnerTypes); diff != "" {
			t.Fatalf("partner types not kept verbatim (-want +got):\n%s", diff)
		}
	}
}

func TestValidateTrimsUnicodeWhitespace(t *testing.T) {
	payload := sellerFixture()
	payload["company"] = "\ufeff\u00a0Acme\u2003"
	payload["email"] = "\ufeffJO@Acme.COM\u00a0"
	payload["countries"] = []any{"\u3000mexico\v"}

	result := ValidateSellerPayload(payload)
	if !result.OK() {
		t.Fatalf("expected acceptance, got %q", result.Error)
	}
	if result.Data.Company != "Acme" || result.Data.Email != "jo@acme.com" {
		t.Fatalf("expected trimmed values, got company %q email %q", result.Data.Company, result.Data.Email)
	}
	if diff := cmp.Diff([]string{"mexico"}, result.Data.Countries); diff != "" {
		t.Fatalf("countries mismatch (-want +got):\n%s", diff)
	}
}

func TestIsSpace(t *testing.T) {
	for _, r := range []rune{' ', '\t', '\n', '\v', '\f', '\r', '\u00a0', '\u2003', '\u2028', '\u2029', '\u3000', '\ufeff'} {
		if !isSpace(r) {
			t.Fatalf("expected %U to be whitespace", r)
		}
	}
	for _, r := range []rune{'a', '@', '\u0085', '\u200b'} {
		if isSpace(r) {
			t.Fatalf("expected %U not to be whitespace", r)
		}
	}
}
