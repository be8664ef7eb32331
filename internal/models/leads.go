package models

import "time"

// Persona identifies which side of the referral program a visitor belongs to.
type Persona string

const (
	PersonaSeller  Persona = "seller"
	PersonaPartner Persona = "partner"
)

// SellerSubmission is a normalized seller lead-capture form.
type SellerSubmission struct {
	Company       string   `json:"company"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Phone         *string  `json:"phone"`
	Volume        string   `json:"volume"`
	LatamPresence string   `json:"latamPresence"`
	Countries     []string `json:"countries"`
	PartnerTypes  []string `json:"partnerTypes"`
	Timeline      string   `json:"timeline"`
	BusinessType  string   `json:"businessType"`
	Website       string   `json:"website"`
}

// PartnerSubmission is a normalized service-provider application form.
type PartnerSubmission struct {
	Company     string   `json:"company"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Phone       *string  `json:"phone"`
	Countries   []string `json:"countries"`
	Services    []string `json:"services"`
	MinSize     string   `json:"minSize"`
	Languages   []string `json:"languages"`
	Credentials *string  `json:"credentials"`
	Capacity    string   `json:"capacity"`
	Website     string   `json:"website"`
}

// SellerLead is a stored row of the seller_submissions table.
type SellerLead struct {
	ID                  string    `json:"id"`
	Company             string    `json:"company"`
	ContactName         string    `json:"contact_name"`
	Email               string    `json:"email"`
	Phone               *string   `json:"phone"`
	SalesVolume         string    `json:"sales_volume"`
	LatamPresence       string    `json:"latam_presence"`
	CountriesOfInterest []string  `json:"countries_of_interest"`
	PartnerTypesNeeded  []string  `json:"partner_types_needed"`
	Timeline            string    `json:"timeline"`
	BusinessType        string    `json:"business_type"`
	CreatedAt           time.Time `json:"created_at"`
}

// PartnerApplication is a stored row of the partner_applications table.
type PartnerApplication struct {
	ID                 string    `json:"id"`
	Company            string    `json:"company"`
	ContactName        string    `json:"contact_name"`
	Email              string    `json:"email"`
	Phone              *string   `json:"phone"`
	CountriesServed    []string  `json:"countries_served"`
	ServicesOffered    []string  `json:"services_offered"`
	MinClientSize      string    `json:"min_client_size"`
	LanguagesSupported []string  `json:"languages_supported"`
	Credentials        *string   `json:"credentials"`
	Capacity           string    `json:"capacity"`
	CreatedAt          time.Time `json:"created_at"`
}

// NewSellerLead maps a validated submission onto its table row.
func NewSellerLead(id string, s SellerSubmission, createdAt time.Time) SellerLead {
	return SellerLead{
		ID:                  id,
		Company:             s.Company,
		ContactName:         s.Name,
		Email:               s.Email,
		Phone:               s.Phone,
		SalesVolume:         s.Volume,
		LatamPresence:       s.LatamPresence,
		CountriesOfInterest: s.Countries,
		PartnerTypesNeeded:  s.PartnerTypes,
		Timeline:            s.Timeline,
		BusinessType:        s.BusinessType,
		CreatedAt:           createdAt,
	}
}

// NewPartnerApplication maps a validated submission onto its table row.
func NewPartnerApplication(id string, s PartnerSubmission, createdAt time.Time) PartnerApplication {
	return PartnerApplication{
		ID:                 id,
		Company:            s.Company,
		ContactName:        s.Name,
		Email:              s.Email,
		Phone:              s.Phone,
		CountriesServed:    s.Countries,
		ServicesOffered:    s.Services,
		MinClientSize:      s.MinSize,
		LanguagesSupported: s.Languages,
		Credentials:        s.Credentials,
		Capacity:           s.Capacity,
		CreatedAt:          createdAt,
	}
}

// Lead is the persona-neutral view of an accepted submission handed to
// background sinks such as the marketing forwarder and the archive.
type Lead struct {
	Persona     Persona             `json:"persona"`
	ID          string              `json:"id"`
	SubmittedAt time.Time           `json:"submitted_at"`
	Company     string              `json:"company"`
	Name        string              `json:"name"`
	Email       string              `json:"email"`
	Phone       string              `json:"phone,omitempty"`
	Attributes  map[string][]string `json:"attributes"`
}

// Lead projects the row for background delivery.
func (l SellerLead) Lead() Lead {
	return Lead{
		Persona:     PersonaSeller,
		ID:          l.ID,
		SubmittedAt: l.CreatedAt,
		Company:     l.Company,
		Name:        l.ContactName,
		Email:       l.Email,
		Phone:       deref(l.Phone),
		Attributes: map[string][]string{
			"salesVolume":   {l.SalesVolume},
			"latamPresence": {l.LatamPresence},
			"countries":     l.CountriesOfInterest,
			"partnerTypes":  l.PartnerTypesNeeded,
			"timeline":      {l.Timeline},
			"businessType":  {l.BusinessType},
		},
	}
}

// Lead projects the row for background delivery.
func (a PartnerApplication) Lead() Lead {
	attrs := map[string][]string{
		"countries":     a.CountriesServed,
		"services":      a.ServicesOffered,
		"minClientSize": {a.MinClientSize},
		"languages":     a.LanguagesSupported,
		"capacity":      {a.Capacity},
	}
	if a.Credentials != nil {
		attrs["credentials"] = []string{*a.Credentials}
	}

	return Lead{
		Persona:     PersonaPartner,
		ID:          a.ID,
		SubmittedAt: a.CreatedAt,
		Company:     a.Company,
		Name:        a.ContactName,
		Email:       a.Email,
		Phone:       deref(a.Phone),
		Attributes:  attrs,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
