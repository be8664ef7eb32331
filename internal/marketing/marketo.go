// Package marketing forwards accepted leads to the Marketo Forms 2.0 endpoint
// the landing page's embedded forms would otherwise post to.
package marketing

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/latampartners/landing/internal/models"
)

const savePath = "/index.php/leadCapture/save2"

// ErrFormNotConfigured is returned for a persona whose form id is unset.
var ErrFormNotConfigured = formNotConfiguredError{}

type formNotConfiguredError struct{}

func (formNotConfiguredError) Error() string { return "marketo form not configured" }
func (formNotConfiguredError) Skipped() bool { return true }

// Client posts leads to Marketo. A form id of 0 disables that persona.
type Client struct {
	BaseURL       string
	MunchkinID    string
	SellerFormID  int
	PartnerFormID int
	HTTP          *http.Client
}

// NewClient returns a client with a bounded HTTP timeout.
func NewClient(baseURL, munchkinID string, sellerFormID, partnerFormID int, timeout time.Duration) *Client {
	return &Client{
		BaseURL:       strings.TrimSuffix(baseURL, "/"),
		MunchkinID:    munchkinID,
		SellerFormID:  sellerFormID,
		PartnerFormID: partnerFormID,
		HTTP:          &http.Client{Timeout: timeout},
	}
}

// Name implements leadsync.Sink.
func (c *Client) Name() string { return "marketo" }

// Deliver implements leadsync.Sink.
func (c *Client) Deliver(ctx context.Context, lead models.Lead) error {
	formID := c.formID(lead.Persona)
	if formID == 0 {
		return ErrFormNotConfigured
	}

	form := formValues(formID, c.MunchkinID, lead)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+savePath, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build marketo request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post marketo form %d: %w", formID, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("post marketo form %d: unexpected status %d", formID, resp.StatusCode)
	}
	return nil
}

func (c *Client) formID(p models.Persona) int {
	switch p {
	case models.PersonaSeller:
		return c.SellerFormID
	case models.PersonaPartner:
		return c.PartnerFormID
	default:
		return 0
	}
}

func formValues(formID int, munchkinID string, lead models.Lead) url.Values {
	form := url.Values{}
	form.Set("formid", strconv.Itoa(formID))
	form.Set("munchkinId", munchkinID)
	form.Set("Email", lead.Email)
	form.Set("Company", lead.Company)
	form.Set("FirstName", lead.Name)
	if lead.Phone != "" {
		form.Set("Phone", lead.Phone)
	}

	keys := make([]string, 0, len(lead.Attributes))
	for k := range lead.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		form.Set(k, strings.Join(lead.Attributes[k], ";"))
	}
	return form
}
