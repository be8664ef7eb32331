package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/latampartners/landing/internal/db"
	"github.com/latampartners/landing/internal/models"
)

// LeadRepository defines the data access contract for lead-capture submissions.
type LeadRepository interface {
	CreateSeller(ctx context.Context, submission models.SellerSubmission) (models.SellerLead, error)
	CreatePartner(ctx context.Context, submission models.PartnerSubmission) (models.PartnerApplication, error)
}

// PostgresLeadRepository stores seller and partner submissions in PostgreSQL.
type PostgresLeadRepository struct {
	pool db.Pool

	// NowFunc and NewID are overridable for tests.
	NowFunc func() time.Time
	NewID   func() string
}

// NewPostgresLeadRepository constructs a lead repository backed by PostgreSQL.
func NewPostgresLeadRepository(pool db.Pool) *PostgresLeadRepository {
	return &PostgresLeadRepository{
		pool:    pool,
		NowFunc: func() time.Time { return time.Now().UTC() },
		NewID:   uuid.NewString,
	}
}

// CreateSeller inserts a seller submission and returns the stored row.
func (r *PostgresLeadRepository) CreateSeller(ctx context.Context, s models.SellerSubmission) (models.SellerLead, error) {
	lead := models.NewSellerLead(r.NewID(), s, r.NowFunc())

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.SellerLead{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO seller_submissions (id, company, contact_name, email, phone, sales_volume, latam_presence,
            countries_of_interest, partner_types_needed, timeline, business_type, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    `, lead.ID, lead.Company, lead.ContactName, lead.Email, lead.Phone, lead.SalesVolume, lead.LatamPresence,
		lead.CountriesOfInterest, lead.PartnerTypesNeeded, lead.Timeline, lead.BusinessType, lead.CreatedAt)
	if err != nil {
		return models.SellerLead{}, insertError("seller submission", err)
	}

	return lead, nil
}

// CreatePartner inserts a partner application and returns the stored row.
func (r *PostgresLeadRepository) CreatePartner(ctx context.Context, s models.PartnerSubmission) (models.PartnerApplication, error) {
	app := models.NewPartnerApplication(r.NewID(), s, r.NowFunc())

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.PartnerApplication{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO partner_applications (id, company, contact_name, email, phone, countries_served, services_offered,
            min_client_size, languages_supported, credentials, capacity, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    `, app.ID, app.Company, app.ContactName, app.Email, app.Phone, app.CountriesServed, app.ServicesOffered,
		app.MinClientSize, app.LanguagesSupported, app.Credentials, app.Capacity, app.CreatedAt)
	if err != nil {
		return models.PartnerApplication{}, insertError("partner application", err)
	}

	return app, nil
}

func insertError(what string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("insert %s: %w: %w", what, ErrConflict, err)
	}
	return fmt.Errorf("insert %s: %w", what, err)
}

// SQLState extracts the PostgreSQL error code from err, if any.
func SQLState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

var _ LeadRepository = (*PostgresLeadRepository)(nil)
