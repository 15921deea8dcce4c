package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/gstbooks/gst_billing_app/internal/apperrors"
	"github.com/gstbooks/gst_billing_app/internal/core/domain"
	portsrepo "github.com/gstbooks/gst_billing_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxPartyRepository implements the party repository ports using pgxpool.
type PgxPartyRepository struct {
	BaseRepository
}

var _ portsrepo.PartyRepositoryFacade = (*PgxPartyRepository)(nil)

func newPgxPartyRepository(db *pgxpool.Pool) *PgxPartyRepository {
	return &PgxPartyRepository{BaseRepository: BaseRepository{Pool: db}}
}

// FindPartyByID retrieves a party by its ID.
func (r *PgxPartyRepository) FindPartyByID(ctx context.Context, partyID string) (*domain.Party, error) {
	party := &domain.Party{}
	err := r.Pool.QueryRow(ctx, `
		SELECT party_id, name, state_code, COALESCE(gstin, ''), gst_registered,
		       is_customer, is_vendor, COALESCE(address_line, ''), COALESCE(city, ''),
		       created_at, created_by, last_updated_at, last_updated_by
		FROM parties WHERE party_id = $1`, partyID,
	).Scan(
		&party.PartyID, &party.Name, &party.StateCode, &party.GSTIN, &party.GSTRegistered,
		&party.IsCustomer, &party.IsVendor, &party.AddressLine, &party.City,
		&party.CreatedAt, &party.CreatedBy, &party.LastUpdatedAt, &party.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error finding party: %w", err)
	}
	return party, nil
}

// HasPostedDocuments reports whether any non-draft document references the party.
func (r *PgxPartyRepository) HasPostedDocuments(ctx context.Context, partyID string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM documents WHERE party_id = $1 AND status <> 'DRAFT'
		)`, partyID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking posted documents: %w", err)
	}
	return exists, nil
}

// SaveParty persists a new party.
func (r *PgxPartyRepository) SaveParty(ctx context.Context, party domain.Party) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO parties (
			party_id, name, state_code, gstin, gst_registered, is_customer, is_vendor,
			address_line, city, created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1,$2,$3,NULLIF($4,''),$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		party.PartyID, party.Name, party.StateCode, party.GSTIN, party.GSTRegistered,
		party.IsCustomer, party.IsVendor, party.AddressLine, party.City,
		party.CreatedAt, party.CreatedBy, party.LastUpdatedAt, party.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("error inserting party: %w", err)
	}
	return nil
}

// UpdateParty rewrites all mutable fields of a party.
func (r *PgxPartyRepository) UpdateParty(ctx context.Context, party domain.Party) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE parties SET
			name = $1, state_code = $2, gstin = NULLIF($3, ''), gst_registered = $4,
			is_customer = $5, is_vendor = $6, address_line = $7, city = $8,
			last_updated_at = $9, last_updated_by = $10
		WHERE party_id = $11`,
		party.Name, party.StateCode, party.GSTIN, party.GSTRegistered,
		party.IsCustomer, party.IsVendor, party.AddressLine, party.City,
		party.LastUpdatedAt, party.LastUpdatedBy, party.PartyID,
	)
	if err != nil {
		return fmt.Errorf("error updating party: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdatePartyAddress updates only the mutable address fields of a party.
// Identity fields stay frozen once a posted document references the party.
func (r *PgxPartyRepository) UpdatePartyAddress(ctx context.Context, partyID, addressLine, city string) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE parties SET address_line = $1, city = $2, last_updated_at = now()
		WHERE party_id = $3`, addressLine, city, partyID)
	if err != nil {
		return fmt.Errorf("error updating party address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
