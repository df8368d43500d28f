package repository

import (
	"database/sql"
	"errors"
	"time"

	"developer-api/internal/database"
	"developer-api/internal/model"
)

// OrganizationRepo implements OrganizationRepository
type OrganizationRepo struct {
	db *database.DB
}

// NewOrganizationRepo creates a new organization repository
func NewOrganizationRepo(db *database.DB) OrganizationRepository {
	return &OrganizationRepo{db: db}
}

// CreateOrganization inserts a new organization
func (r *OrganizationRepo) CreateOrganization(org *model.Organization) error {
	org.CreatedAt = time.Now()
	org.UpdatedAt = time.Now()

	origins, err := marshalStrings(org.AllowedOrigins)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO organizations (uuid, handle, name, allowed_origins, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(r.db.Rebind(query), org.UUID, org.Handle, org.Name, origins, org.CreatedAt, org.UpdatedAt)

	return err
}

// GetOrganizationByUUID retrieves an organization by ID
func (r *OrganizationRepo) GetOrganizationByUUID(uuid string) (*model.Organization, error) {
	query := `
		SELECT uuid, handle, name, allowed_origins, created_at, updated_at
		FROM organizations
		WHERE uuid = ?
	`
	return r.scanOrganization(r.db.QueryRow(r.db.Rebind(query), uuid))
}

// GetOrganizationByHandle retrieves an organization by handle
func (r *OrganizationRepo) GetOrganizationByHandle(handle string) (*model.Organization, error) {
	query := `
		SELECT uuid, handle, name, allowed_origins, created_at, updated_at
		FROM organizations
		WHERE handle = ?
	`
	return r.scanOrganization(r.db.QueryRow(r.db.Rebind(query), handle))
}

// UpdateOrganization modifies an existing organization
func (r *OrganizationRepo) UpdateOrganization(org *model.Organization) error {
	org.UpdatedAt = time.Now()

	origins, err := marshalStrings(org.AllowedOrigins)
	if err != nil {
		return err
	}

	query := `
		UPDATE organizations
		SET handle = ?, name = ?, allowed_origins = ?, updated_at = ?
		WHERE uuid = ?
	`
	_, err = r.db.Exec(r.db.Rebind(query), org.Handle, org.Name, origins, org.UpdatedAt, org.UUID)

	return err
}

// ListOrganizations retrieves organizations with pagination
func (r *OrganizationRepo) ListOrganizations(limit, offset int) ([]*model.Organization, error) {
	query := `
		SELECT uuid, handle, name, allowed_origins, created_at, updated_at
		FROM organizations
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`
	rows, err := r.db.Query(r.db.Rebind(query), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []*model.Organization
	for rows.Next() {
		org := &model.Organization{}
		var origins string
		if err := rows.Scan(&org.UUID, &org.Handle, &org.Name, &origins, &org.CreatedAt, &org.UpdatedAt); err != nil {
			return nil, err
		}
		if org.AllowedOrigins, err = unmarshalStrings(origins); err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}
	return orgs, rows.Err()
}

func (r *OrganizationRepo) scanOrganization(row *sql.Row) (*model.Organization, error) {
	org := &model.Organization{}
	var origins string
	err := row.Scan(&org.UUID, &org.Handle, &org.Name, &origins, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if org.AllowedOrigins, err = unmarshalStrings(origins); err != nil {
		return nil, err
	}
	return org, nil
}
