package repository

import (
	"time"

	"developer-api/internal/database"
	"developer-api/internal/model"
)

// UsageRepo implements UsageRepository
type UsageRepo struct {
	db *database.DB
}

// NewUsageRepo creates a new usage repository
func NewUsageRepo(db *database.DB) UsageRepository {
	return &UsageRepo{db: db}
}

// InsertUsageRecord appends a usage log entry
func (r *UsageRepo) InsertUsageRecord(record *model.UsageRecord) error {
	record.CreatedAt = time.Now()

	query := `
		INSERT INTO usage_records (uuid, api_key_uuid, organization_uuid, endpoint, method,
			status_code, response_time_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(r.db.Rebind(query),
		record.UUID, record.APIKeyID, record.OrganizationID, record.Endpoint, record.Method,
		record.StatusCode, record.ResponseTimeMs, record.CreatedAt,
	)

	return err
}

// CountUsageSince counts requests recorded for the API key strictly after
// the given instant
func (r *UsageRepo) CountUsageSince(apiKeyUUID string, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM usage_records
		WHERE api_key_uuid = ? AND created_at > ?
	`
	var count int
	err := r.db.QueryRow(r.db.Rebind(query), apiKeyUUID, since).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ListUsage retrieves usage records for an API key with pagination
func (r *UsageRepo) ListUsage(apiKeyUUID, orgID string, limit, offset int) ([]*model.UsageRecord, error) {
	query := `
		SELECT uuid, api_key_uuid, organization_uuid, endpoint, method, status_code, response_time_ms, created_at
		FROM usage_records
		WHERE api_key_uuid = ? AND organization_uuid = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`
	rows, err := r.db.Query(r.db.Rebind(query), apiKeyUUID, orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*model.UsageRecord
	for rows.Next() {
		record := &model.UsageRecord{}
		if err := rows.Scan(
			&record.UUID, &record.APIKeyID, &record.OrganizationID, &record.Endpoint, &record.Method,
			&record.StatusCode, &record.ResponseTimeMs, &record.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
