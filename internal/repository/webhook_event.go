package repository

import (
	"database/sql"
	"time"

	"developer-api/internal/database"
	"developer-api/internal/model"
)

// WebhookEventRepo implements WebhookEventRepository
type WebhookEventRepo struct {
	db *database.DB
}

// NewWebhookEventRepo creates a new webhook event repository
func NewWebhookEventRepo(db *database.DB) WebhookEventRepository {
	return &WebhookEventRepo{db: db}
}

// CreateEvent inserts a new webhook event record
func (r *WebhookEventRepo) CreateEvent(event *model.WebhookEvent) error {
	event.CreatedAt = time.Now()

	query := `
		INSERT INTO webhook_events (uuid, webhook_uuid, organization_uuid, event, payload, status, attempts, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(r.db.Rebind(query),
		event.UUID, event.WebhookID, event.OrganizationID, event.Event, event.Payload,
		event.Status, event.Attempts, event.CreatedAt,
	)

	return err
}

// UpdateEventDelivery records the outcome of a delivery attempt
func (r *WebhookEventRepo) UpdateEventDelivery(uuid, status string, attempts int, lastAttemptAt time.Time) error {
	query := `
		UPDATE webhook_events
		SET status = ?, attempts = ?, last_attempt_at = ?
		WHERE uuid = ?
	`
	_, err := r.db.Exec(r.db.Rebind(query), status, attempts, lastAttemptAt, uuid)
	return err
}

// ListEventsByWebhook retrieves delivery records for a webhook with pagination
func (r *WebhookEventRepo) ListEventsByWebhook(webhookUUID, orgID string, limit, offset int) ([]*model.WebhookEvent, error) {
	query := `
		SELECT uuid, webhook_uuid, organization_uuid, event, payload, status, attempts, last_attempt_at, created_at
		FROM webhook_events
		WHERE webhook_uuid = ? AND organization_uuid = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`
	rows, err := r.db.Query(r.db.Rebind(query), webhookUUID, orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*model.WebhookEvent
	for rows.Next() {
		event := &model.WebhookEvent{}
		var lastAttemptAt sql.NullTime
		if err := rows.Scan(
			&event.UUID, &event.WebhookID, &event.OrganizationID, &event.Event, &event.Payload,
			&event.Status, &event.Attempts, &lastAttemptAt, &event.CreatedAt,
		); err != nil {
			return nil, err
		}
		if lastAttemptAt.Valid {
			event.LastAttemptAt = &lastAttemptAt.Time
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
