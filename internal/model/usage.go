package model

import (
	"time"
)

// UsageRecord is an append-only log entry for a single gated request.
// Recording failures are swallowed so observability cannot block the
// request path.
type UsageRecord struct {
	UUID           string    `json:"uuid" db:"uuid"`
	APIKeyID       string    `json:"apiKeyId" db:"api_key_uuid"`
	OrganizationID string    `json:"organizationId" db:"organization_uuid"`
	Endpoint       string    `json:"endpoint" db:"endpoint"`
	Method         string    `json:"method" db:"method"`
	StatusCode     int       `json:"statusCode" db:"status_code"`
	ResponseTimeMs int64     `json:"responseTimeMs" db:"response_time_ms"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

// TableName returns the table name for the UsageRecord model
func (UsageRecord) TableName() string {
	return "usage_records"
}
