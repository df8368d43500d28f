package repository

import (
	"time"

	"developer-api/internal/model"
)

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	CreateOrganization(org *model.Organization) error
	GetOrganizationByUUID(uuid string) (*model.Organization, error)
	GetOrganizationByHandle(handle string) (*model.Organization, error)
	UpdateOrganization(org *model.Organization) error
	ListOrganizations(limit, offset int) ([]*model.Organization, error)
}

// APIKeyRepository defines the interface for API key data access
type APIKeyRepository interface {
	CreateAPIKey(key *model.APIKey) error
	GetAPIKeyByKey(apiKey, orgID string) (*model.APIKey, error)
	GetAPIKeyByUUID(uuid, orgID string) (*model.APIKey, error)
	ListAPIKeys(orgID string, limit, offset int) ([]*model.APIKey, error)
	UpdateAPIKeyStatus(uuid, orgID, status string) error
	UpdateAPIKeyLimits(uuid, orgID string, perMinute, perHour, perDay int) error
	TouchLastUsed(uuid string, at time.Time) error
}

// OAuthClientRepository defines the interface for OAuth client data access
type OAuthClientRepository interface {
	CreateClient(client *model.OAuthClient) error
	GetClientByClientID(clientID string) (*model.OAuthClient, error)
	GetClientByUUID(uuid, orgID string) (*model.OAuthClient, error)
	ListClients(orgID string, limit, offset int) ([]*model.OAuthClient, error)
	UpdateClient(client *model.OAuthClient) error
}

// AuthorizationCodeRepository defines the interface for authorization code
// data access. ClaimCode is the single atomic compare-and-set guarding
// against double exchange of a code.
type AuthorizationCodeRepository interface {
	CreateCode(code *model.AuthorizationCode) error
	GetCode(code string) (*model.AuthorizationCode, error)
	// ClaimCode marks the code used iff it is currently unused. Returns true
	// when this caller won the claim.
	ClaimCode(code string) (bool, error)
}

// RefreshTokenRepository defines the interface for refresh token data access
type RefreshTokenRepository interface {
	CreateToken(token *model.RefreshToken) error
	GetToken(token string) (*model.RefreshToken, error)
	// RevokeToken marks the token revoked; idempotent on already-revoked tokens.
	RevokeToken(token string) error
}

// WebhookRepository defines the interface for webhook subscription data access
type WebhookRepository interface {
	CreateWebhook(webhook *model.Webhook) error
	GetWebhookByUUID(uuid, orgID string) (*model.Webhook, error)
	ListWebhooks(orgID string, limit, offset int) ([]*model.Webhook, error)
	ListActiveWebhooksForEvent(orgID, event string) ([]*model.Webhook, error)
	// RecordDeliverySuccess resets the failure count and stamps last_triggered_at.
	RecordDeliverySuccess(uuid string, at time.Time) error
	// RecordDeliveryFailure increments the failure count, disabling the webhook
	// once the count reaches maxFailures. Returns the updated failure count and
	// whether the webhook is still active.
	RecordDeliveryFailure(uuid string, maxFailures int) (int, bool, error)
	// SetActive enables or disables a webhook; enabling resets the failure count.
	SetActive(uuid, orgID string, active bool) error
	DeleteWebhook(uuid, orgID string) error
}

// WebhookEventRepository defines the interface for webhook event audit records
type WebhookEventRepository interface {
	CreateEvent(event *model.WebhookEvent) error
	UpdateEventDelivery(uuid, status string, attempts int, lastAttemptAt time.Time) error
	ListEventsByWebhook(webhookUUID, orgID string, limit, offset int) ([]*model.WebhookEvent, error)
}

// UsageRepository defines the interface for usage records and window counters
type UsageRepository interface {
	InsertUsageRecord(record *model.UsageRecord) error
	// CountUsageSince counts requests recorded for the API key strictly after
	// the given instant. Used as the sliding-window rate limit counter.
	CountUsageSince(apiKeyUUID string, since time.Time) (int, error)
	ListUsage(apiKeyUUID, orgID string, limit, offset int) ([]*model.UsageRecord, error)
}
