/*
 *  Copyright (c) 2025, WSO2 LLC. (http://www.wso2.org) All Rights Reserved.
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 *
 */

package repository

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"developer-api/config"
	"developer-api/internal/database"
	"developer-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestDB opens a throwaway SQLite database with the real schema. A single
// connection keeps SQLite's write lock out of the concurrency tests.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.NewConnection(&config.Database{
		Driver:       "sqlite3",
		Path:         filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.InitSchema("../database/schema.sql"))
	return db
}

func seedTestOrg(t *testing.T, db *database.DB) *model.Organization {
	t.Helper()
	org := &model.Organization{
		UUID:   "org-1",
		Handle: "acme",
		Name:   "Acme",
	}
	require.NoError(t, NewOrganizationRepo(db).CreateOrganization(org))
	return org
}

func TestInsertUsageRecordRequiresUniqueKey(t *testing.T) {
	db := newTestDB(t)
	repo := NewUsageRepo(db)

	first := &model.UsageRecord{
		UUID:           "usage-1",
		APIKeyID:       "key-1",
		OrganizationID: "org-1",
		Endpoint:       "/api/v1/organizations/:orgId/events",
		Method:         "POST",
		StatusCode:     202,
		ResponseTimeMs: 12,
	}
	require.NoError(t, repo.InsertUsageRecord(first))

	duplicate := *first
	assert.Error(t, repo.InsertUsageRecord(&duplicate), "reused primary key must be rejected")

	second := *first
	second.UUID = "usage-2"
	require.NoError(t, repo.InsertUsageRecord(&second))
}

func TestCountUsageSinceWindows(t *testing.T) {
	db := newTestDB(t)
	repo := NewUsageRepo(db)

	for i, uuid := range []string{"usage-1", "usage-2", "usage-3"} {
		require.NoError(t, repo.InsertUsageRecord(&model.UsageRecord{
			UUID:           uuid,
			APIKeyID:       "key-1",
			OrganizationID: "org-1",
			Endpoint:       "/api/v1/organizations/:orgId/events",
			Method:         "POST",
			StatusCode:     200 + i,
			ResponseTimeMs: 5,
		}))
	}
	require.NoError(t, repo.InsertUsageRecord(&model.UsageRecord{
		UUID:           "usage-other",
		APIKeyID:       "key-2",
		OrganizationID: "org-1",
		Endpoint:       "/api/v1/organizations/:orgId/events",
		Method:         "POST",
		StatusCode:     200,
		ResponseTimeMs: 5,
	}))

	count, err := repo.CountUsageSince("key-1", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	count, err = repo.CountUsageSince("key-1", time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	records, err := repo.ListUsage("key-1", "org-1", 10, 0)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestClaimCodeSingleWinner(t *testing.T) {
	db := newTestDB(t)
	repo := NewAuthorizationCodeRepo(db)

	require.NoError(t, repo.CreateCode(&model.AuthorizationCode{
		Code:           "authcode-1",
		ClientID:       "cid_1",
		OrganizationID: "org-1",
		UserID:         "user-1",
		Scopes:         []string{"content:read"},
		RedirectURI:    "https://app.acme.dev/callback",
		ExpiresAt:      time.Now().Add(10 * time.Minute),
	}))

	const claimers = 8
	results := make(chan bool, claimers)
	var wg sync.WaitGroup
	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			won, err := repo.ClaimCode("authcode-1")
			assert.NoError(t, err)
			results <- won
		}()
	}
	wg.Wait()
	close(results)

	winners := 0
	for won := range results {
		if won {
			winners++
		}
	}
	assert.Equal(t, 1, winners, "exactly one concurrent claim can win")

	stored, err := repo.GetCode("authcode-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.Used)

	won, err := repo.ClaimCode("missing-code")
	require.NoError(t, err)
	assert.False(t, won)
}

func TestRecordDeliveryFailureDisablesAtCeiling(t *testing.T) {
	db := newTestDB(t)
	seedTestOrg(t, db)
	repo := NewWebhookRepo(db)

	webhook := &model.Webhook{
		UUID:           "wh-1",
		OrganizationID: "org-1",
		APIKeyID:       "key-1",
		URL:            "https://hooks.acme.dev/deliveries",
		Secret:         "whsec",
		Events:         []string{"content.published"},
		Active:         true,
	}
	require.NoError(t, repo.CreateWebhook(webhook))

	const maxFailures = 5
	for i := 1; i <= maxFailures; i++ {
		count, active, err := repo.RecordDeliveryFailure("wh-1", maxFailures)
		require.NoError(t, err)
		assert.Equal(t, i, count)
		assert.Equal(t, i < maxFailures, active, "failure %d", i)
	}

	stored, err := repo.GetWebhookByUUID("wh-1", "org-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.False(t, stored.Active)
	assert.Equal(t, maxFailures, stored.FailureCount)
}

func TestRecordDeliverySuccessResetsFailures(t *testing.T) {
	db := newTestDB(t)
	seedTestOrg(t, db)
	repo := NewWebhookRepo(db)

	require.NoError(t, repo.CreateWebhook(&model.Webhook{
		UUID:           "wh-1",
		OrganizationID: "org-1",
		APIKeyID:       "key-1",
		URL:            "https://hooks.acme.dev/deliveries",
		Secret:         "whsec",
		Events:         []string{"content.published"},
		Active:         true,
	}))

	for i := 0; i < 4; i++ {
		_, _, err := repo.RecordDeliveryFailure("wh-1", 5)
		require.NoError(t, err)
	}

	at := time.Now()
	require.NoError(t, repo.RecordDeliverySuccess("wh-1", at))

	stored, err := repo.GetWebhookByUUID("wh-1", "org-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.Active)
	assert.Equal(t, 0, stored.FailureCount)
	require.NotNil(t, stored.LastTriggeredAt)
}
