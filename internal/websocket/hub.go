/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.org) All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package websocket

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"developer-api/internal/model"

	"go.uber.org/zap"
)

// ErrHubFull is returned when the connection ceiling is reached.
var ErrHubFull = errors.New("websocket hub connection limit reached")

// DeliveryMessage is the frame streamed to subscribers for each webhook
// delivery outcome.
type DeliveryMessage struct {
	Type          string     `json:"type"`
	EventID       string     `json:"eventId"`
	WebhookID     string     `json:"webhookId"`
	Event         string     `json:"event"`
	Status        string     `json:"status"`
	Attempts      int        `json:"attempts"`
	LastAttemptAt *time.Time `json:"lastAttemptAt,omitempty"`
}

// Hub fans webhook delivery outcomes out to the WebSocket subscribers of
// each organization. Slow subscribers are dropped rather than allowed to
// block the fan-out.
type Hub struct {
	mu             sync.RWMutex
	subscribers    map[string]map[*Client]struct{}
	count          int
	maxConnections int
	logger         *zap.Logger
}

// NewHub creates a hub with the given connection ceiling.
func NewHub(maxConnections int, logger *zap.Logger) *Hub {
	return &Hub{
		subscribers:    make(map[string]map[*Client]struct{}),
		maxConnections: maxConnections,
		logger:         logger,
	}
}

// register adds a client to an organization's subscriber set.
func (h *Hub) register(orgID string, client *Client) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.maxConnections > 0 && h.count >= h.maxConnections {
		return ErrHubFull
	}
	set, ok := h.subscribers[orgID]
	if !ok {
		set = make(map[*Client]struct{})
		h.subscribers[orgID] = set
	}
	set[client] = struct{}{}
	h.count++
	return nil
}

// unregister removes a client; safe to call more than once.
func (h *Hub) unregister(orgID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subscribers[orgID]
	if !ok {
		return
	}
	if _, present := set[client]; !present {
		return
	}
	delete(set, client)
	h.count--
	if len(set) == 0 {
		delete(h.subscribers, orgID)
	}
}

// PublishDelivery streams a delivery outcome to the organization's
// subscribers. Implements the dispatcher's notifier contract; never blocks.
func (h *Hub) PublishDelivery(orgID string, event *model.WebhookEvent) {
	message, err := json.Marshal(DeliveryMessage{
		Type:          "webhook.delivery",
		EventID:       event.UUID,
		WebhookID:     event.WebhookID,
		Event:         event.Event,
		Status:        event.Status,
		Attempts:      event.Attempts,
		LastAttemptAt: event.LastAttemptAt,
	})
	if err != nil {
		h.logger.Error("Failed to encode delivery message", zap.Error(err))
		return
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.subscribers[orgID]))
	for client := range h.subscribers[orgID] {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		if !client.enqueue(message) {
			h.logger.Warn("Dropping slow websocket subscriber",
				zap.String("orgId", orgID))
			h.unregister(orgID, client)
			client.close()
		}
	}
}

// ConnectionCount returns the number of active subscriber connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

// Shutdown closes every subscriber connection.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	var clients []*Client
	for _, set := range h.subscribers {
		for client := range set {
			clients = append(clients, client)
		}
	}
	h.mu.Unlock()

	for _, client := range clients {
		client.close()
	}
}
