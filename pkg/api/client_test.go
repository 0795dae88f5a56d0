/*
 * Copyright 2025 The devicedeck Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devicedeck/devicedeck/pkg/models"
)

func TestLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "demo@devicedeck.io", body["email"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"token": "tok-123",
				"user": map[string]any{
					"id":        "u-1",
					"email":     "demo@devicedeck.io",
					"firstName": "Demo",
					"lastName":  "Operator",
				},
			},
		})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})

	user, token, err := client.Login(context.Background(), "demo@devicedeck.io", "password")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, "Demo Operator", user.DisplayName())
}

func TestGetDevices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/devices", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"devices": []map[string]any{
					{
						"id":       "d-1",
						"name":     "Greenhouse Sensor",
						"type":     "Temperature",
						"location": "Greenhouse",
						"status":   "active",
						"lastSeen": "2025-06-01T10:00:00Z",
						"apiKey":   "key-1",
					},
				},
			},
		})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Token: "tok-123"})

	devices, err := client.GetDevices(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "Greenhouse Sensor", devices[0].Name)
}

func TestCreateDevice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var draft models.DeviceDraft
		require.NoError(t, json.NewDecoder(r.Body).Decode(&draft))
		assert.Equal(t, "Barn Fan", draft.Name)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"device": map[string]any{
					"id":       "d-9",
					"name":     draft.Name,
					"type":     draft.Type,
					"location": draft.Location,
					"status":   "inactive",
					"connectionDetails": map[string]any{
						"deviceToken":       "dev-tok",
						"gatewayIP":         "192.168.1.100",
						"mqttEndpoint":      "mqtt://192.168.1.100:1883",
						"httpsEndpoint":     "https://192.168.1.100:8443",
						"mqttTopic":         "devices/u-1/barn_fan",
						"reconnectInterval": 30,
						"heartbeatInterval": 60,
					},
				},
			},
		})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Token: "tok-123"})

	device, err := client.CreateDevice(context.Background(), models.DeviceDraft{
		Name: "Barn Fan", Type: "Fan", Location: "Barn",
	})
	require.NoError(t, err)
	assert.Equal(t, "d-9", device.ID)
	require.NotNil(t, device.Connection)
	assert.Equal(t, "dev-tok", device.Connection.DeviceToken)
}

func TestRejectedResponse(t *testing.T) {
	t.Run("success false", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "name is required"})
		}))
		defer server.Close()

		client := NewClient(Config{BaseURL: server.URL})

		_, err := client.CreateDevice(context.Background(), models.DeviceDraft{})
		require.Error(t, err)
		assert.True(t, IsRejected(err))
		assert.Contains(t, err.Error(), "name is required")
	})

	t.Run("http error without envelope", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewClient(Config{BaseURL: server.URL})

		_, err := client.GetDevices(context.Background())
		require.Error(t, err)
		assert.False(t, IsRejected(err))
	})
}

func TestNormalizeBaseURL(t *testing.T) {
	assert.Equal(t, "https://deck.example.com", normalizeBaseURL("deck.example.com/"))
	assert.Equal(t, "http://localhost:8090", normalizeBaseURL("http://localhost:8090"))
	assert.Equal(t, "", normalizeBaseURL("  "))
}

func TestMissingBaseURL(t *testing.T) {
	client := NewClient(Config{})

	_, err := client.GetDevices(context.Background())
	require.Error(t, err)
}
