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

// Package api is the HTTP client for the platform's device REST API.
package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/devicedeck/devicedeck/pkg/models"
)

const defaultTimeout = 15 * time.Second

// Config holds client construction options.
type Config struct {
	BaseURL       string
	Token         string
	Timeout       time.Duration
	TLSSkipVerify bool
}

// Client talks to the device API. It is safe for use from a single flow at a
// time, which is all the console ever runs.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient builds a Client from config, normalizing the base URL the way
// operators tend to type it (bare host gets https://).
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL: normalizeBaseURL(cfg.BaseURL),
		token:   cfg.Token,
		http:    newHTTPClient(timeout, cfg.TLSSkipVerify),
	}
}

func normalizeBaseURL(raw string) string {
	base := strings.TrimRight(strings.TrimSpace(raw), "/")
	if base == "" {
		return ""
	}

	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return "https://" + base
	}

	return base
}

func newHTTPClient(timeout time.Duration, skipVerify bool) *http.Client {
	client := &http.Client{Timeout: timeout}

	if skipVerify {
		if transport, ok := http.DefaultTransport.(*http.Transport); ok {
			clone := transport.Clone()
			if clone.TLSClientConfig == nil {
				clone.TLSClientConfig = &tls.Config{} //nolint:gosec // min version from defaults
			}

			clone.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec // intentional CLI flag
			client.Transport = clone
		}
	}

	return client
}

// SetToken installs the bearer token for subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// envelope is the wire response wrapper every endpoint uses.
type envelope struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type loginData struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type deviceListData struct {
	Devices []models.WireDevice `json:"devices"`
}

type deviceData struct {
	Device models.WireDevice `json:"device"`
}

// Login authenticates and returns the signed-in user plus a bearer token,
// which is also installed on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	body := map[string]string{"email": email, "password": password}

	var data loginData
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &data); err != nil {
		return nil, "", fmt.Errorf("login: %w", err)
	}

	c.token = data.Token

	return &data.User, data.Token, nil
}

// GetDevices lists the signed-in user's devices.
func (c *Client) GetDevices(ctx context.Context) ([]models.WireDevice, error) {
	var data deviceListData
	if err := c.do(ctx, http.MethodGet, "/api/devices", nil, &data); err != nil {
		return nil, fmt.Errorf("listing devices: %w", err)
	}

	return data.Devices, nil
}

// CreateDevice registers a new device and returns it with the server-issued
// id, status, and connection details.
func (c *Client) CreateDevice(ctx context.Context, draft models.DeviceDraft) (*models.WireDevice, error) {
	var data deviceData
	if err := c.do(ctx, http.MethodPost, "/api/devices", draft, &data); err != nil {
		return nil, fmt.Errorf("creating device: %w", err)
	}

	return &data.Device, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c.baseURL == "" {
		return errBaseURLRequired
	}

	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w: status %d", errMalformedResponse, resp.StatusCode)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices || !env.Success {
		message := env.Error
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}

		return fmt.Errorf("%w: %s", errRequestRejected, message)
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decoding response data: %w", err)
		}
	}

	return nil
}
