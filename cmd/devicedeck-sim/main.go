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

// devicedeck-sim is a self-contained device API for demos and local
// development. It serves the same endpoints and response envelopes the
// console expects, backed by a seeded in-memory fleet.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/devicedeck/devicedeck/pkg/logger"
	"github.com/devicedeck/devicedeck/pkg/models"
)

const (
	gatewayIP    = "192.168.1.100"
	tokenTTL     = 24 * time.Hour
	demoEmail    = "demo@devicedeck.io"
	demoPassword = "demo1234"
)

type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type server struct {
	log       zerolog.Logger
	jwtSecret []byte

	user         models.User
	passwordHash []byte

	mu      sync.Mutex
	devices []models.WireDevice
	rng     *rand.Rand
}

func main() {
	listen := flag.String("listen", ":8090", "listen address")
	secret := flag.String("jwt-secret", "", "JWT signing secret (random if empty)")
	seed := flag.Int64("seed", time.Now().UnixNano(), "fleet randomization seed")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	logCfg := logger.DefaultConfig()
	logCfg.Debug = *debug

	if err := logger.Init(logCfg); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	log := logger.WithComponent("sim")

	if *secret == "" {
		*secret = uuid.NewString()
	}

	srv, err := newServer(log, []byte(*secret), *seed)
	if err != nil {
		log.Fatal().Err(err).Msg("building server")
	}

	httpServer := &http.Server{
		Addr:         *listen,
		Handler:      srv.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("listen", *listen).Str("email", demoEmail).Msg("devicedeck-sim listening")

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}

	log.Info().Msg("stopped")
}

func newServer(log zerolog.Logger, jwtSecret []byte, seed int64) (*server, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing demo password: %w", err)
	}

	s := &server{
		log:       log,
		jwtSecret: jwtSecret,
		user: models.User{
			ID:        uuid.NewString(),
			Email:     demoEmail,
			FirstName: "Demo",
			LastName:  "Operator",
		},
		passwordHash: hash,
		rng:          rand.New(rand.NewSource(seed)), //nolint:gosec // demo data only
	}

	s.devices = s.seedFleet()

	return s, nil
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(s.requestLogger)

	r.Post("/api/auth/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)
		r.Get("/api/devices", s.handleListDevices)
		r.Post("/api/devices", s.handleCreateDevice)
	})

	return r
}

func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !strings.EqualFold(req.Email, s.user.Email) ||
		bcrypt.CompareHashAndPassword(s.passwordHash, []byte(req.Password)) != nil {
		s.respondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := s.issueToken()
	if err != nil {
		s.log.Error().Err(err).Msg("issuing token")
		s.respondError(w, http.StatusInternalServerError, "failed to issue token")

		return
	}

	s.respond(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  s.user,
	})
}

func (s *server) issueToken() (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   s.user.ID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func (s *server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")

		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			s.respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		_, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}

			return s.jwtSecret, nil
		})
		if err != nil {
			s.respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *server) handleListDevices(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	devices := make([]models.WireDevice, len(s.devices))
	copy(devices, s.devices)
	s.mu.Unlock()

	s.respond(w, http.StatusOK, map[string]interface{}{"devices": devices})
}

func (s *server) handleCreateDevice(w http.ResponseWriter, r *http.Request) {
	var draft models.DeviceDraft

	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !draft.Valid() {
		s.respondError(w, http.StatusBadRequest, "name and location are required")
		return
	}

	device := s.buildDevice(draft)

	s.mu.Lock()
	s.devices = append(s.devices, device)
	s.mu.Unlock()

	s.log.Info().Str("device_id", device.ID).Str("name", device.Name).Msg("device registered")

	s.respond(w, http.StatusCreated, map[string]interface{}{"device": device})
}

func (s *server) buildDevice(draft models.DeviceDraft) models.WireDevice {
	id := uuid.NewString()
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	topicName := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(draft.Name)), " ", "_")
	zero := 0

	return models.WireDevice{
		ID:              id,
		Name:            strings.TrimSpace(draft.Name),
		Type:            draft.Type,
		Location:        strings.TrimSpace(draft.Location),
		Description:     draft.Description,
		Status:          string(models.StatusActive),
		FirmwareVersion: draft.FirmwareVersion,
		HardwareVersion: draft.HardwareVersion,
		APIKey:          token,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
		TelemetryCount:  &zero,
		Connection: &models.ConnectionDetails{
			DeviceToken:       token,
			GatewayIP:         gatewayIP,
			MQTTEndpoint:      fmt.Sprintf("mqtt://%s:1883", gatewayIP),
			HTTPSEndpoint:     fmt.Sprintf("https://%s:8443", gatewayIP),
			MQTTTopic:         fmt.Sprintf("devices/%s/%s", s.user.ID, topicName),
			ReconnectInterval: 30,
			HeartbeatInterval: 60,
		},
	}
}

// seedFleet builds the demo inventory served on first load.
func (s *server) seedFleet() []models.WireDevice {
	seeds := []struct {
		name, deviceType, location string
		status                     models.Status
	}{
		{"Greenhouse Temperature", "Temperature", "Greenhouse", models.StatusActive},
		{"Greenhouse Humidity", "Humidity", "Greenhouse", models.StatusActive},
		{"Barn Exhaust Fan", "Fan", "Barn", models.StatusActive},
		{"Barn Door Lock", "Door Lock", "Barn", models.StatusInactive},
		{"Irrigation Pump", "Pump", "Field A", models.StatusError},
		{"Field Soil Moisture", "Moisture", "Field A", models.StatusActive},
		{"Gate Camera", "Camera", "Main Gate", models.StatusActive},
		{"Cold Storage Thermostat", "Thermostat", "Warehouse", models.StatusMaintenance},
		{"Warehouse Motion", "Motion", "Warehouse", models.StatusActive},
		{"Tractor GPS", "GPS", "Fleet", models.StatusInactive},
		{"Grow Light Bank", "LED", "Greenhouse", models.StatusActive},
		{"Water Valve North", "Valve", "Field B", models.StatusActive},
	}

	devices := make([]models.WireDevice, 0, len(seeds))

	for _, seed := range seeds {
		token := strings.ReplaceAll(uuid.NewString(), "-", "")
		count := s.rng.Intn(50000)
		lastSeen := time.Now().Add(-time.Duration(s.rng.Intn(72)) * time.Hour)

		devices = append(devices, models.WireDevice{
			ID:              uuid.NewString(),
			Name:            seed.name,
			Type:            seed.deviceType,
			Location:        seed.location,
			Status:          string(seed.status),
			LastSeen:        lastSeen.UTC().Format(time.RFC3339),
			FirmwareVersion: fmt.Sprintf("1.%d.%d", s.rng.Intn(4), s.rng.Intn(10)),
			HardwareVersion: "1.0",
			APIKey:          token,
			CreatedAt:       time.Now().Add(-30 * 24 * time.Hour).UTC().Format(time.RFC3339),
			TelemetryCount:  &count,
		})
	}

	return devices
}

func (s *server) respond(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(apiResponse{Success: true, Data: data}); err != nil {
		s.log.Error().Err(err).Msg("encoding response")
	}
}

func (s *server) respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(apiResponse{Success: false, Error: message}); err != nil {
		s.log.Error().Err(err).Msg("encoding response")
	}
}
