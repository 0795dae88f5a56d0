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

package inventory

import (
	"hash/fnv"
	"time"

	"github.com/devicedeck/devicedeck/pkg/models"
)

const (
	defaultFirmwareVersion = "1.0.0"
	defaultHardwareVersion = "1.0"

	// placeholderTelemetryRange bounds the informational message count shown
	// for devices whose backend record carries none.
	placeholderTelemetryRange = 50000
)

// SetSession installs the authenticated user. It returns true exactly when
// the session transitioned from absent to present, which is the caller's cue
// to run one load. Sign-out clears the user and re-arms the trigger.
func (v *View) SetSession(user *models.User) bool {
	if user == nil {
		v.user = nil
		return false
	}

	first := v.user == nil
	v.user = user

	return first
}

// BeginLoad claims the in-flight slot for a collection load. It returns false
// when another operation is already running or the view is closed; the caller
// must only perform the network call after a true return, and must always
// deliver the outcome to FinishLoad.
func (v *View) BeginLoad() bool {
	if v.loading || v.closed {
		return false
	}

	v.loading = true

	return true
}

// FinishLoad applies the outcome of a load. On success the collection is
// replaced with the normalized result; on failure it is left untouched and an
// error toast is raised. The loading flag clears on every path. Results
// arriving after Close are dropped.
func (v *View) FinishLoad(wire []models.WireDevice, err error) {
	if v.closed {
		return
	}

	v.loading = false

	if err != nil {
		v.log.Error().Err(err).Msg("failed to load devices")
		v.notifier.Error("Failed to load devices")

		return
	}

	devices := make([]models.Device, 0, len(wire))
	for i := range wire {
		devices = append(devices, normalizeDevice(&wire[i]))
	}

	v.devices = devices
	v.pruneSelection()
	v.log.Info().Int("count", len(devices)).Msg("device collection loaded")
}

// normalizeDevice maps a wire device into the collection shape, filling the
// defaults the backend omits.
func normalizeDevice(w *models.WireDevice) models.Device {
	d := models.Device{
		ID:              w.ID,
		Name:            w.Name,
		Type:            w.Type,
		Location:        w.Location,
		Description:     w.Description,
		Status:          models.Status(w.Status),
		FirmwareVersion: w.FirmwareVersion,
		HardwareVersion: w.HardwareVersion,
		APIKey:          w.APIKey,
		Connection:      w.Connection,
	}

	if d.FirmwareVersion == "" {
		d.FirmwareVersion = defaultFirmwareVersion
	}

	if d.HardwareVersion == "" {
		d.HardwareVersion = defaultHardwareVersion
	}

	if d.APIKey == "" && w.Connection != nil {
		d.APIKey = w.Connection.DeviceToken
	}

	if ts, err := time.Parse(time.RFC3339, w.LastSeen); err == nil {
		d.LastSeen = ts
	}

	if ts, err := time.Parse(time.RFC3339, w.CreatedAt); err == nil {
		d.CreatedAt = ts
	}

	if w.TelemetryCount != nil {
		d.TelemetryCount = *w.TelemetryCount
	} else {
		d.TelemetryCount = placeholderTelemetry(w.ID)
	}

	return d
}

// placeholderTelemetry derives a stable informational message count from the
// device id, standing in for the metric the backend does not supply.
func placeholderTelemetry(id string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))

	return int(h.Sum32() % placeholderTelemetryRange)
}
