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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devicedeck/devicedeck/pkg/models"
	"github.com/devicedeck/devicedeck/pkg/notify"
)

func TestBeginSaveBlocksInvalidDraft(t *testing.T) {
	view, recorder := newTestView()

	view.OpenCreateForm()

	draft := view.Dialog().Draft
	draft.Name = ""
	draft.Location = "X"
	view.SetDraft(draft)

	assert.False(t, view.CanSave())

	_, submit := view.BeginSave()
	assert.False(t, submit, "create must never be invoked with an empty required field")
	assert.False(t, view.Loading())
	assert.Equal(t, DialogForm, view.Dialog().Kind, "form stays open")
	assert.Empty(t, recorder.Drain())

	// Whitespace-only fields are equally invalid.
	draft.Name = "   "
	view.SetDraft(draft)
	assert.False(t, view.CanSave())
}

func TestCreateRoundTrip(t *testing.T) {
	view, recorder := newTestView()

	view.OpenCreateForm()
	view.SetDraft(models.DeviceDraft{
		Name: "Barn Fan", Type: "Fan", Location: "Barn",
		FirmwareVersion: "1.0.0", HardwareVersion: "1.0",
	})

	require.True(t, view.CanSave())

	draft, submit := view.BeginSave()
	require.True(t, submit)
	assert.Equal(t, "Barn Fan", draft.Name)
	assert.True(t, view.Loading())
	assert.Equal(t, DialogForm, view.Dialog().Kind, "form stays up while the call runs")

	connection := &models.ConnectionDetails{
		DeviceToken: "dev-tok", GatewayIP: "192.168.1.100",
		MQTTEndpoint: "mqtt://192.168.1.100:1883", HTTPSEndpoint: "https://192.168.1.100:8443",
		MQTTTopic: "devices/u-1/barn_fan", ReconnectInterval: 30, HeartbeatInterval: 60,
	}
	view.FinishCreate(&models.WireDevice{
		ID: "d-9", Name: "Barn Fan", Type: "Fan", Location: "Barn",
		Status: "inactive", Connection: connection,
	}, nil)

	assert.False(t, view.Loading())

	devices := view.Devices()
	occurrences := 0

	for i := range devices {
		if devices[i].ID == "d-9" {
			occurrences++
			assert.Equal(t, 0, devices[i].TelemetryCount, "a new device starts with zero telemetry")
			assert.Equal(t, "dev-tok", devices[i].APIKey)
		}
	}

	assert.Equal(t, 1, occurrences, "the new id appears exactly once")

	dialog := view.Dialog()
	require.Equal(t, DialogConnection, dialog.Kind)
	assert.Equal(t, "dev-tok", dialog.Connection.DeviceToken, "dialog carries the server-issued token")
	assert.Equal(t, "d-9", dialog.Target.ID)

	toasts := recorder.Drain()
	require.Len(t, toasts, 1)
	assert.Equal(t, notify.SeveritySuccess, toasts[0].Severity)
}

func TestCreateFailureKeepsFormOpenForRetry(t *testing.T) {
	view, recorder := newTestView()

	view.OpenCreateForm()
	view.SetDraft(models.DeviceDraft{Name: "Barn Fan", Type: "Fan", Location: "Barn"})

	_, submit := view.BeginSave()
	require.True(t, submit)

	view.FinishCreate(nil, errors.New("network down"))

	assert.False(t, view.Loading())
	assert.Equal(t, DialogForm, view.Dialog().Kind, "form remains open for correction")
	assert.Equal(t, "Barn Fan", view.Dialog().Draft.Name, "draft survives the failure")
	assert.Empty(t, view.Devices())

	toasts := recorder.Drain()
	require.Len(t, toasts, 1)
	assert.Equal(t, notify.SeverityError, toasts[0].Severity)

	// Retry is user-initiated and allowed immediately.
	_, submit = view.BeginSave()
	assert.True(t, submit)
}

func TestUpdateIsLocalOnly(t *testing.T) {
	view, recorder := newTestView()
	seedDevices(view, testFleet()...)

	device := view.Devices()[0]
	view.OpenEditForm(&device)

	draft := view.Dialog().Draft
	draft.Name = "Greenhouse Sensor Mk2"
	draft.FirmwareVersion = "2.0.0"
	view.SetDraft(draft)

	_, submit := view.BeginSave()
	assert.False(t, submit, "editing never calls the platform API")
	assert.False(t, view.Loading())
	assert.Equal(t, DialogNone, view.Dialog().Kind)

	updated := view.Devices()[0]
	assert.Equal(t, "Greenhouse Sensor Mk2", updated.Name)
	assert.Equal(t, "2.0.0", updated.FirmwareVersion)
	assert.Equal(t, models.StatusActive, updated.Status, "status is not a form field")

	toasts := recorder.Drain()
	require.Len(t, toasts, 1)
	assert.Equal(t, notify.SeveritySuccess, toasts[0].Severity)
}

func TestDeletePrunesSelection(t *testing.T) {
	view, _ := newTestView()
	seedDevices(view, testFleet()...)

	view.ToggleOne("d-2")
	view.ToggleOne("d-3")

	device := view.Devices()[1] // d-2
	view.RequestDelete(&device)
	view.ConfirmDelete()

	devices := view.Devices()
	assert.Len(t, devices, 4)

	for i := range devices {
		assert.NotEqual(t, "d-2", devices[i].ID)
	}

	assert.Equal(t, []string{"d-3"}, view.Selected(),
		"a deleted id leaves the selection even if it was selected")
	assert.Equal(t, DialogNone, view.Dialog().Kind)
}

func TestBulkSetStatus(t *testing.T) {
	view, recorder := newTestView()
	seedDevices(view, testFleet()...)

	before := view.Devices()

	view.ToggleOne("d-1")
	view.ToggleOne("d-4")

	affected := view.BulkSetStatus(models.StatusMaintenance)
	assert.Equal(t, 2, affected)

	after := view.Devices()
	for i := range after {
		switch after[i].ID {
		case "d-1", "d-4":
			assert.Equal(t, models.StatusMaintenance, after[i].Status)

			// Every other field is untouched.
			expected := before[i]
			expected.Status = models.StatusMaintenance
			assert.Equal(t, expected, after[i])
		default:
			assert.Equal(t, before[i], after[i], "unselected devices are bit-for-bit unchanged")
		}
	}

	assert.Zero(t, view.SelectedCount(), "bulk actions clear the selection")

	toasts := recorder.Drain()
	require.Len(t, toasts, 1)
	assert.Contains(t, toasts[0].Message, "2 device(s)")
	assert.Contains(t, toasts[0].Message, "maintenance")
}

func TestBulkSetStatusRejectsErrorStatus(t *testing.T) {
	view, recorder := newTestView()
	seedDevices(view, testFleet()...)

	view.ToggleOne("d-1")

	assert.Zero(t, view.BulkSetStatus(models.StatusError),
		"error is not an exposed bulk transition")
	assert.Equal(t, 1, view.SelectedCount())
	assert.Empty(t, recorder.Drain())
}

func TestLoadAndCreateAreSerialized(t *testing.T) {
	view, _ := newTestView()

	view.OpenCreateForm()
	view.SetDraft(models.DeviceDraft{Name: "Barn Fan", Type: "Fan", Location: "Barn"})

	require.True(t, view.BeginLoad())

	_, submit := view.BeginSave()
	assert.False(t, submit, "create may not start while a load is in flight")

	view.FinishLoad(nil, nil)

	_, submit = view.BeginSave()
	require.True(t, submit)

	assert.False(t, view.BeginLoad(), "load may not start while a create is in flight")

	view.FinishCreate(&models.WireDevice{ID: "d-9", Name: "Barn Fan", Type: "Fan", Location: "Barn", Status: "inactive"}, nil)
	assert.True(t, view.BeginLoad())
	view.FinishLoad(nil, nil)
}

// Mirrors the documented end-to-end scenario: filter by error status,
// select all, bulk move to maintenance.
func TestErrorFilterBulkScenario(t *testing.T) {
	view, _ := newTestView()
	seedDevices(view,
		models.Device{ID: "1", Name: "Probe", Type: "Temperature", Location: "Lab", Status: models.StatusActive},
		models.Device{ID: "2", Name: "Strip", Type: "LED", Location: "Lab", Status: models.StatusError},
	)

	view.SetStatusFilter("error")

	filtered := view.Filtered()
	require.Len(t, filtered, 1)
	assert.Equal(t, "2", filtered[0].ID)

	view.ToggleAll(true)
	assert.Equal(t, []string{"2"}, view.Selected())

	view.BulkSetStatus(models.StatusMaintenance)

	for _, d := range view.Devices() {
		if d.ID == "2" {
			assert.Equal(t, models.StatusMaintenance, d.Status)
		} else {
			assert.Equal(t, models.StatusActive, d.Status)
		}
	}

	assert.Zero(t, view.SelectedCount())
}
