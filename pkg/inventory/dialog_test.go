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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devicedeck/devicedeck/pkg/models"
)

func TestOpenCreateForm(t *testing.T) {
	view, _ := newTestView()

	view.OpenCreateForm()

	dialog := view.Dialog()
	assert.Equal(t, DialogForm, dialog.Kind)
	assert.Nil(t, dialog.Editing)
	assert.Equal(t, models.DefaultDraft(), dialog.Draft)
	assert.Equal(t, "Temperature", dialog.Draft.Type)
}

func TestOpenEditFormSeedsDraftFromDevice(t *testing.T) {
	view, _ := newTestView()
	seedDevices(view, testFleet()...)

	device := view.Devices()[1]
	view.OpenEditForm(&device)

	dialog := view.Dialog()
	require.Equal(t, DialogForm, dialog.Kind)
	require.NotNil(t, dialog.Editing)
	assert.Equal(t, "d-2", dialog.Editing.ID)
	assert.Equal(t, "Barn Fan", dialog.Draft.Name)
	assert.Equal(t, "Barn", dialog.Draft.Location)
}

func TestCloseDialogDiscardsDraft(t *testing.T) {
	view, _ := newTestView()

	view.OpenCreateForm()

	draft := view.Dialog().Draft
	draft.Name = "Half-typed"
	view.SetDraft(draft)

	view.CloseDialog()

	assert.Equal(t, DialogNone, view.Dialog().Kind)
	assert.Empty(t, view.Devices(), "cancel never mutates the collection")

	view.OpenCreateForm()
	assert.Empty(t, view.Dialog().Draft.Name, "reopening starts from defaults")
}

func TestOpenConnectionDetailsUsesStoredPayload(t *testing.T) {
	view, _ := newTestView()

	stored := &models.ConnectionDetails{DeviceToken: "dev-tok", GatewayIP: "10.0.0.1"}
	seedDevices(view, models.Device{
		ID: "d-1", Name: "Barn Fan", Type: "Fan", Location: "Barn",
		Status: models.StatusActive, APIKey: "key-1", Connection: stored,
	})

	device := view.Devices()[0]
	view.OpenConnectionDetails(&device)

	dialog := view.Dialog()
	require.Equal(t, DialogConnection, dialog.Kind)
	assert.Equal(t, stored, dialog.Connection)
	assert.Equal(t, "d-1", dialog.Target.ID)
}

func TestOpenConnectionDetailsFallsBackDeterministically(t *testing.T) {
	view, _ := newTestView()
	seedDevices(view, models.Device{
		ID: "d-1", Name: "Barn Fan", Type: "Fan", Location: "Barn",
		Status: models.StatusActive, APIKey: "key-1",
	})

	device := view.Devices()[0]
	view.OpenConnectionDetails(&device)

	payload := view.Dialog().Connection
	require.NotNil(t, payload)
	assert.Equal(t, "key-1", payload.DeviceToken, "fallback carries the stored api key")
	assert.Equal(t, "192.168.1.100", payload.GatewayIP)
	assert.Equal(t, "mqtt://192.168.1.100:1883", payload.MQTTEndpoint)
	assert.Equal(t, "https://192.168.1.100:8443", payload.HTTPSEndpoint)
	assert.Equal(t, "devices/u-1/barn_fan", payload.MQTTTopic)
	assert.Equal(t, 30, payload.ReconnectInterval)
	assert.Equal(t, 60, payload.HeartbeatInterval)
}

func TestControlOfferedOnlyForControllableTypes(t *testing.T) {
	view, _ := newTestView()
	seedDevices(view, testFleet()...)

	fan := view.Devices()[1] // type Fan
	require.True(t, view.OpenControl(&fan))
	assert.Equal(t, DialogControl, view.Dialog().Kind)
	assert.Equal(t, "d-2", view.Dialog().Target.ID)

	view.CloseControl()
	assert.Equal(t, DialogNone, view.Dialog().Kind)

	sensor := view.Devices()[0] // type Temperature
	assert.False(t, view.OpenControl(&sensor))
	assert.Equal(t, DialogNone, view.Dialog().Kind, "refused control is not a transition")
}

func TestRequestDeleteOpensConfirmation(t *testing.T) {
	view, _ := newTestView()
	seedDevices(view, testFleet()...)

	device := view.Devices()[0]
	view.RequestDelete(&device)

	dialog := view.Dialog()
	require.Equal(t, DialogDeleteConfirm, dialog.Kind)
	assert.Equal(t, "d-1", dialog.Target.ID)

	view.CloseDialog()
	assert.Len(t, view.Devices(), 5, "cancel deletes nothing")
}

func TestMenuCoexistsOnlyWithNoModal(t *testing.T) {
	view, _ := newTestView()
	seedDevices(view, testFleet()...)

	device := view.Devices()[0]

	require.True(t, view.OpenMenu(&device))
	assert.Equal(t, "d-1", view.MenuTarget().ID)

	// Opening a modal from a menu item closes the menu atomically.
	view.OpenEditForm(&device)
	assert.Nil(t, view.MenuTarget())
	assert.Equal(t, DialogForm, view.Dialog().Kind)

	// No menu while a modal is up.
	assert.False(t, view.OpenMenu(&device))
	assert.Nil(t, view.MenuTarget())

	view.CloseDialog()
	require.True(t, view.OpenMenu(&device))
	view.CloseMenu()
	assert.Nil(t, view.MenuTarget())
}

func TestOnlyOneModalRepresentable(t *testing.T) {
	view, _ := newTestView()
	seedDevices(view, testFleet()...)

	device := view.Devices()[1]

	view.OpenEditForm(&device)
	view.OpenConnectionDetails(&device)

	dialog := view.Dialog()
	assert.Equal(t, DialogConnection, dialog.Kind,
		"the tagged union holds exactly one modal; the later transition wins")
	assert.Nil(t, dialog.Editing)
}
