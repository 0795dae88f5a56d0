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
	"fmt"
	"strings"

	"github.com/devicedeck/devicedeck/pkg/models"
)

// Fallback connection constants for devices registered before the platform
// persisted connection details.
const (
	fallbackGatewayIP         = "192.168.1.100"
	fallbackReconnectInterval = 30
	fallbackHeartbeatInterval = 60
)

// DialogKind tags the single modal surface that may be open.
type DialogKind int

const (
	DialogNone DialogKind = iota
	DialogForm
	DialogConnection
	DialogDeleteConfirm
	DialogControl
)

// Dialog is a tagged union: Kind determines which payload fields are
// meaningful. Exactly one modal (or none) is representable, always paired
// with its target — the contradictory flag combinations of independent
// booleans cannot be expressed.
type Dialog struct {
	Kind DialogKind

	// DialogForm
	Draft   models.DeviceDraft
	Editing *models.Device // nil when registering a new device

	// DialogConnection
	Connection *models.ConnectionDetails

	// DialogConnection, DialogDeleteConfirm, DialogControl
	Target *models.Device
}

// Dialog returns the active dialog state.
func (v *View) Dialog() Dialog {
	return v.dialog
}

// DialogOpen reports whether any modal is up.
func (v *View) DialogOpen() bool {
	return v.dialog.Kind != DialogNone
}

// OpenCreateForm opens the registration form with default draft values.
func (v *View) OpenCreateForm() {
	v.menuTarget = nil
	v.dialog = Dialog{Kind: DialogForm, Draft: models.DefaultDraft()}
}

// OpenEditForm opens the form seeded from an existing device.
func (v *View) OpenEditForm(device *models.Device) {
	if device == nil {
		return
	}

	target := *device
	v.menuTarget = nil
	v.dialog = Dialog{
		Kind:    DialogForm,
		Draft:   models.DraftFromDevice(&target),
		Editing: &target,
	}
}

// SetDraft replaces the in-progress form input. Only meaningful while the
// form is open.
func (v *View) SetDraft(draft models.DeviceDraft) {
	if v.dialog.Kind != DialogForm {
		return
	}

	v.dialog.Draft = draft
}

// CanSave reports whether the form's save action is enabled. An invalid
// draft never reaches the mutation path.
func (v *View) CanSave() bool {
	return v.dialog.Kind == DialogForm && v.dialog.Draft.Valid() && !v.loading
}

// CloseDialog dismisses the active modal. Form drafts are discarded, nothing
// is mutated.
func (v *View) CloseDialog() {
	v.dialog = Dialog{}
}

// OpenConnectionDetails shows the credential bundle for a device: the one
// issued at creation when present, otherwise a deterministic reconstruction
// from the stored API key and the fixed gateway address.
func (v *View) OpenConnectionDetails(device *models.Device) {
	if device == nil {
		return
	}

	target := *device

	payload := target.Connection
	if payload == nil {
		payload = v.fallbackConnection(&target)
	}

	v.menuTarget = nil
	v.dialog = Dialog{Kind: DialogConnection, Connection: payload, Target: &target}
}

func (v *View) fallbackConnection(device *models.Device) *models.ConnectionDetails {
	userID := ""
	if v.user != nil {
		userID = v.user.ID
	}

	topicName := strings.ReplaceAll(strings.ToLower(device.Name), " ", "_")

	return &models.ConnectionDetails{
		DeviceToken:       device.APIKey,
		GatewayIP:         fallbackGatewayIP,
		MQTTEndpoint:      fmt.Sprintf("mqtt://%s:1883", fallbackGatewayIP),
		HTTPSEndpoint:     fmt.Sprintf("https://%s:8443", fallbackGatewayIP),
		MQTTTopic:         fmt.Sprintf("devices/%s/%s", userID, topicName),
		ReconnectInterval: fallbackReconnectInterval,
		HeartbeatInterval: fallbackHeartbeatInterval,
	}
}

// RequestDelete opens the delete confirmation for a device.
func (v *View) RequestDelete(device *models.Device) {
	if device == nil {
		return
	}

	target := *device
	v.menuTarget = nil
	v.dialog = Dialog{Kind: DialogDeleteConfirm, Target: &target}
}

// OpenControl opens the control dialog, offered only for controllable device
// types. Returns false (with no transition) otherwise.
func (v *View) OpenControl(device *models.Device) bool {
	if device == nil || !device.IsControllable() {
		return false
	}

	target := *device
	v.menuTarget = nil
	v.dialog = Dialog{Kind: DialogControl, Target: &target}

	return true
}

// CloseControl clears the control target; the external control surface calls
// this through its onClose hook.
func (v *View) CloseControl() {
	if v.dialog.Kind == DialogControl {
		v.dialog = Dialog{}
	}
}

// OpenMenu anchors the per-row action menu to a device. The menu may only
// coexist with no modal.
func (v *View) OpenMenu(device *models.Device) bool {
	if device == nil || v.dialog.Kind != DialogNone {
		return false
	}

	target := *device
	v.menuTarget = &target

	return true
}

// CloseMenu dismisses the action menu; selecting any menu item also closes
// it as part of the item's own transition.
func (v *View) CloseMenu() {
	v.menuTarget = nil
}

// MenuTarget returns the device the action menu is anchored to, or nil when
// the menu is closed.
func (v *View) MenuTarget() *models.Device {
	return v.menuTarget
}
