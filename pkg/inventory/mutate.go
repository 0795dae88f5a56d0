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

	"github.com/devicedeck/devicedeck/pkg/models"
)

// BeginSave commits the open form. The edit path merges the draft into the
// existing device locally, closes the form, and returns submit=false — only
// registration calls the platform API, an asymmetry preserved from the
// system this screen fronts. The create path validates, claims the in-flight
// slot, and returns the draft with submit=true; the caller performs the API
// call and must deliver the outcome to FinishCreate.
func (v *View) BeginSave() (draft models.DeviceDraft, submit bool) {
	if v.dialog.Kind != DialogForm || !v.dialog.Draft.Valid() {
		return models.DeviceDraft{}, false
	}

	if editing := v.dialog.Editing; editing != nil {
		v.applyUpdate(editing.ID, v.dialog.Draft)
		v.CloseDialog()
		v.notifier.Success("Device updated successfully")

		return models.DeviceDraft{}, false
	}

	if v.loading || v.closed {
		return models.DeviceDraft{}, false
	}

	v.loading = true

	return v.dialog.Draft, true
}

func (v *View) applyUpdate(id string, draft models.DeviceDraft) {
	device := v.deviceByID(id)
	if device == nil {
		return
	}

	device.Name = draft.Name
	device.Type = draft.Type
	device.Location = draft.Location
	device.Description = draft.Description
	device.FirmwareVersion = draft.FirmwareVersion
	device.HardwareVersion = draft.HardwareVersion

	// A type or name change can drop the row out of the current filter.
	v.pruneSelection()
	v.log.Info().Str("device_id", id).Msg("device updated")
}

// FinishCreate applies the outcome of a registration call. On success the
// normalized device joins the collection and the dialog advances to the
// connection-details view carrying the server-issued credentials; on failure
// the form stays open for correction. The in-flight flag clears on every
// path, and results arriving after Close are dropped.
func (v *View) FinishCreate(wire *models.WireDevice, err error) {
	if v.closed {
		return
	}

	v.loading = false

	if err != nil || wire == nil {
		v.log.Error().Err(err).Msg("device registration failed")
		v.notifier.Error("Failed to save device")

		return
	}

	device := normalizeDevice(wire)
	device.TelemetryCount = 0

	v.devices = append(v.devices, device)

	payload := device.Connection
	if payload == nil {
		payload = v.fallbackConnection(&device)
	}

	target := device
	v.dialog = Dialog{Kind: DialogConnection, Connection: payload, Target: &target}

	v.notifier.Success("Device registered successfully")
	v.log.Info().Str("device_id", device.ID).Msg("device registered")
}

// ConfirmDelete removes the delete dialog's target from the collection,
// prunes it from the selection, and closes the dialog. Deletion is local
// only, like update.
func (v *View) ConfirmDelete() {
	if v.dialog.Kind != DialogDeleteConfirm || v.dialog.Target == nil {
		return
	}

	id := v.dialog.Target.ID

	kept := v.devices[:0]

	for i := range v.devices {
		if v.devices[i].ID != id {
			kept = append(kept, v.devices[i])
		}
	}

	v.devices = kept
	v.pruneSelection()
	v.CloseDialog()
	v.notifier.Success("Device deleted successfully")
	v.log.Info().Str("device_id", id).Msg("device deleted")
}

// bulkStatuses are the transitions the bulk toolbar exposes.
var bulkStatuses = map[models.Status]struct{}{
	models.StatusActive:      {},
	models.StatusInactive:    {},
	models.StatusMaintenance: {},
}

// BulkSetStatus rewrites the status of every selected device, leaving all
// other fields untouched, then clears the selection and toasts the affected
// count. Returns the number of devices changed.
func (v *View) BulkSetStatus(status models.Status) int {
	if _, ok := bulkStatuses[status]; !ok {
		return 0
	}

	if len(v.selected) == 0 {
		return 0
	}

	affected := 0

	for _, id := range v.selected {
		if device := v.deviceByID(id); device != nil {
			device.Status = status
			affected++
		}
	}

	v.ClearSelection()
	v.notifier.Success(fmt.Sprintf("Updated %d device(s) to %s", affected, status))
	v.log.Info().Int("count", affected).Str("status", string(status)).Msg("bulk status update")

	return affected
}
