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

// Package inventory holds the state machine behind the device-inventory
// screen: the device collection, filter criteria, multi-select state,
// pagination, the active dialog, and the mutation paths that keep them
// consistent. It performs no I/O itself; asynchronous work (loading the
// collection, registering a device) is split into Begin/Finish pairs so the
// caller owns the network call and every state change happens on the caller's
// event loop.
package inventory

import (
	"github.com/rs/zerolog"

	"github.com/devicedeck/devicedeck/pkg/models"
	"github.com/devicedeck/devicedeck/pkg/notify"
)

// View is the complete client-side state of the inventory screen. It is not
// safe for concurrent use; drive it from a single event loop.
type View struct {
	log      zerolog.Logger
	notifier notify.Notifier

	user    *models.User
	devices []models.Device
	loading bool
	closed  bool

	criteria Criteria
	selected []string

	page     int
	pageSize int

	dialog     Dialog
	menuTarget *models.Device
}

// New returns an empty View in its initial state: no session, no devices,
// pass-through filters, nothing selected, no dialog open.
func New(notifier notify.Notifier, log zerolog.Logger) *View {
	return &View{
		log:      log,
		notifier: notifier,
		criteria: DefaultCriteria(),
		pageSize: DefaultPageSize,
	}
}

// User returns the session user, or nil when signed out.
func (v *View) User() *models.User {
	return v.user
}

// Loading reports whether an asynchronous operation is in flight. Load and
// create share this flag; while it is set neither may start.
func (v *View) Loading() bool {
	return v.loading
}

// Close marks the view torn down. Results of in-flight operations arriving
// afterwards are discarded instead of being applied to dead state.
func (v *View) Close() {
	v.closed = true
}

// Devices returns a copy of the collection. The view keeps the only mutable
// reference; callers never alias its backing array.
func (v *View) Devices() []models.Device {
	out := make([]models.Device, len(v.devices))
	copy(out, v.devices)

	return out
}

// deviceByID returns a pointer into the collection, or nil.
func (v *View) deviceByID(id string) *models.Device {
	for i := range v.devices {
		if v.devices[i].ID == id {
			return &v.devices[i]
		}
	}

	return nil
}
