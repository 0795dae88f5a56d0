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
	"github.com/rs/zerolog"

	"github.com/devicedeck/devicedeck/pkg/models"
	"github.com/devicedeck/devicedeck/pkg/notify"
)

func newTestView() (*View, *notify.Recorder) {
	recorder := notify.NewRecorder()
	view := New(recorder, zerolog.Nop())
	view.SetSession(&models.User{ID: "u-1", FirstName: "Demo", LastName: "Operator"})

	return view, recorder
}

func seedDevices(v *View, devices ...models.Device) {
	v.devices = append(v.devices, devices...)
}

func testFleet() []models.Device {
	return []models.Device{
		{ID: "d-1", Name: "Greenhouse Sensor", Type: "Temperature", Location: "Greenhouse", Status: models.StatusActive},
		{ID: "d-2", Name: "Barn Fan", Type: "Fan", Location: "Barn", Status: models.StatusError},
		{ID: "d-3", Name: "Yard Light", Type: "LED", Location: "Yard", Status: models.StatusActive},
		{ID: "d-4", Name: "Field Tracker", Type: "GPS", Location: "North Field", Status: models.StatusInactive},
		{ID: "d-5", Name: "Cellar Pump", Type: "Pump", Location: "Cellar", Status: models.StatusMaintenance},
	}
}
