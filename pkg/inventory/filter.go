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
	"strings"

	"github.com/devicedeck/devicedeck/pkg/models"
)

// FilterAll is the pass-through value for the status and type filters.
const FilterAll = "all"

// Criteria is the free-text search plus the status and type predicates. All
// three are ANDed; each defaults to pass-through.
type Criteria struct {
	Search string
	Status string
	Type   string
}

// DefaultCriteria returns pass-through criteria.
func DefaultCriteria() Criteria {
	return Criteria{Status: FilterAll, Type: FilterAll}
}

// Matches reports whether a device passes all three predicates.
func (c Criteria) Matches(d *models.Device) bool {
	if c.Search != "" {
		needle := strings.ToLower(c.Search)
		if !strings.Contains(strings.ToLower(d.Name), needle) &&
			!strings.Contains(strings.ToLower(d.Location), needle) &&
			!strings.Contains(strings.ToLower(d.Type), needle) {
			return false
		}
	}

	if c.Status != FilterAll && string(d.Status) != c.Status {
		return false
	}

	if c.Type != FilterAll &&
		!strings.Contains(strings.ToLower(d.Type), strings.ToLower(c.Type)) {
		return false
	}

	return true
}

// FilterDevices returns the devices matching the criteria, preserving the
// collection's order. It is a stable filter, never a sort.
func FilterDevices(devices []models.Device, c Criteria) []models.Device {
	out := make([]models.Device, 0, len(devices))

	for i := range devices {
		if c.Matches(&devices[i]) {
			out = append(out, devices[i])
		}
	}

	return out
}

// Criteria returns the active filter criteria.
func (v *View) Criteria() Criteria {
	return v.criteria
}

// Filtered returns the filtered, ordered view of the collection.
func (v *View) Filtered() []models.Device {
	return FilterDevices(v.devices, v.criteria)
}

// SetSearch replaces the free-text search term. Selection is pruned so bulk
// actions can never target ids the narrowed view no longer shows.
func (v *View) SetSearch(term string) {
	v.criteria.Search = term
	v.pruneSelection()
}

// SetStatusFilter replaces the status predicate ("all" passes everything).
func (v *View) SetStatusFilter(status string) {
	v.criteria.Status = status
	v.pruneSelection()
}

// SetTypeFilter replaces the type predicate ("all" passes everything).
func (v *View) SetTypeFilter(deviceType string) {
	v.criteria.Type = deviceType
	v.pruneSelection()
}

// ResetFilters restores pass-through criteria.
func (v *View) ResetFilters() {
	v.criteria = DefaultCriteria()
	v.pruneSelection()
}
