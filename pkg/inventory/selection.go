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

// Selected returns a copy of the selected device ids, in selection order.
func (v *View) Selected() []string {
	out := make([]string, len(v.selected))
	copy(out, v.selected)

	return out
}

// SelectedCount returns the number of selected devices.
func (v *View) SelectedCount() int {
	return len(v.selected)
}

// IsSelected reports whether the device id is selected.
func (v *View) IsSelected(id string) bool {
	return v.selectionIndex(id) >= 0
}

func (v *View) selectionIndex(id string) int {
	for i, s := range v.selected {
		if s == id {
			return i
		}
	}

	return -1
}

// ToggleAll selects exactly the ids of the current filtered view when checked
// is true, and empties the selection otherwise. Idempotent in both directions.
func (v *View) ToggleAll(checked bool) {
	if !checked {
		v.selected = nil
		return
	}

	filtered := v.Filtered()

	ids := make([]string, 0, len(filtered))
	for i := range filtered {
		ids = append(ids, filtered[i].ID)
	}

	v.selected = ids
}

// ToggleOne takes the symmetric difference of the selection with {id}:
// absent ids are appended, present ids are removed in place with the order of
// the remainder preserved.
func (v *View) ToggleOne(id string) {
	idx := v.selectionIndex(id)
	if idx < 0 {
		v.selected = append(v.selected, id)
		return
	}

	v.selected = append(v.selected[:idx], v.selected[idx+1:]...)
}

// ClearSelection empties the selection. Every bulk action and delete ends
// here.
func (v *View) ClearSelection() {
	v.selected = nil
}

// pruneSelection drops ids no longer present in the filtered view. Every
// list-shrinking path (filter change, delete, collection replacement) runs
// this before the next bulk action can read the selection.
func (v *View) pruneSelection() {
	if len(v.selected) == 0 {
		return
	}

	filtered := v.Filtered()

	visible := make(map[string]struct{}, len(filtered))
	for i := range filtered {
		visible[filtered[i].ID] = struct{}{}
	}

	kept := v.selected[:0]

	for _, id := range v.selected {
		if _, ok := visible[id]; ok {
			kept = append(kept, id)
		}
	}

	v.selected = kept
}
