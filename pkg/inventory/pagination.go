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

import "github.com/devicedeck/devicedeck/pkg/models"

// DefaultPageSize is the initial rows-per-page.
const DefaultPageSize = 10

// PageSizes lists the allowed rows-per-page options.
func PageSizes() []int {
	return []int{5, 10, 25}
}

// Page returns the current 0-based page.
func (v *View) Page() int {
	return v.page
}

// PageSize returns the current rows-per-page.
func (v *View) PageSize() int {
	return v.pageSize
}

// SetPageSize switches rows-per-page and resets to the first page, so the
// view can never land on a page past the end. Sizes outside the allowed set
// are ignored.
func (v *View) SetPageSize(size int) bool {
	allowed := false

	for _, s := range PageSizes() {
		if s == size {
			allowed = true
			break
		}
	}

	if !allowed {
		return false
	}

	v.pageSize = size
	v.page = 0

	return true
}

// SetPage moves to the given page, clamped into the range the current
// filtered view supports.
func (v *View) SetPage(page int) {
	v.page = v.clampPage(page)
}

// NextPage advances one page, clamped.
func (v *View) NextPage() {
	v.SetPage(v.page + 1)
}

// PrevPage steps back one page, clamped.
func (v *View) PrevPage() {
	v.SetPage(v.page - 1)
}

// PageCount returns the number of pages the current filtered view spans.
// An empty view still has one (empty) page.
func (v *View) PageCount() int {
	n := len(v.Filtered())
	if n == 0 {
		return 1
	}

	return (n + v.pageSize - 1) / v.pageSize
}

func (v *View) clampPage(page int) int {
	if page < 0 {
		return 0
	}

	if last := v.PageCount() - 1; page > last {
		return last
	}

	return page
}

// VisibleSlice returns the rows of the current page. Filter changes do not
// reset the page, so the stored page is clamped here: a view narrowed below
// the current offset yields its last page, never an out-of-range slice.
func (v *View) VisibleSlice() []models.Device {
	filtered := v.Filtered()

	v.page = v.clampPage(v.page)

	start := v.page * v.pageSize
	if start >= len(filtered) {
		return nil
	}

	end := start + v.pageSize
	if end > len(filtered) {
		end = len(filtered)
	}

	return filtered[start:end]
}
