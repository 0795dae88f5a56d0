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

package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/devicedeck/devicedeck/pkg/inventory"
	"github.com/devicedeck/devicedeck/pkg/models"
)

var statusFilterCycle = []string{
	inventory.FilterAll,
	string(models.StatusActive),
	string(models.StatusInactive),
	string(models.StatusError),
	string(models.StatusMaintenance),
}

var typeFilterCycle = []string{
	inventory.FilterAll,
	"sensor",
	"tracker",
	"monitor",
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		return m, nil

	case devicesLoadedMsg:
		m.view.FinishLoad(msg.devices, msg.err)
		m.clampCursor()

		return m, m.drainToasts()

	case deviceCreatedMsg:
		m.view.FinishCreate(msg.device, msg.err)
		m.clampCursor()

		return m, m.drainToasts()

	case toastExpiredMsg:
		for i, t := range m.toasts {
			if t.seq == msg.seq {
				m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
				break
			}
		}

		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.view.Close()
		return m, tea.Quit
	}

	switch m.view.Dialog().Kind {
	case inventory.DialogForm:
		return m.handleFormKey(msg)
	case inventory.DialogConnection:
		return m.handleConnectionKey(msg)
	case inventory.DialogDeleteConfirm:
		return m.handleDeleteConfirmKey(msg)
	case inventory.DialogControl:
		return m.handleControlKey(msg)
	case inventory.DialogNone:
	}

	if m.view.MenuTarget() != nil {
		return m.handleMenuKey(msg)
	}

	if m.searching {
		return m.handleSearchKey(msg)
	}

	return m.handleBrowseKey(msg)
}

func (m *Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.view.Close()
		return m, tea.Quit

	case "j", "down":
		m.cursor++
		m.clampCursor()

	case "k", "up":
		m.cursor--
		m.clampCursor()

	case " ":
		if d := m.deviceUnderCursor(); d != nil {
			m.view.ToggleOne(d.ID)
		}

	case "a":
		m.view.ToggleAll(m.view.SelectedCount() != len(m.view.Filtered()))

	case "x":
		m.view.ClearSelection()

	case "/":
		m.searching = true
		m.search.Focus()

		return m, nil

	case "s":
		m.view.SetStatusFilter(nextCycle(statusFilterCycle, m.view.Criteria().Status))
		m.clampCursor()

	case "t":
		m.view.SetTypeFilter(nextCycle(typeFilterCycle, m.view.Criteria().Type))
		m.clampCursor()

	case "f":
		m.view.ResetFilters()
		m.search.SetValue("")
		m.clampCursor()

	case "[", "left", "h":
		m.view.PrevPage()
		m.clampCursor()

	case "]", "right", "l":
		m.view.NextPage()
		m.clampCursor()

	case "p":
		m.cyclePageSize()
		m.clampCursor()

	case "n":
		m.view.OpenCreateForm()
		m.loadForm(m.view.Dialog().Draft)

	case "m", "enter":
		if d := m.deviceUnderCursor(); d != nil && m.view.OpenMenu(d) {
			m.menuIndex = 0
		}

	case "r":
		if m.view.BeginLoad() {
			return m, m.loadDevicesCmd()
		}

	case "1":
		m.view.BulkSetStatus(models.StatusActive)
		return m, m.drainToasts()

	case "2":
		m.view.BulkSetStatus(models.StatusInactive)
		return m, m.drainToasts()

	case "3":
		m.view.BulkSetStatus(models.StatusMaintenance)
		return m, m.drainToasts()
	}

	return m, nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.search.Blur()

		return m, nil

	case "enter":
		m.searching = false
		m.search.Blur()

		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)

	m.view.SetSearch(m.search.Value())
	m.clampCursor()

	return m, cmd
}

// menuEntries builds the per-device action list. Control only shows up
// for types the control surface knows how to drive.
func (m *Model) menuEntries() []string {
	target := m.view.MenuTarget()
	if target == nil {
		return nil
	}

	entries := make([]string, 0, 4)
	if models.IsControllable(target.Type) {
		entries = append(entries, "Control")
	}

	return append(entries, "Edit", "Connection Details", "Delete")
}

func (m *Model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := m.menuEntries()
	if len(entries) == 0 {
		m.view.CloseMenu()
		return m, nil
	}

	switch msg.String() {
	case "esc", "m", "q":
		m.view.CloseMenu()

	case "j", "down":
		if m.menuIndex < len(entries)-1 {
			m.menuIndex++
		}

	case "k", "up":
		if m.menuIndex > 0 {
			m.menuIndex--
		}

	case "enter", " ":
		target := m.view.MenuTarget()
		if target == nil {
			m.view.CloseMenu()
			return m, nil
		}

		switch entries[m.menuIndex] {
		case "Control":
			if m.view.OpenControl(target) {
				m.control = controlState{
					powerOn: target.Status == models.StatusActive,
					level:   50,
				}
			}
		case "Edit":
			m.view.OpenEditForm(target)
			m.loadForm(m.view.Dialog().Draft)
		case "Connection Details":
			m.view.OpenConnectionDetails(target)
		case "Delete":
			m.view.RequestDelete(target)
		}
	}

	return m, nil
}

func (m *Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view.CloseDialog()
		return m, nil

	case "tab", "down":
		m.focusField((m.form.focused + 1) % formFieldCount)
		return m, nil

	case "shift+tab", "up":
		m.focusField((m.form.focused - 1 + formFieldCount) % formFieldCount)
		return m, nil

	case "enter":
		return m.submitForm()
	}

	if m.form.focused == fieldType {
		switch msg.String() {
		case "left", "h":
			m.cycleType(-1)
		case "right", "l", " ":
			m.cycleType(1)
		}

		return m, nil
	}

	var cmd tea.Cmd
	m.form.inputs[m.form.focused], cmd = m.form.inputs[m.form.focused].Update(msg)

	m.view.SetDraft(m.draftFromForm())

	return m, cmd
}

func (m *Model) submitForm() (tea.Model, tea.Cmd) {
	if !m.view.CanSave() {
		return m, nil
	}

	m.view.SetDraft(m.draftFromForm())

	draft, submit := m.view.BeginSave()
	cmds := []tea.Cmd{m.drainToasts()}

	if submit {
		cmds = append(cmds, m.createDeviceCmd(draft))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleConnectionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	conn := m.view.Dialog().Connection

	switch msg.String() {
	case "esc", "enter", "q":
		m.view.CloseDialog()

	case "c":
		if m.canCopy && conn != nil {
			m.copyToClipboard(conn.DeviceToken, "Device token copied")
		}

	case "y":
		if m.canCopy && conn != nil {
			m.copyToClipboard(formatConnection(conn), "Connection details copied")
		}
	}

	return m, m.drainToasts()
}

func (m *Model) handleDeleteConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "y":
		m.view.ConfirmDelete()
		m.clampCursor()

		return m, m.drainToasts()

	case "esc", "n", "q":
		m.view.CloseDialog()
	}

	return m, nil
}

func (m *Model) handleControlKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.view.CloseControl()

	case " ", "enter":
		m.control.powerOn = !m.control.powerOn

	case "j", "down", "-":
		if m.control.level > 0 {
			m.control.level -= 10
		}

	case "k", "up", "+":
		if m.control.level < 100 {
			m.control.level += 10
		}
	}

	return m, nil
}

// cyclePageSize advances through the allowed page sizes.
func (m *Model) cyclePageSize() {
	sizes := inventory.PageSizes()

	current := m.view.PageSize()
	for i, size := range sizes {
		if size == current {
			m.view.SetPageSize(sizes[(i+1)%len(sizes)])
			return
		}
	}

	m.view.SetPageSize(sizes[0])
}

func (m *Model) cycleType(delta int) {
	types := models.DeviceTypes()

	m.form.typeIndex = (m.form.typeIndex + delta + len(types)) % len(types)
	m.view.SetDraft(m.draftFromForm())
}

func (m *Model) focusField(idx int) {
	if m.form.focused != fieldType {
		m.form.inputs[m.form.focused].Blur()
	}

	m.form.focused = idx
	if idx != fieldType {
		m.form.inputs[idx].Focus()
	}
}

// loadForm seeds the textinputs from a draft when a form dialog opens.
func (m *Model) loadForm(draft models.DeviceDraft) {
	m.form = newFormState()

	m.form.inputs[fieldName].SetValue(draft.Name)
	m.form.inputs[fieldLocation].SetValue(draft.Location)
	m.form.inputs[fieldFirmware].SetValue(draft.FirmwareVersion)
	m.form.inputs[fieldHardware].SetValue(draft.HardwareVersion)
	m.form.inputs[fieldDescription].SetValue(draft.Description)

	m.form.typeIndex = 0
	for i, t := range models.DeviceTypes() {
		if t == draft.Type {
			m.form.typeIndex = i
			break
		}
	}
}

func (m *Model) draftFromForm() models.DeviceDraft {
	return models.DeviceDraft{
		Name:            m.form.inputs[fieldName].Value(),
		Type:            models.DeviceTypes()[m.form.typeIndex],
		Location:        m.form.inputs[fieldLocation].Value(),
		FirmwareVersion: m.form.inputs[fieldFirmware].Value(),
		HardwareVersion: m.form.inputs[fieldHardware].Value(),
		Description:     m.form.inputs[fieldDescription].Value(),
	}
}

func (m *Model) copyToClipboard(text, okMessage string) {
	if err := clipboard.WriteAll(text); err != nil {
		m.log.Error().Err(err).Msg("clipboard write failed")
		m.notifier.Error("Failed to copy to clipboard")

		return
	}

	m.notifier.Success(okMessage)
}

func formatConnection(conn *models.ConnectionDetails) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Device Token: %s\n", conn.DeviceToken)
	fmt.Fprintf(&b, "Gateway IP: %s\n", conn.GatewayIP)
	fmt.Fprintf(&b, "MQTT Endpoint: %s\n", conn.MQTTEndpoint)
	fmt.Fprintf(&b, "HTTPS Endpoint: %s\n", conn.HTTPSEndpoint)
	fmt.Fprintf(&b, "MQTT Topic: %s\n", conn.MQTTTopic)
	fmt.Fprintf(&b, "Reconnect Interval: %ds\n", conn.ReconnectInterval)
	fmt.Fprintf(&b, "Heartbeat Interval: %ds\n", conn.HeartbeatInterval)

	return b.String()
}

func nextCycle(cycle []string, current string) string {
	for i, v := range cycle {
		if v == current {
			return cycle[(i+1)%len(cycle)]
		}
	}

	return cycle[0]
}
