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

	"github.com/charmbracelet/lipgloss"

	"github.com/devicedeck/devicedeck/pkg/inventory"
	"github.com/devicedeck/devicedeck/pkg/models"
)

const (
	colName     = 26
	colType     = 14
	colLocation = 18
	colStatus   = 12
	colSeen     = 17
)

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderFilters())
	b.WriteString("\n")

	if toolbar := m.renderSelectionToolbar(); toolbar != "" {
		b.WriteString(toolbar)
		b.WriteString("\n")
	}

	switch m.view.Dialog().Kind {
	case inventory.DialogForm:
		b.WriteString(m.renderForm())
	case inventory.DialogConnection:
		b.WriteString(m.renderConnection())
	case inventory.DialogDeleteConfirm:
		b.WriteString(m.renderDeleteConfirm())
	case inventory.DialogControl:
		b.WriteString(m.renderControl())
	default:
		b.WriteString(m.renderTable())
		if m.view.MenuTarget() != nil {
			b.WriteString("\n")
			b.WriteString(m.renderMenu())
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	for _, t := range m.toasts {
		style := m.styles.success
		if t.isErr {
			style = m.styles.error
		}

		b.WriteString("\n")
		b.WriteString(style.Render(t.text))
	}

	return m.styles.app.Render(b.String())
}

func (m *Model) renderHeader() string {
	title := m.styles.title.Render("devicedeck")

	who := ""
	if u := m.view.User(); u != nil {
		who = m.styles.dim.Render("  " + u.DisplayName())
	}

	loading := ""
	if m.view.Loading() {
		loading = m.styles.hint.Render("  loading…")
	}

	return title + who + loading
}

func (m *Model) renderFilters() string {
	criteria := m.view.Criteria()

	parts := []string{
		m.search.View(),
		m.styles.dim.Render(fmt.Sprintf("status:%s", criteria.Status)),
		m.styles.dim.Render(fmt.Sprintf("type:%s", criteria.Type)),
	}

	return strings.Join(parts, "  ")
}

func (m *Model) renderSelectionToolbar() string {
	count := m.view.SelectedCount()
	if count == 0 {
		return ""
	}

	label := m.styles.selected.Render(fmt.Sprintf("%d device(s) selected", count))
	actions := m.styles.help.Render("  [1] activate  [2] deactivate  [3] maintenance  [x] clear")

	return label + actions
}

func (m *Model) renderTable() string {
	page := m.view.VisibleSlice()
	if len(page) == 0 {
		return m.styles.dim.Render("No devices match the current filters.")
	}

	var b strings.Builder

	b.WriteString(m.styles.header.Render(fmt.Sprintf(
		"    %-*s %-*s %-*s %-*s %-*s %s",
		colName, "NAME", colType, "TYPE", colLocation, "LOCATION",
		colStatus, "STATUS", colSeen, "LAST SEEN", "MSGS",
	)))
	b.WriteString("\n")

	for i, d := range page {
		b.WriteString(m.renderRow(i, &d))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) renderRow(idx int, d *models.Device) string {
	marker := "  "
	if idx == m.cursor {
		marker = m.styles.cursor.Render("> ")
	}

	check := "[ ]"
	if m.view.IsSelected(d.ID) {
		check = m.styles.selected.Render("[x]")
	}

	name := d.Name
	if d.FirmwareVersion != "" {
		name = fmt.Sprintf("%s (fw %s)", d.Name, d.FirmwareVersion)
	}

	seen := "never"
	if !d.LastSeen.IsZero() {
		seen = d.LastSeen.Format("2006-01-02 15:04")
	}

	line := fmt.Sprintf(
		"%s%s %-*s %-*s %-*s %s %-*s %d",
		marker, check,
		colName, truncate(name, colName),
		colType, truncate(d.Type, colType),
		colLocation, truncate(d.Location, colLocation),
		m.styles.status(d.Status).Render(fmt.Sprintf("%-*s", colStatus, d.Status)),
		colSeen, seen,
		d.TelemetryCount,
	)

	return line
}

func (m *Model) renderMenu() string {
	target := m.view.MenuTarget()
	entries := m.menuEntries()

	var b strings.Builder

	b.WriteString(m.styles.header.Render(target.Name))
	b.WriteString("\n")

	for i, entry := range entries {
		prefix := "  "
		if i == m.menuIndex {
			prefix = m.styles.cursor.Render("> ")
		}

		b.WriteString(prefix + entry + "\n")
	}

	return m.styles.box.Render(strings.TrimRight(b.String(), "\n"))
}

func (m *Model) renderForm() string {
	dialog := m.view.Dialog()

	title := "Register Device"
	if dialog.Editing != nil {
		title = "Edit Device"
	}

	labels := [formFieldCount]string{
		fieldName:        "Name",
		fieldType:        "Type",
		fieldLocation:    "Location",
		fieldFirmware:    "Firmware",
		fieldHardware:    "Hardware",
		fieldDescription: "Description",
	}

	var b strings.Builder

	b.WriteString(m.styles.header.Render(title))
	b.WriteString("\n\n")

	for i := 0; i < formFieldCount; i++ {
		marker := "  "
		if i == m.form.focused {
			marker = m.styles.cursor.Render("> ")
		}

		if i == fieldType {
			deviceType := models.DeviceTypes()[m.form.typeIndex]
			b.WriteString(fmt.Sprintf("%s%-12s ◀ %s ▶\n", marker, labels[i], deviceType))

			continue
		}

		b.WriteString(fmt.Sprintf("%s%-12s %s\n", marker, labels[i], m.form.inputs[i].View()))
	}

	b.WriteString("\n")

	save := "enter save"
	if !m.view.CanSave() {
		save = m.styles.dim.Render("enter save (name and location required)")
	}

	b.WriteString(m.styles.help.Render("tab next · " + save + " · esc cancel"))

	return m.styles.box.Render(strings.TrimRight(b.String(), "\n"))
}

func (m *Model) renderConnection() string {
	dialog := m.view.Dialog()
	conn := dialog.Connection

	var b strings.Builder

	b.WriteString(m.styles.header.Render("Connection Details"))
	if dialog.Target != nil {
		b.WriteString(m.styles.dim.Render("  " + dialog.Target.Name))
	}

	b.WriteString("\n\n")

	if conn == nil {
		b.WriteString(m.styles.dim.Render("No connection details available."))
	} else {
		rows := []struct{ label, value string }{
			{"Device Token", conn.DeviceToken},
			{"Gateway IP", conn.GatewayIP},
			{"MQTT Endpoint", conn.MQTTEndpoint},
			{"HTTPS Endpoint", conn.HTTPSEndpoint},
			{"MQTT Topic", conn.MQTTTopic},
			{"Reconnect", fmt.Sprintf("%ds", conn.ReconnectInterval)},
			{"Heartbeat", fmt.Sprintf("%ds", conn.HeartbeatInterval)},
		}

		for _, row := range rows {
			b.WriteString(fmt.Sprintf("%-15s %s\n", row.label, row.value))
		}
	}

	b.WriteString("\n")

	help := "esc close"
	if m.canCopy && conn != nil {
		help = "c copy token · y copy all · esc close"
	}

	b.WriteString(m.styles.help.Render(help))

	return m.styles.box.Render(strings.TrimRight(b.String(), "\n"))
}

func (m *Model) renderDeleteConfirm() string {
	dialog := m.view.Dialog()

	name := ""
	if dialog.Target != nil {
		name = dialog.Target.Name
	}

	var b strings.Builder

	b.WriteString(m.styles.error.Render("Delete device?"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s will be removed from the inventory.\n", name))
	b.WriteString("\n")
	b.WriteString(m.styles.help.Render("y/enter delete · n/esc cancel"))

	return m.styles.box.Render(strings.TrimRight(b.String(), "\n"))
}

func (m *Model) renderControl() string {
	dialog := m.view.Dialog()

	name := ""
	if dialog.Target != nil {
		name = dialog.Target.Name
	}

	power := m.styles.dim.Render("OFF")
	if m.control.powerOn {
		power = m.styles.success.Render("ON")
	}

	filled := m.control.level / 10
	bar := strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)

	var b strings.Builder

	b.WriteString(m.styles.header.Render("Control"))
	b.WriteString(m.styles.dim.Render("  " + name))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Power  %s\n", power))
	b.WriteString(fmt.Sprintf("Level  %s %d%%\n", bar, m.control.level))
	b.WriteString("\n")
	b.WriteString(m.styles.help.Render("space toggle · +/- level · esc close"))

	return m.styles.box.Render(strings.TrimRight(b.String(), "\n"))
}

func (m *Model) renderFooter() string {
	filtered := len(m.view.Filtered())

	pager := fmt.Sprintf(
		"page %d/%d · %d per page · %d device(s)",
		m.view.Page()+1, m.view.PageCount(), m.view.PageSize(), filtered,
	)

	keys := "j/k move · space select · a all · / search · s/t filter · [/] page · n new · m menu · r reload · q quit"

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.styles.dim.Render(pager),
		m.styles.help.Render(keys),
	)
}

// truncate shortens to max runes, never splitting a multibyte character.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}

	if max <= 1 {
		return string(runes[:max])
	}

	return string(runes[:max-1]) + "…"
}
