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

// Package tui renders the device inventory as a terminal application.
// All fleet state lives in an inventory.View; this package translates
// key presses into view transitions and schedules the API calls the
// view's Begin/Finish pairs delegate to the caller.
package tui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/devicedeck/devicedeck/pkg/api"
	"github.com/devicedeck/devicedeck/pkg/inventory"
	"github.com/devicedeck/devicedeck/pkg/models"
	"github.com/devicedeck/devicedeck/pkg/notify"
)

const (
	requestTimeout = 15 * time.Second
	toastTTL       = 4 * time.Second
)

// formFieldCount covers name, type, location, firmware, hardware and
// description. The type field is a selector rather than a textinput.
const (
	fieldName = iota
	fieldType
	fieldLocation
	fieldFirmware
	fieldHardware
	fieldDescription
	formFieldCount
)

type devicesLoadedMsg struct {
	devices []models.WireDevice
	err     error
}

type deviceCreatedMsg struct {
	device *models.WireDevice
	err    error
}

type toastExpiredMsg struct{ seq int }

// formState holds the textinputs backing the create/edit form. The
// authoritative draft lives in the view; the inputs are synced into it
// on every edit so CanSave always sees current values.
type formState struct {
	inputs    [formFieldCount]textinput.Model
	typeIndex int
	focused   int
}

type controlState struct {
	powerOn bool
	level   int
}

type toast struct {
	text  string
	isErr bool
	seq   int
}

type Model struct {
	view     *inventory.View
	client   *api.Client
	recorder *notify.Recorder
	notifier notify.Notifier
	log      zerolog.Logger

	user *models.User

	cursor    int
	menuIndex int
	search    textinput.Model
	searching bool

	form    formState
	control controlState

	toasts   []toast
	toastSeq int

	canCopy bool
	width   int
	height  int
	styles  styles
}

func NewModel(client *api.Client, user *models.User, log zerolog.Logger) *Model {
	recorder := notify.NewRecorder()
	notifier := notify.Tee(recorder, notify.NewLogNotifier(log))
	view := inventory.New(notifier, log)

	search := textinput.New()
	search.Placeholder = "search name, location or type"
	search.Prompt = "/ "
	search.CharLimit = 64

	m := &Model{
		view:     view,
		client:   client,
		recorder: recorder,
		notifier: notifier,
		log:      log.With().Str("component", "tui").Logger(),
		user:     user,
		search:   search,
		styles:   newStyles(),
		canCopy:  clipboard.WriteAll("") == nil,
	}
	m.form = newFormState()

	return m
}

func newFormState() formState {
	var f formState

	labels := [formFieldCount]string{
		fieldName:        "device name",
		fieldType:        "",
		fieldLocation:    "location",
		fieldFirmware:    "firmware version",
		fieldHardware:    "hardware version",
		fieldDescription: "description",
	}

	for i := range f.inputs {
		in := textinput.New()
		in.Placeholder = labels[i]
		in.CharLimit = 128
		f.inputs[i] = in
	}

	f.inputs[fieldName].Focus()

	return f
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}

	if m.view.SetSession(m.user) && m.view.BeginLoad() {
		cmds = append(cmds, m.loadDevicesCmd())
	}

	return tea.Batch(cmds...)
}

func (m *Model) loadDevicesCmd() tea.Cmd {
	client := m.client

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		devices, err := client.GetDevices(ctx)

		return devicesLoadedMsg{devices: devices, err: err}
	}
}

func (m *Model) createDeviceCmd(draft models.DeviceDraft) tea.Cmd {
	client := m.client

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		device, err := client.CreateDevice(ctx, draft)

		return deviceCreatedMsg{device: device, err: err}
	}
}

func (m *Model) expireToastCmd(seq int) tea.Cmd {
	return tea.Tick(toastTTL, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

// drainToasts moves freshly recorded notifications into the visible
// toast line and schedules their expiry.
func (m *Model) drainToasts() tea.Cmd {
	var cmds []tea.Cmd

	for _, n := range m.recorder.Drain() {
		m.toastSeq++
		m.toasts = append(m.toasts, toast{
			text:  n.Message,
			isErr: n.Severity == notify.SeverityError,
			seq:   m.toastSeq,
		})
		cmds = append(cmds, m.expireToastCmd(m.toastSeq))
	}

	if len(cmds) == 0 {
		return nil
	}

	return tea.Batch(cmds...)
}

// clampCursor keeps the row cursor inside the current page.
func (m *Model) clampCursor() {
	visible := len(m.view.VisibleSlice())
	if visible == 0 {
		m.cursor = 0
		return
	}

	if m.cursor >= visible {
		m.cursor = visible - 1
	}

	if m.cursor < 0 {
		m.cursor = 0
	}
}

// deviceUnderCursor resolves the highlighted row, if any.
func (m *Model) deviceUnderCursor() *models.Device {
	page := m.view.VisibleSlice()
	if m.cursor < 0 || m.cursor >= len(page) {
		return nil
	}

	d := page[m.cursor]

	return &d
}
