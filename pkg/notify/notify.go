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

// Package notify is the fire-and-forget announcement surface the inventory
// core raises success and error toasts on.
package notify

import (
	"sync"

	"github.com/rs/zerolog"
)

// Severity classifies a notification.
type Severity int

const (
	SeveritySuccess Severity = iota
	SeverityError
)

// Notification is a single user-visible announcement.
type Notification struct {
	Severity Severity
	Message  string
}

// Notifier receives fire-and-forget announcements. No return value is
// consumed; implementations must never block the caller.
type Notifier interface {
	Success(message string)
	Error(message string)
}

const defaultRecorderCap = 32

// Recorder buffers notifications for a consumer to drain, dropping the
// oldest entries past its capacity. The TUI drains it into its toast line;
// tests assert against it.
type Recorder struct {
	mu      sync.Mutex
	cap     int
	pending []Notification
}

// NewRecorder returns a Recorder with the default capacity.
func NewRecorder() *Recorder {
	return &Recorder{cap: defaultRecorderCap}
}

// Success records a success notification.
func (r *Recorder) Success(message string) {
	r.record(Notification{Severity: SeveritySuccess, Message: message})
}

// Error records an error notification.
func (r *Recorder) Error(message string) {
	r.record(Notification{Severity: SeverityError, Message: message})
}

func (r *Recorder) record(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pending = append(r.pending, n)
	if len(r.pending) > r.cap {
		r.pending = r.pending[len(r.pending)-r.cap:]
	}
}

// Drain returns all pending notifications and empties the buffer.
func (r *Recorder) Drain() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.pending
	r.pending = nil

	return out
}

// Tee fans every notification out to all given notifiers. The console tees
// its toast recorder with a LogNotifier so announcements survive in the
// session log after the alternate screen is gone.
func Tee(notifiers ...Notifier) Notifier {
	return tee(notifiers)
}

type tee []Notifier

func (t tee) Success(message string) {
	for _, n := range t {
		n.Success(message)
	}
}

func (t tee) Error(message string) {
	for _, n := range t {
		n.Error(message)
	}
}

// LogNotifier writes notifications to a zerolog logger, for non-interactive
// runs where no toast surface exists.
type LogNotifier struct {
	log zerolog.Logger
}

// NewLogNotifier returns a Notifier backed by the given logger.
func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Success logs at info level.
func (n *LogNotifier) Success(message string) {
	n.log.Info().Str("toast", "success").Msg(message)
}

// Error logs at error level.
func (n *LogNotifier) Error(message string) {
	n.log.Error().Str("toast", "error").Msg(message)
}
