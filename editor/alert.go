package editor

import (
	"time"
)

type (
	// Alert is a message shown to the user for a while. Alerts with the same
	// non-empty Name replace each other instead of piling up.
	Alert struct {
		Name     string
		Priority AlertPriority
		Message  string
		Duration time.Duration
	}

	AlertPriority int

	Alerts struct {
		alerts []Alert
	}
)

const (
	None AlertPriority = iota
	Info
	Warning
	Error
)

const defaultAlertDuration = 3 * time.Second

func (p AlertPriority) String() string {
	switch p {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return "none"
}

// Alerts returns the alerts of the model.
func (m *Model) Alerts() *Alerts { return &m.alerts }

// Add shows a message with the default duration.
func (m *Alerts) Add(message string, priority AlertPriority) {
	m.Push(Alert{Priority: priority, Message: message, Duration: defaultAlertDuration})
}

// AddNamed shows a message, replacing any earlier alert with the same name.
func (m *Alerts) AddNamed(name, message string, priority AlertPriority) {
	m.Push(Alert{Name: name, Priority: priority, Message: message, Duration: defaultAlertDuration})
}

func (m *Alerts) Push(a Alert) {
	if a.Name != "" {
		for i := range m.alerts {
			if m.alerts[i].Name == a.Name {
				m.alerts[i] = a
				return
			}
		}
	}
	m.alerts = append(m.alerts, a)
}

// Update ages the alerts by d and drops the ones that have expired. It
// returns true if any alerts remain.
func (m *Alerts) Update(d time.Duration) bool {
	kept := m.alerts[:0]
	for _, a := range m.alerts {
		a.Duration -= d
		if a.Duration > 0 {
			kept = append(kept, a)
		}
	}
	m.alerts = kept
	return len(m.alerts) > 0
}

// Iterate yields the alerts, oldest first.
func (m *Alerts) Iterate(yield func(index int, alert Alert) bool) {
	for i, a := range m.alerts {
		if !yield(i, a) {
			return
		}
	}
}

func (m *Alerts) Len() int { return len(m.alerts) }

func (m *Alerts) Clear() { m.alerts = m.alerts[:0] }
