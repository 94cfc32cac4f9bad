// Package alerta delivers constraint escalations to chat platforms
// (Slack, Discord). Alerts are one-way: VisionPlan pushes work-stoppage and
// overdue notifications, nothing flows back.
package alerta

import (
	"context"
)

// Severity levels for alert rendering.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Adapter is the interface platform-specific senders must satisfy.
type Adapter interface {
	// Send delivers an alert to the platform's configured channel.
	Send(ctx context.Context, a Alerta) error

	// Close releases the adapter's connection resources.
	Close() error
}

// Alerta is a platform-agnostic escalation message.
type Alerta struct {
	Titulo     string  // headline, e.g. "Obra paralisada: res-1a2b3"
	Corpo      string  // detail text
	Severidade string  // info, warning, error
	Campos     []Campo // key-value metadata pairs
}

// Campo is a key-value pair rendered with the alert.
type Campo struct {
	Nome  string
	Valor string
}

// ColorFor maps a severity to the sidebar color hint used by both platforms.
func ColorFor(severidade string) string {
	switch severidade {
	case SeverityError:
		return "#d62828"
	case SeverityWarning:
		return "#f59e0b"
	default:
		return "#36a64f"
	}
}
