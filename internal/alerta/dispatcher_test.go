package alerta

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gbarbosa/visionplan/internal/models"
)

func TestDispatcherFanOut(t *testing.T) {
	a := NewMockAdapter()
	b := NewMockAdapter()
	d := NewDispatcher(a, b)

	if !d.Enabled() {
		t.Fatal("expected dispatcher with adapters to be enabled")
	}

	al := Alerta{Titulo: "teste", Severidade: SeverityInfo}
	if got := d.Send(context.Background(), al); got != 2 {
		t.Errorf("expected 2 deliveries, got %d", got)
	}
	if len(a.Sent()) != 1 || len(b.Sent()) != 1 {
		t.Errorf("expected each adapter to receive the alert, got %d and %d", len(a.Sent()), len(b.Sent()))
	}
}

func TestDispatcherPartialFailure(t *testing.T) {
	a := NewMockAdapter()
	b := NewMockAdapter()
	b.FailWith(errors.New("rate limited"))
	d := NewDispatcher(a, b)

	if got := d.Send(context.Background(), Alerta{Titulo: "teste"}); got != 1 {
		t.Errorf("expected 1 delivery when one adapter fails, got %d", got)
	}
	if len(a.Sent()) != 1 {
		t.Errorf("expected healthy adapter to still deliver, got %d", len(a.Sent()))
	}
}

func TestDispatcherDisabledWhenEmpty(t *testing.T) {
	d := NewDispatcher()
	if d.Enabled() {
		t.Error("expected dispatcher without adapters to be disabled")
	}
	if got := d.Send(context.Background(), Alerta{Titulo: "teste"}); got != 0 {
		t.Errorf("expected 0 deliveries, got %d", got)
	}
}

func TestDispatcherClose(t *testing.T) {
	a := NewMockAdapter()
	d := NewDispatcher(a)
	if err := d.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
	if err := a.Send(context.Background(), Alerta{}); err == nil {
		t.Error("expected send after close to fail")
	}
}

func TestParaRestricaoAtrasada(t *testing.T) {
	prazo := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		paralisar      bool
		wantSeveridade string
	}{
		{"constraint comum", false, SeverityWarning},
		{"paralisa obra", true, SeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := models.Restricao{
				ID:                     "res-1a2b3",
				Titulo:                 "Aguardando liberação de aço",
				Prioridade:             models.PrioridadeAlta,
				TipoResponsabilidade:   models.RespConstrutora,
				ParalisarObra:          tt.paralisar,
				DataConclusaoPlanejada: prazo,
			}

			al := ParaRestricaoAtrasada(r)
			if al.Severidade != tt.wantSeveridade {
				t.Errorf("expected severity %q, got %q", tt.wantSeveridade, al.Severidade)
			}
			if al.Corpo != r.Titulo {
				t.Errorf("expected body %q, got %q", r.Titulo, al.Corpo)
			}
			if len(al.Campos) != 3 {
				t.Fatalf("expected 3 fields, got %d", len(al.Campos))
			}
			if al.Campos[2].Valor != "10/03/2026" {
				t.Errorf("expected formatted deadline 10/03/2026, got %q", al.Campos[2].Valor)
			}
		})
	}
}

func TestColorFor(t *testing.T) {
	tests := []struct {
		severidade string
		want       string
	}{
		{SeverityError, "#d62828"},
		{SeverityWarning, "#f59e0b"},
		{SeverityInfo, "#36a64f"},
		{"desconhecida", "#36a64f"},
	}

	for _, tt := range tests {
		if got := ColorFor(tt.severidade); got != tt.want {
			t.Errorf("ColorFor(%q) = %q, expected %q", tt.severidade, got, tt.want)
		}
	}
}
