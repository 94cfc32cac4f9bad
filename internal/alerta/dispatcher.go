package alerta

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/gbarbosa/visionplan/internal/models"
)

// Dispatcher fans one alert out to every configured adapter. Delivery is
// best-effort: a failing channel is logged and does not block the others.
type Dispatcher struct {
	adapters []Adapter
}

// NewDispatcher creates a Dispatcher over the given adapters.
func NewDispatcher(adapters ...Adapter) *Dispatcher {
	return &Dispatcher{adapters: adapters}
}

// Enabled reports whether at least one adapter is configured.
func (d *Dispatcher) Enabled() bool {
	return len(d.adapters) > 0
}

// Send delivers the alert through all adapters, returning the number that
// accepted it.
func (d *Dispatcher) Send(ctx context.Context, a Alerta) int {
	delivered := 0
	for _, ad := range d.adapters {
		if err := ad.Send(ctx, a); err != nil {
			log.Printf("alerta: send %q: %v", a.Titulo, err)
			continue
		}
		delivered++
	}
	return delivered
}

// Close shuts down all adapters.
func (d *Dispatcher) Close() error {
	var errs []string
	for _, ad := range d.adapters {
		if err := ad.Close(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("alerta: close: %s", strings.Join(errs, "; "))
	}
	return nil
}

// ParaRestricaoAtrasada builds the alert for a constraint that just became
// overdue. Work-stoppage constraints escalate at error severity.
func ParaRestricaoAtrasada(r models.Restricao) Alerta {
	severidade := SeverityWarning
	titulo := fmt.Sprintf("Restrição atrasada: %s", r.ID)
	if r.ParalisarObra {
		severidade = SeverityError
		titulo = fmt.Sprintf("Obra paralisada com restrição atrasada: %s", r.ID)
	}

	return Alerta{
		Titulo:     titulo,
		Corpo:      r.Titulo,
		Severidade: severidade,
		Campos: []Campo{
			{Nome: "Prioridade", Valor: r.Prioridade},
			{Nome: "Responsabilidade", Valor: r.TipoResponsabilidade},
			{Nome: "Prazo", Valor: r.DataConclusaoPlanejada.Format("02/01/2006")},
		},
	}
}
