// Package sweep runs the scheduled overdue recomputation. On each fire it
// flips past-due pending constraints to ATRASADA and escalates the newly
// overdue ones through the alert dispatcher.
package sweep

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/gbarbosa/visionplan/internal/alerta"
	"github.com/gbarbosa/visionplan/internal/models"
	"github.com/gbarbosa/visionplan/internal/restricao"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// nextCronDuration parses a 5-field cron expression and returns the duration
// until the next fire time. Returns 0 on parse error.
func nextCronDuration(expr string) time.Duration {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return 0
	}
	next := sched.Next(time.Now())
	d := time.Until(next)
	if d < 0 {
		return 0
	}
	return d
}

// Sweeper owns the periodic overdue pass for one company.
type Sweeper struct {
	db         *gorm.DB
	empresaID  string
	cronExpr   string
	dispatcher *alerta.Dispatcher
}

// New creates a Sweeper. The dispatcher may be nil when no alert channel is
// configured; the sweep still runs, it just stays silent.
func New(db *gorm.DB, empresaID, cronExpr string, dispatcher *alerta.Dispatcher) (*Sweeper, error) {
	if _, err := cronParser.Parse(cronExpr); err != nil {
		return nil, fmt.Errorf("sweep: invalid cron expression %q: %w", cronExpr, err)
	}
	return &Sweeper{
		db:         db,
		empresaID:  empresaID,
		cronExpr:   cronExpr,
		dispatcher: dispatcher,
	}, nil
}

// RunOnce performs a single overdue pass and returns the constraints that
// just became overdue.
func (s *Sweeper) RunOnce(ctx context.Context) ([]models.Restricao, error) {
	flipped, err := restricao.RecomputeAtrasadas(s.db, s.empresaID)
	if err != nil {
		return nil, fmt.Errorf("sweep: recompute overdue: %w", err)
	}

	if s.dispatcher != nil && s.dispatcher.Enabled() {
		for _, r := range flipped {
			s.dispatcher.Send(ctx, alerta.ParaRestricaoAtrasada(r))
		}
	}
	return flipped, nil
}

// Run fires RunOnce on the cron schedule until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	d := nextCronDuration(s.cronExpr)
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			if flipped, err := s.RunOnce(ctx); err != nil {
				log.Printf("sweep: %v", err)
			} else if len(flipped) > 0 {
				log.Printf("sweep: %d restrição(ões) marcada(s) como atrasada(s)", len(flipped))
			}
			if d := nextCronDuration(s.cronExpr); d > 0 {
				timer.Reset(d)
			}
		}
	}
}
