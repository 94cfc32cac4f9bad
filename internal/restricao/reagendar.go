package restricao

import (
	"errors"
	"fmt"
	"time"

	"github.com/gbarbosa/visionplan/internal/dates"
	"github.com/gbarbosa/visionplan/internal/models"
	"gorm.io/gorm"
)

// RescheduleOpts holds the optional context of a reschedule.
type RescheduleOpts struct {
	Motivo      string
	Impacto     string
	Responsavel string
}

// Reschedule moves a constraint's planned completion date, appending an
// entry to its history. The history is append-only: its length equals the
// number of reschedules. The status is recomputed from the new date:
// ATRASADA when it already passed, otherwise PENDENTE, with CONCLUIDA and
// CANCELADA preserved.
func Reschedule(db *gorm.DB, id string, novaData time.Time, opts RescheduleOpts) (*models.Restricao, error) {
	var r models.Restricao
	if err := db.Where("id = ?", id).First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("restricao: not found: %s", id)
		}
		return nil, fmt.Errorf("restricao: get %s for reschedule: %w", id, err)
	}
	if novaData.IsZero() {
		return nil, fmt.Errorf("restricao: nova data is required")
	}

	entryID, err := newChildID("rea-")
	if err != nil {
		return nil, err
	}
	entry := models.Reagendamento{
		ID:                entryID,
		RestricaoID:       id,
		DataAnterior:      r.DataConclusaoPlanejada,
		DataNova:          novaData,
		Motivo:            opts.Motivo,
		Impacto:           opts.Impacto,
		Responsavel:       opts.Responsavel,
		DataReagendamento: time.Now(),
	}
	if err := db.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("restricao: append reagendamento for %s: %w", id, err)
	}

	status := r.Status
	if status != models.StatusConcluida && status != models.StatusCancelada {
		if dates.BeforeToday(novaData) {
			status = models.StatusAtrasada
		} else {
			status = models.StatusPendente
		}
	}

	updates := map[string]interface{}{
		"data_conclusao_planejada": novaData,
		"status":                   status,
	}
	if err := db.Model(&models.Restricao{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("restricao: reschedule %s: %w", id, err)
	}

	r.DataConclusaoPlanejada = novaData
	r.Status = status
	return &r, nil
}
