package restricao

import (
	"fmt"
	"time"

	"github.com/gbarbosa/visionplan/internal/dates"
	"github.com/gbarbosa/visionplan/internal/models"
	"gorm.io/gorm"
)

// openStatuses are the statuses a constraint can still act on.
var openStatuses = []string{models.StatusPendente, models.StatusAtrasada}

// ListByPeriodo returns constraints whose planned completion date falls
// inside [inicio, fim], inclusive at both ends.
func ListByPeriodo(db *gorm.DB, empresaID string, inicio, fim time.Time) ([]models.Restricao, error) {
	var rs []models.Restricao
	err := db.Where("empresa_id = ? AND data_conclusao_planejada >= ? AND data_conclusao_planejada <= ?",
		empresaID, dates.Midnight(inicio), dates.Midnight(fim).Add(24*time.Hour-time.Nanosecond)).
		Order("data_conclusao_planejada ASC").Find(&rs).Error
	if err != nil {
		return nil, fmt.Errorf("restricao: list by periodo: %w", err)
	}
	return rs, nil
}

// ListAtrasadas returns open constraints whose planned date already passed,
// regardless of whether the sweep has flipped their status yet.
func ListAtrasadas(db *gorm.DB, empresaID string) ([]models.Restricao, error) {
	var rs []models.Restricao
	err := db.Where("empresa_id = ? AND status IN ? AND data_conclusao_planejada < ?",
		empresaID, openStatuses, dates.Midnight(time.Now())).
		Order("data_conclusao_planejada ASC").Find(&rs).Error
	if err != nil {
		return nil, fmt.Errorf("restricao: list atrasadas: %w", err)
	}
	return rs, nil
}

// ListCriticas returns open high-priority actual restrictions.
func ListCriticas(db *gorm.DB, empresaID string) ([]models.Restricao, error) {
	var rs []models.Restricao
	err := db.Where("empresa_id = ? AND prioridade = ? AND status IN ? AND tipo = ?",
		empresaID, models.PrioridadeAlta, openStatuses, models.TipoComRestricao).
		Order("data_conclusao_planejada ASC").Find(&rs).Error
	if err != nil {
		return nil, fmt.Errorf("restricao: list criticas: %w", err)
	}
	return rs, nil
}

// RecomputeAtrasadas flips open past-due constraints to ATRASADA and returns
// the records that changed on this pass. The sweep runs it on a schedule;
// reschedules and conclusions keep statuses current in between.
func RecomputeAtrasadas(db *gorm.DB, empresaID string) ([]models.Restricao, error) {
	hoje := dates.Midnight(time.Now())

	var stale []models.Restricao
	err := db.Where("empresa_id = ? AND status = ? AND data_conclusao_planejada < ?",
		empresaID, models.StatusPendente, hoje).Find(&stale).Error
	if err != nil {
		return nil, fmt.Errorf("restricao: find stale pendentes: %w", err)
	}
	if len(stale) == 0 {
		return nil, nil
	}

	ids := make([]string, len(stale))
	for i, r := range stale {
		ids[i] = r.ID
	}
	if err := db.Model(&models.Restricao{}).Where("id IN ?", ids).
		Update("status", models.StatusAtrasada).Error; err != nil {
		return nil, fmt.Errorf("restricao: flip atrasadas: %w", err)
	}

	for i := range stale {
		stale[i].Status = models.StatusAtrasada
	}
	return stale, nil
}
