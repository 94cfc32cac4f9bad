package prontidao

import (
	"fmt"
	"time"

	"github.com/gbarbosa/visionplan/internal/models"
	"gorm.io/gorm"
)

// DeriveProgress recomputes the PREDECESSORA condition of an activity from
// its dependency edges and the predecessors' current statuses:
//
//   - no dependency edges → NAO_APLICAVEL
//   - all predecessors CONCLUIDA → ATENDIDA
//   - otherwise → PENDENTE (including regression from a previously
//     satisfied state when a predecessor reopened)
//
// At most one corrective write happens per call; other condition types are
// never touched. Returns the condition after derivation, or nil when the
// activity has no condition set yet.
func DeriveProgress(db *gorm.DB, atividadeID string) (*models.CondicaoProntidao, error) {
	var cond models.CondicaoProntidao
	err := db.Where("atividade_id = ? AND tipo_condicao = ?", atividadeID, models.CondicaoPredecessora).
		First(&cond).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("prontidao: load predecessora condition of %s: %w", atividadeID, err)
	}

	var deps []models.AtividadeDep
	if err := db.Where("atividade_id = ?", atividadeID).Find(&deps).Error; err != nil {
		return nil, fmt.Errorf("prontidao: load deps of %s: %w", atividadeID, err)
	}

	want, err := derivedStatus(db, deps)
	if err != nil {
		return nil, fmt.Errorf("prontidao: derive predecessora of %s: %w", atividadeID, err)
	}
	if want == cond.Status {
		return &cond, nil
	}

	updates := map[string]interface{}{"status": want}
	if want == models.CondicaoAtendida {
		updates["data_atendida"] = time.Now()
	} else {
		updates["data_atendida"] = nil
	}
	if err := db.Model(&models.CondicaoProntidao{}).Where("id = ?", cond.ID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("prontidao: derive predecessora of %s: %w", atividadeID, err)
	}
	if err := db.Where("id = ?", cond.ID).First(&cond).Error; err != nil {
		return nil, fmt.Errorf("prontidao: reload %s: %w", cond.ID, err)
	}
	return &cond, nil
}

func derivedStatus(db *gorm.DB, deps []models.AtividadeDep) (string, error) {
	if len(deps) == 0 {
		return models.CondicaoNaoAplicavel, nil
	}

	ids := make([]string, len(deps))
	for i, d := range deps {
		ids[i] = d.DependeDe
	}
	var concluidas int64
	if err := db.Model(&models.Atividade{}).
		Where("id IN ? AND status = ?", ids, models.AtividadeConcluida).
		Count(&concluidas).Error; err != nil {
		return "", fmt.Errorf("count concluded predecessors: %w", err)
	}
	if concluidas == int64(len(ids)) {
		return models.CondicaoAtendida, nil
	}
	return models.CondicaoPendente, nil
}
