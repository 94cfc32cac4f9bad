// Package prontidao manages per-activity readiness checklists: the fixed set
// of prerequisite conditions gating whether an activity can start.
package prontidao

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/gbarbosa/visionplan/internal/models"
	"gorm.io/gorm"
)

// GenerateID creates a unique condition ID in cnd-xxxxx format (5-char hex).
func GenerateID() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("prontidao: generate ID: %w", err)
	}
	return "cnd-" + hex.EncodeToString(b)[:5], nil
}

// Initialize returns the activity's condition set, creating the full fixed
// set (one PENDENTE condition per type) when none exist. Idempotent: an
// existing set is returned unchanged.
func Initialize(db *gorm.DB, empresaID, atividadeID string) ([]models.CondicaoProntidao, error) {
	existing, err := ListByAtividade(db, atividadeID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	var count int64
	if err := db.Model(&models.Atividade{}).Where("id = ?", atividadeID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("prontidao: check atividade %s: %w", atividadeID, err)
	}
	if count == 0 {
		return nil, fmt.Errorf("prontidao: atividade not found: %s", atividadeID)
	}

	conds := make([]models.CondicaoProntidao, 0, len(models.TiposCondicao))
	for _, tipo := range models.TiposCondicao {
		id, err := GenerateID()
		if err != nil {
			return nil, err
		}
		conds = append(conds, models.CondicaoProntidao{
			ID:           id,
			EmpresaID:    empresaID,
			AtividadeID:  atividadeID,
			TipoCondicao: tipo,
			Status:       models.CondicaoPendente,
		})
	}
	if err := db.Create(&conds).Error; err != nil {
		return nil, fmt.Errorf("prontidao: initialize %s: %w", atividadeID, err)
	}
	return conds, nil
}

// ListByAtividade returns an activity's conditions in fixed-type order.
func ListByAtividade(db *gorm.DB, atividadeID string) ([]models.CondicaoProntidao, error) {
	var conds []models.CondicaoProntidao
	if err := db.Where("atividade_id = ?", atividadeID).Find(&conds).Error; err != nil {
		return nil, fmt.Errorf("prontidao: list for %s: %w", atividadeID, err)
	}
	ordered := make([]models.CondicaoProntidao, 0, len(conds))
	for _, tipo := range models.TiposCondicao {
		for _, c := range conds {
			if c.TipoCondicao == tipo {
				ordered = append(ordered, c)
			}
		}
	}
	// Unknown types sort last, preserving anything legacy rows carry.
	for _, c := range conds {
		if !knownTipo(c.TipoCondicao) {
			ordered = append(ordered, c)
		}
	}
	return ordered, nil
}

// SetStatus overrides a single condition's status. DataAtendida is stamped
// on the transition to ATENDIDA and cleared otherwise; observations are left
// untouched.
func SetStatus(db *gorm.DB, condicaoID, newStatus string) (*models.CondicaoProntidao, error) {
	if !validStatus(newStatus) {
		return nil, fmt.Errorf("prontidao: invalid status %q", newStatus)
	}

	var c models.CondicaoProntidao
	if err := db.Where("id = ?", condicaoID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("prontidao: condicao not found: %s", condicaoID)
		}
		return nil, fmt.Errorf("prontidao: get %s: %w", condicaoID, err)
	}

	updates := map[string]interface{}{"status": newStatus}
	if newStatus == models.CondicaoAtendida {
		updates["data_atendida"] = time.Now()
	} else {
		updates["data_atendida"] = nil
	}

	if err := db.Model(&models.CondicaoProntidao{}).Where("id = ?", condicaoID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("prontidao: set status of %s: %w", condicaoID, err)
	}
	if err := db.Where("id = ?", condicaoID).First(&c).Error; err != nil {
		return nil, fmt.Errorf("prontidao: reload %s: %w", condicaoID, err)
	}
	return &c, nil
}

// Cycle returns the next status in the user-toggle cycle:
// PENDENTE → ATENDIDA → NAO_APLICAVEL → PENDENTE.
func Cycle(status string) string {
	switch status {
	case models.CondicaoPendente:
		return models.CondicaoAtendida
	case models.CondicaoAtendida:
		return models.CondicaoNaoAplicavel
	case models.CondicaoNaoAplicavel:
		return models.CondicaoPendente
	default:
		return models.CondicaoPendente
	}
}

// CycleCondition advances a condition one step through the toggle cycle.
func CycleCondition(db *gorm.DB, condicaoID string) (*models.CondicaoProntidao, error) {
	var c models.CondicaoProntidao
	if err := db.Where("id = ?", condicaoID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("prontidao: condicao not found: %s", condicaoID)
		}
		return nil, fmt.Errorf("prontidao: get %s: %w", condicaoID, err)
	}
	return SetStatus(db, condicaoID, Cycle(c.Status))
}

func validStatus(s string) bool {
	return s == models.CondicaoPendente || s == models.CondicaoAtendida || s == models.CondicaoNaoAplicavel
}

func knownTipo(tipo string) bool {
	for _, t := range models.TiposCondicao {
		if t == tipo {
			return true
		}
	}
	return false
}
