// Package atividade provides activity CRUD and predecessor links.
package atividade

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/gbarbosa/visionplan/internal/models"
	"gorm.io/gorm"
)

// CreateOpts holds parameters for creating a new activity.
type CreateOpts struct {
	EmpresaID string
	Nome      string

	DataInicioPlanejada *time.Time
	DataFimPlanejada    *time.Time

	ProjetoID string
	WbsID     string
}

// ListFilters holds optional filters for listing activities.
type ListFilters struct {
	EmpresaID string
	Status    string
	ProjetoID string
}

// ValidTransitions maps each activity status to its valid next statuses.
// The special case "any → CANCELADA" is handled in isValidTransition.
var ValidTransitions = map[string][]string{
	models.AtividadePendente:    {models.AtividadeEmAndamento},
	models.AtividadeEmAndamento: {models.AtividadeConcluida, models.AtividadePendente},
	models.AtividadeConcluida:   {models.AtividadeEmAndamento},
}

// GenerateID creates a unique activity ID in atv-xxxxx format (5-char hex).
func GenerateID() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("atividade: generate ID: %w", err)
	}
	return "atv-" + hex.EncodeToString(b)[:5], nil
}

// Create creates a new activity with an auto-generated ID.
func Create(db *gorm.DB, opts CreateOpts) (*models.Atividade, error) {
	if opts.Nome == "" {
		return nil, fmt.Errorf("atividade: nome is required")
	}
	if opts.EmpresaID == "" {
		return nil, fmt.Errorf("atividade: empresa is required")
	}

	id, err := generateUniqueID(db)
	if err != nil {
		return nil, err
	}

	a := models.Atividade{
		ID:                  id,
		EmpresaID:           opts.EmpresaID,
		Nome:                opts.Nome,
		Status:              models.AtividadePendente,
		DataInicioPlanejada: opts.DataInicioPlanejada,
		DataFimPlanejada:    opts.DataFimPlanejada,
	}
	if opts.ProjetoID != "" {
		a.ProjetoID = &opts.ProjetoID
	}
	if opts.WbsID != "" {
		a.WbsID = &opts.WbsID
	}

	if err := db.Create(&a).Error; err != nil {
		return nil, fmt.Errorf("atividade: create: %w", err)
	}
	return &a, nil
}

// Get retrieves an activity by ID, preloading its predecessor edges.
func Get(db *gorm.DB, id string) (*models.Atividade, error) {
	var a models.Atividade
	if err := db.Preload("Deps").Where("id = ?", id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("atividade: not found: %s", id)
		}
		return nil, fmt.Errorf("atividade: get %s: %w", id, err)
	}
	return &a, nil
}

// List returns activities matching the given filters.
func List(db *gorm.DB, filters ListFilters) ([]models.Atividade, error) {
	q := db.Model(&models.Atividade{})
	if filters.EmpresaID != "" {
		q = q.Where("empresa_id = ?", filters.EmpresaID)
	}
	if filters.Status != "" {
		q = q.Where("status = ?", filters.Status)
	}
	if filters.ProjetoID != "" {
		q = q.Where("projeto_id = ?", filters.ProjetoID)
	}

	var as []models.Atividade
	if err := q.Order("created_at ASC").Find(&as).Error; err != nil {
		return nil, fmt.Errorf("atividade: list: %w", err)
	}
	return as, nil
}

// SetStatus transitions an activity to a new status, validating the
// transition and stamping real start/finish dates.
func SetStatus(db *gorm.DB, id, newStatus string) (*models.Atividade, error) {
	var a models.Atividade
	if err := db.Where("id = ?", id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("atividade: not found: %s", id)
		}
		return nil, fmt.Errorf("atividade: get %s for status: %w", id, err)
	}

	if !isValidTransition(a.Status, newStatus) {
		return nil, fmt.Errorf("atividade: invalid status transition from %q to %q; valid transitions: %v",
			a.Status, newStatus, ValidTransitions[a.Status])
	}

	now := time.Now()
	updates := map[string]interface{}{"status": newStatus}
	if newStatus == models.AtividadeEmAndamento && a.DataInicioReal == nil {
		updates["data_inicio_real"] = now
	}
	if newStatus == models.AtividadeConcluida {
		updates["data_fim_real"] = now
	}

	if err := db.Model(&models.Atividade{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("atividade: set status of %s: %w", id, err)
	}
	if err := db.Where("id = ?", id).First(&a).Error; err != nil {
		return nil, fmt.Errorf("atividade: reload %s: %w", id, err)
	}
	return &a, nil
}

// Delete removes an activity, its predecessor edges, and its readiness
// conditions (cascade).
func Delete(db *gorm.DB, id string) error {
	if err := db.Where("atividade_id = ? OR depende_de = ?", id, id).Delete(&models.AtividadeDep{}).Error; err != nil {
		return fmt.Errorf("atividade: delete deps of %s: %w", id, err)
	}
	if err := db.Where("atividade_id = ?", id).Delete(&models.CondicaoProntidao{}).Error; err != nil {
		return fmt.Errorf("atividade: delete condicoes of %s: %w", id, err)
	}
	if err := db.Where("id = ?", id).Delete(&models.Atividade{}).Error; err != nil {
		return fmt.Errorf("atividade: delete %s: %w", id, err)
	}
	return nil
}

// isValidTransition checks whether a status transition is allowed.
func isValidTransition(from, to string) bool {
	if to == models.AtividadeCancelada {
		return true
	}
	valid, ok := ValidTransitions[from]
	if !ok {
		return false
	}
	for _, v := range valid {
		if v == to {
			return true
		}
	}
	return false
}

func generateUniqueID(db *gorm.DB) (string, error) {
	for i := 0; i < 2; i++ {
		id, err := GenerateID()
		if err != nil {
			return "", err
		}
		var count int64
		if err := db.Model(&models.Atividade{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return "", fmt.Errorf("atividade: check ID uniqueness: %w", err)
		}
		if count == 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("atividade: failed to generate unique ID after retries")
}
