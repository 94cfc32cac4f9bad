package atividade

import (
	"fmt"

	"github.com/gbarbosa/visionplan/internal/models"
	"gorm.io/gorm"
)

// AddDep creates a predecessor link: atividadeID depends on dependeDe.
// Validates both IDs exist, prevents self-dependency, and detects cycles.
func AddDep(db *gorm.DB, atividadeID, dependeDe string) error {
	if atividadeID == dependeDe {
		return fmt.Errorf("atividade: cannot add self-dependency on %s", atividadeID)
	}

	for _, id := range []string{atividadeID, dependeDe} {
		var count int64
		if err := db.Model(&models.Atividade{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("atividade: check %s: %w", id, err)
		}
		if count == 0 {
			return fmt.Errorf("atividade: not found: %s", id)
		}
	}

	// Check if dependeDe (directly or transitively) depends on atividadeID.
	if hasCycle(db, atividadeID, dependeDe) {
		return fmt.Errorf("atividade: adding %s → %s would create a cycle", atividadeID, dependeDe)
	}

	dep := models.AtividadeDep{AtividadeID: atividadeID, DependeDe: dependeDe}
	if err := db.Create(&dep).Error; err != nil {
		return fmt.Errorf("atividade: create dep %s → %s: %w", atividadeID, dependeDe, err)
	}
	return nil
}

// RemoveDep deletes a predecessor link.
func RemoveDep(db *gorm.DB, atividadeID, dependeDe string) error {
	result := db.Where("atividade_id = ? AND depende_de = ?", atividadeID, dependeDe).
		Delete(&models.AtividadeDep{})
	if result.Error != nil {
		return fmt.Errorf("atividade: remove dep %s → %s: %w", atividadeID, dependeDe, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("atividade: dep %s → %s not found", atividadeID, dependeDe)
	}
	return nil
}

// Predecessoras returns the activities that atividadeID depends on.
func Predecessoras(db *gorm.DB, atividadeID string) ([]models.Atividade, error) {
	var deps []models.AtividadeDep
	if err := db.Where("atividade_id = ?", atividadeID).Find(&deps).Error; err != nil {
		return nil, fmt.Errorf("atividade: list deps of %s: %w", atividadeID, err)
	}
	if len(deps) == 0 {
		return nil, nil
	}

	ids := make([]string, len(deps))
	for i, d := range deps {
		ids[i] = d.DependeDe
	}
	var as []models.Atividade
	if err := db.Where("id IN ?", ids).Find(&as).Error; err != nil {
		return nil, fmt.Errorf("atividade: load predecessoras of %s: %w", atividadeID, err)
	}
	return as, nil
}

// hasCycle checks if adding atividadeID → dependeDe would create a cycle by
// walking the dependency graph from dependeDe looking for atividadeID.
func hasCycle(db *gorm.DB, atividadeID, dependeDe string) bool {
	visited := make(map[string]bool)
	return reachable(db, dependeDe, atividadeID, visited)
}

func reachable(db *gorm.DB, current, target string, visited map[string]bool) bool {
	if current == target {
		return true
	}
	if visited[current] {
		return false
	}
	visited[current] = true

	var deps []models.AtividadeDep
	if err := db.Where("atividade_id = ?", current).Find(&deps).Error; err != nil {
		return false
	}
	for _, d := range deps {
		if reachable(db, d.DependeDe, target, visited) {
			return true
		}
	}
	return false
}
