package db

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gbarbosa/visionplan/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecordOp journals a degraded-mode write so it can be replayed against the
// primary store later. Payload is the full entity, JSON-encoded; delete ops
// carry no payload.
func RecordOp(db *gorm.DB, entidade, entidadeID, op string, payload any) error {
	var body string
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("db: marshal oplog payload for %s %s: %w", entidade, entidadeID, err)
		}
		body = string(data)
	}
	entry := models.Oplog{
		Entidade:   entidade,
		EntidadeID: entidadeID,
		Op:         op,
		Payload:    body,
	}
	if err := db.Create(&entry).Error; err != nil {
		return fmt.Errorf("db: record oplog %s %s: %w", entidade, entidadeID, err)
	}
	return nil
}

// ReplayOplog applies unreplayed fallback journal entries to the primary
// store in insertion order, then marks them replayed. Creates and updates
// are idempotent upserts keyed by entity ID; deletes are by ID. Returns the
// number of entries applied.
func ReplayOplog(fallback, primary *gorm.DB) (int, error) {
	var entries []models.Oplog
	if err := fallback.Where("replayed = ?", false).Order("id ASC").Find(&entries).Error; err != nil {
		return 0, fmt.Errorf("db: load oplog: %w", err)
	}

	applied := 0
	for _, e := range entries {
		if err := applyOp(primary, e); err != nil {
			return applied, fmt.Errorf("db: replay oplog entry %d (%s %s %s): %w", e.ID, e.Op, e.Entidade, e.EntidadeID, err)
		}
		if err := fallback.Model(&models.Oplog{}).Where("id = ?", e.ID).Update("replayed", true).Error; err != nil {
			return applied, fmt.Errorf("db: mark oplog entry %d replayed: %w", e.ID, err)
		}
		applied++
	}
	return applied, nil
}

func applyOp(primary *gorm.DB, e models.Oplog) error {
	if e.Entidade == depEntity {
		return applyDepOp(primary, e)
	}

	target, err := entityFor(e.Entidade)
	if err != nil {
		return err
	}

	switch e.Op {
	case models.OpCreate, models.OpUpdate:
		if err := json.Unmarshal([]byte(e.Payload), target); err != nil {
			return fmt.Errorf("unmarshal payload: %w", err)
		}
		return primary.Clauses(clause.OnConflict{UpdateAll: true}).Create(target).Error
	case models.OpDelete:
		return primary.Where("id = ?", e.EntidadeID).Delete(target).Error
	default:
		return fmt.Errorf("unknown op %q", e.Op)
	}
}

// applyDepOp replays a predecessor-edge entry. The composite key is rebuilt
// from EntidadeID; creates are idempotent on the edge's primary key.
func applyDepOp(primary *gorm.DB, e models.Oplog) error {
	atividadeID, dependeDe, ok := strings.Cut(e.EntidadeID, ":")
	if !ok {
		return fmt.Errorf("malformed dep key %q", e.EntidadeID)
	}

	switch e.Op {
	case models.OpCreate:
		dep := models.AtividadeDep{AtividadeID: atividadeID, DependeDe: dependeDe}
		return primary.Clauses(clause.OnConflict{DoNothing: true}).
			Omit(clause.Associations).Create(&dep).Error
	case models.OpDelete:
		return primary.Where("atividade_id = ? AND depende_de = ?", atividadeID, dependeDe).
			Delete(&models.AtividadeDep{}).Error
	default:
		return fmt.Errorf("unknown op %q for dep edge", e.Op)
	}
}

func entityFor(entidade string) (any, error) {
	switch entidade {
	case "restricao":
		return &models.Restricao{}, nil
	case "reagendamento":
		return &models.Reagendamento{}, nil
	case "evidencia":
		return &models.Evidencia{}, nil
	case "andamento":
		return &models.Andamento{}, nil
	case "atividade":
		return &models.Atividade{}, nil
	case "condicao_prontidao":
		return &models.CondicaoProntidao{}, nil
	default:
		return nil, fmt.Errorf("unknown entity %q", entidade)
	}
}
