package restricao

import (
	"fmt"

	"github.com/gbarbosa/visionplan/internal/models"
	"gorm.io/gorm"
)

// EvidenciaOpts holds the file metadata for an evidence attachment.
// Size and type validation happen at the upload boundary, not here.
type EvidenciaOpts struct {
	Nome         string
	Caminho      string
	TipoArquivo  string
	TamanhoBytes int64
	EnviadoPor   string
}

// AddEvidencia appends an evidence record to a constraint.
func AddEvidencia(db *gorm.DB, restricaoID string, opts EvidenciaOpts) (*models.Evidencia, error) {
	if opts.Nome == "" {
		return nil, fmt.Errorf("restricao: evidencia nome is required")
	}
	if err := mustExist(db, restricaoID); err != nil {
		return nil, err
	}

	id, err := newChildID("evi-")
	if err != nil {
		return nil, err
	}
	e := models.Evidencia{
		ID:           id,
		RestricaoID:  restricaoID,
		Nome:         opts.Nome,
		Caminho:      opts.Caminho,
		TipoArquivo:  opts.TipoArquivo,
		TamanhoBytes: opts.TamanhoBytes,
		EnviadoPor:   opts.EnviadoPor,
	}
	if err := db.Create(&e).Error; err != nil {
		return nil, fmt.Errorf("restricao: add evidencia to %s: %w", restricaoID, err)
	}
	return &e, nil
}

// RemoveEvidencia deletes one evidence record from a constraint.
func RemoveEvidencia(db *gorm.DB, restricaoID, evidenciaID string) error {
	result := db.Where("id = ? AND restricao_id = ?", evidenciaID, restricaoID).
		Delete(&models.Evidencia{})
	if result.Error != nil {
		return fmt.Errorf("restricao: remove evidencia %s from %s: %w", evidenciaID, restricaoID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("restricao: evidencia %s not found on %s", evidenciaID, restricaoID)
	}
	return nil
}

// AddAndamento appends a timestamped free-text progress note.
func AddAndamento(db *gorm.DB, restricaoID, texto, autor string) (*models.Andamento, error) {
	if texto == "" {
		return nil, fmt.Errorf("restricao: andamento texto is required")
	}
	if err := mustExist(db, restricaoID); err != nil {
		return nil, err
	}

	id, err := newChildID("and-")
	if err != nil {
		return nil, err
	}
	a := models.Andamento{
		ID:          id,
		RestricaoID: restricaoID,
		Texto:       texto,
		Autor:       autor,
	}
	if err := db.Create(&a).Error; err != nil {
		return nil, fmt.Errorf("restricao: add andamento to %s: %w", restricaoID, err)
	}
	return &a, nil
}

func mustExist(db *gorm.DB, id string) error {
	var count int64
	if err := db.Model(&models.Restricao{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("restricao: check %s: %w", id, err)
	}
	if count == 0 {
		return fmt.Errorf("restricao: not found: %s", id)
	}
	return nil
}
