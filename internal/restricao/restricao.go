// Package restricao provides constraint lifecycle operations.
package restricao

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gbarbosa/visionplan/internal/dates"
	"github.com/gbarbosa/visionplan/internal/models"
	"gorm.io/gorm"
)

// CreateOpts holds parameters for creating a new constraint.
type CreateOpts struct {
	EmpresaID     string
	CriadoPor     string
	CriadoPorNome string

	Titulo    string
	Descricao string

	Tipo                 string // COM_RESTRICAO, SEM_RESTRICAO
	TipoDetalhado        string // MATERIAL, MAO_DE_OBRA, EQUIPAMENTO, METODO, MEIO_AMBIENTE, MEDICAO
	TipoResponsabilidade string // PROPRIETARIO, FISCALIZACAO, CONSTRUTORA

	Prioridade    string // ALTA, MEDIA, BAIXA
	ParalisarObra bool

	DataCriacao            *time.Time // defaults to now
	DataConclusaoPlanejada time.Time  // required
	PrazoResolucao         *time.Time

	ProjetoID   string
	WbsID       string
	AtividadeID string
}

// ListFilters holds optional filters for listing constraints.
type ListFilters struct {
	EmpresaID     string
	Status        string
	Prioridade    string
	TipoDetalhado string
	ProjetoID     string
	AtividadeID   string
}

// GenerateID creates a unique constraint ID in res-xxxxx format (5-char hex).
func GenerateID() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("restricao: generate ID: %w", err)
	}
	return "res-" + hex.EncodeToString(b)[:5], nil
}

// newChildID creates an ID for a collection row (history, evidence, progress
// note). Child rows carry 16 hex chars of randomness so rows written against
// the fallback store never collide with rows already on the primary.
func newChildID(prefix string) (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("restricao: generate %s ID: %w", prefix, err)
	}
	return prefix + hex.EncodeToString(b), nil
}

// Create creates a new constraint with an auto-generated ID. Status defaults
// to PENDENTE with empty history, evidence and progress collections. When
// ParalisarObra is set the priority is forced to ALTA and the latency window
// opens immediately.
func Create(db *gorm.DB, opts CreateOpts) (*models.Restricao, error) {
	if opts.Titulo == "" {
		return nil, fmt.Errorf("restricao: titulo is required")
	}
	if opts.EmpresaID == "" {
		return nil, fmt.Errorf("restricao: empresa is required")
	}
	if opts.CriadoPor == "" {
		return nil, fmt.Errorf("restricao: criado_por is required")
	}
	if opts.DataConclusaoPlanejada.IsZero() {
		return nil, fmt.Errorf("restricao: data_conclusao_planejada is required")
	}

	if opts.Tipo == "" {
		opts.Tipo = models.TipoComRestricao
	}
	if opts.Prioridade == "" {
		opts.Prioridade = models.PrioridadeMedia
	}

	id, err := generateUniqueID(db)
	if err != nil {
		return nil, err
	}

	criacao := time.Now()
	if opts.DataCriacao != nil && !opts.DataCriacao.IsZero() {
		criacao = *opts.DataCriacao
	}

	r := models.Restricao{
		ID:                     id,
		EmpresaID:              opts.EmpresaID,
		CriadoPor:              opts.CriadoPor,
		CriadoPorNome:          opts.CriadoPorNome,
		Titulo:                 opts.Titulo,
		Descricao:              opts.Descricao,
		Tipo:                   opts.Tipo,
		TipoDetalhado:          opts.TipoDetalhado,
		TipoResponsabilidade:   opts.TipoResponsabilidade,
		Status:                 models.StatusPendente,
		Prioridade:             opts.Prioridade,
		ParalisarObra:          opts.ParalisarObra,
		DataCriacao:            criacao,
		DataConclusaoPlanejada: opts.DataConclusaoPlanejada,
		PrazoResolucao:         opts.PrazoResolucao,
	}

	if opts.ParalisarObra {
		r.Prioridade = models.PrioridadeAlta
		r.DataInicioLatencia = &criacao
	}

	if opts.ProjetoID != "" {
		r.ProjetoID = &opts.ProjetoID
	}
	if opts.WbsID != "" {
		r.WbsID = &opts.WbsID
	}
	if opts.AtividadeID != "" {
		r.AtividadeID = &opts.AtividadeID
	}

	if err := db.Create(&r).Error; err != nil {
		return nil, fmt.Errorf("restricao: create: %w", err)
	}
	return &r, nil
}

// Get retrieves a constraint by ID, preloading its owned collections.
func Get(db *gorm.DB, id string) (*models.Restricao, error) {
	var r models.Restricao
	err := db.
		Preload("Historico", func(db *gorm.DB) *gorm.DB { return db.Order("data_reagendamento ASC") }).
		Preload("Evidencias", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Andamentos", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("id = ?", id).First(&r).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("restricao: not found: %s", id)
		}
		return nil, fmt.Errorf("restricao: get %s: %w", id, err)
	}
	return &r, nil
}

// List returns constraints matching the given filters, most urgent first.
func List(db *gorm.DB, filters ListFilters) ([]models.Restricao, error) {
	q := db.Model(&models.Restricao{})

	if filters.EmpresaID != "" {
		q = q.Where("empresa_id = ?", filters.EmpresaID)
	}
	if filters.Status != "" {
		q = q.Where("status = ?", filters.Status)
	}
	if filters.Prioridade != "" {
		q = q.Where("prioridade = ?", filters.Prioridade)
	}
	if filters.TipoDetalhado != "" {
		q = q.Where("tipo_detalhado = ?", filters.TipoDetalhado)
	}
	if filters.ProjetoID != "" {
		q = q.Where("projeto_id = ?", filters.ProjetoID)
	}
	if filters.AtividadeID != "" {
		q = q.Where("atividade_id = ?", filters.AtividadeID)
	}

	var rs []models.Restricao
	if err := q.Order("data_conclusao_planejada ASC, created_at ASC").Find(&rs).Error; err != nil {
		return nil, fmt.Errorf("restricao: list: %w", err)
	}
	return rs, nil
}

// Update merges partial fields into a constraint. Date fields present in the
// partial are re-normalized through the tolerant parser. Priority edits are
// ignored while ParalisarObra is set. A transition to CONCLUIDA finalizes the
// work-stoppage latency window. Unknown IDs are a silent no-op.
func Update(db *gorm.DB, id string, updates map[string]interface{}) (*models.Restricao, error) {
	var r models.Restricao
	if err := db.Where("id = ?", id).First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("restricao: get %s for update: %w", id, err)
	}

	normalizeDateFields(updates)

	// The flag change applies first so the priority lock reflects the
	// post-update state.
	paralisar := r.ParalisarObra
	if v, ok := updates["paralisar_obra"].(bool); ok {
		paralisar = v
		if v && !r.ParalisarObra {
			updates["data_inicio_latencia"] = time.Now()
		}
	}
	if paralisar {
		updates["prioridade"] = models.PrioridadeAlta
	}

	if newStatus, ok := updates["status"].(string); ok && newStatus == models.StatusConcluida && r.Status != models.StatusConcluida {
		now := time.Now()
		updates["data_conclusao"] = now
		// The latency window may have opened in this same partial.
		inicio := r.DataInicioLatencia
		if v, ok := updates["data_inicio_latencia"].(time.Time); ok {
			inicio = &v
		}
		if paralisar && inicio != nil {
			updates["data_fim_latencia"] = now
			updates["dias_latencia"] = LatenciaDias(*inicio, now)
		}
	}

	if err := db.Model(&models.Restricao{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("restricao: update %s: %w", id, err)
	}

	if err := db.Where("id = ?", id).First(&r).Error; err != nil {
		return nil, fmt.Errorf("restricao: reload %s: %w", id, err)
	}
	return &r, nil
}

// Delete removes a constraint and its owned collections.
func Delete(db *gorm.DB, id string) error {
	if err := db.Where("restricao_id = ?", id).Delete(&models.Reagendamento{}).Error; err != nil {
		return fmt.Errorf("restricao: delete historico of %s: %w", id, err)
	}
	if err := db.Where("restricao_id = ?", id).Delete(&models.Evidencia{}).Error; err != nil {
		return fmt.Errorf("restricao: delete evidencias of %s: %w", id, err)
	}
	if err := db.Where("restricao_id = ?", id).Delete(&models.Andamento{}).Error; err != nil {
		return fmt.Errorf("restricao: delete andamentos of %s: %w", id, err)
	}
	if err := db.Where("id = ?", id).Delete(&models.Restricao{}).Error; err != nil {
		return fmt.Errorf("restricao: delete %s: %w", id, err)
	}
	return nil
}

// Conclude transitions a constraint to CONCLUIDA. Only the original creator
// may conclude; any other actor gets false with no state change. On success
// the conclusion date is stamped and, for work-stoppage constraints, the
// latency window is closed.
func Conclude(db *gorm.DB, id, actorID string) (bool, error) {
	var r models.Restricao
	if err := db.Where("id = ?", id).First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("restricao: get %s for conclude: %w", id, err)
	}

	if r.CriadoPor != actorID {
		return false, nil
	}
	if r.Status == models.StatusConcluida || r.Status == models.StatusCancelada {
		return false, nil
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":         models.StatusConcluida,
		"data_conclusao": now,
	}
	if r.ParalisarObra && r.DataInicioLatencia != nil {
		updates["data_fim_latencia"] = now
		updates["dias_latencia"] = LatenciaDias(*r.DataInicioLatencia, now)
	}

	if err := db.Model(&models.Restricao{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return false, fmt.Errorf("restricao: conclude %s: %w", id, err)
	}
	return true, nil
}

// ToggleStatus flips a constraint between open and concluded: open records
// are concluded (creator-only, like Conclude) and concluded records reopen
// as PENDENTE with the conclusion date cleared.
func ToggleStatus(db *gorm.DB, id, actorID string) (bool, error) {
	var r models.Restricao
	if err := db.Where("id = ?", id).First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("restricao: get %s for toggle: %w", id, err)
	}

	if r.Status == models.StatusConcluida {
		status := models.StatusPendente
		if dates.BeforeToday(r.DataConclusaoPlanejada) {
			status = models.StatusAtrasada
		}
		updates := map[string]interface{}{
			"status":         status,
			"data_conclusao": nil,
		}
		if err := db.Model(&models.Restricao{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return false, fmt.Errorf("restricao: reopen %s: %w", id, err)
		}
		return true, nil
	}
	return Conclude(db, id, actorID)
}

// Cancel transitions a constraint to CANCELADA.
func Cancel(db *gorm.DB, id string) error {
	result := db.Model(&models.Restricao{}).Where("id = ?", id).
		Update("status", models.StatusCancelada)
	if result.Error != nil {
		return fmt.Errorf("restricao: cancel %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("restricao: not found: %s", id)
	}
	return nil
}

// LatenciaDias computes the whole-day latency between the opening and
// closing of a work-stoppage window. Partial days round up: a stoppage of
// any fraction of a day counts as a full day.
func LatenciaDias(inicio, fim time.Time) int {
	horas := fim.Sub(inicio).Hours()
	if horas <= 0 {
		return 0
	}
	return int(math.Ceil(horas / 24))
}

// normalizeDateFields runs the tolerant parser over any date-typed keys in a
// partial update, so heterogeneous representations from API payloads land as
// proper time values.
func normalizeDateFields(updates map[string]interface{}) {
	for _, key := range []string{"data_criacao", "data_conclusao_planejada", "prazo_resolucao"} {
		if v, ok := updates[key]; ok {
			updates[key] = dates.ParseOrNow(v)
		}
	}
}

func generateUniqueID(db *gorm.DB) (string, error) {
	for i := 0; i < 2; i++ {
		id, err := GenerateID()
		if err != nil {
			return "", err
		}
		var count int64
		if err := db.Model(&models.Restricao{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return "", fmt.Errorf("restricao: check ID uniqueness: %w", err)
		}
		if count == 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("restricao: failed to generate unique ID after retries")
}
