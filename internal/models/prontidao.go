package models

import "time"

// Readiness condition status values.
const (
	CondicaoPendente     = "PENDENTE"
	CondicaoAtendida     = "ATENDIDA"
	CondicaoNaoAplicavel = "NAO_APLICAVEL"
)

// Readiness condition types: the fixed checklist gating activity start.
const (
	CondicaoPredecessora = "PREDECESSORA"
	CondicaoMaterial     = "MATERIAL"
	CondicaoMaoDeObra    = "MAO_DE_OBRA"
	CondicaoEquipamento  = "EQUIPAMENTO"
	CondicaoMetodo       = "METODO"
	CondicaoSeguranca    = "SEGURANCA"
)

// TiposCondicao lists every fixed condition type, in display order.
// Initialization creates exactly one condition per entry.
var TiposCondicao = []string{
	CondicaoPredecessora,
	CondicaoMaterial,
	CondicaoMaoDeObra,
	CondicaoEquipamento,
	CondicaoMetodo,
	CondicaoSeguranca,
}

// CondicaoProntidao is one prerequisite in an activity's readiness checklist.
type CondicaoProntidao struct {
	ID          string `gorm:"primaryKey;size:32"`
	EmpresaID   string `gorm:"size:64;index;not null"`
	AtividadeID string `gorm:"size:32;index;not null"`

	TipoCondicao string `gorm:"size:16;not null"`
	Status       string `gorm:"size:16;default:PENDENTE"`

	Responsavel     string `gorm:"size:64"`
	ResponsavelNome string `gorm:"size:128"`
	DataPrevista    *time.Time
	DataAtendida    *time.Time
	Observacoes     string `gorm:"type:text"`

	RestricaoID *string `gorm:"size:32"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
