package models

import "time"

// Atividade status values.
const (
	AtividadePendente    = "PENDENTE"
	AtividadeEmAndamento = "EM_ANDAMENTO"
	AtividadeConcluida   = "CONCLUIDA"
	AtividadeCancelada   = "CANCELADA"
)

// Atividade is a schedulable unit of construction work.
type Atividade struct {
	ID        string `gorm:"primaryKey;size:32"`
	EmpresaID string `gorm:"size:64;index;not null"`
	Nome      string `gorm:"not null"`
	Status    string `gorm:"size:16;default:PENDENTE;index"`

	DataInicioPlanejada *time.Time
	DataFimPlanejada    *time.Time
	DataInicioReal      *time.Time
	DataFimReal         *time.Time

	ProjetoID *string `gorm:"size:32;index"`
	WbsID     *string `gorm:"size:32"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Deps []AtividadeDep `gorm:"foreignKey:AtividadeID"`
}

// AtividadeDep is a predecessor edge: AtividadeID depends on DependeDe
// finishing before it can start.
type AtividadeDep struct {
	AtividadeID string `gorm:"primaryKey;size:32"`
	DependeDe   string `gorm:"primaryKey;size:32"`

	Atividade    Atividade `gorm:"foreignKey:AtividadeID"`
	Predecessora Atividade `gorm:"foreignKey:DependeDe"`
}
