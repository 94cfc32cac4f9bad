package models

import "time"

// Restricao status values.
const (
	StatusPendente  = "PENDENTE"
	StatusConcluida = "CONCLUIDA"
	StatusAtrasada  = "ATRASADA"
	StatusCancelada = "CANCELADA"
)

// Restricao priority values.
const (
	PrioridadeAlta  = "ALTA"
	PrioridadeMedia = "MEDIA"
	PrioridadeBaixa = "BAIXA"
)

// Restricao classification: whether the record represents an actual
// restriction or an explicit "no restriction" entry for the period.
const (
	TipoComRestricao = "COM_RESTRICAO"
	TipoSemRestricao = "SEM_RESTRICAO"
)

// TipoDetalhado buckets follow the six Ishikawa root-cause categories.
const (
	CausaMaterial     = "MATERIAL"
	CausaMaoDeObra    = "MAO_DE_OBRA"
	CausaEquipamento  = "EQUIPAMENTO"
	CausaMetodo       = "METODO"
	CausaMeioAmbiente = "MEIO_AMBIENTE"
	CausaMedicao      = "MEDICAO"
)

// TipoResponsabilidade values.
const (
	RespProprietario = "PROPRIETARIO"
	RespFiscalizacao = "FISCALIZACAO"
	RespConstrutora  = "CONSTRUTORA"
)

// Restricao is a blocking condition on construction work, tracked through
// its full lifecycle: creation, rescheduling, progress notes, evidence and
// conclusion.
type Restricao struct {
	ID            string `gorm:"primaryKey;size:32"`
	EmpresaID     string `gorm:"size:64;index;not null"`
	CriadoPor     string `gorm:"size:64;not null"`
	CriadoPorNome string `gorm:"size:128"`

	Titulo    string `gorm:"not null"`
	Descricao string `gorm:"type:text"`

	Tipo                 string `gorm:"size:16;default:COM_RESTRICAO"`
	TipoDetalhado        string `gorm:"size:16;index"`
	TipoResponsabilidade string `gorm:"size:16"`

	Status     string `gorm:"size:16;default:PENDENTE;index"`
	Prioridade string `gorm:"size:8;default:MEDIA"`

	ParalisarObra bool `gorm:"default:false"`

	DataCriacao            time.Time
	DataConclusaoPlanejada time.Time `gorm:"not null;index"`
	PrazoResolucao         *time.Time
	DataConclusao          *time.Time

	// Work-stoppage latency window, measured in whole days.
	DataInicioLatencia *time.Time
	DataFimLatencia    *time.Time
	DiasLatencia       *int

	ProjetoID   *string `gorm:"size:32;index"`
	WbsID       *string `gorm:"size:32"`
	AtividadeID *string `gorm:"size:32;index"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Historico  []Reagendamento `gorm:"foreignKey:RestricaoID"`
	Evidencias []Evidencia     `gorm:"foreignKey:RestricaoID"`
	Andamentos []Andamento     `gorm:"foreignKey:RestricaoID"`
}

// Reagendamento is one entry in a constraint's reschedule history.
// Rows are append-only: the history length equals the number of reschedules.
// Collection rows carry random string IDs so rows written against different
// stores never collide on replay.
type Reagendamento struct {
	ID                string `gorm:"primaryKey;size:32"`
	RestricaoID       string `gorm:"size:32;index;not null"`
	DataAnterior      time.Time
	DataNova          time.Time
	Motivo            string `gorm:"type:text"`
	Impacto           string `gorm:"type:text"`
	DataReagendamento time.Time
	Responsavel       string `gorm:"size:64"`
}

// Evidencia records an uploaded file attached to a constraint.
type Evidencia struct {
	ID           string `gorm:"primaryKey;size:32"`
	RestricaoID  string `gorm:"size:32;index;not null"`
	Nome         string `gorm:"size:255;not null"`
	Caminho      string `gorm:"size:512"`
	TipoArquivo  string `gorm:"size:64"`
	TamanhoBytes int64
	EnviadoPor   string `gorm:"size:64"`
	CreatedAt    time.Time
}

// Andamento is a timestamped free-text progress note on a constraint.
type Andamento struct {
	ID          string `gorm:"primaryKey;size:32"`
	RestricaoID string `gorm:"size:32;index;not null"`
	Texto       string `gorm:"type:text;not null"`
	Autor       string `gorm:"size:64"`
	CreatedAt   time.Time
}
