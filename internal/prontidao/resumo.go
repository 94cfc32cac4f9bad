package prontidao

import (
	"math"

	"github.com/gbarbosa/visionplan/internal/models"
	"gorm.io/gorm"
)

// Resumo is the derived readiness summary for one activity. It is computed
// on every read, never persisted.
type Resumo struct {
	AtividadeID        string `json:"atividade_id"`
	Total              int    `json:"total"`
	Atendidas          int    `json:"atendidas"`
	Pendentes          int    `json:"pendentes"`
	NaoAplicaveis      int    `json:"nao_aplicaveis"`
	Percentual         int    `json:"percentual"`
	ProntaParaExecucao bool   `json:"pronta_para_execucao"`
}

// Summarize computes the readiness summary for an activity. The percentage
// is satisfied over applicable conditions (total minus not-applicable),
// rounded to the nearest integer; 100 when nothing is applicable. The
// activity is ready to execute when no condition is pending.
func Summarize(db *gorm.DB, atividadeID string) (*Resumo, error) {
	conds, err := ListByAtividade(db, atividadeID)
	if err != nil {
		return nil, err
	}
	return SummarizeConds(atividadeID, conds), nil
}

// SummarizeConds derives the summary from an already-loaded condition set.
func SummarizeConds(atividadeID string, conds []models.CondicaoProntidao) *Resumo {
	r := &Resumo{AtividadeID: atividadeID, Total: len(conds)}
	for _, c := range conds {
		switch c.Status {
		case models.CondicaoAtendida:
			r.Atendidas++
		case models.CondicaoNaoAplicavel:
			r.NaoAplicaveis++
		default:
			r.Pendentes++
		}
	}

	aplicaveis := r.Total - r.NaoAplicaveis
	if aplicaveis == 0 {
		r.Percentual = 100
	} else {
		r.Percentual = int(math.Round(float64(r.Atendidas) / float64(aplicaveis) * 100))
	}
	r.ProntaParaExecucao = r.Pendentes == 0
	return r
}
