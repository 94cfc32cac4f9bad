// Package report derives summary views over constraints and readiness data
// for dashboards. All transforms are read-only and recomputed per request;
// the collections are bounded by project size, not a hot path.
package report

import (
	"fmt"
	"math"

	"github.com/gbarbosa/visionplan/internal/models"
	"github.com/gbarbosa/visionplan/internal/prontidao"
	"gorm.io/gorm"
)

// StatusCount holds constraint counts grouped by lifecycle status.
type StatusCount struct {
	Pendentes          int   `json:"pendentes"`
	Concluidas         int   `json:"concluidas"`
	Atrasadas          int   `json:"atrasadas"`
	Canceladas         int   `json:"canceladas"`
	Total              int   `json:"total"`
	PercentualConcluir int   `json:"percentual_conclusao"`
	Paralisadoras      int64 `json:"paralisadoras_abertas"`
}

// StatusResumo returns constraint counts by status for one tenant, plus the
// completion percentage over non-cancelled records.
func StatusResumo(db *gorm.DB, empresaID string) (*StatusCount, error) {
	type row struct {
		Status string
		Count  int
	}
	var rows []row
	if err := db.Model(&models.Restricao{}).
		Select("status, count(*) as count").
		Where("empresa_id = ?", empresaID).
		Group("status").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("report: status counts: %w", err)
	}

	sc := &StatusCount{}
	for _, r := range rows {
		sc.Total += r.Count
		switch r.Status {
		case models.StatusPendente:
			sc.Pendentes += r.Count
		case models.StatusConcluida:
			sc.Concluidas += r.Count
		case models.StatusAtrasada:
			sc.Atrasadas += r.Count
		case models.StatusCancelada:
			sc.Canceladas += r.Count
		}
	}

	ativos := sc.Total - sc.Canceladas
	if ativos > 0 {
		sc.PercentualConcluir = int(math.Round(float64(sc.Concluidas) / float64(ativos) * 100))
	}

	if err := db.Model(&models.Restricao{}).
		Where("empresa_id = ? AND paralisar_obra = ? AND status IN ?",
			empresaID, true, []string{models.StatusPendente, models.StatusAtrasada}).
		Count(&sc.Paralisadoras).Error; err != nil {
		return nil, fmt.Errorf("report: paralisadoras count: %w", err)
	}
	return sc, nil
}

// CausaCount holds constraint counts by Ishikawa root-cause bucket.
type CausaCount struct {
	Material     int `json:"material"`
	MaoDeObra    int `json:"mao_de_obra"`
	Equipamento  int `json:"equipamento"`
	Metodo       int `json:"metodo"`
	MeioAmbiente int `json:"meio_ambiente"`
	Medicao      int `json:"medicao"`
	SemCausa     int `json:"sem_causa"`
	Total        int `json:"total"`
}

// CausaResumo buckets a tenant's actual restrictions into the six Ishikawa
// categories for root-cause charts.
func CausaResumo(db *gorm.DB, empresaID string) (*CausaCount, error) {
	type row struct {
		TipoDetalhado string
		Count         int
	}
	var rows []row
	if err := db.Model(&models.Restricao{}).
		Select("tipo_detalhado, count(*) as count").
		Where("empresa_id = ? AND tipo = ?", empresaID, models.TipoComRestricao).
		Group("tipo_detalhado").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("report: causa counts: %w", err)
	}

	cc := &CausaCount{}
	for _, r := range rows {
		cc.Total += r.Count
		switch r.TipoDetalhado {
		case models.CausaMaterial:
			cc.Material += r.Count
		case models.CausaMaoDeObra:
			cc.MaoDeObra += r.Count
		case models.CausaEquipamento:
			cc.Equipamento += r.Count
		case models.CausaMetodo:
			cc.Metodo += r.Count
		case models.CausaMeioAmbiente:
			cc.MeioAmbiente += r.Count
		case models.CausaMedicao:
			cc.Medicao += r.Count
		default:
			cc.SemCausa += r.Count
		}
	}
	return cc, nil
}

// ResponsabilidadeCount holds constraint counts by responsible party.
type ResponsabilidadeCount struct {
	Proprietario int `json:"proprietario"`
	Fiscalizacao int `json:"fiscalizacao"`
	Construtora  int `json:"construtora"`
	SemAtribuir  int `json:"sem_atribuir"`
	Total        int `json:"total"`
}

// ResponsabilidadeResumo groups a tenant's restrictions by responsibility.
func ResponsabilidadeResumo(db *gorm.DB, empresaID string) (*ResponsabilidadeCount, error) {
	type row struct {
		TipoResponsabilidade string
		Count                int
	}
	var rows []row
	if err := db.Model(&models.Restricao{}).
		Select("tipo_responsabilidade, count(*) as count").
		Where("empresa_id = ? AND tipo = ?", empresaID, models.TipoComRestricao).
		Group("tipo_responsabilidade").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("report: responsabilidade counts: %w", err)
	}

	rc := &ResponsabilidadeCount{}
	for _, r := range rows {
		rc.Total += r.Count
		switch r.TipoResponsabilidade {
		case models.RespProprietario:
			rc.Proprietario += r.Count
		case models.RespFiscalizacao:
			rc.Fiscalizacao += r.Count
		case models.RespConstrutora:
			rc.Construtora += r.Count
		default:
			rc.SemAtribuir += r.Count
		}
	}
	return rc, nil
}

// LatenciaStats summarizes closed work-stoppage windows.
type LatenciaStats struct {
	Paralisacoes int     `json:"paralisacoes"`
	DiasTotais   int     `json:"dias_totais"`
	DiasMedia    float64 `json:"dias_media"`
	DiasMaximo   int     `json:"dias_maximo"`
}

// LatenciaResumo aggregates latency days over resolved work-stoppage
// constraints.
func LatenciaResumo(db *gorm.DB, empresaID string) (*LatenciaStats, error) {
	var rs []models.Restricao
	if err := db.Where("empresa_id = ? AND paralisar_obra = ? AND dias_latencia IS NOT NULL",
		empresaID, true).Find(&rs).Error; err != nil {
		return nil, fmt.Errorf("report: latencia: %w", err)
	}

	ls := &LatenciaStats{Paralisacoes: len(rs)}
	for _, r := range rs {
		d := *r.DiasLatencia
		ls.DiasTotais += d
		if d > ls.DiasMaximo {
			ls.DiasMaximo = d
		}
	}
	if ls.Paralisacoes > 0 {
		ls.DiasMedia = float64(ls.DiasTotais) / float64(ls.Paralisacoes)
	}
	return ls, nil
}

// ProntidaoGeral holds the portfolio-wide readiness rollup.
type ProntidaoGeral struct {
	Atividades []prontidao.Resumo `json:"atividades"`
	Prontas    int                `json:"prontas"`
	Bloqueadas int                `json:"bloqueadas"`
}

// ProntidaoResumo summarizes readiness across every activity of a tenant
// that has a condition set.
func ProntidaoResumo(db *gorm.DB, empresaID string) (*ProntidaoGeral, error) {
	var conds []models.CondicaoProntidao
	if err := db.Where("empresa_id = ?", empresaID).
		Order("atividade_id ASC").Find(&conds).Error; err != nil {
		return nil, fmt.Errorf("report: prontidao conds: %w", err)
	}

	byAtividade := make(map[string][]models.CondicaoProntidao)
	var order []string
	for _, c := range conds {
		if _, ok := byAtividade[c.AtividadeID]; !ok {
			order = append(order, c.AtividadeID)
		}
		byAtividade[c.AtividadeID] = append(byAtividade[c.AtividadeID], c)
	}

	pg := &ProntidaoGeral{}
	for _, id := range order {
		r := prontidao.SummarizeConds(id, byAtividade[id])
		pg.Atividades = append(pg.Atividades, *r)
		if r.ProntaParaExecucao {
			pg.Prontas++
		} else {
			pg.Bloqueadas++
		}
	}
	return pg, nil
}
