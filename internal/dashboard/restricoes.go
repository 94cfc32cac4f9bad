package dashboard

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gbarbosa/visionplan/internal/dates"
	"github.com/gbarbosa/visionplan/internal/restricao"
)

// createRestricaoRequest is the JSON payload for POST /api/restricoes.
type createRestricaoRequest struct {
	EmpresaID     string `json:"empresa_id"`
	CriadoPor     string `json:"criado_por"`
	CriadoPorNome string `json:"criado_por_nome"`

	Titulo    string `json:"titulo"`
	Descricao string `json:"descricao"`

	Tipo                 string `json:"tipo"`
	TipoDetalhado        string `json:"tipo_detalhado"`
	TipoResponsabilidade string `json:"tipo_responsabilidade"`

	Prioridade    string `json:"prioridade"`
	ParalisarObra bool   `json:"paralisar_obra"`

	DataConclusaoPlanejada string `json:"data_conclusao_planejada"`
	PrazoResolucao         string `json:"prazo_resolucao"`

	ProjetoID   string `json:"projeto_id"`
	WbsID       string `json:"wbs_id"`
	AtividadeID string `json:"atividade_id"`
}

func handleRestricaoCreate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createRestricaoRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortError(c, http.StatusBadRequest, err)
			return
		}

		prazo, err := dates.Parse(req.DataConclusaoPlanejada)
		if err != nil {
			abortError(c, http.StatusBadRequest, fmt.Errorf("data_conclusao_planejada: %w", err))
			return
		}

		opts := restricao.CreateOpts{
			EmpresaID:              req.EmpresaID,
			CriadoPor:              req.CriadoPor,
			CriadoPorNome:          req.CriadoPorNome,
			Titulo:                 req.Titulo,
			Descricao:              req.Descricao,
			Tipo:                   req.Tipo,
			TipoDetalhado:          req.TipoDetalhado,
			TipoResponsabilidade:   req.TipoResponsabilidade,
			Prioridade:             req.Prioridade,
			ParalisarObra:          req.ParalisarObra,
			DataConclusaoPlanejada: prazo,
			ProjetoID:              req.ProjetoID,
			WbsID:                  req.WbsID,
			AtividadeID:            req.AtividadeID,
		}
		if req.PrazoResolucao != "" {
			pr, err := dates.Parse(req.PrazoResolucao)
			if err != nil {
				abortError(c, http.StatusBadRequest, fmt.Errorf("prazo_resolucao: %w", err))
				return
			}
			opts.PrazoResolucao = &pr
		}

		r, err := restricao.Create(db, opts)
		if err != nil {
			abortError(c, http.StatusBadRequest, err)
			return
		}
		c.JSON(http.StatusCreated, r)
	}
}

func handleRestricaoList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		filters := restricao.ListFilters{
			EmpresaID:     c.Query("empresa_id"),
			Status:        c.Query("status"),
			Prioridade:    c.Query("prioridade"),
			TipoDetalhado: c.Query("tipo_detalhado"),
			ProjetoID:     c.Query("projeto_id"),
			AtividadeID:   c.Query("atividade_id"),
		}

		// Optional inclusive period filter over the planned completion date.
		inicio, fim := c.Query("inicio"), c.Query("fim")
		if inicio != "" && fim != "" {
			di, err := dates.Parse(inicio)
			if err != nil {
				abortError(c, http.StatusBadRequest, fmt.Errorf("inicio: %w", err))
				return
			}
			df, err := dates.Parse(fim)
			if err != nil {
				abortError(c, http.StatusBadRequest, fmt.Errorf("fim: %w", err))
				return
			}
			rs, err := restricao.ListByPeriodo(db, filters.EmpresaID, di, df)
			if err != nil {
				abortError(c, http.StatusInternalServerError, err)
				return
			}
			c.JSON(http.StatusOK, rs)
			return
		}

		rs, err := restricao.List(db, filters)
		if err != nil {
			abortError(c, http.StatusInternalServerError, err)
			return
		}
		c.JSON(http.StatusOK, rs)
	}
}

func handleRestricaoAtrasadas(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rs, err := restricao.ListAtrasadas(db, c.Query("empresa_id"))
		if err != nil {
			abortError(c, http.StatusInternalServerError, err)
			return
		}
		c.JSON(http.StatusOK, rs)
	}
}

func handleRestricaoCriticas(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rs, err := restricao.ListCriticas(db, c.Query("empresa_id"))
		if err != nil {
			abortError(c, http.StatusInternalServerError, err)
			return
		}
		c.JSON(http.StatusOK, rs)
	}
}

func handleRestricaoGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, err := restricao.Get(db, c.Param("id"))
		if err != nil {
			abortError(c, http.StatusNotFound, err)
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

func handleRestricaoUpdate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var updates map[string]interface{}
		if err := c.ShouldBindJSON(&updates); err != nil {
			abortError(c, http.StatusBadRequest, err)
			return
		}

		r, err := restricao.Update(db, c.Param("id"), updates)
		if err != nil {
			abortError(c, http.StatusInternalServerError, err)
			return
		}
		if r == nil {
			abortError(c, http.StatusNotFound, fmt.Errorf("restricao: not found: %s", c.Param("id")))
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

func handleRestricaoDelete(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := restricao.Delete(db, c.Param("id")); err != nil {
			abortError(c, http.StatusInternalServerError, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// reagendarRequest is the JSON payload for POST /api/restricoes/:id/reagendar.
type reagendarRequest struct {
	NovaData    string `json:"nova_data"`
	Motivo      string `json:"motivo"`
	Impacto     string `json:"impacto"`
	Responsavel string `json:"responsavel"`
}

func handleRestricaoReagendar(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req reagendarRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortError(c, http.StatusBadRequest, err)
			return
		}

		novaData, err := dates.Parse(req.NovaData)
		if err != nil {
			abortError(c, http.StatusBadRequest, fmt.Errorf("nova_data: %w", err))
			return
		}

		r, err := restricao.Reschedule(db, c.Param("id"), novaData, restricao.RescheduleOpts{
			Motivo:      req.Motivo,
			Impacto:     req.Impacto,
			Responsavel: req.Responsavel,
		})
		if err != nil {
			abortError(c, http.StatusNotFound, err)
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

// actorRequest carries the acting user for authorization-sensitive endpoints.
type actorRequest struct {
	Autor string `json:"autor"`
}

func handleRestricaoConcluir(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req actorRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortError(c, http.StatusBadRequest, err)
			return
		}

		ok, err := restricao.Conclude(db, c.Param("id"), req.Autor)
		if err != nil {
			abortError(c, http.StatusInternalServerError, err)
			return
		}
		if !ok {
			abortError(c, http.StatusForbidden,
				fmt.Errorf("restricao: somente o criador pode concluir"))
			return
		}

		r, err := restricao.Get(db, c.Param("id"))
		if err != nil {
			abortError(c, http.StatusInternalServerError, err)
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

func handleRestricaoAlternar(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req actorRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortError(c, http.StatusBadRequest, err)
			return
		}

		ok, err := restricao.ToggleStatus(db, c.Param("id"), req.Autor)
		if err != nil {
			abortError(c, http.StatusInternalServerError, err)
			return
		}
		if !ok {
			abortError(c, http.StatusForbidden,
				fmt.Errorf("restricao: somente o criador pode concluir"))
			return
		}

		r, err := restricao.Get(db, c.Param("id"))
		if err != nil {
			abortError(c, http.StatusInternalServerError, err)
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

func handleRestricaoCancelar(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := restricao.Cancel(db, c.Param("id")); err != nil {
			abortError(c, http.StatusNotFound, err)
			return
		}
		r, err := restricao.Get(db, c.Param("id"))
		if err != nil {
			abortError(c, http.StatusInternalServerError, err)
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

// evidenciaRequest is the JSON payload for POST /api/restricoes/:id/evidencias.
type evidenciaRequest struct {
	Nome         string `json:"nome"`
	Caminho      string `json:"caminho"`
	TipoArquivo  string `json:"tipo_arquivo"`
	TamanhoBytes int64  `json:"tamanho_bytes"`
	EnviadoPor   string `json:"enviado_por"`
}

func handleEvidenciaAdd(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req evidenciaRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortError(c, http.StatusBadRequest, err)
			return
		}

		ev, err := restricao.AddEvidencia(db, c.Param("id"), restricao.EvidenciaOpts{
			Nome:         req.Nome,
			Caminho:      req.Caminho,
			TipoArquivo:  req.TipoArquivo,
			TamanhoBytes: req.TamanhoBytes,
			EnviadoPor:   req.EnviadoPor,
		})
		if err != nil {
			abortError(c, http.StatusBadRequest, err)
			return
		}
		c.JSON(http.StatusCreated, ev)
	}
}

func handleEvidenciaRemove(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := restricao.RemoveEvidencia(db, c.Param("id"), c.Param("evidenciaID")); err != nil {
			abortError(c, http.StatusNotFound, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// andamentoRequest is the JSON payload for POST /api/restricoes/:id/andamentos.
type andamentoRequest struct {
	Texto string `json:"texto"`
	Autor string `json:"autor"`
}

func handleAndamentoAdd(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req andamentoRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortError(c, http.StatusBadRequest, err)
			return
		}

		a, err := restricao.AddAndamento(db, c.Param("id"), req.Texto, req.Autor)
		if err != nil {
			abortError(c, http.StatusBadRequest, err)
			return
		}
		c.JSON(http.StatusCreated, a)
	}
}
