package dashboard

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gbarbosa/visionplan/internal/atividade"
	"github.com/gbarbosa/visionplan/internal/dates"
	"github.com/gbarbosa/visionplan/internal/models"
	"github.com/gbarbosa/visionplan/internal/prontidao"
)

// createAtividadeRequest is the JSON payload for POST /api/atividades.
type createAtividadeRequest struct {
	EmpresaID string `json:"empresa_id"`
	Nome      string `json:"nome"`

	DataInicioPlanejada string `json:"data_inicio_planejada"`
	DataFimPlanejada    string `json:"data_fim_planejada"`

	ProjetoID string `json:"projeto_id"`
	WbsID     string `json:"wbs_id"`
}

func handleAtividadeCreate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createAtividadeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortError(c, http.StatusBadRequest, err)
			return
		}

		opts := atividade.CreateOpts{
			EmpresaID: req.EmpresaID,
			Nome:      req.Nome,
			ProjetoID: req.ProjetoID,
			WbsID:     req.WbsID,
		}
		if req.DataInicioPlanejada != "" {
			d, err := dates.Parse(req.DataInicioPlanejada)
			if err != nil {
				abortError(c, http.StatusBadRequest, fmt.Errorf("data_inicio_planejada: %w", err))
				return
			}
			opts.DataInicioPlanejada = &d
		}
		if req.DataFimPlanejada != "" {
			d, err := dates.Parse(req.DataFimPlanejada)
			if err != nil {
				abortError(c, http.StatusBadRequest, fmt.Errorf("data_fim_planejada: %w", err))
				return
			}
			opts.DataFimPlanejada = &d
		}

		a, err := atividade.Create(db, opts)
		if err != nil {
			abortError(c, http.StatusBadRequest, err)
			return
		}
		c.JSON(http.StatusCreated, a)
	}
}

func handleAtividadeList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		as, err := atividade.List(db, atividade.ListFilters{
			EmpresaID: c.Query("empresa_id"),
			Status:    c.Query("status"),
			ProjetoID: c.Query("projeto_id"),
		})
		if err != nil {
			abortError(c, http.StatusInternalServerError, err)
			return
		}
		c.JSON(http.StatusOK, as)
	}
}

func handleAtividadeGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, err := atividade.Get(db, c.Param("id"))
		if err != nil {
			abortError(c, http.StatusNotFound, err)
			return
		}
		c.JSON(http.StatusOK, a)
	}
}

func handleAtividadeDelete(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := atividade.Delete(db, c.Param("id")); err != nil {
			abortError(c, http.StatusInternalServerError, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// statusRequest is the JSON payload for POST /api/atividades/:id/status.
type statusRequest struct {
	Status string `json:"status"`
}

func handleAtividadeStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortError(c, http.StatusBadRequest, err)
			return
		}

		a, err := atividade.SetStatus(db, c.Param("id"), req.Status)
		if err != nil {
			abortError(c, http.StatusBadRequest, err)
			return
		}

		// A predecessor finishing or reopening may change successor readiness.
		rederiveSuccessors(db, a.ID)

		c.JSON(http.StatusOK, a)
	}
}

// rederiveSuccessors refreshes the derived predecessor condition of every
// activity that depends on the given one. Failures are ignored: the next
// explicit derivation pass fixes any gap.
func rederiveSuccessors(db *gorm.DB, atividadeID string) {
	var ids []string
	if err := db.Model(&models.AtividadeDep{}).
		Where("depende_de = ?", atividadeID).
		Pluck("atividade_id", &ids).Error; err != nil {
		return
	}
	for _, id := range ids {
		prontidao.DeriveProgress(db, id)
	}
}

// depRequest is the JSON payload for POST /api/atividades/:id/predecessoras.
type depRequest struct {
	DependeDe string `json:"depende_de"`
}

func handleDepAdd(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req depRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortError(c, http.StatusBadRequest, err)
			return
		}

		if err := atividade.AddDep(db, c.Param("id"), req.DependeDe); err != nil {
			abortError(c, http.StatusBadRequest, err)
			return
		}

		// The new link may flip the derived predecessor condition.
		if _, err := prontidao.DeriveProgress(db, c.Param("id")); err != nil {
			abortError(c, http.StatusInternalServerError, err)
			return
		}
		c.Status(http.StatusCreated)
	}
}

func handleDepRemove(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := atividade.RemoveDep(db, c.Param("id"), c.Param("depID")); err != nil {
			abortError(c, http.StatusNotFound, err)
			return
		}
		if _, err := prontidao.DeriveProgress(db, c.Param("id")); err != nil {
			abortError(c, http.StatusInternalServerError, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// prontidaoInitRequest is the JSON payload for POST /api/atividades/:id/prontidao.
type prontidaoInitRequest struct {
	EmpresaID string `json:"empresa_id"`
}

func handleProntidaoInit(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req prontidaoInitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortError(c, http.StatusBadRequest, err)
			return
		}

		conds, err := prontidao.Initialize(db, req.EmpresaID, c.Param("id"))
		if err != nil {
			abortError(c, http.StatusNotFound, err)
			return
		}
		c.JSON(http.StatusCreated, conds)
	}
}

func handleProntidaoList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		conds, err := prontidao.ListByAtividade(db, c.Param("id"))
		if err != nil {
			abortError(c, http.StatusInternalServerError, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"condicoes": conds,
			"resumo":    prontidao.SummarizeConds(c.Param("id"), conds),
		})
	}
}

func handleProntidaoDerive(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cond, err := prontidao.DeriveProgress(db, c.Param("id"))
		if err != nil {
			abortError(c, http.StatusInternalServerError, err)
			return
		}
		if cond == nil {
			abortError(c, http.StatusNotFound,
				fmt.Errorf("prontidao: checklist não inicializado para %s", c.Param("id")))
			return
		}
		c.JSON(http.StatusOK, cond)
	}
}

func handleCondicaoCycle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cond, err := prontidao.CycleCondition(db, c.Param("id"))
		if err != nil {
			abortError(c, http.StatusNotFound, err)
			return
		}
		c.JSON(http.StatusOK, cond)
	}
}

func handleCondicaoSetStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortError(c, http.StatusBadRequest, err)
			return
		}

		cond, err := prontidao.SetStatus(db, c.Param("id"), req.Status)
		if err != nil {
			abortError(c, http.StatusBadRequest, err)
			return
		}
		c.JSON(http.StatusOK, cond)
	}
}
