package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gbarbosa/visionplan/internal/report"
)

func handleRelatorioStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, err := report.StatusResumo(db, c.Query("empresa_id"))
		if err != nil {
			abortError(c, http.StatusInternalServerError, err)
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

func handleRelatorioCausas(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, err := report.CausaResumo(db, c.Query("empresa_id"))
		if err != nil {
			abortError(c, http.StatusInternalServerError, err)
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

func handleRelatorioResponsabilidade(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, err := report.ResponsabilidadeResumo(db, c.Query("empresa_id"))
		if err != nil {
			abortError(c, http.StatusInternalServerError, err)
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

func handleRelatorioLatencia(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, err := report.LatenciaResumo(db, c.Query("empresa_id"))
		if err != nil {
			abortError(c, http.StatusInternalServerError, err)
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

func handleRelatorioProntidao(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, err := report.ProntidaoResumo(db, c.Query("empresa_id"))
		if err != nil {
			abortError(c, http.StatusInternalServerError, err)
			return
		}
		c.JSON(http.StatusOK, r)
	}
}
