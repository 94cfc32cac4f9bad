package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// registerRoutes sets up all API routes on the Gin router.
func registerRoutes(router *gin.Engine, db *gorm.DB) {
	router.GET("/healthz", handleHealth(db))

	api := router.Group("/api")

	// Constraint lifecycle.
	api.GET("/restricoes", handleRestricaoList(db))
	api.POST("/restricoes", handleRestricaoCreate(db))
	api.GET("/restricoes/atrasadas", handleRestricaoAtrasadas(db))
	api.GET("/restricoes/criticas", handleRestricaoCriticas(db))
	api.GET("/restricoes/:id", handleRestricaoGet(db))
	api.PATCH("/restricoes/:id", handleRestricaoUpdate(db))
	api.DELETE("/restricoes/:id", handleRestricaoDelete(db))
	api.POST("/restricoes/:id/reagendar", handleRestricaoReagendar(db))
	api.POST("/restricoes/:id/concluir", handleRestricaoConcluir(db))
	api.POST("/restricoes/:id/alternar", handleRestricaoAlternar(db))
	api.POST("/restricoes/:id/cancelar", handleRestricaoCancelar(db))
	api.POST("/restricoes/:id/evidencias", handleEvidenciaAdd(db))
	api.DELETE("/restricoes/:id/evidencias/:evidenciaID", handleEvidenciaRemove(db))
	api.POST("/restricoes/:id/andamentos", handleAndamentoAdd(db))

	// Activities and readiness.
	api.GET("/atividades", handleAtividadeList(db))
	api.POST("/atividades", handleAtividadeCreate(db))
	api.GET("/atividades/:id", handleAtividadeGet(db))
	api.DELETE("/atividades/:id", handleAtividadeDelete(db))
	api.POST("/atividades/:id/status", handleAtividadeStatus(db))
	api.POST("/atividades/:id/predecessoras", handleDepAdd(db))
	api.DELETE("/atividades/:id/predecessoras/:depID", handleDepRemove(db))
	api.POST("/atividades/:id/prontidao", handleProntidaoInit(db))
	api.GET("/atividades/:id/prontidao", handleProntidaoList(db))
	api.POST("/atividades/:id/prontidao/derivar", handleProntidaoDerive(db))
	api.POST("/condicoes/:id/ciclo", handleCondicaoCycle(db))
	api.PATCH("/condicoes/:id", handleCondicaoSetStatus(db))

	// Aggregated reports.
	api.GET("/relatorios/status", handleRelatorioStatus(db))
	api.GET("/relatorios/causas", handleRelatorioCausas(db))
	api.GET("/relatorios/responsabilidade", handleRelatorioResponsabilidade(db))
	api.GET("/relatorios/latencia", handleRelatorioLatencia(db))
	api.GET("/relatorios/prontidao", handleRelatorioProntidao(db))

	// SSE feed of newly overdue constraints.
	api.GET("/events", handleSSE(db))
}

func handleHealth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// abortError writes a JSON error body with the given status.
func abortError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"erro": err.Error()})
}
