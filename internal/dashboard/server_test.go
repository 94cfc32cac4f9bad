package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gbarbosa/visionplan/internal/db"
	"github.com/gbarbosa/visionplan/internal/models"
)

func testRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	if err := db.AutoMigrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return newRouter(gdb), gdb
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func createRestricao(t *testing.T, router *gin.Engine, mutate func(map[string]any)) string {
	t.Helper()
	body := map[string]any{
		"empresa_id":               "emp-1",
		"criado_por":               "user-a",
		"titulo":                   "Falta liberação da fundação",
		"tipo_detalhado":           models.CausaMetodo,
		"tipo_responsabilidade":    models.RespConstrutora,
		"data_conclusao_planejada": time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
	}
	if mutate != nil {
		mutate(body)
	}
	w := doJSON(t, router, http.MethodPost, "/api/restricoes", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create restricao: status %d, body %s", w.Code, w.Body.String())
	}
	var r models.Restricao
	decode(t, w, &r)
	return r.ID
}

func createAtividade(t *testing.T, router *gin.Engine, nome string) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/atividades", map[string]any{
		"empresa_id": "emp-1",
		"nome":       nome,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create atividade: status %d, body %s", w.Code, w.Body.String())
	}
	var a models.Atividade
	decode(t, w, &a)
	return a.ID
}

func TestStart_NilDB(t *testing.T) {
	err := Start(context.Background(), StartOpts{DB: nil})
	if err == nil {
		t.Fatal("expected error for nil db")
	}
	if !strings.Contains(err.Error(), "db is required") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "db is required")
	}
}

func TestHealthz(t *testing.T) {
	router, _ := testRouter(t)
	w := doJSON(t, router, http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestRestricaoCreateAndGet(t *testing.T) {
	router, _ := testRouter(t)
	id := createRestricao(t, router, nil)

	w := doJSON(t, router, http.MethodGet, "/api/restricoes/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: status %d, body %s", w.Code, w.Body.String())
	}
	var r models.Restricao
	decode(t, w, &r)
	if r.Status != models.StatusPendente {
		t.Errorf("status = %q, want PENDENTE", r.Status)
	}
	if r.Prioridade != models.PrioridadeMedia {
		t.Errorf("prioridade = %q, want MEDIA", r.Prioridade)
	}
}

func TestRestricaoCreate_BadDate(t *testing.T) {
	router, _ := testRouter(t)
	w := doJSON(t, router, http.MethodPost, "/api/restricoes", map[string]any{
		"empresa_id":               "emp-1",
		"criado_por":               "user-a",
		"titulo":                   "Teste",
		"data_conclusao_planejada": "31/31/2026",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRestricaoGet_NotFound(t *testing.T) {
	router, _ := testRouter(t)
	w := doJSON(t, router, http.MethodGet, "/api/restricoes/res-zzzzz", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestRestricaoUpdate(t *testing.T) {
	router, _ := testRouter(t)
	id := createRestricao(t, router, nil)

	w := doJSON(t, router, http.MethodPatch, "/api/restricoes/"+id, map[string]any{
		"prioridade": models.PrioridadeAlta,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("patch: status %d, body %s", w.Code, w.Body.String())
	}
	var r models.Restricao
	decode(t, w, &r)
	if r.Prioridade != models.PrioridadeAlta {
		t.Errorf("prioridade = %q, want ALTA", r.Prioridade)
	}
}

func TestRestricaoUpdate_NotFound(t *testing.T) {
	router, _ := testRouter(t)
	w := doJSON(t, router, http.MethodPatch, "/api/restricoes/res-zzzzz", map[string]any{
		"prioridade": models.PrioridadeAlta,
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestRestricaoReagendar(t *testing.T) {
	router, _ := testRouter(t)
	id := createRestricao(t, router, nil)

	w := doJSON(t, router, http.MethodPost, "/api/restricoes/"+id+"/reagendar", map[string]any{
		"nova_data": time.Now().AddDate(0, 0, 14).Format("2006-01-02"),
		"motivo":    "Atraso na entrega do aço",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("reagendar: status %d, body %s", w.Code, w.Body.String())
	}
	var r models.Restricao
	decode(t, w, &r)
	if len(r.Historico) != 1 {
		t.Errorf("historico length = %d, want 1", len(r.Historico))
	}
}

func TestRestricaoConcluir_Authorization(t *testing.T) {
	router, _ := testRouter(t)
	id := createRestricao(t, router, nil)

	w := doJSON(t, router, http.MethodPost, "/api/restricoes/"+id+"/concluir", map[string]any{
		"autor": "user-b",
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("non-creator conclude: status %d, want 403", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/api/restricoes/"+id+"/concluir", map[string]any{
		"autor": "user-a",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("creator conclude: status %d, body %s", w.Code, w.Body.String())
	}
	var r models.Restricao
	decode(t, w, &r)
	if r.Status != models.StatusConcluida {
		t.Errorf("status = %q, want CONCLUIDA", r.Status)
	}
	if r.DataConclusao == nil {
		t.Error("expected data_conclusao to be stamped")
	}
}

func TestRestricaoEvidenciasAndAndamentos(t *testing.T) {
	router, _ := testRouter(t)
	id := createRestricao(t, router, nil)

	w := doJSON(t, router, http.MethodPost, "/api/restricoes/"+id+"/evidencias", map[string]any{
		"nome":        "nota-fiscal.pdf",
		"caminho":     "/uploads/nota-fiscal.pdf",
		"enviado_por": "user-a",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("add evidencia: status %d, body %s", w.Code, w.Body.String())
	}
	var ev models.Evidencia
	decode(t, w, &ev)

	w = doJSON(t, router, http.MethodPost, "/api/restricoes/"+id+"/andamentos", map[string]any{
		"texto": "Fornecedor confirmou entrega",
		"autor": "user-a",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("add andamento: status %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodDelete,
		fmt.Sprintf("/api/restricoes/%s/evidencias/%s", id, ev.ID), nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("remove evidencia: status %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/api/restricoes/"+id, nil)
	var r models.Restricao
	decode(t, w, &r)
	if len(r.Evidencias) != 0 {
		t.Errorf("evidencias length = %d, want 0", len(r.Evidencias))
	}
	if len(r.Andamentos) != 1 {
		t.Errorf("andamentos length = %d, want 1", len(r.Andamentos))
	}
}

func TestRestricaoList_Filters(t *testing.T) {
	router, _ := testRouter(t)
	createRestricao(t, router, nil)
	createRestricao(t, router, func(b map[string]any) {
		b["prioridade"] = models.PrioridadeAlta
	})

	w := doJSON(t, router, http.MethodGet, "/api/restricoes?empresa_id=emp-1&prioridade=ALTA", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: status %d, body %s", w.Code, w.Body.String())
	}
	var rs []models.Restricao
	decode(t, w, &rs)
	if len(rs) != 1 {
		t.Errorf("filtered list length = %d, want 1", len(rs))
	}
}

func TestAtividadeLifecycleAndProntidao(t *testing.T) {
	router, _ := testRouter(t)
	pred := createAtividade(t, router, "Fundação")
	succ := createAtividade(t, router, "Alvenaria")

	// Initialize the successor's checklist.
	w := doJSON(t, router, http.MethodPost, "/api/atividades/"+succ+"/prontidao", map[string]any{
		"empresa_id": "emp-1",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("init prontidao: status %d, body %s", w.Code, w.Body.String())
	}
	var conds []models.CondicaoProntidao
	decode(t, w, &conds)
	if len(conds) != len(models.TiposCondicao) {
		t.Fatalf("checklist size = %d, want %d", len(conds), len(models.TiposCondicao))
	}

	// Link the predecessor; the derived condition goes PENDENTE.
	w = doJSON(t, router, http.MethodPost, "/api/atividades/"+succ+"/predecessoras", map[string]any{
		"depende_de": pred,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("add dep: status %d, body %s", w.Code, w.Body.String())
	}

	// Finish the predecessor; the successor's derived condition flips.
	for _, status := range []string{models.AtividadeEmAndamento, models.AtividadeConcluida} {
		w = doJSON(t, router, http.MethodPost, "/api/atividades/"+pred+"/status", map[string]any{
			"status": status,
		})
		if w.Code != http.StatusOK {
			t.Fatalf("set status %s: status %d, body %s", status, w.Code, w.Body.String())
		}
	}

	w = doJSON(t, router, http.MethodGet, "/api/atividades/"+succ+"/prontidao", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list prontidao: status %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Condicoes []models.CondicaoProntidao `json:"condicoes"`
	}
	decode(t, w, &resp)
	var predCond *models.CondicaoProntidao
	for i := range resp.Condicoes {
		if resp.Condicoes[i].TipoCondicao == models.CondicaoPredecessora {
			predCond = &resp.Condicoes[i]
		}
	}
	if predCond == nil {
		t.Fatal("missing PREDECESSORA condition")
	}
	if predCond.Status != models.CondicaoAtendida {
		t.Errorf("derived condition status = %q, want ATENDIDA", predCond.Status)
	}
}

func TestCondicaoCycleEndpoint(t *testing.T) {
	router, _ := testRouter(t)
	id := createAtividade(t, router, "Fundação")

	w := doJSON(t, router, http.MethodPost, "/api/atividades/"+id+"/prontidao", map[string]any{
		"empresa_id": "emp-1",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("init prontidao: status %d", w.Code)
	}
	var conds []models.CondicaoProntidao
	decode(t, w, &conds)

	w = doJSON(t, router, http.MethodPost, "/api/condicoes/"+conds[0].ID+"/ciclo", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("cycle: status %d, body %s", w.Code, w.Body.String())
	}
	var cond models.CondicaoProntidao
	decode(t, w, &cond)
	if cond.Status != models.CondicaoAtendida {
		t.Errorf("cycled status = %q, want ATENDIDA", cond.Status)
	}
}

func TestAtividadeAddDep_CycleRejected(t *testing.T) {
	router, _ := testRouter(t)
	a := createAtividade(t, router, "A")
	b := createAtividade(t, router, "B")

	if w := doJSON(t, router, http.MethodPost, "/api/atividades/"+a+"/predecessoras", map[string]any{
		"depende_de": b,
	}); w.Code != http.StatusCreated {
		t.Fatalf("add dep: status %d", w.Code)
	}
	w := doJSON(t, router, http.MethodPost, "/api/atividades/"+b+"/predecessoras", map[string]any{
		"depende_de": a,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("cyclic dep: status %d, want 400", w.Code)
	}
}

func TestRelatorios(t *testing.T) {
	router, _ := testRouter(t)
	createRestricao(t, router, nil)
	createRestricao(t, router, func(b map[string]any) {
		b["paralisar_obra"] = true
	})

	paths := []string{
		"/api/relatorios/status",
		"/api/relatorios/causas",
		"/api/relatorios/responsabilidade",
		"/api/relatorios/latencia",
		"/api/relatorios/prontidao",
	}
	for _, p := range paths {
		w := doJSON(t, router, http.MethodGet, p+"?empresa_id=emp-1", nil)
		if w.Code != http.StatusOK {
			t.Errorf("GET %s: status %d, body %s", p, w.Code, w.Body.String())
		}
	}

	w := doJSON(t, router, http.MethodGet, "/api/relatorios/status?empresa_id=emp-1", nil)
	var resumo struct {
		Pendentes     int   `json:"pendentes"`
		Paralisadoras int64 `json:"paralisadoras_abertas"`
	}
	decode(t, w, &resumo)
	if resumo.Pendentes != 2 {
		t.Errorf("pendentes = %d, want 2", resumo.Pendentes)
	}
	if resumo.Paralisadoras != 1 {
		t.Errorf("paralisadoras = %d, want 1", resumo.Paralisadoras)
	}
}

func TestSSE_ConnectedEvent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	// Nil DB: the handler sends the connected event and returns.
	router.GET("/api/events", handleSSE(nil))

	w := doJSON(t, router, http.MethodGet, "/api/events", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content type = %q, want text/event-stream", ct)
	}
	if !strings.Contains(w.Body.String(), "event: connected") {
		t.Errorf("body %q missing connected event", w.Body.String())
	}
}
