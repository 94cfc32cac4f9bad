package db

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/gbarbosa/visionplan/internal/models"
)

func journaledDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := testDB(t)
	if err := RegisterJournal(db); err != nil {
		t.Fatalf("register journal: %v", err)
	}
	return db
}

func oplogEntries(t *testing.T, db *gorm.DB) []models.Oplog {
	t.Helper()
	var entries []models.Oplog
	if err := db.Order("id ASC").Find(&entries).Error; err != nil {
		t.Fatalf("load oplog: %v", err)
	}
	return entries
}

func TestJournal_CreateUpdateDelete(t *testing.T) {
	db := journaledDB(t)

	r := models.Restricao{
		ID:                     "res-1a2b3",
		EmpresaID:              "emp-1",
		CriadoPor:              "user-a",
		Titulo:                 "Falta liberação da fundação",
		Status:                 models.StatusPendente,
		Prioridade:             models.PrioridadeMedia,
		DataConclusaoPlanejada: time.Now().AddDate(0, 0, 7),
	}
	if err := db.Create(&r).Error; err != nil {
		t.Fatalf("create: %v", err)
	}

	// Map-based partial update, the shape the service layer uses.
	if err := db.Model(&models.Restricao{}).Where("id = ?", r.ID).
		Updates(map[string]interface{}{"prioridade": models.PrioridadeAlta}).Error; err != nil {
		t.Fatalf("update: %v", err)
	}

	if err := db.Where("id = ?", r.ID).Delete(&models.Restricao{}).Error; err != nil {
		t.Fatalf("delete: %v", err)
	}

	entries := oplogEntries(t, db)
	if len(entries) != 3 {
		t.Fatalf("oplog entries = %d, want 3", len(entries))
	}
	wantOps := []string{models.OpCreate, models.OpUpdate, models.OpDelete}
	for i, e := range entries {
		if e.Op != wantOps[i] {
			t.Errorf("entry %d op = %q, want %q", i, e.Op, wantOps[i])
		}
		if e.Entidade != "restricao" || e.EntidadeID != r.ID {
			t.Errorf("entry %d = %s %s, want restricao %s", i, e.Entidade, e.EntidadeID, r.ID)
		}
	}
	if entries[2].Payload != "" {
		t.Errorf("delete entry should carry no payload, got %q", entries[2].Payload)
	}
}

func TestJournal_UpdatePayloadIsFullRow(t *testing.T) {
	db := journaledDB(t)

	r := models.Restricao{
		ID:                     "res-4c5d6",
		EmpresaID:              "emp-1",
		CriadoPor:              "user-a",
		Titulo:                 "Aguardando projeto executivo",
		Status:                 models.StatusPendente,
		DataConclusaoPlanejada: time.Now().AddDate(0, 0, 3),
	}
	if err := db.Create(&r).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := db.Model(&models.Restricao{}).Where("id = ?", r.ID).
		Updates(map[string]interface{}{"status": models.StatusConcluida}).Error; err != nil {
		t.Fatalf("update: %v", err)
	}

	// Replay into a fresh store and check the final state arrived intact.
	primary := testDB(t)
	n, err := ReplayOplog(db, primary)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if n != 2 {
		t.Fatalf("replayed = %d, want 2", n)
	}

	var got models.Restricao
	if err := primary.First(&got, "id = ?", r.ID).Error; err != nil {
		t.Fatalf("load replayed row: %v", err)
	}
	if got.Status != models.StatusConcluida {
		t.Errorf("status = %q, want CONCLUIDA", got.Status)
	}
	if got.Titulo != r.Titulo {
		t.Errorf("titulo = %q, want %q", got.Titulo, r.Titulo)
	}
}

func TestJournal_DepEdges(t *testing.T) {
	fallback := journaledDB(t)

	removed := models.AtividadeDep{AtividadeID: "atv-1a2b3", DependeDe: "atv-4c5d6"}
	if err := fallback.Create(&removed).Error; err != nil {
		t.Fatalf("create dep: %v", err)
	}
	kept := models.AtividadeDep{AtividadeID: "atv-1a2b3", DependeDe: "atv-7e8f9"}
	if err := fallback.Create(&kept).Error; err != nil {
		t.Fatalf("create dep: %v", err)
	}
	if err := fallback.Where("atividade_id = ? AND depende_de = ?", removed.AtividadeID, removed.DependeDe).
		Delete(&models.AtividadeDep{}).Error; err != nil {
		t.Fatalf("delete dep: %v", err)
	}

	entries := oplogEntries(t, fallback)
	if len(entries) != 3 {
		t.Fatalf("oplog entries = %d, want 3", len(entries))
	}
	for i, e := range entries {
		if e.Entidade != "atividade_dep" {
			t.Errorf("entry %d entidade = %q, want atividade_dep", i, e.Entidade)
		}
	}
	if entries[0].EntidadeID != "atv-1a2b3:atv-4c5d6" {
		t.Errorf("entry 0 key = %q, want atv-1a2b3:atv-4c5d6", entries[0].EntidadeID)
	}
	if entries[2].Op != models.OpDelete {
		t.Errorf("entry 2 op = %q, want delete", entries[2].Op)
	}

	// Replayed primary ends up with only the surviving edge.
	primary := testDB(t)
	n, err := ReplayOplog(fallback, primary)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if n != 3 {
		t.Fatalf("replayed = %d, want 3", n)
	}
	var deps []models.AtividadeDep
	if err := primary.Where("atividade_id = ?", "atv-1a2b3").Find(&deps).Error; err != nil {
		t.Fatalf("load replayed deps: %v", err)
	}
	if len(deps) != 1 || deps[0].DependeDe != "atv-7e8f9" {
		t.Errorf("deps after replay = %+v, want only atv-7e8f9", deps)
	}
}

func TestJournal_SkipsOplogWrites(t *testing.T) {
	db := journaledDB(t)

	if err := RecordOp(db, "restricao", "res-1a2b3", models.OpDelete, nil); err != nil {
		t.Fatalf("record op: %v", err)
	}

	// The RecordOp write itself must not journal recursively.
	if entries := oplogEntries(t, db); len(entries) != 1 {
		t.Errorf("oplog entries = %d, want 1", len(entries))
	}
}
