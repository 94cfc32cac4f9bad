package restricao

import (
	"testing"
	"time"

	"github.com/gbarbosa/visionplan/internal/models"
	"gorm.io/gorm"
)

func seedComPrazo(t *testing.T, db *gorm.DB, dias int, mutate func(*CreateOpts)) *models.Restricao {
	t.Helper()
	opts := baseOpts()
	opts.DataConclusaoPlanejada = time.Now().AddDate(0, 0, dias)
	if mutate != nil {
		mutate(&opts)
	}
	r, err := Create(db, opts)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return r
}

func TestListByPeriodo_Inclusive(t *testing.T) {
	db := testDB(t)
	antes := seedComPrazo(t, db, -5, nil)
	inicio := seedComPrazo(t, db, 0, nil)
	meio := seedComPrazo(t, db, 3, nil)
	fim := seedComPrazo(t, db, 7, nil)
	depois := seedComPrazo(t, db, 12, nil)

	rs, err := ListByPeriodo(db, "emp-1", time.Now(), time.Now().AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("ListByPeriodo() error: %v", err)
	}

	got := make(map[string]bool)
	for _, r := range rs {
		got[r.ID] = true
	}
	for _, want := range []*models.Restricao{inicio, meio, fim} {
		if !got[want.ID] {
			t.Errorf("record with offset inside period missing: %s", want.ID)
		}
	}
	for _, not := range []*models.Restricao{antes, depois} {
		if got[not.ID] {
			t.Errorf("record outside period included: %s", not.ID)
		}
	}
}

func TestListAtrasadas(t *testing.T) {
	db := testDB(t)
	vencida := seedComPrazo(t, db, -3, nil)
	seedComPrazo(t, db, 3, nil)
	concluida := seedComPrazo(t, db, -3, nil)
	if ok, _ := Conclude(db, concluida.ID, "user-a"); !ok {
		t.Fatal("conclude failed")
	}
	cancelada := seedComPrazo(t, db, -3, nil)
	if err := Cancel(db, cancelada.ID); err != nil {
		t.Fatal(err)
	}

	rs, err := ListAtrasadas(db, "emp-1")
	if err != nil {
		t.Fatalf("ListAtrasadas() error: %v", err)
	}
	if len(rs) != 1 || rs[0].ID != vencida.ID {
		t.Errorf("ListAtrasadas = %+v, want only %s", rs, vencida.ID)
	}
}

func TestListCriticas(t *testing.T) {
	db := testDB(t)
	critica := seedComPrazo(t, db, 2, func(o *CreateOpts) {
		o.Prioridade = models.PrioridadeAlta
	})
	// ALTA but explicitly "no restriction": excluded.
	seedComPrazo(t, db, 2, func(o *CreateOpts) {
		o.Prioridade = models.PrioridadeAlta
		o.Tipo = models.TipoSemRestricao
	})
	// ALTA but concluded: excluded.
	feita := seedComPrazo(t, db, 2, func(o *CreateOpts) {
		o.Prioridade = models.PrioridadeAlta
	})
	if ok, _ := Conclude(db, feita.ID, "user-a"); !ok {
		t.Fatal("conclude failed")
	}
	// MEDIA: excluded.
	seedComPrazo(t, db, 2, nil)

	rs, err := ListCriticas(db, "emp-1")
	if err != nil {
		t.Fatalf("ListCriticas() error: %v", err)
	}
	if len(rs) != 1 || rs[0].ID != critica.ID {
		t.Errorf("ListCriticas = %d records, want only %s", len(rs), critica.ID)
	}
}

func TestRecomputeAtrasadas(t *testing.T) {
	db := testDB(t)
	vencida1 := seedComPrazo(t, db, -1, nil)
	vencida2 := seedComPrazo(t, db, -10, nil)
	futura := seedComPrazo(t, db, 5, nil)

	flipped, err := RecomputeAtrasadas(db, "emp-1")
	if err != nil {
		t.Fatalf("RecomputeAtrasadas() error: %v", err)
	}
	if len(flipped) != 2 {
		t.Fatalf("flipped %d records, want 2", len(flipped))
	}
	for _, r := range flipped {
		if r.Status != models.StatusAtrasada {
			t.Errorf("flipped record %s status = %q, want ATRASADA", r.ID, r.Status)
		}
	}

	for _, id := range []string{vencida1.ID, vencida2.ID} {
		got, _ := Get(db, id)
		if got.Status != models.StatusAtrasada {
			t.Errorf("record %s status = %q, want ATRASADA", id, got.Status)
		}
	}
	got, _ := Get(db, futura.ID)
	if got.Status != models.StatusPendente {
		t.Errorf("future record status = %q, want PENDENTE", got.Status)
	}

	// Second pass finds nothing new.
	flipped, err = RecomputeAtrasadas(db, "emp-1")
	if err != nil {
		t.Fatalf("second RecomputeAtrasadas() error: %v", err)
	}
	if len(flipped) != 0 {
		t.Errorf("second pass flipped %d records, want 0", len(flipped))
	}
}
