package models

import (
	"reflect"
	"strings"
	"testing"
)

// gormTag extracts the gorm tag from a struct field.
func gormTag(t *testing.T, typ reflect.Type, fieldName string) string {
	t.Helper()
	f, ok := typ.FieldByName(fieldName)
	if !ok {
		t.Fatalf("%s.%s: field not found", typ.Name(), fieldName)
	}
	return f.Tag.Get("gorm")
}

// assertGormTag checks that a struct field's gorm tag contains the expected value.
func assertGormTag(t *testing.T, typ reflect.Type, fieldName, expected string) {
	t.Helper()
	tag := gormTag(t, typ, fieldName)
	if !strings.Contains(tag, expected) {
		t.Errorf("%s.%s gorm tag = %q, want to contain %q", typ.Name(), fieldName, tag, expected)
	}
}

// assertFieldType checks that a struct field has the expected Go type.
func assertFieldType(t *testing.T, typ reflect.Type, fieldName, expectedType string) {
	t.Helper()
	f, ok := typ.FieldByName(fieldName)
	if !ok {
		t.Fatalf("%s.%s: field not found", typ.Name(), fieldName)
	}
	got := f.Type.String()
	if got != expectedType {
		t.Errorf("%s.%s type = %q, want %q", typ.Name(), fieldName, got, expectedType)
	}
}

func TestRestricao_Fields(t *testing.T) {
	typ := reflect.TypeOf(Restricao{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "ID", "size:32")
	assertGormTag(t, typ, "EmpresaID", "index")
	assertGormTag(t, typ, "EmpresaID", "not null")
	assertGormTag(t, typ, "Titulo", "not null")
	assertGormTag(t, typ, "Descricao", "type:text")
	assertGormTag(t, typ, "Tipo", "default:COM_RESTRICAO")
	assertGormTag(t, typ, "Status", "default:PENDENTE")
	assertGormTag(t, typ, "Status", "index")
	assertGormTag(t, typ, "Prioridade", "default:MEDIA")
	assertGormTag(t, typ, "DataConclusaoPlanejada", "not null")
	assertGormTag(t, typ, "DataConclusaoPlanejada", "index")

	assertFieldType(t, typ, "ID", "string")
	assertFieldType(t, typ, "ParalisarObra", "bool")
	assertFieldType(t, typ, "DataConclusao", "*time.Time")
	assertFieldType(t, typ, "DataInicioLatencia", "*time.Time")
	assertFieldType(t, typ, "DataFimLatencia", "*time.Time")
	assertFieldType(t, typ, "DiasLatencia", "*int")
	assertFieldType(t, typ, "ProjetoID", "*string")
	assertFieldType(t, typ, "AtividadeID", "*string")
	assertFieldType(t, typ, "Historico", "[]models.Reagendamento")
	assertFieldType(t, typ, "Evidencias", "[]models.Evidencia")
	assertFieldType(t, typ, "Andamentos", "[]models.Andamento")
}

func TestReagendamento_Fields(t *testing.T) {
	typ := reflect.TypeOf(Reagendamento{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "RestricaoID", "index")
	assertGormTag(t, typ, "RestricaoID", "not null")

	assertFieldType(t, typ, "ID", "string")
	assertFieldType(t, typ, "DataAnterior", "time.Time")
	assertFieldType(t, typ, "DataNova", "time.Time")
	assertFieldType(t, typ, "DataReagendamento", "time.Time")
}

func TestCondicaoProntidao_Fields(t *testing.T) {
	typ := reflect.TypeOf(CondicaoProntidao{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "AtividadeID", "index")
	assertGormTag(t, typ, "AtividadeID", "not null")
	assertGormTag(t, typ, "TipoCondicao", "not null")
	assertGormTag(t, typ, "Status", "default:PENDENTE")

	assertFieldType(t, typ, "DataAtendida", "*time.Time")
	assertFieldType(t, typ, "RestricaoID", "*string")
}

func TestTiposCondicao_Complete(t *testing.T) {
	want := []string{
		CondicaoPredecessora,
		CondicaoMaterial,
		CondicaoMaoDeObra,
		CondicaoEquipamento,
		CondicaoMetodo,
		CondicaoSeguranca,
	}
	if len(TiposCondicao) != len(want) {
		t.Fatalf("len(TiposCondicao) = %d, want %d", len(TiposCondicao), len(want))
	}
	seen := make(map[string]bool)
	for i, tipo := range TiposCondicao {
		if tipo != want[i] {
			t.Errorf("TiposCondicao[%d] = %q, want %q", i, tipo, want[i])
		}
		if seen[tipo] {
			t.Errorf("duplicate condition type %q", tipo)
		}
		seen[tipo] = true
	}
}

func TestAtividadeDep_CompositeKey(t *testing.T) {
	typ := reflect.TypeOf(AtividadeDep{})
	assertGormTag(t, typ, "AtividadeID", "primaryKey")
	assertGormTag(t, typ, "DependeDe", "primaryKey")
}
