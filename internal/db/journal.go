package db

import (
	"fmt"
	"reflect"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gbarbosa/visionplan/internal/models"
)

// depEntity is the oplog key for predecessor edges. The edge has a composite
// primary key, so EntidadeID carries both halves joined by ":".
const depEntity = "atividade_dep"

// journalEntities maps single-ID model type names to oplog entity keys.
// AtividadeDep is journaled through the composite-key path; Oplog itself is
// never journaled.
var journalEntities = map[string]string{
	"Restricao":         "restricao",
	"Reagendamento":     "reagendamento",
	"Evidencia":         "evidencia",
	"Andamento":         "andamento",
	"Atividade":         "atividade",
	"CondicaoProntidao": "condicao_prontidao",
}

// RegisterJournal installs callbacks on the fallback store so every write to
// a journaled entity lands in the oplog for later replay against the
// primary. Journaling is best-effort: a failed journal write never fails the
// user-visible operation.
func RegisterJournal(db *gorm.DB) error {
	cb := db.Callback()
	if err := cb.Create().After("gorm:create").Register("visionplan:journal_create", journalWrite(models.OpCreate)); err != nil {
		return fmt.Errorf("db: register create journal: %w", err)
	}
	if err := cb.Update().After("gorm:update").Register("visionplan:journal_update", journalWrite(models.OpUpdate)); err != nil {
		return fmt.Errorf("db: register update journal: %w", err)
	}
	if err := cb.Delete().After("gorm:delete").Register("visionplan:journal_delete", journalDelete); err != nil {
		return fmt.Errorf("db: register delete journal: %w", err)
	}
	return nil
}

// journalWrite snapshots the written row and records it. Updates re-read the
// row so the journal always carries the full post-write state, whether the
// caller wrote a struct or a column map.
func journalWrite(op string) func(tx *gorm.DB) {
	return func(tx *gorm.DB) {
		if isDep(tx) {
			journalDep(tx, op)
			return
		}
		entidade, id, ok := journalTarget(tx)
		if !ok {
			return
		}

		target, err := entityFor(entidade)
		if err != nil {
			return
		}
		fresh := tx.Session(&gorm.Session{NewDB: true, SkipHooks: true})
		if err := fresh.Where("id = ?", id).First(target).Error; err != nil {
			return
		}
		RecordOp(fresh, entidade, id, op, target)
	}
}

func journalDelete(tx *gorm.DB) {
	if isDep(tx) {
		journalDep(tx, models.OpDelete)
		return
	}
	entidade, id, ok := journalTarget(tx)
	if !ok {
		return
	}
	fresh := tx.Session(&gorm.Session{NewDB: true, SkipHooks: true})
	RecordOp(fresh, entidade, id, models.OpDelete, nil)
}

func isDep(tx *gorm.DB) bool {
	return tx.Statement.Schema != nil && tx.Statement.Schema.ModelType.Name() == "AtividadeDep"
}

// journalDep records a predecessor-edge write. The edge carries no columns
// beyond its composite key, so the key alone is enough to replay it.
func journalDep(tx *gorm.DB, op string) {
	if tx.Error != nil || tx.RowsAffected == 0 {
		return
	}
	atividadeID, dependeDe, ok := depKeyOf(tx)
	if !ok {
		return
	}
	fresh := tx.Session(&gorm.Session{NewDB: true, SkipHooks: true})
	RecordOp(fresh, depEntity, atividadeID+":"+dependeDe, op, nil)
}

// depKeyOf recovers both halves of the edge key, from the statement's model
// value on creates and from the two-column WHERE condition on deletes.
func depKeyOf(tx *gorm.DB) (string, string, bool) {
	if rv := tx.Statement.ReflectValue; rv.Kind() == reflect.Struct {
		if d, ok := rv.Interface().(models.AtividadeDep); ok && d.AtividadeID != "" && d.DependeDe != "" {
			return d.AtividadeID, d.DependeDe, true
		}
	}
	c, ok := tx.Statement.Clauses["WHERE"]
	if !ok {
		return "", "", false
	}
	where, ok := c.Expression.(clause.Where)
	if !ok {
		return "", "", false
	}
	for _, expr := range where.Exprs {
		if e, ok := expr.(clause.Expr); ok && e.SQL == "atividade_id = ? AND depende_de = ?" && len(e.Vars) == 2 {
			return fmt.Sprint(e.Vars[0]), fmt.Sprint(e.Vars[1]), true
		}
	}
	return "", "", false
}

// journalTarget resolves the entity key and primary key of the statement
// being journaled. Returns ok=false for non-journaled models, no-op writes
// and statements whose target ID cannot be recovered.
func journalTarget(tx *gorm.DB) (string, string, bool) {
	if tx.Error != nil || tx.Statement.Schema == nil || tx.RowsAffected == 0 {
		return "", "", false
	}
	entidade, ok := journalEntities[tx.Statement.Schema.ModelType.Name()]
	if !ok {
		return "", "", false
	}

	if id := idFromModel(tx); id != "" {
		return entidade, id, true
	}
	if id := idFromWhere(tx); id != "" {
		return entidade, id, true
	}
	return "", "", false
}

// idFromModel reads the primary key off the statement's model value.
func idFromModel(tx *gorm.DB) string {
	pk := tx.Statement.Schema.PrioritizedPrimaryField
	if pk == nil {
		return ""
	}
	rv := tx.Statement.ReflectValue
	if rv.Kind() != reflect.Struct {
		return ""
	}
	v, zero := pk.ValueOf(tx.Statement.Context, rv)
	if zero {
		return ""
	}
	return fmt.Sprint(v)
}

// idFromWhere recovers the target ID from an "id = ?" condition, the shape
// every map-based partial update and by-ID delete in this codebase uses.
func idFromWhere(tx *gorm.DB) string {
	c, ok := tx.Statement.Clauses["WHERE"]
	if !ok {
		return ""
	}
	where, ok := c.Expression.(clause.Where)
	if !ok {
		return ""
	}
	for _, expr := range where.Exprs {
		switch e := expr.(type) {
		case clause.Expr:
			if e.SQL == "id = ?" && len(e.Vars) == 1 {
				return fmt.Sprint(e.Vars[0])
			}
		case clause.Eq:
			if col, ok := e.Column.(clause.Column); ok && col.Name == "id" {
				return fmt.Sprint(e.Value)
			}
			if col, ok := e.Column.(string); ok && col == "id" {
				return fmt.Sprint(e.Value)
			}
		}
	}
	return ""
}
