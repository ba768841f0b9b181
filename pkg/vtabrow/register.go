package vtabrow

import (
	"database/sql"
	"regexp"

	DS "github.com/vtabrow/vtabrow/internal/DS"
	errs "github.com/vtabrow/vtabrow/internal/errs"
	VM "github.com/vtabrow/vtabrow/internal/VM"
	"github.com/mattn/go-sqlite3"
)

// identifierPattern is the core's only SQL-injection guard on schema
// identifiers (spec.md §3, §4.7, §9): reject rather than quote, since
// quoting rules differ per engine dialect.
var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// validIdentifier reports whether name is safe to interpolate directly
// into DDL text.
func validIdentifier(name string) bool {
	return name != "" && identifierPattern.MatchString(name)
}

// RegisterLive installs def as a SQLite module named moduleName on conn.
// Ownership of def transfers to the engine for the life of the module —
// the caller's own *def may be discarded immediately after this call
// returns without affecting the registered table (spec.md §3, §4.7).
func RegisterLive(conn *sqlite3.SQLiteConn, moduleName string, def *DS.LiveDef) error {
	if conn == nil || def == nil {
		return errs.CallerMisuse("register_live: nil connection or definition")
	}
	if !validIdentifier(moduleName) {
		return errs.CallerMisuse("register_live: invalid module name " + moduleName)
	}
	clone := *def
	if err := conn.CreateModule(moduleName, &VM.LiveModule{Def: &clone}); err != nil {
		return errs.EngineFailure("create_module "+moduleName, err)
	}
	return nil
}

// RegisterCached installs def as a SQLite module named moduleName on conn.
func RegisterCached[Row any](conn *sqlite3.SQLiteConn, moduleName string, def *DS.CachedDef[Row]) error {
	if conn == nil || def == nil {
		return errs.CallerMisuse("register_cached: nil connection or definition")
	}
	if !validIdentifier(moduleName) {
		return errs.CallerMisuse("register_cached: invalid module name " + moduleName)
	}
	clone := *def
	if err := conn.CreateModule(moduleName, &VM.CachedModule[Row]{Def: &clone}); err != nil {
		return errs.EngineFailure("create_module "+moduleName, err)
	}
	return nil
}

// RegisterGenerator installs def as a SQLite module named moduleName on
// conn.
func RegisterGenerator[Row any](conn *sqlite3.SQLiteConn, moduleName string, def *DS.GeneratorDef[Row]) error {
	if conn == nil || def == nil {
		return errs.CallerMisuse("register_generator: nil connection or definition")
	}
	if !validIdentifier(moduleName) {
		return errs.CallerMisuse("register_generator: invalid module name " + moduleName)
	}
	clone := *def
	if err := conn.CreateModule(moduleName, &VM.GeneratorModule[Row]{Def: &clone}); err != nil {
		return errs.EngineFailure("create_module "+moduleName, err)
	}
	return nil
}

// execer is satisfied by *sql.DB and *sql.Tx — the "exec(conn, sql)"
// operation of spec.md §6, narrowed to the one call CreateVirtualTable
// needs.
type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// CreateVirtualTable emits "CREATE VIRTUAL TABLE <table> USING <module>;"
// after validating both identifiers against [A-Za-z0-9_]+. Validation
// failure returns an error without issuing any SQL (spec.md §4.7's
// SQL-injection guard).
func CreateVirtualTable(db execer, tableName, moduleName string) error {
	if !validIdentifier(tableName) {
		return errs.CallerMisuse("create_virtual_table: invalid table name " + tableName)
	}
	if !validIdentifier(moduleName) {
		return errs.CallerMisuse("create_virtual_table: invalid module name " + moduleName)
	}
	ddl := "CREATE VIRTUAL TABLE " + tableName + " USING " + moduleName + ";"
	if _, err := db.Exec(ddl); err != nil {
		return errs.EngineFailure("exec "+ddl, err)
	}
	return nil
}
