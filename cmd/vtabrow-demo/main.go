// Command vtabrow-demo is a small host application exercising all three
// table flavors against a real SQLite connection: an in-memory todo list
// (live, writable), a static cross-reference table (cached, with a hash
// index), and an integer-range generator. It reads and executes
// newline-terminated SQL from stdin, the same REPL shape the teacher
// framework's own CLI used over its own engine.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"

	DS "github.com/vtabrow/vtabrow/internal/DS"
	IS "github.com/vtabrow/vtabrow/internal/IS"
	"github.com/vtabrow/vtabrow/internal/log"
	"github.com/vtabrow/vtabrow/pkg/vtabrow"
	"github.com/mattn/go-sqlite3"
	"golang.org/x/sync/errgroup"
)

type todo struct {
	id   int64
	text string
	done bool
}

type xref struct {
	from, to int64
	kind     int64
}

func main() {
	dbPath := flag.String("db", ":memory:", "path to the SQLite database, or :memory:")
	load := flag.Int("load", 0, "if > 0, run N concurrent connections against the cached table instead of the REPL")
	flag.Parse()

	todos := []*todo{
		{1, "Write docs", false},
		{2, "Fix bug", false},
		{3, "Review PR", true},
		{4, "Deploy", false},
	}
	var todosMu sync.Mutex

	driverName := "vtabrow-demo"
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return registerAll(conn, todos, &todosMu)
		},
	})

	dsn := connectionDSN(*dbPath)

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		log.Fatal("open: %v", err)
	}
	defer db.Close()

	if err := vtabrow.CreateVirtualTable(db, "t", "vtabrow_todo"); err != nil {
		log.Fatal("create todo table: %v", err)
	}
	if err := vtabrow.CreateVirtualTable(db, "xrefs", "vtabrow_xrefs"); err != nil {
		log.Fatal("create xrefs table: %v", err)
	}
	if err := vtabrow.CreateVirtualTable(db, "g", "vtabrow_range"); err != nil {
		log.Fatal("create range generator table: %v", err)
	}

	if *load > 0 {
		runLoad(driverName, dsn, *load)
		return
	}

	repl(db)
}

// connectionDSN rewrites a bare ":memory:" path into a shared-cache DSN so
// that every connection opened against it — including the extra
// connections runLoad opens — sees the
// same in-memory database and the virtual tables registered on it, instead
// of each getting its own private, empty database. A file path is used
// as-is: the schema persists across connections to the same file already.
func connectionDSN(path string) string {
	if path == ":memory:" {
		return "file::memory:?cache=shared"
	}
	return path
}

func registerAll(conn *sqlite3.SQLiteConn, todos []*todo, mu *sync.Mutex) error {
	tag := log.Named("vtabrow-demo")

	liveDef := vtabrow.Table("t").
		Count(func() int64 {
			mu.Lock()
			defer mu.Unlock()
			return int64(len(todos))
		}).
		ColumnI64("id", func(row int) (int64, bool) {
			mu.Lock()
			defer mu.Unlock()
			if row < 0 || row >= len(todos) {
				return 0, false
			}
			return todos[row].id, true
		}).
		ColumnText("text", func(row int) (string, bool) {
			mu.Lock()
			defer mu.Unlock()
			if row < 0 || row >= len(todos) {
				return "", false
			}
			return todos[row].text, true
		}).
		ColumnI64RW("done", func(row int) (int64, bool) {
			mu.Lock()
			defer mu.Unlock()
			if row < 0 || row >= len(todos) {
				return 0, false
			}
			if todos[row].done {
				return 1, true
			}
			return 0, true
		}, func(row int, v int64) bool {
			mu.Lock()
			defer mu.Unlock()
			if row < 0 || row >= len(todos) {
				return false
			}
			todos[row].done = v != 0
			return true
		}).
		Deletable(func(rowid int64) bool {
			mu.Lock()
			defer mu.Unlock()
			if rowid < 0 || rowid >= int64(len(todos)) {
				return false
			}
			todos = append(todos[:rowid], todos[rowid+1:]...)
			return true
		}).
		OnModify(func(op string) { tag.Info("%s", op) }).
		Build()

	if err := vtabrow.RegisterLive(conn, "vtabrow_todo", liveDef); err != nil {
		return err
	}

	xrefRows := []xref{
		{0x1000, 0x2000, 1},
		{0x1004, 0x2000, 1},
		{0x1008, 0x3000, 2},
		{0x100C, 0x2000, 1},
		{0x2000, 0x3000, 1},
		{0x2004, 0x4000, 2},
		{0x3000, 0x4000, 1},
	}
	cachedDef := vtabrow.CachedTable[xref]("xrefs").
		CacheBuilder(func() ([]xref, error) {
			tag.Info("building xrefs cache (%d rows)", len(xrefRows))
			return xrefRows, nil
		}).
		ColumnI64("from_ea", func(r xref) (int64, bool) { return r.from, true }).
		ColumnI64("to_ea", func(r xref) (int64, bool) { return r.to, true }).
		ColumnI64("kind", func(r xref) (int64, bool) { return r.kind, true }).
		IndexOn(1, func(r xref) (int64, bool) { return r.to, true }).
		Build()

	if err := vtabrow.RegisterCached[xref](conn, "vtabrow_xrefs", cachedDef); err != nil {
		return err
	}

	generatorDef := vtabrow.GeneratorTable[int64]("g").
		EstimateRows(func() float64 { return 1e9 }).
		ColumnI64("n", func(r int64) (int64, bool) { return r, true }).
		Generator(func() (DS.Generator[int64], error) { return &rangeGenerator{}, nil }).
		Build()

	return vtabrow.RegisterGenerator[int64](conn, "vtabrow_range", generatorDef)
}

// rangeGenerator streams 0, 1, 2, ... without bound, relying on the
// module adapter to stop calling Next once a LIMIT is satisfied.
type rangeGenerator struct {
	n     int64
	ready bool
}

func (g *rangeGenerator) Next() bool {
	if !g.ready {
		g.ready = true
		return true
	}
	g.n++
	return true
}

func (g *rangeGenerator) Current() int64 { return g.n }
func (g *rangeGenerator) RowID() int64   { return g.n }

func repl(db *sql.DB) {
	fmt.Fprintln(os.Stderr, "vtabrow-demo ready; enter SQL, blank line to exit")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			return
		}
		runQuery(db, line)
	}
}

func runQuery(db *sql.DB, query string) {
	rows, err := db.Query(query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	vals := make([]interface{}, len(cols))
	ptrs := make([]interface{}, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return
		}
		fmt.Println(vals...)
	}
}

// runLoad opens N connections concurrently and runs the same indexed query
// against the cached xrefs table on each. The ConnectHook runs registerAll
// for every new connection, and registerAll builds a new cached definition
// with its own cache each time, so each connection builds and reads its own
// cache; the builds are not shared across connections, and the final
// InvalidateCache reaches only the most recently registered one.
// dsn must be the same shared-cache DSN the caller already registered the
// virtual tables on (see connectionDSN) so these extra connections see
// the same in-memory database rather than a fresh, tableless one.
func runLoad(driverName, dsn string, n int) {
	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			db, err := sql.Open(driverName, dsn)
			if err != nil {
				return fmt.Errorf("connection %d: open: %w", i, err)
			}
			defer db.Close()
			rows, err := db.QueryContext(ctx, "SELECT from_ea FROM xrefs WHERE to_ea = ?", int64(0x2000))
			if err != nil {
				return fmt.Errorf("connection %d: query: %w", i, err)
			}
			count := 0
			for rows.Next() {
				count++
			}
			rows.Close()
			log.Info("connection %d: %d rows", i, count)
			return rows.Err()
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal("load: %v", err)
	}
	if ok := IS.InvalidateCache("xrefs"); ok {
		log.Info("invalidated xrefs cache after load")
	}
}
