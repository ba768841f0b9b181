package VM

import (
	"fmt"

	DS "github.com/vtabrow/vtabrow/internal/DS"
	errs "github.com/vtabrow/vtabrow/internal/errs"
	QP "github.com/vtabrow/vtabrow/internal/QP"
	"github.com/mattn/go-sqlite3"
)

// GeneratorModule adapts a DS.GeneratorDef[Row] to sqlite3.Module. Always
// read-only, like the cached flavor.
type GeneratorModule[Row any] struct {
	Def *DS.GeneratorDef[Row]
}

func (m *GeneratorModule[Row]) Create(c *sqlite3.SQLiteConn, args []string) (sqlite3.VTab, error) {
	return m.connect(c, args)
}

func (m *GeneratorModule[Row]) Connect(c *sqlite3.SQLiteConn, args []string) (sqlite3.VTab, error) {
	return m.connect(c, args)
}

func (m *GeneratorModule[Row]) connect(c *sqlite3.SQLiteConn, _ []string) (sqlite3.VTab, error) {
	ddl := fmt.Sprintf("CREATE TABLE %s(%s)", quoteIdent(m.Def.Name), columnDDL(m.Def.Columns))
	if err := c.DeclareVTab(ddl); err != nil {
		return nil, errs.EngineFailure("declare schema for "+m.Def.Name, err)
	}
	return &generatorVTab[Row]{def: m.Def}, nil
}

func (m *GeneratorModule[Row]) DestroyModule() {}

type generatorVTab[Row any] struct {
	def *DS.GeneratorDef[Row]
}

// BestIndex never offers an index plan for the generator flavor — a
// one-shot producer has no random-access key to look up, only filters and
// full scan (spec.md §4.6).
func (v *generatorVTab[Row]) BestIndex(cst []sqlite3.InfoConstraint, _ []sqlite3.InfoOrderBy) (*sqlite3.IndexResult, error) {
	req := QP.Request{
		Filters:      v.def.Filters,
		EstimateRows: v.def.EstimateRowsForPlanner(),
	}
	for i, c := range cst {
		req.Constraints = append(req.Constraints, QP.EqConstraint{
			Index:  i,
			Column: c.Column,
			Usable: c.Usable && c.Op == opEQ,
		})
	}
	return planToIndexResult(QP.PlanBestIndex(req), len(cst)), nil
}

func (v *generatorVTab[Row]) Open() (sqlite3.VTabCursor, error) {
	return &generatorCursor[Row]{def: v.def}, nil
}

func (v *generatorVTab[Row]) Disconnect() error { return nil }
func (v *generatorVTab[Row]) Destroy() error    { return nil }

// generatorCursorMode is the cursor state machine of spec.md §4.3,
// restricted to the states the generator flavor can reach: a registered
// filter iterator, or the one-shot stream produced by NewGenerator.
type generatorCursorMode int

const (
	generatorModeFilter generatorCursorMode = iota
	generatorModeStream
)

type generatorCursor[Row any] struct {
	def  *DS.GeneratorDef[Row]
	mode generatorCursorMode

	// Filter state.
	iter DS.RowIterator

	// Stream state.
	gen DS.Generator[Row]
	row Row

	done bool
}

func (c *generatorCursor[Row]) Filter(idxNum int, _ string, vals []interface{}) error {
	if idxNum == 0 {
		c.mode = generatorModeStream
		gen, err := c.def.NewGenerator()
		if err != nil {
			return errs.EngineFailure(c.def.Name+": generator", err)
		}
		c.gen = gen
		if gen == nil {
			c.done = true
			return nil
		}
		c.done = !gen.Next()
		if !c.done {
			c.row = gen.Current()
		}
		return nil
	}

	entry, ok := c.def.Filters.ByID(idxNum)
	if !ok {
		c.mode = generatorModeFilter
		c.iter = nil
		c.done = true
		return nil
	}
	var key interface{}
	if len(vals) > 0 {
		key = vals[0]
	}
	iter, err := entry.Factory(key)
	if err != nil {
		return err
	}
	c.mode = generatorModeFilter
	c.iter = iter
	if iter == nil {
		c.done = true
		return nil
	}
	c.done = !iter.Next()
	return nil
}

// Next drives the generator one row at a time. The module adapter simply
// stops calling Next once the engine stops asking for rows — e.g. after a
// LIMIT is satisfied — which is what lets a generator-backed table skip
// the remainder of an unbounded stream (spec.md §4.6).
func (c *generatorCursor[Row]) Next() error {
	switch c.mode {
	case generatorModeStream:
		if c.gen != nil {
			c.done = !c.gen.Next()
			if !c.done {
				c.row = c.gen.Current()
			}
		}
	case generatorModeFilter:
		if c.iter != nil {
			c.done = !c.iter.Next()
		}
	}
	return nil
}

func (c *generatorCursor[Row]) EOF() bool {
	return c.done
}

func (c *generatorCursor[Row]) Column(ctx *sqlite3.SQLiteContext, col int) error {
	if c.EOF() || col < 0 || col >= len(c.def.Columns) {
		ctx.ResultNull()
		return nil
	}
	var v interface{}
	var ok bool
	switch c.mode {
	case generatorModeStream:
		v, ok = c.def.Columns[col].Get(c.row)
	case generatorModeFilter:
		v, ok = c.iter.Column(col)
	}
	writeResult(ctx, v, ok)
	return nil
}

func (c *generatorCursor[Row]) Rowid() (int64, error) {
	switch c.mode {
	case generatorModeStream:
		if c.gen == nil {
			return 0, nil
		}
		return c.gen.RowID(), nil
	case generatorModeFilter:
		if c.iter == nil {
			return 0, nil
		}
		return c.iter.RowID(), nil
	}
	return 0, nil
}

func (c *generatorCursor[Row]) Close() error {
	c.iter = nil
	c.gen = nil
	return nil
}
