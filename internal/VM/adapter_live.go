package VM

import (
	"fmt"

	DS "github.com/vtabrow/vtabrow/internal/DS"
	errs "github.com/vtabrow/vtabrow/internal/errs"
	QP "github.com/vtabrow/vtabrow/internal/QP"
	"github.com/mattn/go-sqlite3"
)

// LiveModule adapts a DS.LiveDef to sqlite3.Module.
type LiveModule struct {
	Def *DS.LiveDef
}

func (m *LiveModule) Create(c *sqlite3.SQLiteConn, args []string) (sqlite3.VTab, error) {
	return m.connect(c, args)
}

func (m *LiveModule) Connect(c *sqlite3.SQLiteConn, args []string) (sqlite3.VTab, error) {
	return m.connect(c, args)
}

func (m *LiveModule) connect(c *sqlite3.SQLiteConn, _ []string) (sqlite3.VTab, error) {
	ddl := fmt.Sprintf("CREATE TABLE %s(%s)", quoteIdent(m.Def.Name), columnDDL(m.Def.Columns))
	if err := c.DeclareVTab(ddl); err != nil {
		return nil, errs.EngineFailure("declare schema for "+m.Def.Name, err)
	}
	return &liveVTab{def: m.Def}, nil
}

func (m *LiveModule) DestroyModule() {}

type liveVTab struct {
	def *DS.LiveDef
}

// BestIndex runs the planner of internal/QP against the live flavor's
// advisory row estimate, never against its authoritative RowCount
// (spec.md §4.2: "The planner must not call the authoritative row_count").
func (v *liveVTab) BestIndex(cst []sqlite3.InfoConstraint, _ []sqlite3.InfoOrderBy) (*sqlite3.IndexResult, error) {
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

func (v *liveVTab) Open() (sqlite3.VTabCursor, error) {
	return &liveCursor{def: v.def}, nil
}

func (v *liveVTab) Disconnect() error { return nil }
func (v *liveVTab) Destroy() error    { return nil }

// Delete implements the DELETE branch of the writable-update dispatch in
// spec.md §4.4.
func (v *liveVTab) Delete(rowid interface{}) error {
	if !v.def.SupportsDelete || v.def.DeleteRow == nil {
		return errs.ReadOnly(v.def.Name)
	}
	id, _ := DS.CoerceInt64(rowid)
	fireBeforeModify(v.def.BeforeModify, "DELETE FROM "+v.def.Name)
	if !v.def.DeleteRow(id) {
		return errs.CallbackFailure(v.def.Name + ": delete_row returned false")
	}
	return nil
}

// Insert implements the INSERT branch of spec.md §4.4.
func (v *liveVTab) Insert(_ interface{}, vals []interface{}) (int64, error) {
	if !v.def.SupportsInsert || v.def.InsertRow == nil {
		return 0, errs.ReadOnly(v.def.Name)
	}
	fireBeforeModify(v.def.BeforeModify, "INSERT INTO "+v.def.Name)
	id, ok := v.def.InsertRow(vals)
	if !ok {
		return 0, errs.CallbackFailure(v.def.Name + ": insert_row returned false")
	}
	return id, nil
}

// Update implements the UPDATE branch of spec.md §4.4: it walks the new
// values positionally against the column list, calling the setter of each
// writable column that has one, and aborts on the first setter that
// returns false without partially applying the rest.
func (v *liveVTab) Update(rowid interface{}, vals []interface{}) error {
	id, _ := DS.CoerceInt64(rowid)
	fireBeforeModify(v.def.BeforeModify, "UPDATE "+v.def.Name)
	for i, col := range v.def.Columns {
		if !col.Writable || col.Set == nil {
			continue
		}
		if i >= len(vals) {
			break
		}
		if !col.Set(int(id), vals[i]) {
			return errs.CallbackFailure(fmt.Sprintf("%s: setter for %q returned false", v.def.Name, col.Name))
		}
	}
	return nil
}

func fireBeforeModify(hook func(string), op string) {
	if hook != nil {
		hook(op)
	}
}

// liveCursorMode is the cursor state machine of spec.md §4.3, restricted
// to the states the live flavor can reach: a full index scan or a filter
// iterator.
type liveCursorMode int

const (
	liveModeScan liveCursorMode = iota
	liveModeFilter
)

type liveCursor struct {
	def  *DS.LiveDef
	mode liveCursorMode

	// Scan(index) state.
	pos   int64
	total int64

	// Filter state.
	iter DS.RowIterator
	done bool
}

func (c *liveCursor) Filter(idxNum int, _ string, vals []interface{}) error {
	if idxNum == 0 {
		c.mode = liveModeScan
		c.pos = 0
		c.total = c.def.RowCount()
		return nil
	}
	entry, ok := c.def.Filters.ByID(idxNum)
	if !ok {
		c.mode = liveModeFilter
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
	c.mode = liveModeFilter
	c.iter = iter
	if iter == nil {
		c.done = true
		return nil
	}
	c.done = !iter.Next()
	return nil
}

func (c *liveCursor) Next() error {
	switch c.mode {
	case liveModeScan:
		c.pos++
	case liveModeFilter:
		if c.iter != nil {
			c.done = !c.iter.Next()
		}
	}
	return nil
}

func (c *liveCursor) EOF() bool {
	switch c.mode {
	case liveModeScan:
		return c.pos >= c.total
	case liveModeFilter:
		return c.done
	}
	return true
}

func (c *liveCursor) Column(ctx *sqlite3.SQLiteContext, col int) error {
	if c.EOF() || col < 0 || col >= len(c.def.Columns) {
		ctx.ResultNull()
		return nil
	}
	var v interface{}
	var ok bool
	switch c.mode {
	case liveModeScan:
		v, ok = c.def.Columns[col].Get(int(c.pos))
	case liveModeFilter:
		v, ok = c.iter.Column(col)
	}
	writeResult(ctx, v, ok)
	return nil
}

func (c *liveCursor) Rowid() (int64, error) {
	switch c.mode {
	case liveModeScan:
		return c.pos, nil
	case liveModeFilter:
		if c.iter == nil {
			return 0, nil
		}
		return c.iter.RowID(), nil
	}
	return 0, nil
}

func (c *liveCursor) Close() error {
	c.iter = nil
	return nil
}
