package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect controls how bind placeholders are rendered.
type Dialect int

const (
	// Dollar renders $1, $2, ... (postgres).
	Dollar Dialect = iota
	// Question renders ? (sqlite).
	Question
)

func (d Dialect) placeholder(i int) string {
	if d == Question {
		return "?"
	}
	return "$" + strconv.Itoa(i)
}

type binder struct {
	dialect Dialect
	args    []any
}

func (b *binder) bind(value any) string {
	b.args = append(b.args, value)
	return b.dialect.placeholder(len(b.args))
}

type Condition interface {
	appendSQL(buf *strings.Builder, b *binder)
}

type eqCondition struct {
	column string
	value  any
}

func Eq(column string, value any) Condition {
	return eqCondition{column: column, value: value}
}

func (c eqCondition) appendSQL(buf *strings.Builder, b *binder) {
	buf.WriteString(c.column)
	buf.WriteString(" = ")
	buf.WriteString(b.bind(c.value))
}

type inCondition struct {
	column string
	values []any
}

func In(column string, values []any) Condition {
	return inCondition{column: column, values: values}
}

// InInt64 is In for the common integer id case.
func InInt64(column string, values []int64) Condition {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return inCondition{column: column, values: out}
}

func (c inCondition) appendSQL(buf *strings.Builder, b *binder) {
	if len(c.values) == 0 {
		buf.WriteString("1=0")
		return
	}

	buf.WriteString(c.column)
	buf.WriteString(" IN (")
	for i, v := range c.values {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(b.bind(v))
	}
	buf.WriteString(")")
}

type betweenCondition struct {
	column string
	from   any
	to     any
}

func Between(column string, from, to any) Condition {
	return betweenCondition{column: column, from: from, to: to}
}

func (c betweenCondition) appendSQL(buf *strings.Builder, b *binder) {
	buf.WriteString(c.column)
	buf.WriteString(" BETWEEN ")
	buf.WriteString(b.bind(c.from))
	buf.WriteString(" AND ")
	buf.WriteString(b.bind(c.to))
}

type exprCondition struct {
	expr string
	args []any
}

// Expr embeds raw SQL; each ? is bound to the next arg.
func Expr(expr string, args ...any) Condition {
	return exprCondition{expr: expr, args: args}
}

func (c exprCondition) appendSQL(buf *strings.Builder, b *binder) {
	buf.WriteString(rewritePlaceholders(c.expr, c.args, b))
}

type SelectBuilder struct {
	dialect Dialect
	columns []string
	table   string
	where   []Condition
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) Dialect(d Dialect) *SelectBuilder {
	b.dialect = d
	return b
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select table is required")
	}

	var buf strings.Builder
	buf.WriteString("SELECT ")
	buf.WriteString(strings.Join(b.columns, ", "))
	buf.WriteString(" FROM ")
	buf.WriteString(b.table)

	bnd := &binder{dialect: b.dialect}
	appendWhereClause(&buf, b.where, bnd)
	if len(b.orderBy) > 0 {
		buf.WriteString(" ORDER BY ")
		buf.WriteString(strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		buf.WriteString(" LIMIT ")
		buf.WriteString(strconv.Itoa(b.limit))
	}

	return buf.String(), bnd.args, nil
}

type InsertBuilder struct {
	dialect Dialect
	table   string
	columns []string
	rows    [][]any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Dialect(d Dialect) *InsertBuilder {
	b.dialect = d
	return b
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("insert table is required")
	}
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("insert columns are required")
	}
	if len(b.rows) == 0 {
		return "", nil, fmt.Errorf("insert values are required")
	}

	var buf strings.Builder
	buf.WriteString("INSERT INTO ")
	buf.WriteString(b.table)
	buf.WriteString(" (")
	buf.WriteString(strings.Join(b.columns, ", "))
	buf.WriteString(") VALUES ")

	bnd := &binder{dialect: b.dialect, args: make([]any, 0, len(b.rows)*len(b.columns))}
	for rowIdx, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", rowIdx, len(row), len(b.columns))
		}
		if rowIdx > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString("(")
		for colIdx, value := range row {
			if colIdx > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(bnd.bind(value))
		}
		buf.WriteString(")")
	}

	if b.suffix != "" {
		buf.WriteString(" ")
		buf.WriteString(b.suffix)
	}

	return buf.String(), bnd.args, nil
}

type DeleteBuilder struct {
	dialect Dialect
	table   string
	where   []Condition
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (b *DeleteBuilder) Dialect(d Dialect) *DeleteBuilder {
	b.dialect = d
	return b
}

func (b *DeleteBuilder) Where(conditions ...Condition) *DeleteBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *DeleteBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("delete table is required")
	}
	if len(b.where) == 0 {
		return "", nil, fmt.Errorf("delete without where clause is not allowed")
	}

	var buf strings.Builder
	buf.WriteString("DELETE FROM ")
	buf.WriteString(b.table)
	bnd := &binder{dialect: b.dialect}
	appendWhereClause(&buf, b.where, bnd)
	return buf.String(), bnd.args, nil
}

func appendWhereClause(buf *strings.Builder, conditions []Condition, b *binder) {
	if len(conditions) == 0 {
		return
	}
	buf.WriteString(" WHERE ")
	for i, c := range conditions {
		if i > 0 {
			buf.WriteString(" AND ")
		}
		c.appendSQL(buf, b)
	}
}

func rewritePlaceholders(expr string, exprArgs []any, b *binder) string {
	if len(exprArgs) == 0 {
		return expr
	}

	var out strings.Builder
	next := 0
	for i := 0; i < len(expr); i++ {
		if expr[i] == '?' && next < len(exprArgs) {
			out.WriteString(b.bind(exprArgs[next]))
			next++
			continue
		}
		out.WriteByte(expr[i])
	}
	return out.String()
}
