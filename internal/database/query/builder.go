// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultTable is the fact table queried when none is configured.
const DefaultTable = "global_sales_master"

// detailKey is the fixed grouping key of detail, count and export statements.
const detailKey = "platform, sale_month, region, master_code, master_name"

// detailOrder sorts detail rows. Everything after total_gmv is a tie-break
// so that pages are stable across engines.
const detailOrder = "sale_month ASC, total_gmv DESC, master_code ASC, region ASC, platform ASC, master_name ASC"

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// ValidIdentifier reports whether name is safe to splice into SQL as a
// (optionally schema-qualified) table name.
func ValidIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

// Statement is a parameterized SQL statement. Args[i] binds placeholder $i+1.
type Statement struct {
	SQL  string
	Args []interface{}

	// Dimensions lists the grouped dimensions of an aggregate statement in
	// the order they appear in SELECT, GROUP BY and ORDER BY.
	Dimensions []Dimension
}

// selectBuilder accumulates predicates and their arguments in one pass.
// Placeholders are numbered in the order arguments are bound.
type selectBuilder struct {
	clauses []string
	args    []interface{}
	dims    []Dimension
}

// bind appends v to the argument list and returns its placeholder.
func (sb *selectBuilder) bind(v interface{}) string {
	sb.args = append(sb.args, v)
	return "$" + strconv.Itoa(len(sb.args))
}

// where adds "dim = $k" for p. When group is true the dimension is also
// recorded for SELECT, GROUP BY and ORDER BY.
func (sb *selectBuilder) where(p Predicate, group bool) {
	sb.clauses = append(sb.clauses, p.Dimension.Column()+" = "+sb.bind(p.Value))
	if group {
		sb.dims = append(sb.dims, p.Dimension)
	}
}

// whereSQL returns " WHERE a AND b" or "" when no clause was added.
func (sb *selectBuilder) whereSQL() string {
	if len(sb.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(sb.clauses, " AND ")
}

func (sb *selectBuilder) dimColumns() string {
	cols := make([]string, len(sb.dims))
	for i, d := range sb.dims {
		cols[i] = d.Column()
	}
	return strings.Join(cols, ", ")
}

// Builder turns filter sets into statements against one fact table.
// It holds no per-request state and is safe for concurrent use.
type Builder struct {
	table    string
	defaults Defaults
}

// NewBuilder returns a Builder for table. Defaults apply to detail, count
// and export statements.
func NewBuilder(table string, defaults Defaults) (*Builder, error) {
	if table == "" {
		table = DefaultTable
	}
	if !ValidIdentifier(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	if defaults.Platform == "" || defaults.SaleMonth == "" {
		return nil, fmt.Errorf("default platform and sale_month are required")
	}
	return &Builder{table: table, defaults: defaults}, nil
}

// Table returns the fact table name.
func (b *Builder) Table() string {
	return b.table
}

// Defaults returns the detail defaults.
func (b *Builder) Defaults() Defaults {
	return b.defaults
}

// BuildAggregate groups by every active filter dimension and sums gmv and
// quantity. With no active filter it yields a single whole-table summary row.
func (b *Builder) BuildAggregate(f FilterSet) Statement {
	var sb selectBuilder
	for _, p := range f.Active() {
		sb.where(p, true)
	}

	var q strings.Builder
	q.WriteString("SELECT ")
	if len(sb.dims) > 0 {
		q.WriteString(sb.dimColumns())
		q.WriteString(", ")
	}
	q.WriteString("SUM(gmv) AS total_gmv, CAST(SUM(quantity) AS BIGINT) AS total_quantity, COUNT(*) AS record_count")
	q.WriteString(" FROM ")
	q.WriteString(b.table)
	q.WriteString(sb.whereSQL())
	if len(sb.dims) > 0 {
		cols := sb.dimColumns()
		q.WriteString(" GROUP BY ")
		q.WriteString(cols)
		q.WriteString(" ORDER BY ")
		q.WriteString(cols)
	}

	return Statement{SQL: q.String(), Args: sb.args, Dimensions: sb.dims}
}

// detailWhere binds the detail predicate: platform and sale_month always
// (explicit or default), region when present.
func (b *Builder) detailWhere(f FilterSet) selectBuilder {
	var sb selectBuilder
	for _, p := range f.WithDefaults(b.defaults).Active() {
		sb.where(p, false)
	}
	return sb
}

func (b *Builder) detailSelect(sb *selectBuilder) string {
	return "SELECT " + detailKey +
		", CAST(SUM(quantity) AS BIGINT) AS total_units, SUM(gmv) AS total_gmv FROM " + b.table +
		sb.whereSQL() +
		" GROUP BY " + detailKey +
		" ORDER BY " + detailOrder
}

// BuildDetail returns one page of per-SKU rows. LIMIT and OFFSET are the
// last two arguments.
func (b *Builder) BuildDetail(f FilterSet, limit, offset int) Statement {
	sb := b.detailWhere(f)
	q := b.detailSelect(&sb)
	q += " LIMIT " + sb.bind(limit) + " OFFSET " + sb.bind(offset)
	return Statement{SQL: q, Args: sb.args}
}

// BuildCount counts the detail groups matching f. Its predicate and
// arguments are identical to BuildDetail's minus LIMIT and OFFSET.
func (b *Builder) BuildCount(f FilterSet) Statement {
	sb := b.detailWhere(f)
	q := "SELECT COUNT(*) AS total FROM (SELECT master_code, master_name FROM " + b.table +
		sb.whereSQL() +
		" GROUP BY " + detailKey + ") AS grouped_records"
	return Statement{SQL: q, Args: sb.args}
}

// BuildExport is BuildDetail without LIMIT and OFFSET.
func (b *Builder) BuildExport(f FilterSet) Statement {
	sb := b.detailWhere(f)
	return Statement{SQL: b.detailSelect(&sb), Args: sb.args}
}

// BuildDistinct lists the distinct non-null values of d in ascending order.
func (b *Builder) BuildDistinct(d Dimension) Statement {
	col := d.Column()
	return Statement{
		SQL: "SELECT DISTINCT " + col + " FROM " + b.table +
			" WHERE " + col + " IS NOT NULL ORDER BY " + col,
	}
}
