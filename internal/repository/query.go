package repository

import (
	"fmt"
	"strings"
)

// Columns of the properties table that predicates may reference
const (
	ColID            = "id"
	ColTitle         = "title"
	ColLocation      = "location"
	ColCategoryID    = "category_id"
	ColPricePerNight = "price_per_night"
	ColCreatedAt     = "created_at"
)

var propertyColumns = map[string]bool{
	ColID:            true,
	ColTitle:         true,
	ColLocation:      true,
	ColCategoryID:    true,
	ColPricePerNight: true,
	ColCreatedAt:     true,
}

const propertySelectList = `id, title, description, location, category_id, price_per_night,
			main_image_url, owner_id, created_at`

// Op is a comparison operator understood by the properties query builder
type Op string

const (
	OpEq    Op = "="
	OpGte   Op = ">="
	OpLte   Op = "<="
	OpILike Op = "ILIKE" // case-insensitive substring; Value is the raw substring
)

// Predicate is one condition of a PropertyQuery. When more than one
// column is given the comparisons are OR-ed together.
type Predicate struct {
	Columns []string
	Op      Op
	Value   any
}

// PropertyQuery is an unexecuted, conjunctive query over the properties table
type PropertyQuery struct {
	predicates []Predicate
	orderBy    string
	orderDesc  bool
	limit      int
}

// NewPropertyQuery returns an unconstrained query
func NewPropertyQuery() *PropertyQuery {
	return &PropertyQuery{}
}

// Eq adds column = value
func (q *PropertyQuery) Eq(column string, value any) *PropertyQuery {
	return q.add(Predicate{Columns: []string{column}, Op: OpEq, Value: value})
}

// Gte adds column >= value
func (q *PropertyQuery) Gte(column string, value float64) *PropertyQuery {
	return q.add(Predicate{Columns: []string{column}, Op: OpGte, Value: value})
}

// Lte adds column <= value
func (q *PropertyQuery) Lte(column string, value float64) *PropertyQuery {
	return q.add(Predicate{Columns: []string{column}, Op: OpLte, Value: value})
}

// ILike adds a case-insensitive substring match on column
func (q *PropertyQuery) ILike(column, substr string) *PropertyQuery {
	return q.add(Predicate{Columns: []string{column}, Op: OpILike, Value: substr})
}

// AnyILike matches substr case-insensitively against any of columns
func (q *PropertyQuery) AnyILike(columns []string, substr string) *PropertyQuery {
	return q.add(Predicate{Columns: columns, Op: OpILike, Value: substr})
}

// OrderBy sets the result ordering
func (q *PropertyQuery) OrderBy(column string, desc bool) *PropertyQuery {
	q.orderBy = column
	q.orderDesc = desc
	return q
}

// Limit caps the number of rows; zero means no limit
func (q *PropertyQuery) Limit(n int) *PropertyQuery {
	q.limit = n
	return q
}

func (q *PropertyQuery) add(p Predicate) *PropertyQuery {
	q.predicates = append(q.predicates, p)
	return q
}

// Predicates returns a copy of the query's conditions
func (q *PropertyQuery) Predicates() []Predicate {
	out := make([]Predicate, len(q.predicates))
	copy(out, q.predicates)
	return out
}

// Ordering returns the order column and direction
func (q *PropertyQuery) Ordering() (string, bool) {
	return q.orderBy, q.orderDesc
}

// MaxRows returns the row limit, zero when unlimited
func (q *PropertyQuery) MaxRows() int {
	return q.limit
}

// Build renders the query as SQL with positional arguments
func (q *PropertyQuery) Build() (string, []any, error) {
	whereClauses := []string{"1=1"}
	args := []any{}
	argIndex := 1

	for _, p := range q.predicates {
		if len(p.Columns) == 0 {
			return "", nil, fmt.Errorf("predicate %s has no column", p.Op)
		}

		value := p.Value
		if p.Op == OpILike {
			s, ok := value.(string)
			if !ok {
				return "", nil, fmt.Errorf("ILIKE needs a string value, got %T", value)
			}
			value = "%" + escapeLike(s) + "%"
		}

		conds := make([]string, 0, len(p.Columns))
		for _, col := range p.Columns {
			if !propertyColumns[col] {
				return "", nil, fmt.Errorf("unknown properties column %q", col)
			}
			conds = append(conds, fmt.Sprintf("%s %s $%d", col, p.Op, argIndex))
		}
		args = append(args, value)
		argIndex++

		if len(conds) == 1 {
			whereClauses = append(whereClauses, conds[0])
		} else {
			whereClauses = append(whereClauses, "("+strings.Join(conds, " OR ")+")")
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM properties WHERE %s", propertySelectList, strings.Join(whereClauses, " AND "))

	if q.orderBy != "" {
		if !propertyColumns[q.orderBy] {
			return "", nil, fmt.Errorf("unknown properties column %q", q.orderBy)
		}
		dir := "ASC"
		if q.orderDesc {
			dir = "DESC"
		}
		fmt.Fprintf(&sb, " ORDER BY %s %s", q.orderBy, dir)
	}

	if q.limit > 0 {
		fmt.Fprintf(&sb, " LIMIT $%d", argIndex)
		args = append(args, q.limit)
	}

	return sb.String(), args, nil
}

// escapeLike makes LIKE wildcards in user text match literally
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
