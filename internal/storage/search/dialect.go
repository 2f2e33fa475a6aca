package search

import "strconv"

// Dialect covers the few places where MySQL and PostgreSQL disagree on the
// search statement text.
type Dialect int

const (
	MySQL Dialect = iota
	Postgres
)

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "mysql"
}

// placeholder returns the marker for the n-th (1-based) bound argument.
func (d Dialect) placeholder(n int) string {
	if d == Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// containsCaseSensitive matches col against a %...% pattern without case
// folding. MySQL's default collations are case-insensitive, so force a binary one.
func (d Dialect) containsCaseSensitive(col, ph string) string {
	if d == Postgres {
		return col + " LIKE " + ph
	}
	return col + " COLLATE utf8mb4_bin LIKE " + ph
}

// averageRating is the aggregate used in both SELECT and HAVING. Postgres AVG
// over integers yields numeric; cast so drivers scan it into float64.
func (d Dialect) averageRating() string {
	if d == Postgres {
		return "AVG(r.rating)::float8"
	}
	return "AVG(r.rating)"
}
