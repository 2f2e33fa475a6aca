// Package search assembles the parameterized property search statement.
//
// Filters are appended in a fixed order (owner, city, minimum price, maximum
// price) and bound positionally; the minimum rating filter goes into HAVING
// after grouping.
package search

import (
	"fmt"
	"math"
	"strings"

	"lightbnb/internal/domain"
)

// PropertyColumns is the select list shared by every statement that returns a
// domain.Property. Scanners depend on this order.
const PropertyColumns = `p.id, p.owner_id, p.title, p.description, p.thumbnail_photo_url, p.cover_photo_url,
  p.cost_per_night, p.parking_spaces, p.number_of_bathrooms, p.number_of_bedrooms,
  p.country, p.street, p.city, p.province, p.post_code, p.active`

// Query is statement text plus its positional arguments.
type Query struct {
	SQL  string
	Args []any
}

type builder struct {
	d            Dialect
	sb           strings.Builder
	args         []any
	hasPredicate bool
}

func (b *builder) bind(v any) string {
	b.args = append(b.args, v)
	return b.d.placeholder(len(b.args))
}

// where appends a WHERE predicate; the keyword depends on hasPredicate, never
// on how many arguments were bound so far.
func (b *builder) where(cond string) {
	kw := "WHERE"
	if b.hasPredicate {
		kw = "AND"
	}
	fmt.Fprintf(&b.sb, "\n%s %s", kw, cond)
	b.hasPredicate = true
}

// Build returns the search statement for opts. A non-positive limit becomes
// domain.DefaultSearchLimit.
func Build(d Dialect, opts domain.SearchOptions, limit int) Query {
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}
	b := &builder{d: d}

	fmt.Fprintf(&b.sb, "SELECT %s,\n  %s AS average_rating\nFROM properties p\nLEFT JOIN property_reviews r ON r.property_id = p.id",
		PropertyColumns, d.averageRating())

	if opts.OwnerID != nil {
		b.where("p.owner_id = " + b.bind(*opts.OwnerID))
	}
	if opts.City != nil {
		b.where(d.containsCaseSensitive("p.city", b.bind("%"+*opts.City+"%")))
	}
	if opts.MinimumPricePerNight != nil {
		b.where("p.cost_per_night >= " + b.bind(ToMinorUnits(*opts.MinimumPricePerNight)))
	}
	if opts.MaximumPricePerNight != nil {
		b.where("p.cost_per_night <= " + b.bind(ToMinorUnits(*opts.MaximumPricePerNight)))
	}

	b.sb.WriteString("\nGROUP BY p.id")

	// Properties without reviews have a NULL average and drop out here.
	if opts.MinimumRating != nil {
		fmt.Fprintf(&b.sb, "\nHAVING %s >= %s", d.averageRating(), b.bind(*opts.MinimumRating))
	}

	b.sb.WriteString("\nORDER BY p.cost_per_night ASC, p.id ASC")
	b.sb.WriteString("\nLIMIT " + b.bind(limit))

	return Query{SQL: b.sb.String(), Args: b.args}
}

// ToMinorUnits converts a major currency amount to cents. Amounts outside the
// int64 range saturate; NaN becomes 0.
func ToMinorUnits(major float64) int64 {
	v := math.Round(major * 100)
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt64: // float64(MaxInt64) is 2^63, already out of range
		return math.MaxInt64
	case v <= math.MinInt64:
		return math.MinInt64
	}
	return int64(v)
}
