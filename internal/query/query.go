// Package query shapes list queries from request parameters.
//
// A Shaper never mutates the handle it was built from: every step returns
// a new Shaper whose handles are independent gorm sessions, so steps may be
// applied in any order and the base query stays reusable.
package query

import (
	"context"
	"math"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	// MaxLimit caps the page size a client can ask for.
	MaxLimit = 100

	defaultSortColumn = "created_at"
)

var schemaCache sync.Map

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type Shaper struct {
	query    *gorm.DB
	filtered *gorm.DB
	params   url.Values
	schema   *schema.Schema
	page     int
	limit    int
}

// New wraps base, which should carry a Model so sort keys can be resolved.
func New(base *gorm.DB, params url.Values) Shaper {
	s := base.Session(&gorm.Session{})

	return Shaper{
		query:    s,
		filtered: s,
		params:   params,
		schema:   parseSchema(base),
		page:     DefaultPage,
		limit:    DefaultLimit,
	}
}

// Search filters rows whose fields contain the search parameter,
// case-insensitively. Fields are ORed. Field names are used as given.
func (s Shaper) Search(fields ...string) Shaper {
	term := strings.TrimSpace(s.params.Get("search"))
	if term == "" || len(fields) == 0 {
		return s
	}

	pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
	conds := make([]string, 0, len(fields))
	args := make([]interface{}, 0, len(fields))
	for _, field := range fields {
		conds = append(conds, "LOWER("+s.query.Statement.Quote(field)+") LIKE ? ESCAPE '\\'")
		args = append(args, pattern)
	}
	where := "(" + strings.Join(conds, " OR ") + ")"

	s.query = s.query.Where(where, args...).Session(&gorm.Session{})
	s.filtered = s.filtered.Where(where, args...).Session(&gorm.Session{})

	return s
}

// Sort orders by sortBy (ascending unless order=desc), falling back to
// newest first when sortBy is absent or names no column of the model.
func (s Shaper) Sort() Shaper {
	column, desc := defaultSortColumn, true
	if sortBy := s.params.Get("sortBy"); sortBy != "" {
		if c, ok := s.column(sortBy); ok {
			column = c
			desc = s.params.Get("order") == "desc"
		}
	}

	q := s.query.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc})
	if pk := s.primaryKey(); pk != "" && pk != column {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: pk}, Desc: desc})
	}
	s.query = q.Session(&gorm.Session{})

	return s
}

// Paginate applies page and limit. Missing, malformed and non-positive
// values fall back to page 1 and limit 10; limit is capped at MaxLimit.
func (s Shaper) Paginate() Shaper {
	s.page = positiveInt(s.params.Get("page"), DefaultPage)
	s.limit = min(positiveInt(s.params.Get("limit"), DefaultLimit), MaxLimit)

	q := s.query.Limit(s.limit)
	if s.page-1 > math.MaxInt/s.limit {
		// Past any addressable row.
		q = q.Where("1 = 0")
	} else {
		q = q.Offset((s.page - 1) * s.limit)
	}
	s.query = q.Session(&gorm.Session{})

	return s
}

// Query is the shaped, unexecuted list query.
func (s Shaper) Query() *gorm.DB { return s.query }

// Count counts the rows matching the filters, ignoring order and paging.
func (s Shaper) Count(ctx context.Context) (int64, error) {
	var total int64
	err := s.filtered.WithContext(ctx).Count(&total).Error

	return total, err
}

func (s Shaper) Page() int  { return s.page }
func (s Shaper) Limit() int { return s.limit }

func (s Shaper) TotalPages(total int64) int {
	if total <= 0 {
		return 0
	}

	limit := int64(s.limit)
	pages := total / limit
	if total%limit != 0 {
		pages++
	}

	return int(pages)
}

func (s Shaper) column(name string) (string, bool) {
	if s.schema == nil {
		return "", false
	}

	for _, f := range s.schema.Fields {
		if f.DBName == "" {
			continue
		}
		if f.DBName == name || strings.EqualFold(f.Name, name) || strings.EqualFold(jsonName(f.Tag), name) {
			return f.DBName, true
		}
	}

	return "", false
}

func (s Shaper) primaryKey() string {
	if s.schema == nil || s.schema.PrioritizedPrimaryField == nil {
		return ""
	}

	return s.schema.PrioritizedPrimaryField.DBName
}

func parseSchema(db *gorm.DB) *schema.Schema {
	if db.Statement == nil || db.Statement.Model == nil {
		return nil
	}

	sch, err := schema.Parse(db.Statement.Model, &schemaCache, db.NamingStrategy)
	if err != nil {
		return nil
	}

	return sch
}

func jsonName(tag reflect.StructTag) string {
	name, _, _ := strings.Cut(tag.Get("json"), ",")
	if name == "-" {
		return ""
	}

	return name
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return fallback
	}

	return n
}
