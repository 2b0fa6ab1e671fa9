// internal/utils/pagination.go
package utils

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	DefaultPerPage = 15
	MaxPerPage     = 100
)

type SortField struct {
	Key   string `json:"key"`
	Order string `json:"order"`
}

// ListQuery is the parsed query string of a list endpoint.
type ListQuery struct {
	Page     int
	PerPage  int
	Sort     []SortField
	Search   string
	DateFrom string
	DateTo   string
	Filters  map[string]string
}

// Page is the pagination envelope returned under "data".
type Page struct {
	Data        interface{} `json:"data"`
	CurrentPage int         `json:"current_page"`
	LastPage    int         `json:"last_page"`
	PerPage     int         `json:"per_page"`
	Total       int64       `json:"total"`
}

var reservedParams = map[string]bool{
	"page": true, "per_page": true, "limit": true, "sortBy": true, "sortOrder": true,
	"sort": true, "search": true, "date_from": true, "date_to": true,
}

func GetListQuery(c *gin.Context) ListQuery {
	return ParseListQuery(c.Request.URL.Query())
}

// ParseListQuery reads page, per_page (alias limit), sortBy/sortOrder or a
// JSON sort object or array, search, date_from/date_to and any other
// parameter as an equality filter candidate.
func ParseListQuery(values url.Values) ListQuery {
	q := ListQuery{
		Page:     atoiDefault(values.Get("page"), 1),
		PerPage:  DefaultPerPage,
		Search:   strings.TrimSpace(values.Get("search")),
		DateFrom: values.Get("date_from"),
		DateTo:   values.Get("date_to"),
		Filters:  map[string]string{},
	}
	if q.Page < 1 {
		q.Page = 1
	}

	perPage := values.Get("per_page")
	if perPage == "" {
		perPage = values.Get("limit")
	}
	if n := atoiDefault(perPage, DefaultPerPage); n >= 1 {
		q.PerPage = n
	}
	if q.PerPage > MaxPerPage {
		q.PerPage = MaxPerPage
	}

	q.Sort = parseSort(values)

	for key, vals := range values {
		if reservedParams[key] || len(vals) == 0 || vals[0] == "" {
			continue
		}
		q.Filters[key] = vals[0]
	}
	return q
}

func parseSort(values url.Values) []SortField {
	if raw := strings.TrimSpace(values.Get("sort")); raw != "" {
		if fields := decodeSort(raw); len(fields) > 0 {
			return fields
		}
	}

	sortBy := strings.TrimSpace(values.Get("sortBy"))
	if sortBy == "" {
		return nil
	}
	if strings.HasPrefix(sortBy, "[") || strings.HasPrefix(sortBy, "{") {
		return decodeSort(sortBy)
	}
	return []SortField{{Key: sortBy, Order: normalizeOrder(values.Get("sortOrder"))}}
}

func decodeSort(raw string) []SortField {
	var fields []SortField
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &fields); err != nil {
			return nil
		}
	} else {
		var one SortField
		if err := json.Unmarshal([]byte(raw), &one); err != nil {
			return nil
		}
		fields = []SortField{one}
	}

	out := fields[:0]
	for _, f := range fields {
		if f.Key == "" {
			continue
		}
		f.Order = normalizeOrder(f.Order)
		out = append(out, f)
	}
	return out
}

func normalizeOrder(order string) string {
	if strings.EqualFold(order, "asc") {
		return "asc"
	}
	return "desc"
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.PerPage
}

func ApplyPagination(db *gorm.DB, q ListQuery) *gorm.DB {
	return db.Offset(q.Offset()).Limit(q.PerPage)
}

// ApplySort orders by the requested keys that appear in allowed (key to
// column). Unknown keys are ignored; with nothing usable it falls back to
// fallback.
func ApplySort(db *gorm.DB, q ListQuery, allowed map[string]string, fallback string) *gorm.DB {
	applied := false
	for _, f := range q.Sort {
		column, ok := allowed[f.Key]
		if !ok {
			continue
		}
		db = db.Order(column + " " + f.Order)
		applied = true
	}
	if !applied && fallback != "" {
		db = db.Order(fallback)
	}
	return db
}

func NewPage(data interface{}, total int64, q ListQuery) Page {
	lastPage := int((total + int64(q.PerPage) - 1) / int64(q.PerPage))
	if lastPage < 1 {
		lastPage = 1
	}
	return Page{
		Data:        data,
		CurrentPage: q.Page,
		LastPage:    lastPage,
		PerPage:     q.PerPage,
		Total:       total,
	}
}

// EmptyPage is the envelope for a scope that matches nothing.
func EmptyPage(q ListQuery) Page {
	return NewPage([]interface{}{}, 0, q)
}

func SetPaginationHeaders(c *gin.Context, page Page) {
	c.Header("X-Total-Count", strconv.FormatInt(page.Total, 10))
	c.Header("X-Page", strconv.Itoa(page.CurrentPage))
	c.Header("X-Per-Page", strconv.Itoa(page.PerPage))
	c.Header("X-Total-Pages", strconv.Itoa(page.LastPage))
}
