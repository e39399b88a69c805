package shared

import (
	"net/http"
	"strconv"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 500
)

// Pagination carries offset/limit parsed from a request.
type Pagination struct {
	Offset int
	Limit  int
}

// ParsePagination reads skip/limit query parameters with sane bounds.
func ParsePagination(r *http.Request) Pagination {
	p := Pagination{Limit: defaultPageLimit}
	if raw := r.URL.Query().Get("skip"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			p.Offset = v
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			p.Limit = v
		}
	}
	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
	}
	return p
}
