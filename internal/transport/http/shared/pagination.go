package shared

import (
	"net/http"
	"strconv"
)

// ParseLimit reads the "limit" query parameter, falling back to def and
// clamping to max. Listings here are small enough that offset paging has
// never been needed.
func ParseLimit(r *http.Request, def, max int) int {
	limit := def
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if max > 0 && limit > max {
		limit = max
	}
	return limit
}
