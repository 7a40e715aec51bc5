package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/Vickmut/v0-haven-craft-website-design/pkg/errors"
)

// ParseQueryInt reads an optional bounded integer parameter.
func ParseQueryInt(r *http.Request, key string, fallback, lo, hi int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, queryError(key, "must be a whole number", nil)
	}
	if n < lo || n > hi {
		return 0, queryError(key, "is out of range", map[string]any{"min": lo, "max": hi})
	}
	return n, nil
}

// ParseQuerySet reads a comma separated parameter such as ?expand=items and
// rejects values outside allowed. Matching is case-insensitive.
func ParseQuerySet(r *http.Request, key string, allowed ...string) (map[string]bool, error) {
	set := map[string]bool{}
	for _, raw := range r.URL.Query()[key] {
		for _, part := range strings.Split(raw, ",") {
			v := strings.ToLower(strings.TrimSpace(part))
			if v == "" {
				continue
			}
			if !contains(allowed, v) {
				return nil, queryError(key, "has an unsupported value", map[string]any{"value": v, "allowed": allowed})
			}
			set[v] = true
		}
	}
	return set, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func queryError(key, problem string, extra map[string]any) error {
	details := map[string]any{"field": key}
	for k, v := range extra {
		details[k] = v
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "query parameter "+key+" "+problem).WithDetails(details)
}
