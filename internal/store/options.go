// Package store defines storage-layer query options shared by the sqlite
// implementation and the HTTP layer.
package store

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/longbox/longbox-server/internal/errors"
)

// ListOptions composes pagination, filtering, and eager-include directives
// for a list query.
type ListOptions struct {
	// Limit caps the number of rows returned; zero means no cap.
	Limit int
	// Offset skips rows in the entity's canonical sort order.
	Offset int
	// ActiveOnly filters to active rows.
	ActiveOnly bool
	// Name is a case-insensitive substring filter on the entity's name
	// field(s). For authors, a two-token value splits into independent
	// first/last name matches.
	Name string
	// Include lists relations to eager-load, validated against the
	// entity's allow-list.
	Include []string
}

// WithInclude reports whether the given relation was requested.
func (o ListOptions) WithInclude(relation string) bool {
	return slices.Contains(o.Include, relation)
}

// ParseListOptions merges raw query parameters into base options.
//
// Recognized knobs: limit and offset (integers; a non-numeric value is a
// validation error, never a silent default), active (presence filters to
// active rows), name (substring filter), and with<Relation> flags matched
// against allowedIncludes. Unrecognized with* flags are ignored.
func ParseListOptions(base ListOptions, params url.Values, allowedIncludes []string) (ListOptions, error) {
	opts := base

	if v := params.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, errors.Validation("limit: not a number: %q", v)
		}
		opts.Limit = n
	}
	if v := params.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, errors.Validation("offset: not a number: %q", v)
		}
		opts.Offset = n
	}
	if params.Has("active") {
		opts.ActiveOnly = true
	}
	if v := params.Get("name"); v != "" {
		opts.Name = v
	}

	for key := range params {
		rest, ok := strings.CutPrefix(key, "with")
		if !ok || rest == "" {
			continue
		}
		relation := strings.ToLower(rest)
		if !slices.Contains(allowedIncludes, relation) {
			continue
		}
		if !opts.WithInclude(relation) {
			opts.Include = append(opts.Include, relation)
		}
	}

	return opts, nil
}
