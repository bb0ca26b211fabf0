package products

import (
	"net/url"
	"strconv"
	"strings"

	pkgerrors "github.com/migapan/storefront-backend/pkg/errors"
)

// ActiveFilter selects products by their active flag.
type ActiveFilter int

const (
	ActiveOnly ActiveFilter = iota
	InactiveOnly
	AnyActive
)

// ListFilters describe the supported filter knobs for the catalog endpoint.
type ListFilters struct {
	CategorySlug string
	CategoryID   *uint64
	Search       string
	FeaturedOnly bool
	Active       ActiveFilter
}

// ParseListFilters reads ?categoria&busqueda&destacados&activo.
// categoria accepts a slug or a numeric id.
func ParseListFilters(q url.Values) (ListFilters, error) {
	var f ListFilters

	if raw := strings.TrimSpace(q.Get("categoria")); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			f.CategoryID = &id
		} else {
			f.CategorySlug = strings.ToLower(raw)
		}
	}
	f.Search = strings.TrimSpace(q.Get("busqueda"))

	if raw := strings.TrimSpace(q.Get("destacados")); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			return f, pkgerrors.New(pkgerrors.CodeValidation, "destacados must be true or false")
		}
		f.FeaturedOnly = featured
	}

	switch raw := strings.ToLower(strings.TrimSpace(q.Get("activo"))); raw {
	case "", "true", "1":
		f.Active = ActiveOnly
	case "false", "0":
		f.Active = InactiveOnly
	case "all", "todos":
		f.Active = AnyActive
	default:
		return f, pkgerrors.New(pkgerrors.CodeValidation, "activo must be true, false or all")
	}
	return f, nil
}
