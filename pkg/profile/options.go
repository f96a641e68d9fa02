package profile

import (
	"net/url"
	"strconv"
)

// SortField selects the key repositories are ordered by.
type SortField string

// Supported sort fields.
const (
	SortFullName SortField = "full_name"
	SortPushed   SortField = "pushed"
)

// Direction is the sort direction.
type Direction string

// Supported directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// DefaultPerPage is the page size used when per_page is absent.
const DefaultPerPage = 30

// ListOptions is the sort and pagination window for a repository listing.
type ListOptions struct {
	Sort      SortField
	Direction Direction
	PerPage   int
	Page      int
}

// DefaultDirection returns the direction the REST API applies when none is given.
func (f SortField) DefaultDirection() Direction {
	if f == SortPushed {
		return Desc
	}
	return Asc
}

// DefaultListOptions returns the options used for a listing with no query parameters.
func DefaultListOptions() ListOptions {
	return ListOptions{Sort: SortFullName, Direction: Asc, PerPage: DefaultPerPage, Page: 1}
}

// Window returns the [start, end) slice bounds for a listing of n entries.
// A page past the end yields the empty window [n, n).
func (o ListOptions) Window(n int) (start, end int) {
	if o.PerPage < 1 || o.Page < 1 || o.Page-1 > n/o.PerPage {
		return n, n
	}
	start = min((o.Page-1)*o.PerPage, n)
	end = start + min(o.PerPage, n-start)
	return start, end
}

// ParseListOptions reads per_page, page, sort and direction from a query string.
// The returned error is a *ParamError.
func ParseListOptions(q url.Values) (ListOptions, error) {
	opts := DefaultListOptions()

	var err error
	if opts.PerPage, err = positiveInt(q, "per_page", DefaultPerPage); err != nil {
		return opts, err
	}
	if opts.Page, err = positiveInt(q, "page", 1); err != nil {
		return opts, err
	}

	if s := q.Get("sort"); s != "" {
		opts.Sort = SortField(s)
	}
	if opts.Sort != SortFullName && opts.Sort != SortPushed {
		return opts, &ParamError{Param: "sort", Message: "Invalid sort parameter. Use 'full_name' or 'pushed'."}
	}

	opts.Direction = opts.Sort.DefaultDirection()
	if d := q.Get("direction"); d != "" {
		opts.Direction = Direction(d)
	}
	if opts.Direction != Asc && opts.Direction != Desc {
		return opts, &ParamError{Param: "direction", Message: "Invalid direction parameter. Use 'asc' or 'desc'."}
	}

	return opts, nil
}

func positiveInt(q url.Values, name string, def int) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, &ParamError{Param: name, Message: "Invalid " + name + " parameter. Use a positive integer."}
	}
	return n, nil
}
