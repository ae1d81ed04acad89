package handler

import (
	"strconv"

	"github.com/webstone-io/webstone/pkg/webstone/werr"
)

// ParamKind declares the expected type of a bound URL path segment.
type ParamKind int

const (
	// ParamString accepts any segment value.
	ParamString ParamKind = iota
	// ParamInt requires the segment to parse as a base-10 integer.
	ParamInt
)

// Param is one bound URL path segment.
type Param struct {
	raw    string
	kind   ParamKind
	intVal int64
}

// String returns the raw segment value.
func (p Param) String() string { return p.raw }

// Int returns the parsed integer value. Zero unless the parameter was
// declared as ParamInt.
func (p Param) Int() int64 { return p.intVal }

// BindParams binds raw path segments against the declared kinds. Wrong
// arity or a non-integer where an integer was declared fails as BadRequest
// before any handler runs.
func BindParams(kinds []ParamKind, segments []string) ([]Param, *werr.Error) {
	// Check arity
	if len(segments) != len(kinds) {
		return nil, werr.BadRequest(nil, "unexpected number of path parameters")
	}

	if len(kinds) == 0 {
		return nil, nil
	}

	params := make([]Param, 0, len(kinds))

	for i, kind := range kinds {
		p := Param{raw: segments[i], kind: kind}

		if kind == ParamInt {
			v, err := strconv.ParseInt(segments[i], 10, 64)
			// Check error
			if err != nil {
				return nil, werr.BadRequest(err, "malformed integer path parameter")
			}

			p.intVal = v
		}

		params = append(params, p)
	}

	return params, nil
}
