//go:build unit

package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webstone-io/webstone/pkg/webstone/werr"
)

func TestBindParams(t *testing.T) {
	tests := []struct {
		name     string
		kinds    []ParamKind
		segments []string
		want     []Param
		wantErr  bool
	}{
		{
			name: "no declared parameters",
		},
		{
			name:     "string parameter",
			kinds:    []ParamKind{ParamString},
			segments: []string{"drafts"},
			want:     []Param{{raw: "drafts", kind: ParamString}},
		},
		{
			name:     "integer parameter",
			kinds:    []ParamKind{ParamInt},
			segments: []string{"42"},
			want:     []Param{{raw: "42", kind: ParamInt, intVal: 42}},
		},
		{
			name:     "mixed parameters",
			kinds:    []ParamKind{ParamInt, ParamString},
			segments: []string{"42", "comments"},
			want: []Param{
				{raw: "42", kind: ParamInt, intVal: 42},
				{raw: "comments", kind: ParamString},
			},
		},
		{
			name:     "too many segments",
			kinds:    []ParamKind{ParamString},
			segments: []string{"a", "b"},
			wantErr:  true,
		},
		{
			name:    "too few segments",
			kinds:   []ParamKind{ParamString, ParamString},
			wantErr: true,
		},
		{
			name:     "undeclared segments",
			segments: []string{"unexpected"},
			wantErr:  true,
		},
		{
			name:     "non-integer where integer declared",
			kinds:    []ParamKind{ParamInt},
			segments: []string{"fortytwo"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, perr := BindParams(tt.kinds, tt.segments)

			if tt.wantErr {
				require.NotNil(t, perr)
				assert.Equal(t, werr.KindBadRequest, perr.Kind)
				assert.Nil(t, params)

				return
			}

			require.Nil(t, perr)
			assert.Equal(t, tt.want, params)
		})
	}
}

func TestParam_Accessors(t *testing.T) {
	params, perr := BindParams([]ParamKind{ParamInt, ParamString}, []string{"7", "tags"})
	require.Nil(t, perr)

	assert.Equal(t, int64(7), params[0].Int())
	assert.Equal(t, "7", params[0].String())
	assert.Equal(t, "tags", params[1].String())
	assert.Equal(t, int64(0), params[1].Int())
}
