//go:build unit

package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Add(t *testing.T) {
	tests := []struct {
		name    string
		routes  []*Route
		wantErr bool
	}{
		{
			name: "valid distinct routes",
			routes: []*Route{
				{Path: "/profile", Get: &fakeGetHandler{}},
				{Path: "/settings", Post: &fakePostHandler{}},
			},
		},
		{
			name: "path without leading slash",
			routes: []*Route{
				{Path: "profile", Get: &fakeGetHandler{}},
			},
			wantErr: true,
		},
		{
			name: "empty path",
			routes: []*Route{
				{Path: "", Get: &fakeGetHandler{}},
			},
			wantErr: true,
		},
		{
			name: "route without any handler",
			routes: []*Route{
				{Path: "/profile"},
			},
			wantErr: true,
		},
		{
			name: "duplicate path",
			routes: []*Route{
				{Path: "/profile", Get: &fakeGetHandler{}},
				{Path: "/profile", Post: &fakePostHandler{}},
			},
			wantErr: true,
		},
		{
			name: "prefix overlap",
			routes: []*Route{
				{Path: "/articles", Get: &fakeGetHandler{}},
				{Path: "/articles/drafts", Get: &fakeGetHandler{}},
			},
			wantErr: true,
		},
		{
			name: "root path is exempt from the prefix rule",
			routes: []*Route{
				{Path: "/", Get: &fakeGetHandler{}},
				{Path: "/about", Get: &fakeGetHandler{}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder()
			for _, rt := range tt.routes {
				b.Add(rt)
			}

			table, err := b.Build()

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, table)

				return
			}

			require.NoError(t, err)
			assert.Len(t, table.Routes(), len(tt.routes))
		})
	}
}
