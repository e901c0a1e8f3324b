package httpapi

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/taxiikeeper/internal/common"
	"github.com/dmitrijs2005/taxiikeeper/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTokens(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitTokens([]string{"a,b", " c ", ",,"}))
	assert.Nil(t, splitTokens(nil))
}

func TestParseSpec(t *testing.T) {
	after := time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		target  string
		want    *query.Spec
		wantErr error
	}{
		{
			name:   "defaults",
			target: "/x",
			want:   &query.Spec{CollectionID: "c", Limit: 50},
		},
		{
			name:   "all parameters",
			target: "/x?limit=10&next=3&added_after=2020-03-01T00:00:00.000Z&match[id]=a,b&match[type]=malware&match[version]=first,last&match[spec_version]=2.0,2.1&ignored=1",
			want: &query.Spec{
				CollectionID: "c",
				Limit:        10,
				Next:         3,
				AddedAfter:   &after,
				Match: query.Match{
					ID:          []string{"a", "b"},
					Type:        []string{"malware"},
					Version:     []string{"first", "last"},
					SpecVersion: []string{"2.0", "2.1"},
				},
			},
		},
		{
			name:   "repeated parameters",
			target: "/x?match[type]=malware&match[type]=tool",
			want:   &query.Spec{CollectionID: "c", Limit: 50, Match: query.Match{Type: []string{"malware", "tool"}}},
		},
		{name: "limit capped", target: "/x?limit=500", want: &query.Spec{CollectionID: "c", Limit: 50}},
		{name: "zero limit", target: "/x?limit=0", wantErr: common.ErrInvalidArgument},
		{name: "negative next", target: "/x?next=-2", wantErr: common.ErrInvalidArgument},
		{name: "bad added_after", target: "/x?added_after=2020-13-01", wantErr: common.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSpec(httptest.NewRequest("GET", tt.target, nil), "c", "", 50)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
