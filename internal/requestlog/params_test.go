package requestlog

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequestParams_JSONBody(t *testing.T) {
	t.Parallel()

	oversized := `{"name":"` + strings.Repeat("a", maxJSONBody) + `","password":"secret"}`

	tests := []struct {
		name string
		body string
		want map[string]any
	}{
		{
			name: "small_body_merged_over_query",
			body: `{"name":"bob","page":3}`,
			want: map[string]any{"user_id": "1", "name": "bob", "page": 3.0},
		},
		{
			name: "invalid_json_ignored",
			body: `{"name":`,
			want: map[string]any{"user_id": "1", "name": "query", "page": "2"},
		},
		{
			name: "oversized_body_skipped",
			body: oversized,
			want: map[string]any{"user_id": "1", "name": "query", "page": "2"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest(http.MethodPost, "/users/1?name=query&page=2", strings.NewReader(tc.body))
			r.Header.Set("Content-Type", "application/json")

			params := requestParams(r, map[string]string{"user_id": "1"})
			require.Equal(t, tc.want, params)

			rest, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			require.Equal(t, tc.body, string(rest), "body must reach the handler unchanged")
			require.NoError(t, r.Body.Close())
		})
	}
}

func TestMergeValues(t *testing.T) {
	t.Parallel()

	dst := map[string]any{"keep": "x", "page": "1"}
	mergeValues(dst, map[string][]string{"page": {"2"}, "tag": {"a", "b"}, "empty": {}})
	require.Equal(t, map[string]any{"keep": "x", "page": "2", "tag": []string{"a", "b"}}, dst)
}
