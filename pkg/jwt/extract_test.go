package jwt_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bookspace/pkg/jwt"
)

func TestChainExtractors(t *testing.T) {
	t.Parallel()

	extract := jwt.ChainExtractors(
		jwt.QueryTokenExtractor(jwt.TokenQueryParam),
		jwt.HeaderTokenExtractor(jwt.AuthTokenHeader),
		jwt.BearerTokenExtractor,
	)

	tests := []struct {
		name    string
		query   string
		headers map[string]string
		want    string
		wantErr error
	}{
		{
			name:    "query wins over headers",
			query:   "?token=from-query",
			headers: map[string]string{jwt.AuthTokenHeader: "from-header", "Authorization": "Bearer from-auth"},
			want:    "from-query",
		},
		{
			name:    "custom header wins over authorization",
			headers: map[string]string{jwt.AuthTokenHeader: "Bearer from-header", "Authorization": "Bearer from-auth"},
			want:    "from-header",
		},
		{
			name:    "authorization with lowercase scheme",
			headers: map[string]string{"Authorization": "bearer from-auth"},
			want:    "from-auth",
		},
		{
			name:    "authorization without scheme",
			headers: map[string]string{"Authorization": "raw-token"},
			want:    "raw-token",
		},
		{
			name:    "scheme only",
			headers: map[string]string{"Authorization": "Bearer "},
			wantErr: jwt.ErrMissingToken,
		},
		{
			name:    "nothing",
			wantErr: jwt.ErrMissingToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ws"+tt.query, nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			got, err := extract(req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
