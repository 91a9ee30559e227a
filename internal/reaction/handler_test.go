package reaction_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/bookspace/handler"
	"github.com/dmitrymomot/bookspace/internal/access"
	"github.com/dmitrymomot/bookspace/internal/reaction"
	"github.com/dmitrymomot/bookspace/internal/resource"
	"github.com/dmitrymomot/bookspace/pkg/binder"
	"github.com/dmitrymomot/bookspace/pkg/jwt"
	"github.com/dmitrymomot/bookspace/pkg/logger"
)

func TestHandler_OnlyAuthorWrites(t *testing.T) {
	t.Parallel()

	tokens, err := jwt.NewFromString("secret")
	require.NoError(t, err)
	authz, err := access.NewAuthorizer(context.Background(), "")
	require.NoError(t, err)
	onError := handler.NewErrorHandler(logger.Discard(),
		handler.Map(binder.ErrInvalidRequest, http.StatusBadRequest, "bad_request"),
		handler.Map(resource.ErrNotFound, http.StatusNotFound, "not_found"),
	)

	repo := reaction.NewMemoryRepository()
	h := reaction.NewHandler(repo, resource.Config[reaction.Reaction]{
		Authz:   authz,
		OnError: onError,
		Logger:  logger.Discard(),
	})
	r := chi.NewRouter()
	r.Use(access.Authenticate(tokens, onError))
	r.Mount("/reactions", h.Routes())

	do := func(t *testing.T, user bson.ObjectID, method, path, body string) *httptest.ResponseRecorder {
		t.Helper()
		tok, err := tokens.Generate(jwt.Claims{StandardClaims: jwt.NewStandardClaims(user.Hex(), time.Hour), Role: "guest"})
		require.NoError(t, err)
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Authorization", "Bearer "+tok)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	author, other := bson.NewObjectID(), bson.NewObjectID()
	own, err := react(t, repo, author, bson.NewObjectID(), "👍")
	require.NoError(t, err)
	path := "/reactions/" + own.ID.Hex()

	t.Run("everyone reads", func(t *testing.T) {
		rec := do(t, other, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = do(t, other, http.MethodGet, "/reactions/", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var page struct {
			Total int64 `json:"total"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
		assert.EqualValues(t, 1, page.Total)
	})

	t.Run("other user gets not found on write", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, do(t, other, http.MethodPatch, path, `{"emoji":"👎"}`).Code)
		assert.Equal(t, http.StatusNotFound, do(t, other, http.MethodDelete, path, "").Code)

		stored, err := repo.Get(context.Background(), own.ID)
		require.NoError(t, err)
		assert.Equal(t, "👍", stored.Emoji)
	})

	t.Run("author edits and removes", func(t *testing.T) {
		rec := do(t, author, http.MethodPatch, path, `{"emoji":"🎉"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		stored, err := repo.Get(context.Background(), own.ID)
		require.NoError(t, err)
		assert.Equal(t, "🎉", stored.Emoji)

		assert.Equal(t, http.StatusNoContent, do(t, author, http.MethodDelete, path, "").Code)
	})
}
