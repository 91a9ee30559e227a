package message_test

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
	"github.com/dmitrymomot/bookspace/internal/message"
	"github.com/dmitrymomot/bookspace/internal/notification"
	"github.com/dmitrymomot/bookspace/internal/realtime"
	"github.com/dmitrymomot/bookspace/internal/resource"
	"github.com/dmitrymomot/bookspace/pkg/binder"
	"github.com/dmitrymomot/bookspace/pkg/jwt"
	"github.com/dmitrymomot/bookspace/pkg/logger"
	"github.com/dmitrymomot/bookspace/pkg/pagination"
	"github.com/dmitrymomot/bookspace/pkg/validator"
)

func asUser(id bson.ObjectID) context.Context {
	return jwt.SetClaims(context.Background(), jwt.Claims{
		StandardClaims: jwt.NewStandardClaims(id.Hex(), time.Hour),
		Role:           "guest",
	})
}

func TestCreateRequest_Validate(t *testing.T) {
	t.Parallel()

	valid := message.CreateRequest{
		Conversation: bson.NewObjectID().Hex(),
		Recipient:    bson.NewObjectID().Hex(),
		Body:         "See you at 6",
		Attachments:  []string{"https://cdn.example.com/a.png", "/uploads/b.pdf"},
	}
	assert.NoError(t, valid.Validate())

	err := message.CreateRequest{Conversation: "nope", Body: " ", Attachments: []string{"ftp://x"}}.Validate()
	require.ErrorIs(t, err, validator.ErrValidationFailed)
	assert.ElementsMatch(t, []string{"conversation", "recipient", "body", "attachments"},
		validator.ExtractValidationErrors(err).Fields())

	tooMany := valid
	tooMany.Attachments = make([]string, 11)
	for i := range tooMany.Attachments {
		tooMany.Attachments[i] = "/uploads/x"
	}
	assert.True(t, validator.ExtractValidationErrors(tooMany.Validate()).Has("attachments"))
}

func TestCreateRequest_BuildSetsSender(t *testing.T) {
	t.Parallel()

	sender, recipient := bson.NewObjectID(), bson.NewObjectID()
	req := message.CreateRequest{
		Conversation: bson.NewObjectID().Hex(),
		Recipient:    recipient.Hex(),
		Body:         "hi",
	}

	m, err := req.Build(asUser(sender))
	require.NoError(t, err)
	assert.Equal(t, sender, m.Sender)
	assert.Equal(t, recipient, m.Recipient)
	assert.NotNil(t, m.Attachments)
	assert.False(t, m.IsRead)

	_, err = req.Build(context.Background())
	assert.ErrorIs(t, err, access.ErrNoSubject)
	assert.ErrorIs(t, err, handler.ErrUnauthorized)
}

func TestUpdateRequest(t *testing.T) {
	t.Parallel()

	blank := " "
	assert.Error(t, message.UpdateRequest{Body: &blank}.Validate())
	assert.NoError(t, message.UpdateRequest{}.Validate())

	m := &message.Message{Body: "draft"}
	read := true
	message.UpdateRequest{IsRead: &read}.Apply(m)
	assert.True(t, m.IsRead)
	assert.Equal(t, "draft", m.Body)
}

func TestListQuery_Filter(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := message.NewMemoryRepository()
	conv := bson.NewObjectID()
	alice, bob := bson.NewObjectID(), bson.NewObjectID()
	for _, m := range []*message.Message{
		{Conversation: conv, Sender: alice, Recipient: bob, Body: "1"},
		{Conversation: conv, Sender: bob, Recipient: alice, Body: "2"},
		{Conversation: bson.NewObjectID(), Sender: alice, Recipient: bob, Body: "3"},
	} {
		require.NoError(t, repo.Create(ctx, m))
	}

	tests := []struct {
		name  string
		query message.ListQuery
		want  int64
	}{
		{name: "all", query: message.ListQuery{}, want: 3},
		{name: "conversation", query: message.ListQuery{Conversation: conv.Hex()}, want: 2},
		{name: "sender", query: message.ListQuery{Sender: alice.Hex()}, want: 2},
		{name: "conversation and recipient", query: message.ListQuery{Conversation: conv.Hex(), Recipient: alice.Hex()}, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := tt.query.Filter()
			require.NoError(t, err)
			page, err := repo.List(ctx, f, pagination.Default())
			require.NoError(t, err)
			assert.EqualValues(t, tt.want, page.Total)
		})
	}

	_, err := message.ListQuery{Sender: "bad"}.Filter()
	assert.True(t, validator.ExtractValidationErrors(err).Has("sender"))
}

func TestSoftDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := message.NewMemoryRepository()
	m := &message.Message{Conversation: bson.NewObjectID(), Body: "bye"}
	require.NoError(t, repo.Create(ctx, m))
	require.NoError(t, repo.Delete(ctx, m.ID))

	_, err := repo.Get(ctx, m.ID)
	assert.ErrorIs(t, err, resource.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, m.ID), resource.ErrNotFound)
}

type recordingDispatcher struct {
	params    []notification.CreateParams
	sendEmail []bool
}

func (d *recordingDispatcher) Dispatch(_ context.Context, p notification.CreateParams, sendEmail bool) notification.Result {
	d.params = append(d.params, p)
	d.sendEmail = append(d.sendEmail, sendEmail)
	return notification.Result{Success: true}
}

func TestNotifyRecipient(t *testing.T) {
	t.Parallel()

	d := &recordingDispatcher{}
	m := &message.Message{
		Base:      resource.Base{ID: bson.NewObjectID()},
		Recipient: bson.NewObjectID(),
		Body:      strings.Repeat("é", 300),
	}
	message.NotifyRecipient(d)(context.Background(), m)

	require.Len(t, d.params, 1)
	p := d.params[0]
	assert.False(t, d.sendEmail[0])
	assert.Equal(t, m.Recipient, p.UserID)
	assert.Equal(t, notification.CategoryMessage, p.Type)
	assert.Equal(t, &notification.TargetRef{Kind: notification.TargetMessage, ID: m.ID}, p.Target)
	assert.Equal(t, "/messages/"+m.ID.Hex(), p.Link)
	assert.Equal(t, 140, len([]rune(p.Message)))
	assert.NoError(t, p.Validate())
}

func TestHandler_CreateNotifiesRecipient(t *testing.T) {
	t.Parallel()

	tokens, err := jwt.NewFromString("secret")
	require.NoError(t, err)
	authz, err := access.NewAuthorizer(context.Background(), "")
	require.NoError(t, err)
	onError := handler.NewErrorHandler(logger.Discard(),
		handler.Map(binder.ErrInvalidRequest, http.StatusBadRequest, "bad_request"),
		handler.Map(resource.ErrNotFound, http.StatusNotFound, "not_found"),
	)

	store := notification.NewMemoryStore()
	registry := realtime.NewMemoryRegistry(realtime.WithRegistryLogger(logger.Discard()))
	dispatcher := notification.NewDispatcher(store, registry, notification.WithLogger(logger.Discard()))

	h := message.NewHandler(message.NewMemoryRepository(), resource.Config[message.Message]{
		Authz:       authz,
		OnError:     onError,
		Logger:      logger.Discard(),
		AfterCreate: message.NotifyRecipient(dispatcher),
	})
	r := chi.NewRouter()
	r.Use(access.Authenticate(tokens, onError))
	r.Mount("/messages", h.Routes())

	sender, recipient := bson.NewObjectID(), bson.NewObjectID()
	tok, err := tokens.Generate(jwt.Claims{StandardClaims: jwt.NewStandardClaims(sender.Hex(), time.Hour), Role: "guest"})
	require.NoError(t, err)

	body := `{"conversation":"` + bson.NewObjectID().Hex() + `","recipient":"` + recipient.Hex() + `","body":"Room 4 is ready"}`
	req := httptest.NewRequest(http.MethodPost, "/messages/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID     string `json:"id"`
		Sender string `json:"sender"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, sender.Hex(), created.Sender)

	page, err := store.ListForUser(context.Background(), recipient, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	n := page.Items[0]
	assert.Equal(t, notification.CategoryMessage, n.Type)
	assert.Equal(t, "Room 4 is ready", n.Message)
	assert.Equal(t, "/messages/"+created.ID, n.Link)
}

func TestHandler_ScopesToParticipants(t *testing.T) {
	t.Parallel()

	tokens, err := jwt.NewFromString("secret")
	require.NoError(t, err)
	authz, err := access.NewAuthorizer(context.Background(), "")
	require.NoError(t, err)
	onError := handler.NewErrorHandler(logger.Discard(),
		handler.Map(binder.ErrInvalidRequest, http.StatusBadRequest, "bad_request"),
		handler.Map(resource.ErrNotFound, http.StatusNotFound, "not_found"),
	)

	repo := message.NewMemoryRepository()
	h := message.NewHandler(repo, resource.Config[message.Message]{
		Authz:   authz,
		OnError: onError,
		Logger:  logger.Discard(),
	})
	r := chi.NewRouter()
	r.Use(access.Authenticate(tokens, onError))
	r.Mount("/messages", h.Routes())

	sender, recipient, outsider := bson.NewObjectID(), bson.NewObjectID(), bson.NewObjectID()
	msg := &message.Message{
		Conversation: bson.NewObjectID(),
		Sender:       sender,
		Recipient:    recipient,
		Body:         "see you at 6",
		Attachments:  []string{},
	}
	require.NoError(t, repo.Create(context.Background(), msg))
	require.NoError(t, repo.Create(context.Background(), &message.Message{
		Conversation: bson.NewObjectID(),
		Sender:       outsider,
		Recipient:    bson.NewObjectID(),
		Body:         "unrelated",
		Attachments:  []string{},
	}))

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
	listed := func(t *testing.T, user bson.ObjectID) []string {
		t.Helper()
		rec := do(t, user, http.MethodGet, "/messages/", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var page struct {
			Items []struct {
				Body string `json:"body"`
			} `json:"items"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
		bodies := make([]string, 0, len(page.Items))
		for _, it := range page.Items {
			bodies = append(bodies, it.Body)
		}
		return bodies
	}
	path := "/messages/" + msg.ID.Hex()

	t.Run("list shows only own conversations", func(t *testing.T) {
		assert.Equal(t, []string{"see you at 6"}, listed(t, sender))
		assert.Equal(t, []string{"see you at 6"}, listed(t, recipient))
		assert.Equal(t, []string{"unrelated"}, listed(t, outsider))
	})

	t.Run("other user gets not found", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, do(t, outsider, http.MethodGet, path, "").Code)
		assert.Equal(t, http.StatusNotFound, do(t, outsider, http.MethodPatch, path, `{"body":"hijacked"}`).Code)
		assert.Equal(t, http.StatusNotFound, do(t, outsider, http.MethodDelete, path, "").Code)

		stored, err := repo.Get(context.Background(), msg.ID)
		require.NoError(t, err)
		assert.Equal(t, "see you at 6", stored.Body)
	})

	t.Run("participants split edit rights", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, do(t, recipient, http.MethodGet, path, "").Code)
		assert.Equal(t, http.StatusBadRequest, do(t, recipient, http.MethodPatch, path, `{"body":"rewritten"}`).Code)
		assert.Equal(t, http.StatusBadRequest, do(t, sender, http.MethodPatch, path, `{"is_read":true}`).Code)

		rec := do(t, recipient, http.MethodPatch, path, `{"is_read":true}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		rec = do(t, sender, http.MethodPatch, path, `{"body":"see you at 7"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		stored, err := repo.Get(context.Background(), msg.ID)
		require.NoError(t, err)
		assert.Equal(t, "see you at 7", stored.Body)
		assert.True(t, stored.IsRead)
	})

	t.Run("sender deletes", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, do(t, sender, http.MethodDelete, path, "").Code)
		assert.Equal(t, http.StatusNotFound, do(t, recipient, http.MethodGet, path, "").Code)
	})
}
