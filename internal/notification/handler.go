package notification

import (
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/bookspace/handler"
	"github.com/dmitrymomot/bookspace/internal/access"
	"github.com/dmitrymomot/bookspace/pkg/binder"
	"github.com/dmitrymomot/bookspace/pkg/pagination"
	"github.com/dmitrymomot/bookspace/pkg/rbac"
	"github.com/dmitrymomot/bookspace/pkg/validator"
)

// Handler serves the /notifications routes. Everything except creation is
// scoped to the calling user.
type Handler struct {
	store      Store
	dispatcher *Dispatcher
	targets    *TargetResolver
	authz      rbac.Authorizer
	onError    handler.ErrorHandler
}

func NewHandler(store Store, dispatcher *Dispatcher, targets *TargetResolver, authz rbac.Authorizer, onError handler.ErrorHandler) *Handler {
	return &Handler{
		store:      store,
		dispatcher: dispatcher,
		targets:    targets,
		authz:      authz,
		onError:    onError,
	}
}

// Routes expects access.Authenticate to run before it.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	jsonBody := handler.WithBinders(binder.JSON())
	query := handler.WithBinders(binder.Query())
	errs := handler.WithErrorHandler(h.onError)

	r.With(access.Require(h.authz, access.NotificationsCreate, h.onError)).
		Post("/", handler.Wrap(h.create, jsonBody, errs))

	r.Group(func(r chi.Router) {
		r.Use(access.Require(h.authz, access.NotificationsRead, h.onError))
		r.Get("/", handler.Wrap(h.list, query, errs))
		r.Delete("/", handler.Wrap(h.deleteAll, errs))
		r.Get("/unread", handler.Wrap(h.unread, query, errs))
		r.Get("/unread/count", handler.Wrap(h.unreadCount, query, errs))
		r.Patch("/read", handler.Wrap(h.markRead, query, errs))
		r.Get("/{id}/target", handler.Wrap(h.target, handler.WithBinders(binder.Path()), errs))
	})
	return r
}

type targetRequest struct {
	Kind TargetKind `json:"kind"`
	ID   string     `json:"id"`
}

type createRequest struct {
	UserID    string         `json:"user_id"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Type      Category       `json:"type"`
	Target    *targetRequest `json:"target,omitempty"`
	Account   string         `json:"account,omitempty"`
	Link      string         `json:"link,omitempty"`
	SendEmail bool           `json:"send_email"`
}

func (req createRequest) params() (CreateParams, error) {
	var errs validator.ValidationErrors
	p := CreateParams{
		Title:   req.Title,
		Message: req.Message,
		Type:    req.Type,
		Link:    req.Link,
	}
	p.UserID = parseID(&errs, "user_id", req.UserID)
	if req.Target != nil {
		p.Target = &TargetRef{Kind: req.Target.Kind, ID: parseID(&errs, "target.id", req.Target.ID)}
	}
	if req.Account != "" {
		a := parseID(&errs, "account", req.Account)
		p.Account = &a
	}
	if len(errs) > 0 {
		return CreateParams{}, errs
	}
	return p, nil
}

func (h *Handler) create(ctx handler.Context, req createRequest) handler.Response {
	p, err := req.params()
	if err != nil {
		return handler.Error(err)
	}
	res := h.dispatcher.Dispatch(ctx, p, req.SendEmail)
	if !res.Success {
		return handler.Error(res.Err)
	}
	return handler.Created(res)
}

func (h *Handler) list(ctx handler.Context, req pagination.Params) handler.Response {
	uid, err := access.CurrentUser(ctx)
	if err != nil {
		return handler.Error(err)
	}
	req = req.OrDefault()
	page, err := h.store.ListForUser(ctx, uid, req.Page, req.Limit)
	if err != nil {
		return handler.Error(err)
	}
	return handler.OK(page)
}

type accountQuery struct {
	Account string `query:"account"`
}

func (q accountQuery) account() (*bson.ObjectID, error) {
	if q.Account == "" {
		return nil, nil
	}
	var errs validator.ValidationErrors
	id := parseID(&errs, "account", q.Account)
	if len(errs) > 0 {
		return nil, errs
	}
	return &id, nil
}

func (h *Handler) unread(ctx handler.Context, q accountQuery) handler.Response {
	uid, account, err := callerAndAccount(ctx, q)
	if err != nil {
		return handler.Error(err)
	}
	items, err := h.store.ListUnread(ctx, uid, account)
	if err != nil {
		return handler.Error(err)
	}
	return handler.OK(map[string]any{"items": items})
}

func (h *Handler) unreadCount(ctx handler.Context, q accountQuery) handler.Response {
	uid, account, err := callerAndAccount(ctx, q)
	if err != nil {
		return handler.Error(err)
	}
	n, err := h.store.CountUnread(ctx, uid, account)
	if err != nil {
		return handler.Error(err)
	}
	return handler.OK(map[string]int64{"count": n})
}

func (h *Handler) markRead(ctx handler.Context, q accountQuery) handler.Response {
	uid, account, err := callerAndAccount(ctx, q)
	if err != nil {
		return handler.Error(err)
	}
	n, err := h.store.MarkRead(ctx, uid, account)
	if err != nil {
		return handler.Error(err)
	}
	return handler.OK(map[string]int64{"modified": n})
}

func (h *Handler) deleteAll(ctx handler.Context, _ struct{}) handler.Response {
	uid, err := access.CurrentUser(ctx)
	if err != nil {
		return handler.Error(err)
	}
	if _, err := h.store.DeleteAllForUser(ctx, uid); err != nil {
		return handler.Error(err)
	}
	return handler.Empty()
}

type idPath struct {
	ID string `path:"id"`
}

func (h *Handler) target(ctx handler.Context, req idPath) handler.Response {
	uid, err := access.CurrentUser(ctx)
	if err != nil {
		return handler.Error(err)
	}
	var errs validator.ValidationErrors
	id := parseID(&errs, "id", req.ID)
	if len(errs) > 0 {
		return handler.Error(errs)
	}

	n, err := h.store.Get(ctx, uid, id)
	if err != nil {
		return handler.Error(err)
	}
	if n.Target == nil {
		return handler.Error(ErrNoTarget)
	}
	doc, err := h.targets.Resolve(ctx, *n.Target)
	if err != nil {
		return handler.Error(err)
	}
	return handler.OK(map[string]any{"kind": n.Target.Kind, "data": doc})
}

func callerAndAccount(ctx handler.Context, q accountQuery) (bson.ObjectID, *bson.ObjectID, error) {
	uid, err := access.CurrentUser(ctx)
	if err != nil {
		return bson.NilObjectID, nil, err
	}
	account, err := q.account()
	if err != nil {
		return bson.NilObjectID, nil, err
	}
	return uid, account, nil
}

// parseID records an error on errs when s is not a hex object id.
func parseID(errs *validator.ValidationErrors, field, s string) bson.ObjectID {
	id, err := bson.ObjectIDFromHex(s)
	if err != nil {
		errs.Add(validator.ValidationError{Field: field, Message: "must be a valid identifier", Key: "validation.object_id"})
		return bson.NilObjectID
	}
	return id
}
