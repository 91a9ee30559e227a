package resource

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/bookspace/handler"
	"github.com/dmitrymomot/bookspace/internal/access"
	"github.com/dmitrymomot/bookspace/pkg/binder"
	"github.com/dmitrymomot/bookspace/pkg/logger"
	"github.com/dmitrymomot/bookspace/pkg/pagination"
	"github.com/dmitrymomot/bookspace/pkg/rbac"
	"github.com/dmitrymomot/bookspace/pkg/validator"
)

// Creator is a bound create request.
type Creator[T any] interface {
	Validate() error
	// Build turns the request into a new document. ctx carries the caller.
	Build(ctx context.Context) (*T, error)
}

// Updater is a bound partial update; unset fields leave the document as is.
type Updater[T any] interface {
	Validate() error
	Apply(doc *T)
}

// Guard is implemented by updaters that depend on who the caller is.
// Guard runs against the stored document before Apply.
type Guard[T any] interface {
	Guard(ctx context.Context, doc *T) error
}

// Lister is a bound list query. Filter reports malformed filter values
// as validation errors.
type Lister[T any] interface {
	Pagination() pagination.Params
	Filter() (Filter[T], error)
}

// Config describes how an entity is exposed.
type Config[T any] struct {
	// Name is used in logs, e.g. "amenities".
	Name            string
	ReadPermission  string
	WritePermission string
	Authz           rbac.Authorizer
	OnError         handler.ErrorHandler
	Logger          *slog.Logger
	// AfterCreate runs once the document is stored. It cannot fail the
	// request.
	AfterCreate func(ctx context.Context, doc *T)
	// Scope restricts every read and write to documents the caller may
	// see. Documents outside it are reported as not found.
	Scope func(ctx context.Context) (Filter[T], error)
	// WriteScope further restricts update and delete.
	WriteScope func(ctx context.Context) (Filter[T], error)
}

// Handler serves POST /, GET /, GET /{id}, PATCH /{id} and DELETE /{id}
// for one entity.
type Handler[T any, C Creator[T], U Updater[T], L Lister[T]] struct {
	repo Repository[T]
	cfg  Config[T]
}

func NewHandler[T any, C Creator[T], U Updater[T], L Lister[T]](repo Repository[T], cfg Config[T]) *Handler[T, C, U, L] {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	cfg.Logger = cfg.Logger.With(logger.Resource(cfg.Name))
	return &Handler[T, C, U, L]{repo: repo, cfg: cfg}
}

// Routes expects access.Authenticate to run before it.
func (h *Handler[T, C, U, L]) Routes() chi.Router {
	r := chi.NewRouter()
	errs := handler.WithErrorHandler(h.cfg.OnError)
	body := handler.WithBinders(binder.JSON())
	path := handler.WithBinders(binder.Path())

	r.Group(func(r chi.Router) {
		r.Use(access.Require(h.cfg.Authz, h.cfg.ReadPermission, h.cfg.OnError))
		r.Get("/", handler.Wrap(h.list, handler.WithBinders(binder.Query()), errs))
		r.Get("/{id}", handler.Wrap(h.get, path, errs))
	})
	r.Group(func(r chi.Router) {
		r.Use(access.Require(h.cfg.Authz, h.cfg.WritePermission, h.cfg.OnError))
		r.Post("/", handler.Wrap(h.create, body, errs))
		r.Patch("/{id}", handler.Wrap(h.update, body, errs))
		r.Delete("/{id}", handler.Wrap(h.delete, path, errs))
	})
	return r
}

func (h *Handler[T, C, U, L]) create(ctx handler.Context, req C) handler.Response {
	if err := req.Validate(); err != nil {
		return handler.Error(err)
	}
	doc, err := req.Build(ctx)
	if err != nil {
		return handler.Error(err)
	}
	if err := h.repo.Create(ctx, doc); err != nil {
		return handler.Error(err)
	}
	h.cfg.Logger.LogAttrs(ctx, slog.LevelInfo, "created", slog.String("id", meta(doc).ID.Hex()))

	if h.cfg.AfterCreate != nil {
		h.cfg.AfterCreate(ctx, doc)
	}
	return handler.Created(doc)
}

func (h *Handler[T, C, U, L]) list(ctx handler.Context, req L) handler.Response {
	f, err := req.Filter()
	if err != nil {
		return handler.Error(err)
	}
	scope, err := h.scope(ctx, false)
	if err != nil {
		return handler.Error(err)
	}
	if f != nil {
		scope = All(scope, f)
	}
	page, err := h.repo.List(ctx, scope, req.Pagination().OrDefault())
	if err != nil {
		return handler.Error(err)
	}
	return handler.OK(page)
}

type idRequest struct {
	ID string `path:"id"`
}

func (h *Handler[T, C, U, L]) get(ctx handler.Context, req idRequest) handler.Response {
	id, err := ParseID(req.ID)
	if err != nil {
		return handler.Error(err)
	}
	doc, err := h.load(ctx, id, false)
	if err != nil {
		return handler.Error(err)
	}
	return handler.OK(doc)
}

func (h *Handler[T, C, U, L]) update(ctx handler.Context, req U) handler.Response {
	id, err := ParseID(chi.URLParam(ctx.Request(), "id"))
	if err != nil {
		return handler.Error(err)
	}
	if err := req.Validate(); err != nil {
		return handler.Error(err)
	}
	doc, err := h.load(ctx, id, true)
	if err != nil {
		return handler.Error(err)
	}
	if g, ok := any(req).(Guard[T]); ok {
		if err := g.Guard(ctx, doc); err != nil {
			return handler.Error(err)
		}
	}
	req.Apply(doc)
	if err := h.repo.Replace(ctx, doc); err != nil {
		return handler.Error(err)
	}
	return handler.OK(doc)
}

func (h *Handler[T, C, U, L]) delete(ctx handler.Context, req idRequest) handler.Response {
	id, err := ParseID(req.ID)
	if err != nil {
		return handler.Error(err)
	}
	if _, err := h.load(ctx, id, true); err != nil {
		return handler.Error(err)
	}
	if err := h.repo.Delete(ctx, id); err != nil {
		return handler.Error(err)
	}
	h.cfg.Logger.LogAttrs(ctx, slog.LevelInfo, "deleted", slog.String("id", id.Hex()))
	return handler.Empty()
}

// scope combines Scope and, for writes, WriteScope for the caller in ctx.
func (h *Handler[T, C, U, L]) scope(ctx context.Context, write bool) (Filter[T], error) {
	scopes := []func(context.Context) (Filter[T], error){h.cfg.Scope}
	if write {
		scopes = append(scopes, h.cfg.WriteScope)
	}
	var filters []Filter[T]
	for _, s := range scopes {
		if s == nil {
			continue
		}
		f, err := s(ctx)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return All(filters...), nil
}

// load fetches id and hides it behind ErrNotFound when it falls outside
// the caller's scope.
func (h *Handler[T, C, U, L]) load(ctx context.Context, id bson.ObjectID, write bool) (*T, error) {
	scope, err := h.scope(ctx, write)
	if err != nil {
		return nil, err
	}
	doc, err := h.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scope.Match(doc) {
		return nil, ErrNotFound
	}
	return doc, nil
}

// ParseID parses a hex path or filter id, reporting failures as a
// validation error on field "id".
func ParseID(s string) (bson.ObjectID, error) {
	return ParseIDField("id", s)
}

// ParseIDField is ParseID for a named field.
func ParseIDField(field, s string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(s)
	if err != nil {
		return bson.NilObjectID, validator.NewError(field, "validation.object_id", "must be a valid identifier")
	}
	return id, nil
}
