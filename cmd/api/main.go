package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/bookspace/handler"
	"github.com/dmitrymomot/bookspace/internal/access"
	"github.com/dmitrymomot/bookspace/internal/amenity"
	"github.com/dmitrymomot/bookspace/internal/config"
	"github.com/dmitrymomot/bookspace/internal/eventtype"
	"github.com/dmitrymomot/bookspace/internal/message"
	"github.com/dmitrymomot/bookspace/internal/notification"
	"github.com/dmitrymomot/bookspace/internal/reaction"
	"github.com/dmitrymomot/bookspace/internal/realtime"
	"github.com/dmitrymomot/bookspace/internal/resource"
	"github.com/dmitrymomot/bookspace/internal/subcategory"
	"github.com/dmitrymomot/bookspace/internal/user"
	"github.com/dmitrymomot/bookspace/pkg/binder"
	"github.com/dmitrymomot/bookspace/pkg/clientip"
	"github.com/dmitrymomot/bookspace/pkg/email"
	"github.com/dmitrymomot/bookspace/pkg/httpserver"
	"github.com/dmitrymomot/bookspace/pkg/jwt"
	"github.com/dmitrymomot/bookspace/pkg/logger"
	"github.com/dmitrymomot/bookspace/pkg/mongo"
	"github.com/dmitrymomot/bookspace/pkg/ratelimiter"
	"github.com/dmitrymomot/bookspace/pkg/rbac"
	"github.com/dmitrymomot/bookspace/pkg/redis"
	"github.com/dmitrymomot/bookspace/pkg/requestid"
)

const readinessTimeout = 3 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", logger.Error(err))
		os.Exit(1)
	}

	log := logger.New(
		logger.WithEnvironment(cfg.Env, cfg.Service),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	)
	slog.SetDefault(log)

	if err := run(ctx, cfg, log); err != nil {
		log.Error("api stopped with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	db, client, err := mongo.Connect(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.WithoutCancel(ctx)); err != nil {
			log.Error("mongo disconnect", logger.Error(err))
		}
	}()

	checks := map[string]httpserver.Check{"mongo": mongo.Healthcheck(client)}

	tokens, err := jwt.NewFromString(cfg.JWTSecret)
	if err != nil {
		return err
	}
	authz, err := access.NewAuthorizer(ctx, cfg.RolesFile)
	if err != nil {
		return err
	}
	mailer, err := email.NewSender(cfg.Email)
	if err != nil {
		return err
	}

	users := user.NewMongoStore(db)
	notifications := notification.NewMongoStore(db)
	amenities := amenity.NewMongoRepository(db)
	eventTypes := eventtype.NewMongoRepository(db)
	subCategories := subcategory.NewMongoRepository(db)
	messages := message.NewMongoRepository(db)
	reactions := reaction.NewMongoRepository(db)

	for name, ensure := range map[string]func(context.Context) error{
		notification.CollectionName: notifications.EnsureIndexes,
		amenity.CollectionName:      amenities.EnsureIndexes,
		eventtype.CollectionName:    eventTypes.EnsureIndexes,
		subcategory.CollectionName:  subCategories.EnsureIndexes,
		message.CollectionName:      messages.EnsureIndexes,
		reaction.CollectionName:     reactions.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			return fmt.Errorf("ensure indexes %s: %w", name, err)
		}
	}

	registry := realtime.NewMemoryRegistry(realtime.WithRegistryLogger(log))
	var (
		emitter notification.Emitter = registry
		buckets ratelimiter.Store
	)
	if cfg.Redis.Enabled() {
		rdb, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer rdb.Close()
		checks["redis"] = redis.Healthcheck(rdb)

		relay := realtime.NewRedisRelay(rdb, registry, realtime.WithRelayLogger(log))
		go relay.Serve(ctx)
		emitter = relay
		buckets = ratelimiter.NewRedisStore(rdb)
	} else {
		mem := ratelimiter.NewMemoryStore()
		defer mem.Close()
		buckets = mem
	}
	limiter, err := ratelimiter.New(buckets, cfg.RateLimit)
	if err != nil {
		return err
	}

	dispatchOpts := []notification.DispatcherOption{
		notification.WithLogger(log),
		notification.WithMailer(users, mailer),
		notification.WithBaseURL(cfg.BaseURL),
	}
	if cfg.AsyncMail {
		dispatchOpts = append(dispatchOpts, notification.WithAsyncEmail())
	}
	dispatcher := notification.NewDispatcher(notifications, emitter, dispatchOpts...)
	defer dispatcher.Wait()

	targets := notification.NewTargetResolver().
		Register(notification.TargetAmenity, lookup(amenities)).
		Register(notification.TargetEventType, lookup(eventTypes)).
		Register(notification.TargetSubCategory, lookup(subCategories)).
		Register(notification.TargetMessage, lookup(messages)).
		Register(notification.TargetReaction, lookup(reactions)).
		Register(notification.TargetUser, func(ctx context.Context, id bson.ObjectID) (any, error) {
			u, err := users.FindByID(ctx, id)
			if err != nil {
				return nil, err
			}
			return u, nil
		})

	onError := handler.NewErrorHandler(log,
		handler.Map(binder.ErrInvalidRequest, http.StatusBadRequest, "bad_request"),
		handler.Map(resource.ErrNotFound, http.StatusNotFound, "not_found"),
		handler.Map(notification.ErrNotFound, http.StatusNotFound, "not_found"),
		handler.Map(notification.ErrNoTarget, http.StatusNotFound, "not_found"),
		handler.Map(user.ErrNotFound, http.StatusNotFound, "not_found"),
		handler.Map(rbac.ErrInsufficientPermissions, http.StatusForbidden, "forbidden"),
	)

	gateway := realtime.NewGateway(
		realtime.NewAuthenticator(tokens, users),
		registry,
		realtime.WithGatewayLogger(log),
		realtime.WithErrorHandler(onError),
		realtime.WithKeepalive(cfg.WSPongWait),
	)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(clientip.Middleware())
	r.Use(middleware.Recoverer)

	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(log, readinessTimeout, checks))
	r.With(ratelimiter.Middleware(limiter, ratelimiter.ByClientIP, onError)).Handle("/ws", gateway)

	r.Group(func(r chi.Router) {
		r.Use(access.Authenticate(tokens, onError))
		r.Use(ratelimiter.Middleware(limiter, ratelimiter.BySubject, onError))

		r.Mount("/amenities", amenity.NewHandler(amenities, resourceConfig[amenity.Amenity](authz, onError, log, nil)).Routes())
		r.Mount("/event-types", eventtype.NewHandler(eventTypes, resourceConfig[eventtype.EventType](authz, onError, log, nil)).Routes())
		r.Mount("/sub-categories", subcategory.NewHandler(subCategories, resourceConfig[subcategory.SubCategory](authz, onError, log, nil)).Routes())
		r.Mount("/messages", message.NewHandler(messages, resourceConfig(authz, onError, log, message.NotifyRecipient(dispatcher))).Routes())
		r.Mount("/reactions", reaction.NewHandler(reactions, resourceConfig[reaction.Reaction](authz, onError, log, nil)).Routes())
		r.Mount("/notifications", notification.NewHandler(notifications, dispatcher, targets, authz, onError).Routes())
	})

	server := httpserver.NewFromConfig(cfg.HTTP,
		httpserver.WithLogger(log),
		httpserver.WithOnShutdown(func() {
			log.Info("closing realtime connections", slog.Int("users", registry.Users()))
			registry.CloseAll()
		}),
	)
	return server.Run(ctx, r)
}

func resourceConfig[T any](authz rbac.Authorizer, onError handler.ErrorHandler, log *slog.Logger, afterCreate func(context.Context, *T)) resource.Config[T] {
	return resource.Config[T]{
		Authz:       authz,
		OnError:     onError,
		Logger:      log,
		AfterCreate: afterCreate,
	}
}

func lookup[T any](repo resource.Repository[T]) notification.TargetLookup {
	return func(ctx context.Context, id bson.ObjectID) (any, error) {
		doc, err := repo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return doc, nil
	}
}
