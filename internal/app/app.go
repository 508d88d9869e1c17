// Package app wires the application together: configuration, logging, the
// document store, the change-feed workers, and the HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hcmus-forum/forumus-backend/internal/adapter/anthropic"
	"github.com/hcmus-forum/forumus-backend/internal/adapter/fcm"
	"github.com/hcmus-forum/forumus-backend/internal/adapter/postgres"
	"github.com/hcmus-forum/forumus-backend/internal/adapter/postgres/docs"
	"github.com/hcmus-forum/forumus-backend/internal/cache/summary"
	"github.com/hcmus-forum/forumus-backend/internal/cache/topics"
	"github.com/hcmus-forum/forumus-backend/internal/config"
	"github.com/hcmus-forum/forumus-backend/internal/domain"
	"github.com/hcmus-forum/forumus-backend/internal/feed"
	"github.com/hcmus-forum/forumus-backend/internal/service/chat"
	"github.com/hcmus-forum/forumus-backend/internal/service/moderation"
	"github.com/hcmus-forum/forumus-backend/internal/service/notification"
	"github.com/hcmus-forum/forumus-backend/internal/service/post"
	"github.com/hcmus-forum/forumus-backend/internal/service/topic"
	"github.com/hcmus-forum/forumus-backend/internal/transport/middleware"
	"github.com/hcmus-forum/forumus-backend/internal/transport/rest"
)

const rateLimiterCleanupInterval = 5 * time.Minute

// Run is the application entry point. It loads configuration, connects to
// the document store, starts the change-feed workers and the HTTP server,
// and blocks until the context is cancelled or a termination signal
// arrives. Shutdown is graceful: in-flight requests get ShutdownTimeout to
// finish and the feed workers drain their current event.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	repo := docs.New(pool)
	changes := docs.NewFeed(logger, pool, repo)
	ai := anthropic.New(logger, cfg.AI)

	summaries := summary.New(cfg.Summary.MaxEntries, cfg.Summary.TTL)
	directory := topics.New(logger)
	directory.Initialize(ctx, repo)

	var (
		notifications *notification.Service
		chats         *chat.Service
	)
	if cfg.Push.Enabled() {
		push := fcm.New(logger, cfg.Push)
		notifications = notification.NewService(logger, repo, repo, push)
		chats = chat.WithCollaborators(logger, repo, repo, push)
	} else {
		logger.Info("push gateway not configured, notifications persist without delivery")
		notifications = notification.NewService(logger, repo, repo, nil)
		chats = chat.WithCollaborators(logger, repo, repo, nil)
	}

	moderator := moderation.NewService(logger, ai, repo, notifications)
	posts := post.NewService(logger, repo, ai, summaries, cfg.AI.MaxContentChars)
	topicsSvc := topic.NewService(logger, directory, ai)

	workers := []*feed.Worker{
		newTopicsWorker(logger, changes, directory),
		newPostsWorker(logger, changes, moderator, posts),
		newMessagesWorker(logger, changes, chats),
	}
	for _, w := range workers {
		if err := w.Start(ctx); err != nil {
			return err
		}
	}
	defer func() {
		for _, w := range workers {
			w.Stop()
		}
	}()

	limiter := middleware.NewRateLimiter(rateLimiterCleanupInterval)
	defer limiter.Stop()

	router := rest.NewRouter(logger, cfg.CORS, limiter, rest.Handlers{
		Health:        rest.NewHealthHandler(pool, BuildVersion()),
		Topics:        rest.NewTopicHandler(topicsSvc, logger),
		Posts:         rest.NewPostHandler(posts, logger),
		Notifications: rest.NewNotificationHandler(notifications, logger),
		Admin:         rest.NewAdminHandler(summaries, directory, logger),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("application stopped")
	return nil
}

// newTopicsWorker keeps the in-memory topics directory live. The directory
// upserts are idempotent, so this feed runs without duplicate suppression.
func newTopicsWorker(log *slog.Logger, sub feed.Subscriber, directory *topics.Cache) *feed.Worker {
	apply := func(_ context.Context, ev domain.ChangeEvent) error {
		directory.Apply(ev.Kind, ev.ID, ev.Fields)
		return nil
	}
	return feed.NewWorker(log, sub, docs.CollectionTopics, nil, map[domain.ChangeKind]feed.Handler{
		domain.ChangeAdded:    apply,
		domain.ChangeModified: apply,
		domain.ChangeRemoved:  apply,
	})
}

// newPostsWorker moderates newly created posts and drops stale summaries
// when a post changes or disappears.
func newPostsWorker(log *slog.Logger, sub feed.Subscriber, moderator *moderation.Service, posts *post.Service) *feed.Worker {
	invalidate := func(_ context.Context, ev domain.ChangeEvent) error {
		posts.InvalidateSummary(ev.ID)
		return nil
	}
	return feed.NewWorker(log, sub, docs.CollectionPosts, feed.NewDeduplicator(), map[domain.ChangeKind]feed.Handler{
		domain.ChangeAdded: func(ctx context.Context, ev domain.ChangeEvent) error {
			return moderator.OnPostAdded(ctx, domain.PostFromFields(ev.ID, ev.Fields))
		},
		domain.ChangeModified: invalidate,
		domain.ChangeRemoved:  invalidate,
	})
}

// newMessagesWorker pushes a notification to the recipient of each new
// chat message.
func newMessagesWorker(log *slog.Logger, sub feed.Subscriber, chats *chat.Service) *feed.Worker {
	return feed.NewWorker(log, sub, docs.CollectionMessages, feed.NewDeduplicator(), map[domain.ChangeKind]feed.Handler{
		domain.ChangeAdded: func(ctx context.Context, ev domain.ChangeEvent) error {
			return chats.OnMessageAdded(ctx, domain.MessageFromFields(ev.ID, ev.Fields))
		},
	})
}
