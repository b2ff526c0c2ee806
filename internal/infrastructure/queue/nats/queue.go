package nats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/parkwise/rainier-guide/internal/infrastructure/resilience"
)

// Queue carries the indexing events between api and worker. Upload
// events hold the document id; reindex events are empty signals.
type Queue struct {
	conn           *nats.Conn
	uploadSubject  string
	reindexSubject string
	executor       *resilience.Executor
}

func New(url, uploadSubject, reindexSubject string) (*Queue, error) {
	return NewWithOptions(url, uploadSubject, reindexSubject, Options{})
}

type Options struct {
	ConnectTimeout       time.Duration
	ReconnectWait        time.Duration
	MaxReconnects        int
	RetryOnFailedConnect *bool
	ResilienceExecutor   *resilience.Executor
}

func NewWithOptions(url, uploadSubject, reindexSubject string, options Options) (*Queue, error) {
	connectTimeout := options.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 2 * time.Second
	}
	reconnectWait := options.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}
	maxReconnects := options.MaxReconnects
	if maxReconnects <= 0 {
		maxReconnects = 60
	}
	retryOnFailedConnect := true
	if options.RetryOnFailedConnect != nil {
		retryOnFailedConnect = *options.RetryOnFailedConnect
	}

	conn, err := nats.Connect(
		url,
		nats.Name("rainier-guide"),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.RetryOnFailedConnect(retryOnFailedConnect),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("nats_disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("nats_reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Queue{
		conn:           conn,
		uploadSubject:  uploadSubject,
		reindexSubject: reindexSubject,
		executor:       options.ResilienceExecutor,
	}, nil
}

func (q *Queue) Close() {
	if q.conn != nil {
		q.conn.Close()
	}
}

func (q *Queue) PublishDocumentUploaded(ctx context.Context, documentID string) error {
	return q.publish(ctx, q.uploadSubject, []byte(documentID))
}

func (q *Queue) PublishReindex(ctx context.Context) error {
	return q.publish(ctx, q.reindexSubject, nil)
}

func (q *Queue) publish(ctx context.Context, subject string, data []byte) error {
	call := func(_ context.Context) error {
		if err := q.conn.Publish(subject, data); err != nil {
			return fmt.Errorf("nats publish %s: %w", subject, err)
		}
		return nil
	}

	var err error
	if q.executor != nil {
		err = q.executor.Execute(ctx, "nats.publish", call, classifyNATSError)
	} else {
		err = call(ctx)
	}
	return wrapTemporaryIfNeeded(err)
}

func (q *Queue) SubscribeDocumentUploaded(ctx context.Context, handler func(context.Context, string) error) error {
	return q.subscribe(ctx, q.uploadSubject, func(handlerCtx context.Context, msg *nats.Msg) error {
		return handler(handlerCtx, string(msg.Data))
	})
}

func (q *Queue) SubscribeReindex(ctx context.Context, handler func(context.Context) error) error {
	return q.subscribe(ctx, q.reindexSubject, func(handlerCtx context.Context, _ *nats.Msg) error {
		return handler(handlerCtx)
	})
}

// subscribe blocks until ctx is cancelled, then drains the subscription
// so in-flight messages finish before the worker exits.
func (q *Queue) subscribe(ctx context.Context, subject string, handle func(context.Context, *nats.Msg) error) error {
	sub, err := q.conn.QueueSubscribe(subject, "workers", func(msg *nats.Msg) {
		if errors.Is(ctx.Err(), context.Canceled) {
			return
		}

		handlerCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		if err := handle(handlerCtx, msg); err != nil {
			slog.Error("queue_handler_failed", "subject", subject, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("nats subscribe %s: %w", subject, err)
	}

	if err := q.conn.Flush(); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}

	<-ctx.Done()
	if err := sub.Drain(); err != nil {
		return fmt.Errorf("nats drain subscription: %w", err)
	}
	if err := q.conn.FlushTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("nats flush after drain: %w", err)
	}
	return nil
}
