package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/thiagokokada/hostapd-go"
	"github.com/thiagokokada/hostapd-go/internal/logging"
)

const (
	DefaultInterval    = time.Second
	DefaultPollTimeout = 100 * time.Millisecond

	// once an event arrived, keep reading while more are immediately
	// available, up to maxBatch per tick
	drainTimeout = time.Millisecond
	maxBatch     = 64

	detachTimeout = 2 * time.Second
)

// Source is the part of [hostapd.Client] used by [Loop].
type Source interface {
	PollEvent(ctx context.Context, timeout time.Duration) (string, bool, error)
	Detach(ctx context.Context) error
	Close() error
}

// Loop polls an attached client on a fixed interval and dispatches the parsed
// events to an [EventHandler]. The zero values of the exported fields are
// replaced by defaults.
type Loop struct {
	// Time between polls.
	Interval time.Duration
	// Maximum time a single poll may block, clamped to Interval.
	PollTimeout time.Duration
	Logger      *slog.Logger

	src Source
	ev  EventHandler
}

func NewLoop(src Source, ev EventHandler) *Loop {
	if ev == nil {
		ev = &DefaultEventHandler{}
	}
	return &Loop{src: src, ev: ev}
}

// Subscribe to events: attach c and run a [Loop] with default settings until
// ctx is done. Subscribe owns c, it is closed before returning.
func Subscribe(ctx context.Context, c *hostapd.Client, ev EventHandler) error {
	if err := c.Attach(ctx); err != nil {
		return errors.Join(fmt.Errorf("error while attaching: %w", err), c.Close())
	}
	return NewLoop(c, ev).Run(ctx)
}

// Run until ctx is done, then detach (best effort) and close the source.
// Cancellation returns nil. Malformed events are logged and skipped, while
// errors from the source itself (e.g. a broken socket) stop the loop and are
// returned; the source is closed in this case too.
func (l *Loop) Run(ctx context.Context) error {
	log := l.logger()
	interval, pollTimeout := l.durations()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Debug("event loop started", "interval", interval, "poll_timeout", pollTimeout)
	for {
		select {
		case <-ctx.Done():
			l.stop(log)
			return nil
		case <-ticker.C:
			err := l.tick(ctx, log, pollTimeout)
			if err == nil {
				continue
			}
			if ctx.Err() != nil {
				l.stop(log)
				return nil
			}
			log.Error("event loop stopped", "error", err)
			return errors.Join(
				fmt.Errorf("error while polling events: %w", err),
				l.src.Close(),
			)
		}
	}
}

func (l *Loop) tick(ctx context.Context, log *slog.Logger, timeout time.Duration) error {
	for i := 0; i < maxBatch; i++ {
		raw, ok, err := l.src.PollEvent(ctx, timeout)
		if err != nil || !ok {
			return err
		}
		l.dispatch(log, raw)

		if ctx.Err() != nil {
			return nil
		}
		timeout = drainTimeout
	}
	return nil
}

func (l *Loop) dispatch(log *slog.Logger, raw string) {
	e, err := Parse(raw)
	if err != nil {
		log.Warn("skipping malformed event", "event", raw, "error", err)
		if eh, ok := l.ev.(ErrorHandler); ok {
			eh.ParseError(raw, err)
		}
		return
	}

	switch e := e.(type) {
	case StationConnected:
		l.ev.StationConnected(e)
	case StationDisconnected:
		l.ev.StationDisconnected(e)
	case Other:
		l.ev.Other(e)
	}
}

func (l *Loop) stop(log *slog.Logger) {
	// ctx is already done, give DETACH its own deadline
	ctx, cancel := context.WithTimeout(context.Background(), detachTimeout)
	defer cancel()

	if err := l.src.Detach(ctx); err != nil {
		log.Warn("error while detaching", "error", err)
	}
	if err := l.src.Close(); err != nil {
		log.Warn("error while closing client", "error", err)
	}
	log.Debug("event loop stopped")
}

func (l *Loop) durations() (interval, pollTimeout time.Duration) {
	interval, pollTimeout = l.Interval, l.PollTimeout
	if interval <= 0 {
		interval = DefaultInterval
	}
	if pollTimeout <= 0 {
		pollTimeout = DefaultPollTimeout
	}
	return interval, min(pollTimeout, interval)
}

func (l *Loop) logger() *slog.Logger {
	if l.Logger == nil {
		return logging.Nop()
	}
	return l.Logger
}
