package hostapd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/thiagokokada/hostapd-go/helpers"
	"github.com/thiagokokada/hostapd-go/internal/assert"
	"github.com/thiagokokada/hostapd-go/internal/logging"
)

// Same default used by hostapd_cli/wpa_ctrl_request.
const DefaultTimeout = 10 * time.Second

const (
	replyOK   = "OK\n"
	replyPong = "PONG\n"
)

// Options for [OpenWithOptions]. The zero value is valid.
type Options struct {
	// Directory where the local end of the socket is bound, defaults to
	// [os.TempDir]. hostapd must be able to write to it to reply.
	LocalDir string
	// Maximum time to wait for a reply, defaults to [DefaultTimeout].
	Timeout time.Duration
	// Defaults to a logger that discards everything.
	Logger *slog.Logger
}

// Client is a connection to a hostapd control interface.
//
// The protocol allows only one command in flight: a [Client.Request] (or a
// [Client.PollEvent]) while another one is still waiting returns
// [ErrAlreadyPending]. The client is otherwise safe to share, but it is
// intended to have a single owner, e.g. an event loop.
type Client struct {
	path    string
	timeout time.Duration
	log     *slog.Logger
	tr      *transport

	mu       sync.Mutex
	busy     bool
	attached bool
	closed   bool
	// notifications received while waiting for a reply, oldest first
	queue []string
	// replies still owed by the daemon for requests that gave up waiting,
	// only touched while holding the busy slot
	stale int
}

// Initiate a new client or panic.
// The socket is looked up in the hostapd control directory for the given
// interface, see [helpers.GetSocket].
// If you need a method that will not panic on error, use [Open] instead.
func MustClient(iface string) *Client {
	return assert.Must1(Open(assert.Must1(helpers.GetSocket(iface))))
}

// Open a new client connected to the control socket at path, generally
// '/var/run/hostapd/<interface>'.
func Open(path string) (*Client, error) {
	return OpenWithOptions(path, Options{})
}

func OpenWithOptions(path string, opts Options) (*Client, error) {
	if path == "" {
		return nil, &ConnectError{Path: path, Err: fmt.Errorf("empty socket path")}
	}
	tr, err := dialTransport(path, opts.LocalDir)
	if err != nil {
		return nil, err
	}

	c := &Client{
		path:    path,
		timeout: opts.Timeout,
		log:     opts.Logger,
		tr:      tr,
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.log == nil {
		c.log = logging.Nop()
	}
	c.log.Debug("connected to control socket", "path", path, "local", tr.local)
	return c, nil
}

// Path of the daemon control socket.
func (c *Client) Path() string { return c.path }

// Attached reports whether the client is subscribed to notifications.
func (c *Client) Attached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attached
}

// Close the underlying socket. It does not send 'DETACH', call
// [Client.Detach] before if needed. Calling Close more than once is safe.
func (c *Client) Close() error {
	c.mu.Lock()
	c.closed = true
	c.attached = false
	c.queue = nil
	c.mu.Unlock()
	return c.tr.close()
}

func (c *Client) acquire() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.busy {
		return ErrAlreadyPending
	}
	c.busy = true
	return nil
}

func (c *Client) release() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}

func (c *Client) enqueue(msg string) {
	c.mu.Lock()
	c.queue = append(c.queue, msg)
	c.mu.Unlock()
}

func (c *Client) dequeue() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) == 0 {
		return "", false
	}
	msg := c.queue[0]
	c.queue = c.queue[1:]
	return msg, true
}

// Low-level request method, should be avoided unless there is no alternative.
// Sends command as is, e.g. 'STA 02:00:00:00:00:01', and returns the reply
// verbatim (including any trailing newline).
// Notifications received while waiting for the reply are kept and returned
// later by [Client.PollEvent], in the order they arrived. A reply that comes
// after its request gave up (timeout or ctx) is discarded, it is never
// returned for a later command.
func (c *Client) Request(ctx context.Context, command string) (reply string, err error) {
	if command == "" {
		return "", fmt.Errorf("empty command")
	}
	if err := c.acquire(); err != nil {
		return "", err
	}
	defer c.release()

	// nothing was sent yet, so no reply is owed
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := c.drain(); err != nil {
		return "", c.wrapClosed(err)
	}
	if err := c.tr.send([]byte(command)); err != nil {
		return "", c.wrapClosed(err)
	}
	dropped := 0
	defer func() {
		switch {
		case err == nil, errors.Is(err, errTruncated):
			// the reply was consumed, even if unusable
		case errors.Is(err, ErrTimeout) && dropped > 0:
			// the reply dropped was most likely our own, give up on the
			// ones that never came
			c.stale = 0
		default:
			c.stale++
		}
	}()

	deadline := time.Now().Add(c.timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return "", fmt.Errorf("%w: %s", ErrTimeout, command)
		}

		payload, err := c.tr.receive(ctx, remaining)
		if err != nil {
			return "", c.wrapClosed(err)
		}
		if payload == nil {
			return "", fmt.Errorf("%w: %s", ErrTimeout, command)
		}

		msg := string(payload)
		if hasPriorityMarker(msg) {
			c.log.Debug("queued notification while waiting for reply", "command", command, "event", msg)
			c.enqueue(msg)
			continue
		}
		if c.stale > 0 {
			c.dropStale(msg)
			dropped++
			continue
		}
		return msg, nil
	}
}

// drain reads what arrived since the last request without blocking.
// Notifications are queued, anything else is the late reply of a request
// that gave up waiting.
func (c *Client) drain() error {
	for {
		payload, err := c.tr.tryReceive()
		if err != nil || payload == nil {
			return err
		}
		msg := string(payload)
		if hasPriorityMarker(msg) {
			c.enqueue(msg)
			continue
		}
		c.dropStale(msg)
	}
}

func (c *Client) dropStale(msg string) {
	if c.stale > 0 {
		c.stale--
	}
	c.log.Debug("dropped late reply", "reply", msg, "pending", c.stale)
}

// Subscribe to notifications ('ATTACH').
func (c *Client) Attach(ctx context.Context) error {
	if c.Attached() {
		return ErrAlreadyAttached
	}
	if err := c.expect(ctx, "ATTACH", replyOK); err != nil {
		return err
	}

	c.mu.Lock()
	c.attached = true
	c.mu.Unlock()
	return nil
}

// Unsubscribe from notifications ('DETACH'). Notifications that were not
// polled yet are discarded.
func (c *Client) Detach(ctx context.Context) error {
	if !c.Attached() {
		return ErrNotAttached
	}
	if err := c.expect(ctx, "DETACH", replyOK); err != nil {
		return err
	}

	c.mu.Lock()
	c.attached = false
	c.queue = nil
	c.mu.Unlock()
	return nil
}

// Returns the next notification, or false if none arrived until timeout.
// Only valid while attached.
func (c *Client) PollEvent(ctx context.Context, timeout time.Duration) (string, bool, error) {
	if !c.Attached() {
		return "", false, ErrNotAttached
	}
	if msg, ok := c.dequeue(); ok {
		return msg, true, nil
	}

	if err := c.acquire(); err != nil {
		return "", false, err
	}
	defer c.release()

	deadline := time.Now().Add(timeout)
	for {
		payload, err := c.tr.receive(ctx, time.Until(deadline))
		if err != nil {
			return "", false, c.wrapClosed(err)
		}
		if payload == nil {
			return "", false, nil
		}

		msg := string(payload)
		if !hasPriorityMarker(msg) {
			c.dropStale(msg)
			continue
		}
		return msg, true, nil
	}
}

func (c *Client) expect(ctx context.Context, command, want string) error {
	reply, err := c.Request(ctx, command)
	if err != nil {
		return err
	}
	if reply != want {
		return fmt.Errorf("%w to %s: %q", ErrUnexpectedReply, command, reply)
	}
	return nil
}

// A read unblocked by Close shows up as a transport error
func (c *Client) wrapClosed(err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("%w: %w", ErrClosed, err)
	}
	return err
}

// hasPriorityMarker reports whether msg starts with '<N>', the level prefix
// hostapd adds to every unsolicited message. Replies never start with it.
func hasPriorityMarker(msg string) bool {
	if len(msg) < 3 || msg[0] != '<' {
		return false
	}
	for i := 1; i < len(msg); i++ {
		switch b := msg[i]; {
		case b == '>':
			return i > 1
		case b < '0' || b > '9':
			return false
		}
	}
	return false
}
