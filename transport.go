package hostapd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"
)

// hostapd itself never sends more than 4096 bytes in a datagram, but some
// builds raise CTRL_IFACE_MAX_LEN
const bufSize = 8192

const localPrefix = "hostapd-go-"

var errTruncated = fmt.Errorf("datagram larger than %d bytes", bufSize)

// transport is a unixgram socket bound to a local path and connected to the
// daemon control socket. Datagrams are never split: one send is one request.
type transport struct {
	conn  *net.UnixConn
	local string

	closeOnce sync.Once
	closeErr  error
}

func dialTransport(path, localDir string) (*transport, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return nil, &ConnectError{Path: path, Err: err}
	}
	if st.Mode&unix.S_IFMT != unix.S_IFSOCK {
		return nil, &ConnectError{Path: path, Err: errors.New("not a socket")}
	}

	if localDir == "" {
		localDir = os.TempDir()
	}
	local := filepath.Join(localDir, localPrefix+uuid.NewString())

	conn, err := net.DialUnix(
		"unixgram",
		&net.UnixAddr{Net: "unixgram", Name: local},
		&net.UnixAddr{Net: "unixgram", Name: path},
	)
	if err != nil {
		// bind may have succeeded before connect failed
		_ = os.Remove(local)
		return nil, &ConnectError{Path: path, Err: err}
	}
	return &transport{conn: conn, local: local}, nil
}

func (t *transport) send(b []byte) error {
	n, err := t.conn.Write(b)
	if err != nil {
		return &IOError{Op: "writing to", Err: err}
	}
	if n != len(b) {
		return &IOError{Op: "writing to", Err: io.ErrShortWrite}
	}
	return nil
}

// receive blocks up to timeout for one datagram. A timeout is not an error,
// it is reported as a nil payload. Cancelling ctx unblocks the read.
func (t *transport) receive(ctx context.Context, timeout time.Duration) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := t.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, &IOError{Op: "setting deadline on", Err: err}
	}

	// Set a short deadline to unblock the Read() on cancellation
	fired := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		defer close(fired)
		_ = t.conn.SetReadDeadline(time.Now())
	})

	buf := make([]byte, bufSize)
	n, _, flags, _, err := t.conn.ReadMsgUnix(buf, nil)

	if !stop() {
		// Make sure that the callback is done before the deadline is
		// touched again
		<-fired
		if err == nil {
			return checkTruncated(buf[:n], flags)
		}
		return nil, ctx.Err()
	}
	if err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return nil, nil
		}
		return nil, &IOError{Op: "reading from", Err: err}
	}
	return checkTruncated(buf[:n], flags)
}

// tryReceive returns a datagram that is already waiting, or nil without
// blocking when there is none.
func (t *transport) tryReceive() ([]byte, error) {
	// an expired deadline would fail the read before it is attempted
	if err := t.conn.SetReadDeadline(time.Time{}); err != nil {
		return nil, &IOError{Op: "setting deadline on", Err: err}
	}
	rc, err := t.conn.SyscallConn()
	if err != nil {
		return nil, &IOError{Op: "reading from", Err: err}
	}

	buf := make([]byte, bufSize)
	var n, flags int
	var rerr error
	err = rc.Read(func(fd uintptr) bool {
		n, _, flags, _, rerr = unix.Recvmsg(int(fd), buf, nil, unix.MSG_DONTWAIT)
		return true
	})
	if err == nil {
		err = rerr
	}
	if err != nil {
		if errors.Is(err, unix.EAGAIN) {
			return nil, nil
		}
		return nil, &IOError{Op: "reading from", Err: err}
	}
	return checkTruncated(buf[:n], flags)
}

// A partial reply is worse than none, the rest of it is lost
func checkTruncated(b []byte, flags int) ([]byte, error) {
	if flags&unix.MSG_TRUNC != 0 {
		return nil, &IOError{Op: "reading from", Err: errTruncated}
	}
	return b, nil
}

func (t *transport) close() error {
	t.closeOnce.Do(func() {
		err := t.conn.Close()
		if e := os.Remove(t.local); e != nil && !errors.Is(e, os.ErrNotExist) {
			err = errors.Join(err, e)
		}
		if err != nil {
			t.closeErr = fmt.Errorf("error while closing socket: %w", err)
		}
	})
	return t.closeErr
}
