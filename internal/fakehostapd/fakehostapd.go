// Package fakehostapd is a minimal hostapd control interface for tests. It
// listens on a unixgram socket, answers the commands the client library
// uses and can emit notifications to attached clients.
package fakehostapd

import (
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

const bufSize = 8192

// HandlerFunc answers a command, args is everything after the first space.
// Each returned string is sent back as one datagram, in order, so a handler
// can emit notifications before the reply. Returning nil sends nothing.
type HandlerFunc func(args string) []string

type station struct {
	addr  string
	attrs []string
}

type Server struct {
	path string
	conn *net.UnixConn

	mu       sync.Mutex
	handlers map[string]HandlerFunc
	attached map[string]*net.UnixAddr
	commands []string
	stations []station

	wg sync.WaitGroup
}

// New starts a fake daemon. The socket lives in a short directory under /tmp
// since unix socket paths are limited to 108 bytes. Everything is cleaned up
// when the test ends.
func New(t testing.TB) *Server {
	t.Helper()

	dir, err := os.MkdirTemp("/tmp", "hostapd-go-test-*")
	if err != nil {
		t.Fatalf("error while creating socket directory: %v", err)
	}
	path := filepath.Join(dir, "wlan0")

	conn, err := net.ListenUnixgram("unixgram", &net.UnixAddr{Net: "unixgram", Name: path})
	if err != nil {
		_ = os.RemoveAll(dir)
		t.Fatalf("error while listening on socket: %v", err)
	}

	s := &Server{
		path:     path,
		conn:     conn,
		handlers: make(map[string]HandlerFunc),
		attached: make(map[string]*net.UnixAddr),
	}
	s.handlers["PING"] = Reply("PONG\n")
	s.handlers["ATTACH"] = Reply("OK\n")
	s.handlers["DETACH"] = Reply("OK\n")
	s.handlers["STA"] = s.sta
	s.handlers["STA-FIRST"] = s.staFirst
	s.handlers["STA-NEXT"] = s.staNext
	s.handlers["STATUS"] = Reply("state=ENABLED\nchannel=6\nssid[0]=test\n")

	s.wg.Add(1)
	go s.serve()

	t.Cleanup(func() {
		_ = s.Close()
		_ = os.RemoveAll(dir)
	})
	return s
}

// Reply returns a handler that always answers with msgs.
func Reply(msgs ...string) HandlerFunc {
	return func(string) []string { return msgs }
}

// Path of the control socket, to be passed to the client.
func (s *Server) Path() string { return s.path }

// Handle replaces the handler for command.
func (s *Server) Handle(command string, h HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[command] = h
}

// AddStation adds a station to the table used by 'STA', 'STA-FIRST' and
// 'STA-NEXT'. attrs are 'key=value' lines.
func (s *Server) AddStation(addr string, attrs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stations = append(s.stations, station{addr: addr, attrs: attrs})
}

// Commands received so far, in order.
func (s *Server) Commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.commands...)
}

// Attached returns the number of attached clients.
func (s *Server) Attached() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.attached)
}

// Emit sends msg to every attached client, e.g.
// '<3>AP-STA-CONNECTED 02:00:00:00:00:01'.
func (s *Server) Emit(msg string) error {
	s.mu.Lock()
	addrs := make([]*net.UnixAddr, 0, len(s.attached))
	for _, a := range s.attached {
		addrs = append(addrs, a)
	}
	s.mu.Unlock()

	var errs []error
	for _, a := range addrs {
		if _, err := s.conn.WriteToUnix([]byte(msg), a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Server) Close() error {
	err := s.conn.Close()
	s.wg.Wait()
	return err
}

func (s *Server) serve() {
	defer s.wg.Done()

	buf := make([]byte, bufSize)
	for {
		n, addr, err := s.conn.ReadFromUnix(buf)
		if err != nil {
			return
		}
		if addr == nil || addr.Name == "" {
			// unbound client, can't reply
			continue
		}
		for _, msg := range s.dispatch(string(buf[:n]), addr) {
			// the client may be gone already
			if _, err := s.conn.WriteToUnix([]byte(msg), addr); err != nil {
				break
			}
		}
	}
}

func (s *Server) dispatch(request string, addr *net.UnixAddr) []string {
	command, args, _ := strings.Cut(request, " ")

	s.mu.Lock()
	s.commands = append(s.commands, request)
	switch command {
	case "ATTACH":
		s.attached[addr.Name] = &net.UnixAddr{Net: addr.Net, Name: addr.Name}
	case "DETACH":
		delete(s.attached, addr.Name)
	}
	h, ok := s.handlers[command]
	s.mu.Unlock()

	if !ok {
		return []string{"UNKNOWN COMMAND\n"}
	}
	return h(args)
}

func (s *Server) sta(args string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sta := range s.stations {
		if strings.EqualFold(sta.addr, args) {
			return []string{sta.reply()}
		}
	}
	return []string{"FAIL\n"}
}

func (s *Server) staFirst(string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.stations) == 0 {
		return []string{""}
	}
	return []string{s.stations[0].reply()}
}

func (s *Server) staNext(args string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sta := range s.stations {
		if !strings.EqualFold(sta.addr, args) {
			continue
		}
		if i+1 == len(s.stations) {
			return []string{""}
		}
		return []string{s.stations[i+1].reply()}
	}
	return []string{"FAIL\n"}
}

func (st station) reply() string {
	var b strings.Builder
	b.WriteString(st.addr)
	b.WriteString("\n")
	for _, a := range st.attrs {
		b.WriteString(a)
		b.WriteString("\n")
	}
	return b.String()
}
