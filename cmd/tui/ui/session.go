package ui

import (
	"errors"
	"sync"

	"sfmp/network"
	"sfmp/remote"
)

// Session owns the connection to the transfer server. The protocol is
// strictly request/response, so every operation holds the lock for its
// whole exchange.
type Session struct {
	Host string
	Port int

	conn *network.Conn
	mu   sync.Mutex
}

func NewSession() *Session {
	return &Session{}
}

var errNotConnected = errors.New("not connected")

// ConnectedMsg reports the outcome of a dial attempt.
type ConnectedMsg struct {
	Err error
}

// ListingMsg carries one server directory listing.
type ListingMsg struct {
	Names []string
	Res   remote.Result
	Err   error
}

// TransferDoneMsg reports the outcome of one GET or PUT.
type TransferDoneMsg struct {
	Verb string
	Res  remote.Result
	Err  error
}

// Connect dials the server, replacing any previous connection.
func (s *Session) Connect(host string, port int) error {
	conn, err := network.DialTCP(host, port)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		_ = s.conn.Close()
	}
	s.Host = host
	s.Port = port
	s.conn = conn
	return nil
}

// Close closes the connection.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
	}
}

func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

// List fetches the entry names under the served root.
func (s *Session) List() ([]string, remote.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil, remote.Result{}, errNotConnected
	}
	names, res, err := remote.ListServer(s.conn)
	s.dropOnLinkFailure(err)
	return names, res, err
}

// Get downloads the server-side src into the local dst.
func (s *Session) Get(src, dst string) (remote.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return remote.Result{}, errNotConnected
	}
	res, err := remote.Get(s.conn, src, dst)
	s.dropOnLinkFailure(err)
	return res, err
}

// Put uploads the local src to the server-side dst.
func (s *Session) Put(src, dst string) (remote.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return remote.Result{}, errNotConnected
	}
	res, err := remote.Put(s.conn, src, dst)
	s.dropOnLinkFailure(err)
	return res, err
}

// dropOnLinkFailure discards a connection the protocol layer reported as
// unusable. The caller already holds the lock.
func (s *Session) dropOnLinkFailure(err error) {
	if err == nil || !errors.Is(err, remote.ErrLink) {
		return
	}
	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
	}
}
