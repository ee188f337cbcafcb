package connection

import (
	"fmt"
	"sync"
	"time"

	"sfmp/client/internal/logger"
	"sfmp/network"
)

// Manager keeps the single persistent connection to the transfer server.
// Protocol failures make the connection unusable, so callers Drop it and
// reconnect before the next command.
type Manager struct {
	host string
	port int

	conn *network.Conn
	mu   sync.Mutex
}

func New(host string, port int) *Manager {
	return &Manager{host: host, port: port}
}

// Connect establishes the connection with exponential backoff.
func (m *Manager) Connect(maxRetries int, baseDelay time.Duration) error {
	const (
		maxDelay      = 30 * time.Second
		backoffFactor = 1.5
	)

	var retryCount int
	delay := baseDelay

	for {
		logger.Infof("Connecting to server %s:%d (attempt #%d)...", m.host, m.port, retryCount+1)

		conn, err := network.DialTCP(m.host, m.port)
		if err != nil {
			logger.Errorf("Cannot connect to server (attempt #%d): %v", retryCount+1, err)

			retryCount++
			if retryCount >= maxRetries {
				return fmt.Errorf("max retries reached: %w", err)
			}

			logger.Infof("Retrying in %v...", delay)
			time.Sleep(delay)
			delay = time.Duration(float64(delay) * backoffFactor)
			if delay > maxDelay {
				delay = maxDelay
			}
			continue
		}

		m.mu.Lock()
		m.conn = conn
		m.mu.Unlock()

		logger.Infof("Connected to server %s:%d", m.host, m.port)
		return nil
	}
}

// Conn returns the active connection, nil when disconnected.
func (m *Manager) Conn() *network.Conn {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conn
}

// Drop discards the current connection after a protocol failure so the
// next command starts from a clean dial.
func (m *Manager) Drop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
}

// Reconnect drops the broken connection and dials again.
func (m *Manager) Reconnect(maxRetries int, baseDelay time.Duration) error {
	m.Drop()
	return m.Connect(maxRetries, baseDelay)
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn != nil {
		err := m.conn.Close()
		m.conn = nil
		return err
	}
	return nil
}

func (m *Manager) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conn != nil
}
