package shell_test

import (
	"bytes"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"sfmp/client/internal/config"
	"sfmp/client/internal/connection"
	"sfmp/client/internal/shell"
	"sfmp/network"
	"sfmp/server/app/session"
	"sfmp/server/app/storage"
)

// startServer runs a real transfer server on a loopback port and returns
// client configuration pointing at it.
func startServer(t *testing.T, rootDir string) config.AppConfig {
	t.Helper()
	root, err := storage.NewRoot(rootDir)
	require.NoError(t, err)

	srv, err := network.ListenTCP("127.0.0.1", 0)
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })

	go func() {
		for {
			conn, err := srv.Accept()
			if err != nil {
				return
			}
			go session.New(conn, root, nil, nil, zerolog.Nop()).Run()
		}
	}()

	host, portStr, err := net.SplitHostPort(srv.Addr())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return config.AppConfig{
		ServerHost: host,
		ServerPort: port,
		MaxRetries: 3,
		RetryDelay: 10 * time.Millisecond,
	}
}

func runScript(t *testing.T, cfg config.AppConfig, script string) string {
	t.Helper()
	mgr := connection.New(cfg.ServerHost, cfg.ServerPort)
	defer mgr.Close()

	var out bytes.Buffer
	sh := shell.NewWithIO(mgr, cfg, strings.NewReader(script), &out)
	require.NoError(t, sh.Run())
	return out.String()
}

func TestShellGetAndQuit(t *testing.T) {
	rootDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(rootDir, "hello.txt"), []byte("hello"), 0o644))
	cfg := startServer(t, rootDir)

	dst := filepath.Join(t.TempDir(), "local.txt")
	out := runScript(t, cfg, "GET hello.txt "+dst+"\nquit\n")

	require.Contains(t, out, "sent 5 bytes")
	require.Contains(t, out, "Saved 'hello.txt'")
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "hello", string(got))
}

func TestShellPut(t *testing.T) {
	rootDir := t.TempDir()
	cfg := startServer(t, rootDir)

	src := filepath.Join(t.TempDir(), "up.txt")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))
	out := runScript(t, cfg, "PUT "+src+" up.txt\nexit\n")

	require.Contains(t, out, "received 7 bytes")
	got, err := os.ReadFile(filepath.Join(rootDir, "up.txt"))
	require.NoError(t, err)
	require.Equal(t, "payload", string(got))
}

func TestShellListServer(t *testing.T) {
	rootDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(rootDir, "one.txt"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(rootDir, "two.txt"), nil, 0o644))
	cfg := startServer(t, rootDir)

	out := runScript(t, cfg, "LS server\nquit\n")
	require.Contains(t, out, "Current files in server's directory:")
	require.Contains(t, out, "one.txt")
	require.Contains(t, out, "two.txt")
}

func TestShellBadCommandPrintsUsage(t *testing.T) {
	cfg := startServer(t, t.TempDir())

	out := runScript(t, cfg, "FETCH a b\nGET onlyone\nquit\n")
	require.Contains(t, out, "Please select a valid command.")
	require.Contains(t, out, "Usage: GET remote-path local-path")
	require.Contains(t, out, "Usage: PUT local-path remote-path")
	require.Contains(t, out, "Usage: LS client|server")
}

func TestShellServerFailureKeepsLoop(t *testing.T) {
	rootDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(rootDir, "real.txt"), []byte("ok"), 0o644))
	cfg := startServer(t, rootDir)

	dst := filepath.Join(t.TempDir(), "out.txt")
	out := runScript(t, cfg, "GET ghost.txt "+dst+"\nGET real.txt "+dst+"\nquit\n")

	require.Contains(t, out, "FILE_NOT_FOUND")
	require.Contains(t, out, "sent 2 bytes")
}

func TestShellLocalListing(t *testing.T) {
	cfg := startServer(t, t.TempDir())

	out := runScript(t, cfg, "LS client\nquit\n")
	require.Contains(t, out, "Current files in client's directory:")
}

func TestShellUnreachableServer(t *testing.T) {
	// grab a port and close it again so the dial is refused
	srv, err := network.ListenTCP("127.0.0.1", 0)
	require.NoError(t, err)
	_, portStr, err := net.SplitHostPort(srv.Addr())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	require.NoError(t, srv.Close())

	cfg := config.AppConfig{ServerHost: "127.0.0.1", ServerPort: port, MaxRetries: 2, RetryDelay: 5 * time.Millisecond}
	out := runScript(t, cfg, "LS server\nquit\n")
	require.Contains(t, out, "There was a problem communicating with the server.")
}
