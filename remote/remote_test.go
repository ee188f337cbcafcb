package remote_test

import (
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"sfmp/network"
	"sfmp/remote"
	"sfmp/server/app/session"
	"sfmp/server/app/storage"
	"sfmp/transfer"
)

// dialTestServer wires a real server session to the returned client
// connection, so every test exercises both ends of the protocol.
func dialTestServer(t *testing.T, rootDir string) *network.Conn {
	t.Helper()
	root, err := storage.NewRoot(rootDir)
	require.NoError(t, err)

	sc, cc := net.Pipe()
	sess := session.New(network.NewConn(sc), root, nil, nil, zerolog.Nop())
	done := make(chan struct{})
	go func() {
		sess.Run()
		close(done)
	}()

	client := network.NewConn(cc)
	t.Cleanup(func() {
		client.Close()
		<-done
	})
	return client
}

func TestGetDownloads(t *testing.T) {
	rootDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(rootDir, "hello.txt"), []byte("hello"), 0o644))
	c := dialTestServer(t, rootDir)

	dst := filepath.Join(t.TempDir(), "local.txt")
	res, err := remote.Get(c, "hello.txt", dst)
	require.NoError(t, err)
	require.True(t, res.OK())
	require.Equal(t, int64(5), res.Bytes)
	require.Equal(t, "sent 5 bytes", res.Status.Message)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "hello", string(got))
}

func TestGetMissingLeavesNothing(t *testing.T) {
	c := dialTestServer(t, t.TempDir())

	dst := filepath.Join(t.TempDir(), "local.txt")
	res, err := remote.Get(c, "nope.txt", dst)
	require.NoError(t, err)
	require.Equal(t, network.StatusFileNotFound, res.Status.Code)

	_, err = os.Stat(dst)
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(dst + ".part")
	require.True(t, os.IsNotExist(err))

	// the connection survives the refusal
	_, lres, err := remote.ListServer(c)
	require.NoError(t, err)
	require.True(t, lres.OK())
}

func TestGetCreatesDestinationDirs(t *testing.T) {
	rootDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(rootDir, "a.txt"), []byte("deep"), 0o644))
	c := dialTestServer(t, rootDir)

	dst := filepath.Join(t.TempDir(), "nested", "dir", "a.txt")
	res, err := remote.Get(c, "a.txt", dst)
	require.NoError(t, err)
	require.True(t, res.OK())

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "deep", string(got))
}

func TestGetTwiceProducesSameContent(t *testing.T) {
	rootDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(rootDir, "stable.txt"), []byte("same bytes"), 0o644))
	c := dialTestServer(t, rootDir)

	dst := filepath.Join(t.TempDir(), "stable.txt")
	for i := 0; i < 2; i++ {
		res, err := remote.Get(c, "stable.txt", dst)
		require.NoError(t, err)
		require.True(t, res.OK())

		got, err := os.ReadFile(dst)
		require.NoError(t, err)
		require.Equal(t, "same bytes", string(got))
	}
}

func TestGetServerFailureMidStreamDiscardsPartial(t *testing.T) {
	sc, cc := net.Pipe()
	t.Cleanup(func() { cc.Close() })

	// the peer truncates with the end marker, then reports the failure
	go func() {
		srv := network.NewConn(sc)
		defer srv.Close()
		if _, err := srv.RecvFrame(); err != nil {
			return
		}
		_ = srv.SendChunk([]byte("par"))
		_ = srv.SendEnd()
		_ = srv.SendStatus(network.StatusIOError, "read failed: data.bin")
	}()

	dst := filepath.Join(t.TempDir(), "data.bin")
	res, err := remote.Get(network.NewConn(cc), "data.bin", dst)
	require.NoError(t, err)
	require.Equal(t, network.StatusIOError, res.Status.Code)

	_, err = os.Stat(dst)
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(dst + ".part")
	require.True(t, os.IsNotExist(err))
}

func TestGetClosedMidTransferIsLinkError(t *testing.T) {
	sc, cc := net.Pipe()
	t.Cleanup(func() { cc.Close() })

	go func() {
		srv := network.NewConn(sc)
		if _, err := srv.RecvFrame(); err != nil {
			return
		}
		_ = srv.SendChunk([]byte("par"))
		srv.Close()
	}()

	dst := filepath.Join(t.TempDir(), "data.bin")
	_, err := remote.Get(network.NewConn(cc), "data.bin", dst)
	require.ErrorIs(t, err, remote.ErrLink)

	_, err = os.Stat(dst)
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(dst + ".part")
	require.True(t, os.IsNotExist(err))
}

func TestPutUploads(t *testing.T) {
	rootDir := t.TempDir()
	c := dialTestServer(t, rootDir)

	src := filepath.Join(t.TempDir(), "src.txt")
	require.NoError(t, os.WriteFile(src, []byte("uploaded body"), 0o644))

	res, err := remote.Put(c, src, "landed.txt")
	require.NoError(t, err)
	require.True(t, res.OK())
	require.Equal(t, "received 13 bytes", res.Status.Message)

	got, err := os.ReadFile(filepath.Join(rootDir, "landed.txt"))
	require.NoError(t, err)
	require.Equal(t, "uploaded body", string(got))
}

func TestPutMissingSourceSendsNothing(t *testing.T) {
	c := dialTestServer(t, t.TempDir())

	_, err := remote.Put(c, filepath.Join(t.TempDir(), "ghost.txt"), "landed.txt")
	require.ErrorIs(t, err, transfer.ErrSourceMissing)

	// nothing went out: the same connection still accepts a command
	_, res, err := remote.ListServer(c)
	require.NoError(t, err)
	require.True(t, res.OK())
}

func TestPutDirectorySourceRejectedLocally(t *testing.T) {
	c := dialTestServer(t, t.TempDir())

	_, err := remote.Put(c, t.TempDir(), "landed.txt")
	require.ErrorIs(t, err, transfer.ErrSourceMissing)
}

func TestPutOutsideRootRejected(t *testing.T) {
	rootDir := t.TempDir()
	c := dialTestServer(t, rootDir)

	src := filepath.Join(t.TempDir(), "src.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))

	res, err := remote.Put(c, src, "../escape.txt")
	require.NoError(t, err)
	require.Equal(t, network.StatusOutsideRoot, res.Status.Code)

	// rejected upload keeps the session usable
	res, err = remote.Put(c, src, "inside.txt")
	require.NoError(t, err)
	require.True(t, res.OK())
}

func TestListServer(t *testing.T) {
	rootDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(rootDir, "zeta.txt"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(rootDir, "alpha.txt"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(rootDir, "bin"), 0o755))
	c := dialTestServer(t, rootDir)

	names, res, err := remote.ListServer(c)
	require.NoError(t, err)
	require.True(t, res.OK())
	require.Equal(t, []string{"alpha.txt", "bin", "zeta.txt"}, names)
}

func TestListServerEmpty(t *testing.T) {
	c := dialTestServer(t, t.TempDir())

	names, res, err := remote.ListServer(c)
	require.NoError(t, err)
	require.True(t, res.OK())
	require.Empty(t, names)
}

func TestUploadThenDownloadRoundTrip(t *testing.T) {
	rootDir := t.TempDir()
	c := dialTestServer(t, rootDir)

	local := t.TempDir()
	src := filepath.Join(local, "report.csv")
	require.NoError(t, os.WriteFile(src, []byte("id,name\n1,mai\n"), 0o644))

	res, err := remote.Put(c, src, "report.csv")
	require.NoError(t, err)
	require.True(t, res.OK())

	dst := filepath.Join(local, "copy.csv")
	res, err = remote.Get(c, "report.csv", dst)
	require.NoError(t, err)
	require.True(t, res.OK())

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "id,name\n1,mai\n", string(got))
}
