package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New()

	m.CommandDone("GET", "OK")
	m.CommandDone("GET", "OK")
	m.CommandDone("PUT", "FILE_NOT_FOUND")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.commands.WithLabelValues("GET", "OK")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.commands.WithLabelValues("PUT", "FILE_NOT_FOUND")))

	m.TransferDone("download", 512, 0.1)
	m.TransferDone("download", 512, 0.2)
	assert.Equal(t, 1024.0, testutil.ToFloat64(m.transferBytes.WithLabelValues("download")))

	m.SessionStarted()
	m.SessionStarted()
	m.SessionEnded()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.activeSessions))

	m.ProtocolError()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.protocolErrors))
}
