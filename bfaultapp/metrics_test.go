package bfaultapp_test

import (
	"strings"
	"testing"

	"github.com/advdv/bfault"
	"github.com/advdv/bfault/bfaultapp"
	"github.com/advdv/bfault/bfaulttest"
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusObserver(t *testing.T) {
	reg := bfaultapp.NewMetricsRegistry()
	obs := bfaultapp.NewPrometheusObserver(reg)

	n := bfault.NewNegotiator(nil)
	emit := &bfaulttest.Emitter{}

	for _, accept := range []string{"application/json", "application/json", "text/plain"} {
		req := bfaulttest.NewRequest("/", accept)
		fr := bfault.NewFaultRouter(n, req, bfault.ResponseFor(req), emit, bfault.WithObservers(obs))
		require.True(t, fr.Handle(errors.New("foo")))
	}

	req := bfaulttest.NewRequest("/", "text/html")
	fr := bfault.NewFaultRouter(n, req, bfault.ResponseFor(req), emit, bfault.WithObservers(obs))
	require.True(t, fr.HandlePanic("boom"))

	assert.InDelta(t, 2, testutil.ToFloat64(obs.Faults().WithLabelValues("recoverable", "500", "application/json")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(obs.Faults().WithLabelValues("recoverable", "500", "text/plain")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(obs.Faults().WithLabelValues("fatal", "500", "text/html")), 0)
	assert.Equal(t, 3, testutil.CollectAndCount(obs.Faults()))

	expected := `
# HELP bfault_faults_handled_total Faults rendered into a negotiated error response
# TYPE bfault_faults_handled_total counter
bfault_faults_handled_total{content_type="application/json",kind="recoverable",status="500"} 2
bfault_faults_handled_total{content_type="text/html",kind="fatal",status="500"} 1
bfault_faults_handled_total{content_type="text/plain",kind="recoverable",status="500"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "bfault_faults_handled_total"))
}

func TestPrometheusObserverRegistersOnce(t *testing.T) {
	reg := bfaultapp.NewMetricsRegistry()
	bfaultapp.NewPrometheusObserver(reg)

	require.Panics(t, func() { bfaultapp.NewPrometheusObserver(reg) })
}
