package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveConversion(t *testing.T) {
	ObserveConversion("sequential", "parquet", 20*time.Millisecond, nil)
	ObserveConversion("sequential", "parquet", time.Second, errors.New("boom"))
	// one series per status
	assert.GreaterOrEqual(t, testutil.CollectAndCount(ConversionDuration), 2)
}

func TestCounters(t *testing.T) {
	c := RecordsConverted.WithLabelValues("parallel", "arrow")
	start := testutil.ToFloat64(c)
	c.Add(42)
	assert.Equal(t, start+42, testutil.ToFloat64(c))
}

func TestThroughputTracker(t *testing.T) {
	tr := NewThroughputTracker("test")
	tr.Increment(100)
	tr.Increment(50)
	time.Sleep(5 * time.Millisecond)
	rate := tr.GetAndReset()
	assert.Positive(t, rate)
	assert.Equal(t, rate, testutil.ToFloat64(Throughput.WithLabelValues("test")))

	timer := NewTimer("x")
	assert.Equal(t, "x", timer.Name())
	assert.GreaterOrEqual(t, timer.Stop(), time.Duration(0))
}

func TestHandlerExposesCollectors(t *testing.T) {
	RecordsSkipped.WithLabelValues("sequential").Inc()

	srv := httptest.NewServer(Handler())
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "csfs_records_skipped_total")
}
