package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveLiveFetch(t *testing.T) {
	okBefore := testutil.ToFloat64(liveFetchTotal.WithLabelValues("test-source", ResultOK))
	emptyBefore := testutil.ToFloat64(liveFetchTotal.WithLabelValues("test-source", ResultEmpty))

	ObserveLiveFetch("test-source", 12)
	ObserveLiveFetch("test-source", 0)

	assert.Equal(t, okBefore+1, testutil.ToFloat64(liveFetchTotal.WithLabelValues("test-source", ResultOK)))
	assert.Equal(t, emptyBefore+1, testutil.ToFloat64(liveFetchTotal.WithLabelValues("test-source", ResultEmpty)))
	assert.Equal(t, 0.0, testutil.ToFloat64(livePoints.WithLabelValues("test-source")))
}

func TestSetSnapshotVersion(t *testing.T) {
	SetSnapshotVersion(42)
	assert.Equal(t, 42.0, testutil.ToFloat64(snapshotVersion))
}

func TestObserveViewCache(t *testing.T) {
	before := testutil.ToFloat64(viewCacheTotal.WithLabelValues("chart", "hit"))
	ObserveViewCache("chart", true)
	assert.Equal(t, before+1, testutil.ToFloat64(viewCacheTotal.WithLabelValues("chart", "hit")))
}
