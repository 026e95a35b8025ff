package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Reviews.WithLabelValues("good").Inc()
	m.Reviews.WithLabelValues("good").Inc()
	m.GoalsCompleted.Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Reviews.WithLabelValues("good")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GoalsCompleted))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["nareo_reviews_total"])
	assert.True(t, names["nareo_daily_goals_completed_total"])
}

func TestSeparateRegistries(t *testing.T) {
	// registering twice on distinct registries must not panic
	assert.NotPanics(t, func() {
		NewNop()
		NewNop()
	})
}
