package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ChatResolvedInc("offline")
	m.ChatResolvedInc("offline")
	m.ChatResolvedInc("intent")
	m.ModelErrorInc("chat")
	m.FileIngestedInc("none")
	m.ImageGeneratedInc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.chatResolved.WithLabelValues("offline")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.chatResolved.WithLabelValues("intent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.modelError.WithLabelValues("chat")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.filesIngested.WithLabelValues("none")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.imagesRendered))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ChatResolvedInc("online")
		m.ModelErrorInc("analyze")
		m.ModelTimer("chat")()
		m.FileIngestedInc("full")
		m.ImageGeneratedInc()
	})
}
