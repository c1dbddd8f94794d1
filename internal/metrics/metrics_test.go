package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordTipSubmission(t *testing.T) {
	before := testutil.ToFloat64(tipsSubmitted.WithLabelValues("frame", "success", "true"))
	RecordTipSubmission("frame", "success", true, 2*time.Second)
	after := testutil.ToFloat64(tipsSubmitted.WithLabelValues("frame", "success", "true"))
	assert.Equal(t, before+1, after)
}

func TestRecordTransition(t *testing.T) {
	c := flowTransitions.WithLabelValues("widget", "confirm", "success")
	before := testutil.ToFloat64(c)
	RecordTransition("widget", "confirm", "success")
	assert.Equal(t, before+1, testutil.ToFloat64(c))
}

func TestRecordHTTPRequestUnmatched(t *testing.T) {
	RecordHTTPRequest("GET", "", 404, time.Millisecond)
	assert.Equal(t, float64(1), testutil.ToFloat64(httpRequests.WithLabelValues("GET", "unmatched", "404")))
}
