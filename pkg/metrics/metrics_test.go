package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordWorkflow(t *testing.T) {
	before := testutil.ToFloat64(workflowEvents.WithLabelValues("review_claim", "invalid_state"))
	RecordWorkflow("review_claim", "invalid_state")
	after := testutil.ToFloat64(workflowEvents.WithLabelValues("review_claim", "invalid_state"))
	if after-before != 1 {
		t.Errorf("期望计数 +1，实际 +%v", after-before)
	}
}

func TestHandler_ExposesMetrics(t *testing.T) {
	ObserveHTTP("GET", "", 200, 10*time.Millisecond)
	AddSwept(2)

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	body := w.Body.String()
	for _, name := range []string{"bingo_http_requests_total", "bingo_orphan_proofs_deleted_total", `route="unmatched"`} {
		if !strings.Contains(body, name) {
			t.Errorf("/metrics 输出缺少 %s", name)
		}
	}
}
