package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistration(t *testing.T) {
	collectors := []prometheus.Collector{
		CheckoutSessionsTotal,
		CheckoutSessionsExpired,
		PurchasesTotal,
		WebhookEventsTotal,
		VideoAssetOpsTotal,
	}

	for _, collector := range collectors {
		desc := make(chan *prometheus.Desc, 1)
		collector.Describe(desc)
		close(desc)

		require.NotNil(t, <-desc, "metric should have a valid descriptor")
	}
}

func TestLabelledCounters(t *testing.T) {
	before := testutil.ToFloat64(WebhookEventsTotal.WithLabelValues("checkout.session.completed", "processed"))
	WebhookEventsTotal.WithLabelValues("checkout.session.completed", "processed").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(WebhookEventsTotal.WithLabelValues("checkout.session.completed", "processed")))

	before = testutil.ToFloat64(VideoAssetOpsTotal.WithLabelValues("delete", "ok"))
	VideoAssetOpsTotal.WithLabelValues("delete", "ok").Add(2)
	assert.Equal(t, before+2, testutil.ToFloat64(VideoAssetOpsTotal.WithLabelValues("delete", "ok")))
}
