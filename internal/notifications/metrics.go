// internal/notifications/metrics.go

package notifications

import (
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
)

var (
    notificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
        Name: "notifications_sent_total",
        Help: "Total notifications delivered, by channel",
    }, []string{"channel"})
)

func RecordNotificationSent(channel string) {
    notificationsSent.WithLabelValues(channel).Inc()
}
