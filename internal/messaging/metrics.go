package messaging

import (
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
)

var (
    messagesSent = promauto.NewCounter(prometheus.CounterOpts{
        Name: "messaging_messages_sent_total",
        Help: "Total number of chat messages sent",
    })

    activeConnections = promauto.NewGauge(prometheus.GaugeOpts{
        Name: "messaging_active_websocket_connections",
        Help: "Number of currently connected websocket clients",
    })
)

func RecordMessageSent() {
    messagesSent.Inc()
}

func SetActiveConnections(n int) {
    activeConnections.Set(float64(n))
}
