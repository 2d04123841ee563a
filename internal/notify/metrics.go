package notify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var deliveriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "notification_deliveries_total",
		Help: "Notification deliveries by channel and result",
	},
	[]string{"channel", "result"},
)

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
