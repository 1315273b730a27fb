package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_intake_rate_limited_total",
		Help: "Total number of intake submissions rejected by the rate limiter.",
	})
)
