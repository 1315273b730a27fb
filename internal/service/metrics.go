package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	intakesReceivedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_intakes_received_total",
		Help: "Total number of intake forms accepted.",
	})
	optionsSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_plot_option_emails_total",
		Help: "Total number of plot option emails dispatched (sends and resends).",
	})
	paymentLinksSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_payment_links_sent_total",
		Help: "Total number of payment link emails dispatched.",
	})
	paymentsConfirmedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_payments_confirmed_total",
		Help: "Total number of webhook-confirmed payments.",
	})
	statusTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_status_transitions_total",
		Help: "Total number of staff override transitions by target status.",
	}, []string{"status"})
)
