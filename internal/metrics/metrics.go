package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OperationsTotal counts bridge operations by kind and outcome
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_operations_total",
			Help: "Total number of bridge operations",
		},
		[]string{"operation", "status"},
	)

	// OperationDuration tracks end-to-end operation time, submission to notification
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bridge_operation_duration_seconds",
			Help:    "Bridge operation duration in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"operation"},
	)

	// TransactionsSent counts transactions broadcast to the ledger
	TransactionsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_transactions_sent_total",
			Help: "Total number of transactions sent",
		},
		[]string{"chain", "status"},
	)

	// FinalityPolls counts status queries issued while waiting for finality
	FinalityPolls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_finality_polls_total",
			Help: "Total number of transaction status polls",
		},
		[]string{"status"},
	)

	// FinalityWait tracks the time from submission until a terminal status
	FinalityWait = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bridge_finality_wait_seconds",
			Help:    "Time spent waiting for transaction finality in seconds",
			Buckets: []float64{3, 5, 10, 20, 30, 60, 120, 300, 600},
		},
		[]string{"status"},
	)

	// EventsExtracted counts event identifier extraction attempts
	EventsExtracted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_events_extracted_total",
			Help: "Total number of event identifier extractions",
		},
		[]string{"status"},
	)

	// NotificationsTotal counts relay notifications by outcome
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_notifications_total",
			Help: "Total number of relay notifications",
		},
		[]string{"status"},
	)

	// BridgeBalance tracks the last observed balance per destination chain and token
	BridgeBalance = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bridge_balance",
			Help: "Last observed wrapped balance by chain and token",
		},
		[]string{"chain", "token"},
	)

	// ErrorsTotal counts errors by type
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)
)
