package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsSubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "asset_requests_submitted_total",
		Help: "Total number of asset requests submitted",
	})

	RequestsApprovedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "asset_requests_approved_total",
		Help: "Total number of asset requests approved",
	})

	RequestsRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "asset_requests_rejected_total",
		Help: "Total number of asset requests rejected",
	})

	ApprovalsBlockedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "asset_approvals_blocked_total",
		Help: "Total number of approvals that could not complete",
	}, []string{"reason"})

	AssetsReturnedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "assets_returned_total",
		Help: "Total number of assigned assets returned to stock",
	})

	InventoryDecrementLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "inventory_decrement_latency_seconds",
		Help:    "Latency of inventory decrement operations",
		Buckets: prometheus.DefBuckets,
	})

	CheckoutSessionsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkout_sessions_created_total",
		Help: "Total number of checkout sessions created",
	})

	PaymentsReconciledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payments_reconciled_total",
		Help: "Total number of provider payments persisted",
	})

	PaymentsDuplicateTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payments_duplicate_total",
		Help: "Total number of reconcile calls that matched an existing payment",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
