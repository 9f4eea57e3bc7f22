// Package metrics defines the Prometheus instruments exposed by the stream
// consumer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsDecoded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "expense_stream_events_decoded_total",
		Help: "Total number of complete JSON objects extracted from the stream.",
	})

	EventsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "expense_stream_events_processed_total",
		Help: "Total number of events persisted successfully.",
	})

	EventsDuplicate = promauto.NewCounter(prometheus.CounterOpts{
		Name: "expense_stream_events_duplicate_total",
		Help: "Total number of events skipped as already-persisted duplicates.",
	})

	EventRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "expense_stream_event_retries_total",
		Help: "Total number of processing attempt retries across all events.",
	})

	EventsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "expense_stream_events_failed_total",
		Help: "Total number of events dropped after exhausting all retries.",
	})

	StreamReconnects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "expense_stream_reconnects_total",
		Help: "Total number of reconnect attempts after a connection failure.",
	})

	DecodeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "expense_stream_decode_failures_total",
		Help: "Total number of connections that closed with undecodable trailing bytes.",
	})
)
