package queue

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	queueAlive = promauto.NewGaugeVec(prometheus.GaugeOpts{ //nolint:gochecknoglobals
		Name: "promise_queue_alive",
		Help: "1 if the queue's actor goroutine is running",
	}, []string{"queue"})

	queueDepth = promauto.NewGaugeVec(prometheus.GaugeOpts{ //nolint:gochecknoglobals
		Name: "promise_queue_depth",
		Help: "Number of promises currently queued, including the running head",
	}, []string{"queue"})

	queueSuspended = promauto.NewGaugeVec(prometheus.GaugeOpts{ //nolint:gochecknoglobals
		Name: "promise_queue_suspended",
		Help: "1 if the queue is suspended",
	}, []string{"queue"})

	queueCompleted = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "promise_queue_completed_total",
		Help: "Total number of promises that completed after running through the queue",
	}, []string{"queue"})
)
