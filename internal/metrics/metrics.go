package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bakerybot_messages_total",
		Help: "Inbound chat messages handled by the ingredient manager.",
	})

	IntentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bakerybot_intents_total",
		Help: "Recognized intents by kind (including unrecognized).",
	}, []string{"kind"})

	RepliesFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bakerybot_replies_failed_total",
		Help: "Replies that reported a failure to the user, by error kind.",
	}, []string{"kind"})
)
