// Package metrics exposes the portal's prometheus instrumentation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	LoginAttempts          *prometheus.CounterVec // result: success|failure
	MessagesSent           prometheus.Counter
	MeetingsScheduled      prometheus.Counter
	AnnouncementsPublished prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		LoginAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "darasa_login_attempts_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
		MessagesSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "darasa_messages_sent_total",
			Help: "Messages sent through the portal.",
		}),
		MeetingsScheduled: factory.NewCounter(prometheus.CounterOpts{
			Name: "darasa_meetings_scheduled_total",
			Help: "Meetings scheduled through the portal.",
		}),
		AnnouncementsPublished: factory.NewCounter(prometheus.CounterOpts{
			Name: "darasa_announcements_published_total",
			Help: "Announcements published through the portal.",
		}),
	}
}

// Handler serves the metrics endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
