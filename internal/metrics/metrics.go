// Package metrics exports engine activity as Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/1broseidon/glassdesk/internal/geometry"
)

// Collector implements desktop.Recorder on top of Prometheus collectors.
type Collector struct {
	dragsStarted  *prometheus.CounterVec
	dropsAccepted *prometheus.CounterVec
	dropsRejected *prometheus.CounterVec
	logins        *prometheus.CounterVec
	passwords     prometheus.Counter
	resizes       prometheus.Counter
	canvasWidth   prometheus.Gauge
	canvasHeight  prometheus.Gauge
}

// NewCollector creates a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		dragsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "glassdesk_drags_started_total",
			Help: "Drag sessions started, by surface class.",
		}, []string{"class"}),
		dropsAccepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "glassdesk_drops_accepted_total",
			Help: "Finder drops that created a desktop icon, by app.",
		}, []string{"app"}),
		dropsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "glassdesk_drops_rejected_total",
			Help: "Drops ignored by the canvas, by reason.",
		}, []string{"reason"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "glassdesk_login_submissions_total",
			Help: "Login form submissions, by outcome.",
		}, []string{"ok"}),
		passwords: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "glassdesk_passwords_generated_total",
			Help: "Passwords derived by the credential generator.",
		}),
		resizes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "glassdesk_canvas_resizes_total",
			Help: "Viewport synchronizer passes triggered by canvas resizes.",
		}),
		canvasWidth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "glassdesk_canvas_width_pixels",
			Help: "Current canvas width.",
		}),
		canvasHeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "glassdesk_canvas_height_pixels",
			Help: "Current canvas height.",
		}),
	}

	reg.MustRegister(
		c.dragsStarted,
		c.dropsAccepted,
		c.dropsRejected,
		c.logins,
		c.passwords,
		c.resizes,
		c.canvasWidth,
		c.canvasHeight,
	)
	return c
}

func (c *Collector) DragStarted(class string) {
	c.dragsStarted.WithLabelValues(class).Inc()
}

func (c *Collector) DropAccepted(appID string) {
	c.dropsAccepted.WithLabelValues(appID).Inc()
}

func (c *Collector) DropRejected(reason string) {
	c.dropsRejected.WithLabelValues(reason).Inc()
}

func (c *Collector) LoginSubmitted(ok bool) {
	c.logins.WithLabelValues(strconv.FormatBool(ok)).Inc()
}

func (c *Collector) PasswordGenerated() {
	c.passwords.Inc()
}

func (c *Collector) CanvasResized(size geometry.Size) {
	c.resizes.Inc()
	c.canvasWidth.Set(float64(size.Width))
	c.canvasHeight.Set(float64(size.Height))
}

// Handler serves the scrape endpoint for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
