package charsheet

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	exports *prometheus.CounterVec
	ingests *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "charsheet",
			Name:      "exports_total",
			Help:      "Export attempts by artifact kind and result.",
		}, []string{"kind", "result"}),
		ingests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "charsheet",
			Name:      "portrait_ingests_total",
			Help:      "Portrait normalizations by source and result.",
		}, []string{"source", "result"}),
	}
	reg.MustRegister(m.exports, m.ingests)
	return m
}

func (m *metrics) observeIngest(source string, err error) {
	m.ingests.WithLabelValues(source, resultLabel(err)).Inc()
}

func (m *metrics) observeExport(a Artifact, err error) {
	kind := "none"
	switch a.ContentType {
	case SVGContentType:
		kind = "svg"
	case ZipContentType:
		kind = "zip"
	}
	m.exports.WithLabelValues(kind, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrImageTooLarge):
		return "too_large"
	case errors.Is(err, ErrUnsupportedImage):
		return "unsupported"
	case errors.Is(err, ErrUnknownPortrait):
		return "unknown"
	case errors.Is(err, ErrInvalidSelection):
		return "invalid_selection"
	case errors.Is(err, ErrArchiveWrite):
		return "archive_error"
	default:
		return "error"
	}
}
