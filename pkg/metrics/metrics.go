package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "wordlink", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "wordlink", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	DocumentsUploaded = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "wordlink", Name: "documents_uploaded_total", Help: "Number of stored .docx uploads by event type."},
		[]string{"event"},
	)
	DocumentUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "wordlink", Name: "document_updates_total", Help: "Number of document-update records by event type."},
		[]string{"event"},
	)
	AddinInstalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "wordlink", Name: "addin_install_total", Help: "Number of add-in installation attempts by result."},
		[]string{"result"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(DocumentsUploaded)
	reg.MustRegister(DocumentUpdates)
	reg.MustRegister(AddinInstalls)
}
