// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GradesRecordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medcampus_grades_recorded_total",
			Help: "Total number of grades recorded",
		},
		[]string{"filiere", "niveau", "session"},
	)

	GradeValueHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "medcampus_grade_value",
			Help:    "Distribution of grade values on the 0-20 scale",
			Buckets: prometheus.LinearBuckets(0, 2, 11),
		},
		[]string{"filiere", "niveau"},
	)

	CertificatesIssuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medcampus_certificates_issued_total",
			Help: "Total number of certificates issued",
		},
		[]string{"filiere", "niveau", "mention"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)
