package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recognitions counts recognition attempts by outcome
// (matched, unknown, error).
var Recognitions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "faceattend_recognitions_total",
	Help: "Face recognition attempts by outcome.",
}, []string{"outcome"})

// Submissions counts state machine decisions
// (check_in, check_out, rejected, error).
var Submissions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "faceattend_submissions_total",
	Help: "Attendance submissions by decision.",
}, []string{"decision"})

// GallerySize tracks the number of indexed reference faces.
var GallerySize = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "faceattend_gallery_size",
	Help: "Number of faces in the in-memory gallery.",
})
