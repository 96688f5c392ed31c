package filter

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	framesFiltered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "maskccl_frames_filtered_total",
		Help: "Frames labeled by a connected-component filter.",
	}, []string{"filter"})

	framesPassthrough = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "maskccl_frames_passthrough_total",
		Help: "Frames returned unmodified because they could not be labeled.",
	}, []string{"filter"})

	componentsExcluded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "maskccl_components_excluded_total",
		Help: "Foreground components erased by threshold filters.",
	}, []string{"filter"})

	frameLabels = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "maskccl_frame_labels",
		Help:    "Label count per frame, background included.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 9),
	}, []string{"filter"})
)
