/*
Copyright 2025 The AlaudaDevops Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/


// Package metrics records release pipeline metrics
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/sirupsen/logrus"
)

const (
	// StatusSuccess marks a completed step
	StatusSuccess = "success"
	// StatusError marks a failed step
	StatusError = "error"
)

// Recorder is an interface for recording release metrics
type Recorder interface {
	RecordStep(step, status string, duration time.Duration)
	RecordRelease(bump string)
}

// NoOpRecorder is a no-op implementation used when no Pushgateway is configured
type NoOpRecorder struct{}

// RecordStep is a no-op implementation
func (n *NoOpRecorder) RecordStep(step, status string, duration time.Duration) {}

// RecordRelease is a no-op implementation
func (n *NoOpRecorder) RecordRelease(bump string) {}

// PrometheusRecorder records metrics into its own registry
type PrometheusRecorder struct {
	registry *prometheus.Registry

	// StepTotal counts pipeline steps by outcome
	StepTotal *prometheus.CounterVec
	// StepDuration tracks pipeline step duration
	StepDuration *prometheus.HistogramVec
	// ReleaseTotal counts finished releases by bump kind
	ReleaseTotal *prometheus.CounterVec
	// LastSuccess is the Unix time of the last finished release
	LastSuccess prometheus.Gauge
}

// NewPrometheusRecorder creates a recorder with a fresh registry
func NewPrometheusRecorder() *PrometheusRecorder {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &PrometheusRecorder{
		registry: registry,
		StepTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auto_release_step_total",
				Help: "Total number of release pipeline steps executed",
			},
			[]string{"step", "status"},
		),
		StepDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "auto_release_step_duration_seconds",
				Help:    "Release pipeline step duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"step"},
		),
		ReleaseTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auto_release_releases_total",
				Help: "Total number of releases finished",
			},
			[]string{"bump"},
		),
		LastSuccess: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "auto_release_last_success_timestamp_seconds",
				Help: "Unix time of the last finished release",
			},
		),
	}
}

// RecordStep records the outcome and duration of a step
func (p *PrometheusRecorder) RecordStep(step, status string, duration time.Duration) {
	p.StepTotal.WithLabelValues(step, status).Inc()
	p.StepDuration.WithLabelValues(step).Observe(duration.Seconds())
}

// RecordRelease records a finished release
func (p *PrometheusRecorder) RecordRelease(bump string) {
	p.ReleaseTotal.WithLabelValues(bump).Inc()
	p.LastSuccess.SetToCurrentTime()
}

// Registry returns the registry holding the recorder's metrics
func (p *PrometheusRecorder) Registry() *prometheus.Registry {
	return p.registry
}

// Push sends all metrics to the Pushgateway at url under job
func (p *PrometheusRecorder) Push(ctx context.Context, url, job string) error {
	if err := push.New(url, job).Gatherer(p.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", url, err)
	}
	logrus.Debugf("Pushed metrics to %s (job %s)", url, job)
	return nil
}

// Pusher sends gathered metrics to a Pushgateway
type Pusher interface {
	Push(ctx context.Context, url, job string) error
}

var (
	_ Recorder = (*NoOpRecorder)(nil)
	_ Recorder = (*PrometheusRecorder)(nil)
	_ Pusher   = (*PrometheusRecorder)(nil)
)
