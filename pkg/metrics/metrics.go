package metrics

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	Namespace = "snpr"

	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics owns a private registry so tests and multiple services in one
// process never collide on the default registerer.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	KafkaMessages *prometheus.CounterVec
	KafkaDuration *prometheus.HistogramVec

	GenotypesParsed *prometheus.CounterVec
	GenotypeLines   *prometheus.CounterVec

	KnownVariationLookups *prometheus.CounterVec
}

func New(service string) *Metrics {
	reg := prometheus.NewRegistry()
	labels := prometheus.Labels{"service": service}

	m := &Metrics{
		Registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   Namespace,
			Subsystem:   "http",
			Name:        "requests_total",
			Help:        "HTTP requests by method, route and status code.",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   Namespace,
			Subsystem:   "http",
			Name:        "request_duration_seconds",
			Help:        "HTTP request latency by method and route.",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		KafkaMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   Namespace,
			Subsystem:   "kafka",
			Name:        "messages_total",
			Help:        "Kafka messages produced or consumed by topic and result.",
			ConstLabels: labels,
		}, []string{"direction", "topic", "result"}),
		KafkaDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   Namespace,
			Subsystem:   "kafka",
			Name:        "message_duration_seconds",
			Help:        "Time spent publishing or handling a Kafka message.",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"direction", "topic"}),
		GenotypesParsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   Namespace,
			Subsystem:   "genotypes",
			Name:        "parsed_total",
			Help:        "Genotype files processed by filetype and final status.",
			ConstLabels: labels,
		}, []string{"filetype", "status"}),
		GenotypeLines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   Namespace,
			Subsystem:   "genotypes",
			Name:        "lines_total",
			Help:        "Genotype file lines by filetype and outcome (record, skipped, invalid).",
			ConstLabels: labels,
		}, []string{"filetype", "outcome"}),
		KnownVariationLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   Namespace,
			Subsystem:   "phenotypes",
			Name:        "known_variation_lookups_total",
			Help:        "Known-variation reads by result.",
			ConstLabels: labels,
		}, []string{"result"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPDuration,
		m.KafkaMessages,
		m.KafkaDuration,
		m.GenotypesParsed,
		m.GenotypeLines,
		m.KnownVariationLookups,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

var reObjectID = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// RouteLabel collapses ObjectID path segments so per-resource URLs share one
// label value.
func RouteLabel(path string) string {
	if path == "" {
		return "/"
	}
	segments := strings.Split(path, "/")
	for i, s := range segments {
		if reObjectID.MatchString(s) {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}

func Result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}
