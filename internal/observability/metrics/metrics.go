package metrics

import "github.com/prometheus/client_golang/prometheus"

// EncounterMetrics exposes counters/histograms for the encounter pipeline.
type EncounterMetrics struct {
	plansTotal      *prometheus.CounterVec
	directivesTotal *prometheus.CounterVec
	reportsTotal    *prometheus.CounterVec
	summariesTotal  *prometheus.CounterVec
	summaryLatency  prometheus.Histogram
}

func NewEncounterMetrics(reg prometheus.Registerer) *EncounterMetrics {
	m := &EncounterMetrics{
		plansTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinicalflow",
			Subsystem: "encounter",
			Name:      "plans_total",
			Help:      "Total UI plans synthesized",
		}, []string{"kind"}),
		directivesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinicalflow",
			Subsystem: "encounter",
			Name:      "directives_total",
			Help:      "Total directives appended to UI plans",
		}, []string{"widget"}),
		reportsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinicalflow",
			Subsystem: "encounter",
			Name:      "context_reports_total",
			Help:      "Total widget reports into the context aggregator",
		}, []string{"widget"}),
		summariesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinicalflow",
			Subsystem: "encounter",
			Name:      "summaries_total",
			Help:      "Total visit summaries generated",
		}, []string{"generated_by"}),
		summaryLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "clinicalflow",
			Subsystem: "encounter",
			Name:      "summary_latency_seconds",
			Help:      "Latency of visit summary generation",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.plansTotal, m.directivesTotal, m.reportsTotal, m.summariesTotal, m.summaryLatency)
	return m
}

// ObservePlan records one synthesized plan. kind is "welcome", "keyword" or "empty".
func (m *EncounterMetrics) ObservePlan(kind string) {
	if m == nil {
		return
	}
	m.plansTotal.WithLabelValues(kind).Inc()
}

func (m *EncounterMetrics) ObserveDirective(widget string) {
	if m == nil {
		return
	}
	m.directivesTotal.WithLabelValues(widget).Inc()
}

func (m *EncounterMetrics) ObserveReport(widget string) {
	if m == nil {
		return
	}
	m.reportsTotal.WithLabelValues(widget).Inc()
}

func (m *EncounterMetrics) ObserveSummary(generatedBy string, seconds float64) {
	if m == nil {
		return
	}
	m.summariesTotal.WithLabelValues(generatedBy).Inc()
	m.summaryLatency.Observe(seconds)
}
