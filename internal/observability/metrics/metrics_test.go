package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEncounterMetricsRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewEncounterMetrics(reg)
	require.NotNil(t, m)

	m.ObservePlan("keyword")
	m.ObserveDirective("AlertCard")
	m.ObserveReport("VitalsForm")
	m.ObserveSummary("template", 0.01)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["clinicalflow_encounter_plans_total"])
	assert.True(t, names["clinicalflow_encounter_directives_total"])
	assert.True(t, names["clinicalflow_encounter_context_reports_total"])
	assert.True(t, names["clinicalflow_encounter_summaries_total"])
	assert.True(t, names["clinicalflow_encounter_summary_latency_seconds"])
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *EncounterMetrics
	assert.NotPanics(t, func() {
		m.ObservePlan("empty")
		m.ObserveDirective("BodyMap")
		m.ObserveReport("ScoreCalculator")
		m.ObserveSummary("ai", 1.5)
	})
}
