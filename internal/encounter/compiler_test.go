package encounter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicalflow/clinicalflow/internal/patients"
)

func compilerAt(ts time.Time) *Compiler {
	c := NewCompiler()
	c.now = func() time.Time { return ts }
	return c
}

func TestCompileEmptySession(t *testing.T) {
	c := NewCompiler()
	record := c.Compile(testPatient(), NewSession("pat-1"))

	assert.Nil(t, record.Complaint)
	assert.Nil(t, record.Diagnosis)
	assert.Nil(t, record.Vitals)
	assert.Nil(t, record.BodyRegion)
	assert.Nil(t, record.Score)
	assert.NotNil(t, record.Symptoms)
	assert.Empty(t, record.Symptoms)
	assert.NotNil(t, record.LabsOrdered)
	assert.Empty(t, record.LabsOrdered)
	assert.Zero(t, record.MessageCount)
}

func TestCompileChiefComplaintStripsRoutingPrefix(t *testing.T) {
	c := NewCompiler()
	s := NewSession("pat-1")
	s.Append(Entry{Role: RoleAssistant, Content: "Welcome"})
	s.Append(Entry{Role: RoleUser, Content: "  [Patient: Sarah Connor] severe chest pain"})

	record := c.Compile(testPatient(), s)
	require.NotNil(t, record.Complaint)
	assert.Equal(t, "severe chest pain", *record.Complaint)
}

func TestCompileDiagnosisPrefersReferralCard(t *testing.T) {
	c := NewCompiler()
	s := NewSession("pat-1")
	s.Append(Entry{Role: RoleUser, Content: "impression is likely gastritis"})
	s.Context().Report("ReferralLetterCard", map[string]any{"diagnosis": "Acute appendicitis"})

	record := c.Compile(testPatient(), s)
	require.NotNil(t, record.Diagnosis)
	assert.Equal(t, "Acute appendicitis", *record.Diagnosis)
}

func TestCompileDiagnosisFallsBackToLastDiagnosticMessage(t *testing.T) {
	c := NewCompiler()
	s := NewSession("pat-1")
	s.Append(Entry{Role: RoleUser, Content: "stomach pain"})
	s.Append(Entry{Role: RoleUser, Content: "findings consistent with gastritis"})
	s.Append(Entry{Role: RoleUser, Content: "order labs"})

	record := c.Compile(testPatient(), s)
	require.NotNil(t, record.Diagnosis)
	assert.Equal(t, "findings consistent with gastritis", *record.Diagnosis)
}

func TestCompileDiagnosisStripsRoutingPrefix(t *testing.T) {
	c := NewCompiler()
	s := NewSession("pat-1")
	s.Append(Entry{Role: RoleUser, Content: "[Patient: Sarah Connor, Age: 55] findings consistent with gastritis"})

	record := c.Compile(testPatient(), s)
	require.NotNil(t, record.Diagnosis)
	assert.Equal(t, "findings consistent with gastritis", *record.Diagnosis)
}

func TestCompileNormalizesConversationHistory(t *testing.T) {
	c := NewCompiler()
	s := NewSession("pat-1")
	s.Append(Entry{Role: RoleUser, Content: "[Patient: Sarah Connor, Age: 55] stomach pain"})
	s.Append(Entry{
		Role:    RoleAssistant,
		Content: "Let's map the tenderness.",
		Components: UIPlan{
			{Zone: ZoneActive, Type: WidgetBodyMapAbdomen},
			{Zone: ZoneActive, Type: WidgetScoreCalculator},
		},
	})

	record := c.Compile(testPatient(), s)
	require.Len(t, record.ConversationHistory, 2)
	assert.Equal(t, "stomach pain", record.ConversationHistory[0].Content)
	assert.Empty(t, record.ConversationHistory[0].Components)
	assert.Equal(t, "Let's map the tenderness.", record.ConversationHistory[1].Content)
	assert.Equal(t, []string{"BodyMapAbdomen", "ScoreCalculator"}, record.ConversationHistory[1].Components)
}

func TestCompileDecodesWidgetPayloads(t *testing.T) {
	c := NewCompiler()
	s := NewSession("pat-1")
	agg := s.Context()
	agg.Report("VitalsForm", map[string]any{
		"bloodPressure": "150/90",
		"heartRate":     float64(92),
		"temperature":   "101.2",
	})
	agg.Report("SymptomToggles", []any{"Nausea", "Rebound pain"})
	agg.Report("BodyMapAbdomen", "lower-right")
	agg.Report("LabsOrder", []string{"CBC", "CRP"})
	agg.Report("ScoreCalculator", map[string]any{
		"title": "Alvarado Score", "score": float64(8), "maxScore": float64(10),
		"items": []any{"RLQ tenderness", "Fever"},
	})
	agg.Report("AppendicitisRiskCard", map[string]any{"riskLevel": "high"})
	agg.Report("NPOOrderToggle", map[string]any{"on": true})
	agg.Report("ConsentSummaryCard", map[string]any{"procedure": "Appendectomy (Laparoscopic)", "acknowledged": true})

	record := c.Compile(testPatient(), s)

	require.NotNil(t, record.Vitals)
	assert.Equal(t, "150/90", record.Vitals.BloodPressure)
	require.NotNil(t, record.Vitals.HeartRate)
	assert.Equal(t, 92, *record.Vitals.HeartRate)
	require.NotNil(t, record.Vitals.Temperature)
	assert.InDelta(t, 101.2, *record.Vitals.Temperature, 0.001)

	assert.Equal(t, []string{"Nausea", "Rebound pain"}, record.Symptoms)
	require.NotNil(t, record.BodyRegion)
	assert.Equal(t, "lower-right", *record.BodyRegion)
	assert.Equal(t, []string{"CBC", "CRP"}, record.LabsOrdered)

	require.NotNil(t, record.Score)
	assert.Equal(t, 8, record.Score.Score)
	assert.Equal(t, 10, record.Score.MaxScore)
	assert.Equal(t, []string{"RLQ tenderness", "Fever"}, record.Score.Items)

	require.NotNil(t, record.RiskLevel)
	assert.Equal(t, "high", *record.RiskLevel)
	require.NotNil(t, record.Procedure)
	assert.Equal(t, "Appendectomy (Laparoscopic)", *record.Procedure)
	assert.True(t, record.NPOStatus)
	assert.True(t, record.ConsentObtained)
}

func TestCompileMalformedPayloadsDegradeToAbsent(t *testing.T) {
	c := NewCompiler()
	s := NewSession("pat-1")
	s.Context().Report("VitalsForm", "not a map")
	s.Context().Report("ScoreCalculator", 42)
	s.Context().Report("SymptomToggles", map[string]any{"oops": true})

	record := c.Compile(testPatient(), s)
	assert.Nil(t, record.Vitals)
	assert.Nil(t, record.Score)
	assert.Empty(t, record.Symptoms)
}

func TestCompileIsIdempotent(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	c := compilerAt(ts)

	s := NewSession("pat-1")
	s.Append(Entry{Role: RoleUser, Content: "stomach pain"})
	s.Context().Report("VitalsForm", map[string]any{"heartRate": 80})

	first := c.Compile(testPatient(), s)
	second := c.Compile(testPatient(), s)
	assert.Equal(t, first, second)
}

func TestCompileSnapshotsPatient(t *testing.T) {
	c := NewCompiler()
	patient := &patients.Patient{
		ID: "pat-1", Name: "Harsh Dange", Age: 32, Gender: "Male", BloodType: "O+",
		Medications: []string{"Warfarin"}, Allergies: []string{"Penicillin"},
		ChronicConditions: []string{"Asthma"},
	}

	record := c.Compile(patient, NewSession("pat-1"))
	assert.Equal(t, "Harsh Dange", record.Patient.Name)
	assert.Equal(t, []string{"Warfarin"}, record.Patient.Medications)
}
