package encounter

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/clinicalflow/clinicalflow/internal/patients"
)

// Vitals is the decoded VitalsForm payload. Fields are pointers so the
// narrative can distinguish "not measured" from zero.
type Vitals struct {
	Temperature      *float64 `json:"temperature,omitempty"`
	BloodPressure    string   `json:"bloodPressure,omitempty"`
	HeartRate        *int     `json:"heartRate,omitempty"`
	RespiratoryRate  *int     `json:"respiratoryRate,omitempty"`
	OxygenSaturation *float64 `json:"oxygenSaturation,omitempty"`
}

// Score is a decoded ScoreCalculator payload.
type Score struct {
	Title    string   `json:"title,omitempty"`
	Score    int      `json:"score"`
	MaxScore int      `json:"maxScore,omitempty"`
	Items    []string `json:"items,omitempty"`
}

// PatientSnapshot captures the chart fields the record needs, decoupled from
// the live patient store.
type PatientSnapshot struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Age               int      `json:"age"`
	Gender            string   `json:"gender"`
	BloodType         string   `json:"bloodType"`
	Medications       []string `json:"medications"`
	Allergies         []string `json:"allergies"`
	ChronicConditions []string `json:"chronicConditions"`
}

// HistoryEntry is one normalized transcript turn in a VisitRecord: routing
// prefixes are stripped from the content and directives are flattened to
// their widget type names.
type HistoryEntry struct {
	Role       Role      `json:"role"`
	Content    string    `json:"content"`
	Components []string  `json:"components,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// VisitRecord is the structured output of compiling an encounter.
type VisitRecord struct {
	Patient             PatientSnapshot `json:"patient"`
	Complaint           *string         `json:"complaint"`
	Diagnosis           *string         `json:"diagnosis"`
	Vitals              *Vitals         `json:"vitals"`
	Symptoms            []string        `json:"symptoms"`
	BodyRegion          *string         `json:"bodyRegion"`
	LabsOrdered         []string        `json:"labsOrdered"`
	Score               *Score          `json:"score"`
	RiskLevel           *string         `json:"riskLevel"`
	Procedure           *string         `json:"procedure"`
	Plan                *string         `json:"plan"`
	NPOStatus           bool            `json:"npoStatus"`
	ConsentObtained     bool            `json:"consentObtained"`
	MessageCount        int             `json:"messageCount"`
	ConversationHistory []HistoryEntry  `json:"conversationHistory"`
	Timestamp           time.Time       `json:"timestamp"`
}

var (
	patientPrefixRe = regexp.MustCompile(`(?i)^\s*\[Patient:[^\]]+\]\s*`)
	diagnosisHintRe = regexp.MustCompile(`(?i)(diagnos|impression|likely|issue of|suspect|consistent with)`)
)

// Compiler folds a session's transcript and aggregated context into a
// VisitRecord. It is the only place widget payloads are decoded, so malformed
// reports degrade to absent fields instead of failing the compile.
type Compiler struct {
	now func() time.Time
}

func NewCompiler() *Compiler {
	return &Compiler{now: time.Now}
}

// Compile is read-only with respect to the session. Compiling twice yields
// records that differ only in Timestamp.
func (c *Compiler) Compile(patient *patients.Patient, session *Session) VisitRecord {
	ctx := session.Context().Snapshot()
	entries := session.Entries()

	record := VisitRecord{
		Complaint:           c.chiefComplaint(entries),
		Diagnosis:           c.inferredDiagnosis(ctx, entries),
		Vitals:              decodeVitals(firstPresent(ctx, string(WidgetVitalsForm), "vitals")),
		Symptoms:            coerceStringSlice(firstPresent(ctx, string(WidgetSymptomToggles), "symptoms")),
		LabsOrdered:         coerceStringSlice(firstPresent(ctx, string(WidgetLabsOrder), string(WidgetLabsChecklist))),
		Score:               decodeScore(ctx[string(WidgetScoreCalculator)]),
		MessageCount:        len(entries),
		ConversationHistory: normalizeHistory(entries),
		Timestamp:           c.now(),
	}

	if patient != nil {
		record.Patient = PatientSnapshot{
			ID:                patient.ID,
			Name:              patient.Name,
			Age:               patient.Age,
			Gender:            patient.Gender,
			BloodType:         patient.BloodType,
			Medications:       patient.Medications,
			Allergies:         patient.Allergies,
			ChronicConditions: patient.ChronicConditions,
		}
	}

	if region := coerceString(firstPresent(ctx, string(WidgetBodyMapAbdomen), string(WidgetBodyMap))); region != "" {
		record.BodyRegion = &region
	}
	if risk, ok := ctx[string(WidgetAppendicitisRiskCard)]; ok {
		if m, ok := risk.(map[string]any); ok {
			if level := coerceString(m["riskLevel"]); level != "" {
				record.RiskLevel = &level
			}
		}
	}
	if consent, ok := ctx[string(WidgetConsentSummaryCard)].(map[string]any); ok {
		if proc := coerceString(consent["procedure"]); proc != "" {
			record.Procedure = &proc
		}
		record.ConsentObtained = coerceBool(consent["acknowledged"])
	}
	if proc := coerceString(firstPresent(ctx, string(WidgetConsentForm))); proc != "" && record.Procedure == nil {
		record.Procedure = &proc
	}
	record.NPOStatus = coerceBool(ctx[string(WidgetNPOOrderToggle)])
	if plan := coerceString(ctx["plan"]); plan != "" {
		record.Plan = &plan
	}

	return record
}

// chiefComplaint is the first clinician message with any routing prefix
// stripped.
func (c *Compiler) chiefComplaint(entries []Entry) *string {
	for _, e := range entries {
		if e.Role != RoleUser {
			continue
		}
		text := stripRoutingPrefix(e.Content)
		if text == "" {
			return nil
		}
		return &text
	}
	return nil
}

// inferredDiagnosis prefers an explicit referral diagnosis, then falls back
// to the most recent clinician message that reads like a diagnostic
// statement. Negations ("no evidence of...") are not filtered out.
func (c *Compiler) inferredDiagnosis(ctx map[string]any, entries []Entry) *string {
	for _, key := range []string{string(WidgetReferralLetterCard), "ReferralLetter"} {
		if m, ok := ctx[key].(map[string]any); ok {
			if d := coerceString(m["diagnosis"]); d != "" {
				return &d
			}
		}
	}
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.Role != RoleUser {
			continue
		}
		text := stripRoutingPrefix(e.Content)
		if diagnosisHintRe.MatchString(text) {
			return &text
		}
	}
	return nil
}

func stripRoutingPrefix(content string) string {
	return strings.TrimSpace(patientPrefixRe.ReplaceAllString(content, ""))
}

// normalizeHistory strips routing prefixes from clinician turns and flattens
// directive lists down to their widget names.
func normalizeHistory(entries []Entry) []HistoryEntry {
	out := make([]HistoryEntry, len(entries))
	for i, e := range entries {
		h := HistoryEntry{Role: e.Role, Content: e.Content, Timestamp: e.Timestamp}
		if e.Role == RoleUser {
			h.Content = stripRoutingPrefix(e.Content)
		}
		for _, d := range e.Components {
			h.Components = append(h.Components, string(d.Type))
		}
		out[i] = h
	}
	return out
}

func decodeVitals(v any) *Vitals {
	m, ok := v.(map[string]any)
	if !ok || len(m) == 0 {
		return nil
	}
	out := &Vitals{BloodPressure: coerceString(firstKey(m, "bloodPressure", "Blood Pressure"))}
	if f, ok := coerceFloat(firstKey(m, "temperature", "Temperature")); ok {
		out.Temperature = &f
	}
	if n, ok := coerceInt(firstKey(m, "heartRate", "Heart Rate")); ok {
		out.HeartRate = &n
	}
	if n, ok := coerceInt(firstKey(m, "respiratoryRate", "Respiratory Rate")); ok {
		out.RespiratoryRate = &n
	}
	if f, ok := coerceFloat(firstKey(m, "oxygenSaturation", "Oxygen Saturation")); ok {
		out.OxygenSaturation = &f
	}
	if out.Temperature == nil && out.BloodPressure == "" && out.HeartRate == nil &&
		out.RespiratoryRate == nil && out.OxygenSaturation == nil {
		return nil
	}
	return out
}

func decodeScore(v any) *Score {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := &Score{Title: coerceString(m["title"]), Items: coerceStringSlice(m["items"])}
	if n, ok := coerceInt(m["score"]); ok {
		out.Score = n
	}
	if n, ok := coerceInt(m["maxScore"]); ok {
		out.MaxScore = n
	}
	return out
}

func firstPresent(ctx map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := ctx[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func firstKey(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func coerceString(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	default:
		return ""
	}
}

func coerceStringSlice(v any) []string {
	out := []string{}
	switch x := v.(type) {
	case []string:
		for _, s := range x {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, item := range x {
			if s := coerceString(item); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func coerceFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func coerceInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case float64:
		return int(x), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		return n, err == nil
	default:
		return 0, false
	}
}

func coerceBool(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case map[string]any:
		return coerceBool(firstKey(x, "on", "enabled", "value"))
	default:
		return false
	}
}
