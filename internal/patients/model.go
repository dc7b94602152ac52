package patients

// Metadata is an open-ended bag of patient-specific clinical facts used by
// synthesis rules (baseline vitals, implanted hardware, last pain score).
// Values arrive from seeding or JSON columns, so accessors coerce defensively.
type Metadata map[string]any

// Well-known metadata keys.
const (
	MetaBaselineBP     = "baselineBP"
	MetaRiskLevel      = "riskLevel"
	MetaHardware       = "hardware"
	MetaLastPainScore  = "lastPainScore"
	MetaWelcomeProfile = "welcomeProfile"
)

// Welcome profiles select the initial-state plan for a patient. They replace
// brittle name-substring checks with an explicit patient trait.
const (
	WelcomeProfileCardiac = "cardiac-monitoring"
	WelcomeProfileTrauma  = "trauma-hardware"
)

// Patient represents identity and static clinical facts for one patient.
// Immutable during a session; owned by the persistence layer.
type Patient struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Age               int      `json:"age"`
	Gender            string   `json:"gender"`
	BloodType         string   `json:"bloodType"`
	Medications       []string `json:"medications"`
	Allergies         []string `json:"allergies"`
	ChronicConditions []string `json:"chronicConditions"`
	Metadata          Metadata `json:"metadata,omitempty"`
}

// MetaString returns the string value for a metadata key, or fallback when
// the key is absent or not a string.
func (p *Patient) MetaString(key, fallback string) string {
	if p == nil || p.Metadata == nil {
		return fallback
	}
	if s, ok := p.Metadata[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

// Hardware returns the list of implanted hardware recorded for the patient.
func (p *Patient) Hardware() []string {
	if p == nil || p.Metadata == nil {
		return nil
	}
	switch v := p.Metadata[MetaHardware].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// LastPainScore returns the last recorded pain score, if any.
func (p *Patient) LastPainScore() (int, bool) {
	if p == nil || p.Metadata == nil {
		return 0, false
	}
	switch v := p.Metadata[MetaLastPainScore].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	}
	return 0, false
}

// WelcomeProfile returns the patient's welcome profile trait, or "" for the
// default onboarding flow.
func (p *Patient) WelcomeProfile() string {
	return p.MetaString(MetaWelcomeProfile, "")
}
