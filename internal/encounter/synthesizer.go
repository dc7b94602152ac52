package encounter

import (
	"fmt"
	"strings"

	"github.com/clinicalflow/clinicalflow/internal/patients"
)

// Hints carries encounter-state values that shape directive props, such as
// a running Alvarado score or a diagnosis captured by an earlier widget.
type Hints struct {
	BodyPart      string
	AlvaradoScore int
	Diagnosis     string
	Procedure     string
}

// Synthesizer turns clinician input into an ordered UI plan.
type Synthesizer struct{}

func NewSynthesizer() *Synthesizer {
	return &Synthesizer{}
}

// Synthesize builds the UI plan for one turn of input. A nil patient yields
// an empty plan. Welcome input short-circuits keyword matching entirely.
func (s *Synthesizer) Synthesize(text string, patient *patients.Patient, hints Hints) UIPlan {
	if patient == nil {
		return UIPlan{}
	}
	if IsWelcomeInput(text) {
		return s.welcomePlan(patient)
	}

	categories := Classify(text)
	// A reported lower-right body part triggers the GI block even without
	// GI keywords in the text.
	if hints.BodyPart == "lower-right" && !containsCategory(categories, CategoryGI) {
		categories = append([]Category{CategoryGI}, categories...)
	}

	plan := UIPlan{}
	for _, category := range categories {
		plan = append(plan, s.categoryDirectives(category, strings.ToLower(text), patient, hints)...)
	}
	return plan
}

func containsCategory(categories []Category, want Category) bool {
	for _, c := range categories {
		if c == want {
			return true
		}
	}
	return false
}

func (s *Synthesizer) welcomePlan(patient *patients.Patient) UIPlan {
	switch patient.WelcomeProfile() {
	case patients.WelcomeProfileCardiac:
		baseline := patient.MetaString(patients.MetaBaselineBP, "Unknown")
		risk := patient.MetaString(patients.MetaRiskLevel, "High Risk")
		return UIPlan{
			{Zone: ZoneActive, Type: WidgetAlertCard, Props: map[string]any{
				"level":   "warning",
				"title":   "CRITICAL MONITORING: " + patient.Name,
				"message": fmt.Sprintf("Baseline BP: %s. Status: %s. Immediate vitals check recommended.", baseline, risk),
			}},
			{Zone: ZoneActive, Type: WidgetVitalsForm, Props: map[string]any{
				"fields":      []string{"Blood Pressure", "Heart Rate"},
				"instruction": "Verify baseline deviation from " + patient.MetaString(patients.MetaBaselineBP, "120/80"),
			}},
		}
	case patients.WelcomeProfileTrauma:
		hardware := "lower limbs"
		if hw := patient.Hardware(); len(hw) > 0 {
			hardware = strings.Join(hw, ", ")
		}
		pain := "unknown"
		if score, ok := patient.LastPainScore(); ok {
			pain = fmt.Sprintf("%d/10", score)
		}
		return UIPlan{
			{Zone: ZoneActive, Type: WidgetBodyMap, Props: map[string]any{
				"instruction": "Review existing hardware placement before assessment.",
			}},
			{Zone: ZoneActive, Type: WidgetAlertCard, Props: map[string]any{
				"level":   "warning",
				"title":   "Trauma Protocol",
				"message": fmt.Sprintf("Existing hardware: %s. Last recorded pain: %s.", hardware, pain),
			}},
		}
	default:
		return UIPlan{
			{Zone: ZoneActive, Type: WidgetAlertCard, Props: map[string]any{
				"level":   "info",
				"title":   "Clinical Onboarding",
				"message": fmt.Sprintf("Reviewing chart for %s. Describe the presenting complaint to begin.", patient.Name),
			}},
		}
	}
}

func (s *Synthesizer) categoryDirectives(category Category, lower string, patient *patients.Patient, hints Hints) UIPlan {
	switch category {
	case CategoryGI:
		selected := hints.BodyPart
		if selected == "" {
			selected = "lower-right"
		}
		return UIPlan{
			{Zone: ZoneActive, Type: WidgetBodyMap, Props: map[string]any{
				"instruction": "Tap the region of maximal tenderness.",
				"selected":    selected,
			}},
			{Zone: ZoneActive, Type: WidgetScoreCalculator, Props: map[string]any{
				"title":  "Alvarado Score (Appendicitis)",
				"inputs": scoreInputProps(alvaradoInputs),
			}},
		}
	case CategoryCardiac:
		return UIPlan{
			{Zone: ZoneActive, Type: WidgetLineChart, Props: map[string]any{
				"title":   patient.Name + " - Blood Pressure Trends",
				"values":  []int{160, 158, 155, 152, 148, 145},
				"insight": fmt.Sprintf("Currently trending downward from baseline (%s).", patient.MetaString(patients.MetaBaselineBP, "N/A")),
			}},
		}
	case CategoryTrauma:
		lastPain := "unrated"
		defaultValue := 5
		if score, ok := patient.LastPainScore(); ok {
			lastPain = fmt.Sprintf("%d", score)
			defaultValue = score
		}
		plan := UIPlan{
			{Zone: ZoneActive, Type: WidgetPainSlider, Props: map[string]any{
				"label":        fmt.Sprintf("Current Pain Level (Last: %s)", lastPain),
				"defaultValue": defaultValue,
			}},
		}
		if hw := patient.Hardware(); len(hw) > 0 {
			plan = append(plan, Directive{Zone: ZoneActive, Type: WidgetAlertCard, Props: map[string]any{
				"level":   "warning",
				"title":   "Hardware Complication Check",
				"message": "Assess for metal fatigue or local infection near: " + strings.Join(hw, ", "),
			}})
		}
		return plan
	case CategoryRespiratory:
		plan := UIPlan{
			{Zone: ZoneActive, Type: WidgetVitalsForm, Props: map[string]any{
				"fields": []string{"Respiratory Rate", "Oxygen Saturation"},
			}},
			{Zone: ZoneActive, Type: WidgetSymptomToggles, Props: map[string]any{
				"symptoms": []string{"Wheezing", "Stridor", "Accessory Muscle Use", "Cyanosis"},
			}},
		}
		if strings.Contains(lower, "asthma") || strings.Contains(lower, "wheez") {
			plan = append(plan,
				Directive{Zone: ZoneActive, Type: WidgetAlertCard, Props: map[string]any{
					"level":   "warning",
					"title":   "Bronchospasm Pathway",
					"message": "Consider nebulized bronchodilator and peak flow measurement.",
				}},
				Directive{Zone: ZoneActive, Type: WidgetLineChart, Props: map[string]any{
					"title":  "Peak Flow Trend",
					"values": []int{85, 78, 65, 72, 80, 75},
				}},
			)
		}
		return plan
	case CategoryNeuro:
		plan := UIPlan{
			{Zone: ZoneActive, Type: WidgetAlertCard, Props: map[string]any{
				"level":   "critical",
				"title":   "Neurological Assessment",
				"message": "Complete GCS scoring. Escalate for focal deficits.",
			}},
			{Zone: ZoneActive, Type: WidgetScoreCalculator, Props: map[string]any{
				"title":  "Glasgow Coma Scale",
				"inputs": scoreInputProps(gcsInputs),
			}},
		}
		if strings.Contains(lower, "stroke") || strings.Contains(lower, "weakness") {
			plan = append(plan, Directive{Zone: ZoneActive, Type: WidgetSymptomToggles, Props: map[string]any{
				"title":    "FAST Screen",
				"symptoms": []string{"Facial Droop", "Arm Weakness", "Speech Difficulty", "Time Critical"},
			}})
		}
		return plan
	case CategoryInfectious:
		plan := UIPlan{
			{Zone: ZoneActive, Type: WidgetVitalsForm, Props: map[string]any{
				"fields": []string{"Temperature", "Heart Rate", "Blood Pressure"},
			}},
			{Zone: ZoneActive, Type: WidgetLabsChecklist, Props: map[string]any{
				"labs": []string{"CBC", "Blood Cultures x2", "Lactate", "Urinalysis"},
			}},
		}
		if strings.Contains(lower, "sepsis") {
			plan = append(plan,
				Directive{Zone: ZoneActive, Type: WidgetAlertCard, Props: map[string]any{
					"level":   "critical",
					"title":   "SEPSIS ALERT: Hour-1 Bundle",
					"message": "Measure lactate, obtain cultures, start broad-spectrum antibiotics, begin fluids.",
				}},
				Directive{Zone: ZoneActive, Type: WidgetScoreCalculator, Props: map[string]any{
					"title":  "qSOFA",
					"inputs": scoreInputProps(qsofaInputs),
				}},
			)
		}
		return plan
	case CategoryPediatric:
		return UIPlan{
			{Zone: ZoneActive, Type: WidgetAlertCard, Props: map[string]any{
				"level":   "info",
				"title":   "Pediatric Protocol",
				"message": "Use weight-based dosing. Verify guardian consent.",
			}},
			{Zone: ZoneActive, Type: WidgetVitalsForm, Props: map[string]any{
				"fields": []string{"Weight", "Temperature", "Heart Rate"},
			}},
			{Zone: ZoneActive, Type: WidgetSymptomToggles, Props: map[string]any{
				"symptoms": []string{"Irritability", "Poor Feeding", "Lethargy", "Rash"},
			}},
		}
	case CategoryVitals:
		return UIPlan{
			{Zone: ZoneActive, Type: WidgetVitalsForm, Props: map[string]any{
				"fields": []string{"Blood Pressure", "Heart Rate", "Temperature", "Respiratory Rate", "Oxygen Saturation"},
			}},
		}
	case CategoryLabs:
		return UIPlan{
			{Zone: ZoneActive, Type: WidgetLabsOrder, Props: map[string]any{
				"title": "Order Labs",
			}},
			{Zone: ZoneActive, Type: WidgetLabsChecklist, Props: map[string]any{
				"labs": []string{"CBC", "BMP", "LFTs", "Coags", "Type & Screen"},
			}},
		}
	case CategoryAppendicitis:
		return appendicitisBlock(hints.AlvaradoScore)
	case CategoryReferral:
		diagnosis := hints.Diagnosis
		if diagnosis == "" {
			diagnosis = "Pending workup"
		}
		return UIPlan{
			{Zone: ZoneActive, Type: WidgetReferralLetterCard, Props: map[string]any{
				"diagnosis": diagnosis,
				"specialty": "General Surgery",
			}},
		}
	case CategoryConsent:
		procedure := hints.Procedure
		if procedure == "" {
			procedure = "Surgical Procedure"
		}
		return UIPlan{
			{Zone: ZoneActive, Type: WidgetConsentForm, Props: map[string]any{
				"procedure": procedure,
			}},
		}
	}
	return nil
}

// appendicitisBlock is fixed in both content and order.
func appendicitisBlock(alvaradoScore int) UIPlan {
	risk := "low"
	switch {
	case alvaradoScore >= 7:
		risk = "high"
	case alvaradoScore >= 4:
		risk = "moderate"
	}
	return UIPlan{
		{Zone: ZoneActive, Type: WidgetAppendicitisRiskCard, Props: map[string]any{
			"score":     alvaradoScore,
			"riskLevel": risk,
		}},
		{Zone: ZoneActive, Type: WidgetBodyMapAbdomen, Props: map[string]any{
			"highlight": "lower-right",
		}},
		{Zone: ZoneActive, Type: WidgetNPOOrderToggle, Props: map[string]any{
			"defaultOn": true,
		}},
		{Zone: ZoneActive, Type: WidgetConsentSummaryCard, Props: map[string]any{
			"procedure": "Appendectomy (Laparoscopic)",
		}},
	}
}

var alvaradoInputs = []ScoreInput{
	{ID: "migration", Label: "Migration of pain to RLQ", Points: 1},
	{ID: "anorexia", Label: "Anorexia", Points: 1},
	{ID: "nausea", Label: "Nausea or vomiting", Points: 1},
	{ID: "tenderness", Label: "RLQ tenderness", Points: 2},
	{ID: "rebound", Label: "Rebound pain", Points: 1},
	{ID: "fever", Label: "Temperature > 37.3C", Points: 1},
	{ID: "leukocytosis", Label: "WBC > 10,000", Points: 2},
}

var gcsInputs = []ScoreInput{
	{ID: "eye", Label: "Eye opening (max 4)", Points: 4},
	{ID: "verbal", Label: "Verbal response (max 5)", Points: 5},
	{ID: "motor", Label: "Motor response (max 6)", Points: 6},
}

var qsofaInputs = []ScoreInput{
	{ID: "rr", Label: "Respiratory rate >= 22", Points: 1},
	{ID: "sbp", Label: "Systolic BP <= 100", Points: 1},
	{ID: "ams", Label: "Altered mentation", Points: 1},
}

// PlanNarrative returns the assistant acknowledgement shown alongside a plan.
func PlanNarrative(plan UIPlan) string {
	if len(plan) == 0 {
		return "I couldn't find specific tools for that input. Try describing symptoms, vitals, labs, or a procedure."
	}
	switch {
	case plan.Contains(WidgetAlertCard):
		return "⚠️ I've detected important clinical considerations and prepared the relevant tools."
	case plan.Contains(WidgetVitalsForm):
		return "Let's capture the patient's vital signs using the form on the right."
	case plan.Contains(WidgetBodyMap) || plan.Contains(WidgetBodyMapAbdomen):
		return "Please mark the affected area on the body map."
	case plan.Contains(WidgetScoreCalculator) || plan.Contains(WidgetAppendicitisRiskCard):
		return "I've set up a clinical scoring tool to quantify the assessment."
	case plan.Contains(WidgetLabsOrder) || plan.Contains(WidgetLabsChecklist):
		return "I've prepared lab ordering tools based on the presentation."
	case plan.Contains(WidgetLineChart):
		return "I've pulled up the relevant trends for review."
	default:
		return fmt.Sprintf("I've prepared %d clinical tool(s) for this step.", len(plan))
	}
}
