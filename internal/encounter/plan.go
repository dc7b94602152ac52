package encounter

// WidgetType identifies a renderable clinical widget. The set is closed: the
// rendering surface dispatches on these tags and treats anything else as a
// programming error.
type WidgetType string

const (
	WidgetAlertCard            WidgetType = "AlertCard"
	WidgetVitalsForm           WidgetType = "VitalsForm"
	WidgetBodyMap              WidgetType = "BodyMap"
	WidgetBodyMapAbdomen       WidgetType = "BodyMapAbdomen"
	WidgetScoreCalculator      WidgetType = "ScoreCalculator"
	WidgetSymptomToggles       WidgetType = "SymptomToggles"
	WidgetLabsOrder            WidgetType = "LabsOrder"
	WidgetLabsChecklist        WidgetType = "LabsChecklist"
	WidgetLineChart            WidgetType = "LineChart"
	WidgetAppendicitisRiskCard WidgetType = "AppendicitisRiskCard"
	WidgetNPOOrderToggle       WidgetType = "NPOOrderToggle"
	WidgetConsentSummaryCard   WidgetType = "ConsentSummaryCard"
	WidgetReferralLetterCard   WidgetType = "ReferralLetterCard"
	WidgetConsentForm          WidgetType = "ConsentForm"
	WidgetPainSlider           WidgetType = "PainSlider"
)

// ZoneActive is the only placement zone currently produced.
const ZoneActive = "active"

// Directive is one typed, parameterized instruction to render a clinical
// widget. Props is a widget-specific parameter bag.
type Directive struct {
	Zone  string         `json:"zone"`
	Type  WidgetType     `json:"type"`
	Props map[string]any `json:"props"`
}

// UIPlan is the ordered list of directives produced for one user input.
// Order is display order; synthesis only ever appends.
type UIPlan []Directive

// Types returns the widget types of the plan in order.
func (p UIPlan) Types() []WidgetType {
	out := make([]WidgetType, len(p))
	for i, d := range p {
		out[i] = d.Type
	}
	return out
}

// Contains reports whether the plan includes a directive of the given type.
func (p UIPlan) Contains(t WidgetType) bool {
	for _, d := range p {
		if d.Type == t {
			return true
		}
	}
	return false
}

// ScoreInput is one selectable criterion of a ScoreCalculator widget.
type ScoreInput struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Points int    `json:"points"`
}

func scoreInputProps(inputs []ScoreInput) []map[string]any {
	out := make([]map[string]any, len(inputs))
	for i, in := range inputs {
		out[i] = map[string]any{"id": in.ID, "label": in.Label, "points": in.Points}
	}
	return out
}
