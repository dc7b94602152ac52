package encounter

import "strings"

// Category represents one clinical intent category recognized in free text.
type Category string

const (
	CategoryGI           Category = "gi"
	CategoryCardiac      Category = "cardiac"
	CategoryTrauma       Category = "trauma"
	CategoryRespiratory  Category = "respiratory"
	CategoryNeuro        Category = "neuro"
	CategoryInfectious   Category = "infectious"
	CategoryPediatric    Category = "pediatric"
	CategoryVitals       Category = "vitals"
	CategoryLabs         Category = "labs"
	CategoryAppendicitis Category = "appendicitis"
	CategoryReferral     Category = "referral"
	CategoryConsent      Category = "consent"
)

// categoryOrder is the fixed evaluation priority. Plan output ordering follows
// this sequence, so changing it is a breaking behavioral change.
var categoryOrder = []Category{
	CategoryGI,
	CategoryCardiac,
	CategoryTrauma,
	CategoryRespiratory,
	CategoryNeuro,
	CategoryInfectious,
	CategoryPediatric,
	CategoryVitals,
	CategoryLabs,
	CategoryAppendicitis,
	CategoryReferral,
	CategoryConsent,
}

// categoryKeywords holds the per-category trigger substrings. Matching is
// case-insensitive, non-exclusive, and has no stemming or negation handling:
// "no fever" still matches "fever". That is a documented limitation of the
// heuristic, not something to silently fix.
var categoryKeywords = map[Category][]string{
	CategoryGI:           {"stomach", "abdominal", "rlq"},
	CategoryCardiac:      {"bp", "check", "heart", "hypertension"},
	CategoryTrauma:       {"pain", "hurt", "injury"},
	CategoryRespiratory:  {"breathing", "breath", "cough", "wheez", "asthma", "respiratory", "dyspnea", "shortness"},
	CategoryNeuro:        {"headache", "dizzy", "neuro", "stroke", "weakness", "numbness", "confusion", "seizure"},
	CategoryInfectious:   {"fever", "infection", "sepsis", "chill"},
	CategoryPediatric:    {"child", "pediatric", "infant", "baby", "kid"},
	CategoryVitals:       {"vital"},
	CategoryLabs:         {"lab", "order", "blood work", "test"},
	CategoryAppendicitis: {"appendicitis", "appendix"},
	CategoryReferral:     {"refer", "consult", "surgery", "specialist"},
	CategoryConsent:      {"consent", "procedure", "surgery"},
}

// IsWelcomeInput reports whether the input triggers the welcome short-circuit:
// empty text or an explicit session-init marker. When it fires, no keyword
// category is evaluated at all.
func IsWelcomeInput(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	return lower == "" || strings.Contains(lower, "init") || strings.Contains(lower, "start")
}

// Classify maps free text to the ordered set of matching categories. Each
// category is checked independently against the full input, so one input may
// match many categories. Welcome inputs classify to nothing; callers are
// expected to check IsWelcomeInput first.
func Classify(text string) []Category {
	if IsWelcomeInput(text) {
		return nil
	}

	lower := strings.ToLower(text)
	var matched []Category
	for _, cat := range categoryOrder {
		if matchesCategory(lower, cat) {
			matched = append(matched, cat)
		}
	}
	return matched
}

// matchesCategory checks one lowercased input against one category's keywords.
func matchesCategory(lower string, cat Category) bool {
	for _, kw := range categoryKeywords[cat] {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Scenario is a coarse presentation bucket used to pick contextual prompt
// suggestions for the practitioner.
type Scenario string

const (
	ScenarioInitial     Scenario = "initial"
	ScenarioRespiratory Scenario = "respiratory"
	ScenarioCardiac     Scenario = "cardiac"
	ScenarioAbdominal   Scenario = "abdominal"
	ScenarioPediatric   Scenario = "pediatric"
	ScenarioNeuro       Scenario = "neuro"
)

var scenarioKeywords = []struct {
	scenario Scenario
	keywords []string
}{
	{ScenarioRespiratory, []string{"breath", "lung", "respiratory", "cough", "wheez"}},
	{ScenarioCardiac, []string{"chest", "heart", "cardiac", "palpitation"}},
	{ScenarioAbdominal, []string{"abdom", "stomach", "belly", "appendic", "nausea"}},
	{ScenarioPediatric, []string{"child", "infant", "pediatric", "baby", "kid"}},
	{ScenarioNeuro, []string{"head", "neuro", "dizz", "stroke", "conscious"}},
}

// DetectScenario maps free text to a suggestion scenario. First match wins.
func DetectScenario(text string) Scenario {
	lower := strings.ToLower(text)
	for _, entry := range scenarioKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.scenario
			}
		}
	}
	return ScenarioInitial
}

var scenarioSuggestions = map[Scenario][]string{
	ScenarioInitial: {
		"Check vitals",
		"Patient has chest pain",
		"Patient has abdominal pain",
		"Difficulty breathing",
	},
	ScenarioRespiratory: {
		"Assess oxygen saturation",
		"Order respiratory panel",
		"Get chest X-ray",
		"Check for fever",
	},
	ScenarioCardiac: {
		"Order ECG",
		"Troponin levels",
		"Monitor rhythm",
		"Start IV access",
	},
	ScenarioAbdominal: {
		"Calculate Alvarado score",
		"Physical examination",
		"Order CBC and CMP",
		"Request CT abdomen",
	},
	ScenarioPediatric: {
		"Pediatric assessment",
		"Check temperature",
		"Hydration status",
		"Developmental screen",
	},
	ScenarioNeuro: {
		"Neuro exam",
		"Pupil response",
		"GCS scoring",
		"Order CT head",
	},
}

// SuggestionsFor returns the canned prompt suggestions for a scenario.
func SuggestionsFor(s Scenario) []string {
	if suggestions, ok := scenarioSuggestions[s]; ok {
		return suggestions
	}
	return scenarioSuggestions[ScenarioInitial]
}
