package encounter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsWelcomeInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"empty", "", true},
		{"whitespace", "   ", true},
		{"init", "init", true},
		{"start embedded", "let's start the visit", true},
		{"complaint", "stomach pain", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsWelcomeInput(tt.input))
		})
	}
}

func TestClassifyOrdering(t *testing.T) {
	categories := Classify("patient has stomach pain and a fever")

	giIdx, infIdx := -1, -1
	for i, c := range categories {
		switch c {
		case CategoryGI:
			giIdx = i
		case CategoryInfectious:
			infIdx = i
		}
	}
	assert.NotEqual(t, -1, giIdx)
	assert.NotEqual(t, -1, infIdx)
	assert.Less(t, giIdx, infIdx, "gi directives must precede infectious")
}

func TestClassifyNoMatch(t *testing.T) {
	assert.Empty(t, Classify("the weather is lovely today"))
}

func TestClassifyWelcomeReturnsNil(t *testing.T) {
	assert.Nil(t, Classify("init"))
}

func TestClassifyCaseInsensitive(t *testing.T) {
	assert.Contains(t, Classify("CHECK the BP now"), CategoryCardiac)
}

func TestDetectScenario(t *testing.T) {
	tests := []struct {
		input string
		want  Scenario
	}{
		{"trouble breathing since morning", ScenarioRespiratory},
		{"chest pain and palpitations", ScenarioCardiac},
		{"sharp abdominal pain", ScenarioAbdominal},
		{"my child has a rash", ScenarioPediatric},
		{"severe headache and dizziness", ScenarioNeuro},
		{"hello", ScenarioInitial},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectScenario(tt.input))
		})
	}
}

func TestSuggestionsForAlwaysPresent(t *testing.T) {
	for _, s := range []Scenario{ScenarioInitial, ScenarioRespiratory, ScenarioCardiac, ScenarioAbdominal, ScenarioPediatric, ScenarioNeuro} {
		assert.NotEmpty(t, SuggestionsFor(s), "scenario %s", s)
	}
}
