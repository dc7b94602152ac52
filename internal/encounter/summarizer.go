package encounter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/clinicalflow/clinicalflow/internal/observability/metrics"
	"github.com/clinicalflow/clinicalflow/pkg/logging"
)

const (
	GeneratedByAI       = "ai"
	GeneratedByTemplate = "template"

	// Only the tail of the transcript is sent to the model.
	maxHistoryMessages = 20
)

// VisitSummary is the reviewable output of ending a visit. It always starts
// unapproved.
type VisitSummary struct {
	Text        string      `json:"text"`
	Approved    bool        `json:"approved"`
	Data        VisitRecord `json:"data"`
	GeneratedBy string      `json:"generatedBy"`
}

const summarySystemPrompt = `You are a clinical documentation assistant. Write a concise visit summary from the structured visit record and conversation provided.

Structure the summary with exactly these sections:
1. Visit Summary
2. Chief Complaint
3. Vitals
4. Symptoms and Findings
5. Assessment
6. Orders/Labs
7. Plan and Follow-up

Rules:
- Use only information present in the record and conversation. Do not invent facts.
- If diagnosis is missing, write "Diagnosis pending".
- Keep each section brief and clinical in tone.`

// Summarizer produces the visit summary, preferring the configured LLM and
// falling back to the deterministic narrative. Summarize never returns an
// error; a failed or empty model response degrades to the template.
type Summarizer struct {
	client  LLMClient
	modelID string
	timeout time.Duration
	logger  *logging.Logger
	metrics *metrics.EncounterMetrics
}

func NewSummarizer(client LLMClient, modelID string, timeout time.Duration, logger *logging.Logger, m *metrics.EncounterMetrics) *Summarizer {
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Summarizer{
		client:  client,
		modelID: modelID,
		timeout: timeout,
		logger:  logger,
		metrics: m,
	}
}

func (s *Summarizer) Summarize(ctx context.Context, record VisitRecord) VisitSummary {
	start := time.Now()

	if s.client != nil {
		text, err := s.generate(ctx, record)
		if err == nil {
			s.metrics.ObserveSummary(GeneratedByAI, time.Since(start).Seconds())
			return VisitSummary{Text: text, Data: record, GeneratedBy: GeneratedByAI}
		}
		s.logger.Warn("ai summary failed, using template", "patient_id", record.Patient.ID, "error", err)
	}

	summary := VisitSummary{
		Text:        RenderNarrative(record),
		Data:        record,
		GeneratedBy: GeneratedByTemplate,
	}
	s.metrics.ObserveSummary(GeneratedByTemplate, time.Since(start).Seconds())
	return summary
}

func (s *Summarizer) generate(ctx context.Context, record VisitRecord) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	payload, err := json.Marshal(summaryPayload(record))
	if err != nil {
		return "", fmt.Errorf("encounter: failed to marshal visit record: %w", err)
	}

	messages := make([]ChatMessage, 0, maxHistoryMessages+1)
	history := record.ConversationHistory
	if len(history) > maxHistoryMessages {
		history = history[len(history)-maxHistoryMessages:]
	}
	for _, e := range history {
		role := ChatRoleAssistant
		if e.Role == RoleUser {
			role = ChatRoleUser
		}
		messages = append(messages, ChatMessage{Role: role, Content: e.Content})
	}
	messages = append(messages, ChatMessage{
		Role:    ChatRoleUser,
		Content: "Structured visit record:\n" + string(payload) + "\n\nWrite the visit summary now.",
	})

	resp, err := s.client.Complete(ctx, LLMRequest{
		Model:       s.modelID,
		System:      []string{summarySystemPrompt},
		Messages:    messages,
		MaxTokens:   1024,
		Temperature: 0.2,
	})
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", fmt.Errorf("encounter: model returned empty summary")
	}
	return text, nil
}

// summaryPayload strips the transcript from the record so the prompt does not
// duplicate it.
func summaryPayload(record VisitRecord) VisitRecord {
	record.ConversationHistory = nil
	return record
}
