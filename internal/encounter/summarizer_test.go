package encounter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLLMClient struct {
	resp    LLMResponse
	err     error
	lastReq LLMRequest
}

func (s *stubLLMClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	s.lastReq = req
	return s.resp, s.err
}

func TestSummarizeUsesModelOutput(t *testing.T) {
	client := &stubLLMClient{resp: LLMResponse{Text: "1. Visit Summary\nPatient seen for abdominal pain."}}
	s := NewSummarizer(client, "gemini-2.5-flash", time.Second, nil, nil)

	summary := s.Summarize(context.Background(), baseRecord())

	assert.Equal(t, GeneratedByAI, summary.GeneratedBy)
	assert.Contains(t, summary.Text, "Visit Summary")
	assert.False(t, summary.Approved)
}

func TestSummarizeFallsBackOnError(t *testing.T) {
	client := &stubLLMClient{err: errors.New("model unavailable")}
	s := NewSummarizer(client, "gemini-2.5-flash", time.Second, nil, nil)

	summary := s.Summarize(context.Background(), baseRecord())

	assert.Equal(t, GeneratedByTemplate, summary.GeneratedBy)
	assert.Contains(t, summary.Text, "CLINICAL VISIT SUMMARY")
}

func TestSummarizeFallsBackOnEmptyResponse(t *testing.T) {
	client := &stubLLMClient{resp: LLMResponse{Text: "   "}}
	s := NewSummarizer(client, "gemini-2.5-flash", time.Second, nil, nil)

	summary := s.Summarize(context.Background(), baseRecord())
	assert.Equal(t, GeneratedByTemplate, summary.GeneratedBy)
}

func TestSummarizeWithoutClientUsesTemplate(t *testing.T) {
	s := NewSummarizer(nil, "", time.Second, nil, nil)

	summary := s.Summarize(context.Background(), baseRecord())
	assert.Equal(t, GeneratedByTemplate, summary.GeneratedBy)
	assert.Equal(t, baseRecord().Patient.Name, summary.Data.Patient.Name)
}

func TestSummarizeCapsConversationHistory(t *testing.T) {
	client := &stubLLMClient{resp: LLMResponse{Text: "summary"}}
	s := NewSummarizer(client, "gemini-2.5-flash", time.Second, nil, nil)

	record := baseRecord()
	for i := 0; i < 30; i++ {
		record.ConversationHistory = append(record.ConversationHistory, HistoryEntry{Role: RoleUser, Content: "turn"})
	}

	s.Summarize(context.Background(), record)

	// 20 history messages plus the structured-record prompt.
	require.Len(t, client.lastReq.Messages, maxHistoryMessages+1)
	assert.Equal(t, ChatRoleUser, client.lastReq.Messages[len(client.lastReq.Messages)-1].Role)
	assert.Contains(t, client.lastReq.System[0], "Do not invent facts")
}
