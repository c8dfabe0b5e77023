package services

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-analyzer/internal/models"
)

type mockGemini struct {
	mock.Mock
}

func (m *mockGemini) GenerateText(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// spyGemini counts calls and can stall past any deadline.
type spyGemini struct {
	calls int32
	delay time.Duration
	reply string
}

func (s *spyGemini) GenerateText(ctx context.Context, prompt string) (string, error) {
	atomic.AddInt32(&s.calls, 1)
	time.Sleep(s.delay)
	return s.reply, nil
}

var request = models.AnalysisRequest{
	ResumeText:     "Go developer with five years of Kubernetes experience",
	JobDescription: "Backend engineer, Go, Kubernetes, PostgreSQL",
}

func configured(g GeminiService) AnalyzerService {
	return NewAnalyzerService(g, AnalyzerConfig{Configured: true, Timeout: time.Second})
}

func TestAnalyzeNotConfiguredSkipsNetwork(t *testing.T) {
	spy := &spyGemini{reply: `{"match_percentage":1}`}
	analyzer := NewAnalyzerService(spy, AnalyzerConfig{Configured: false})

	res := analyzer.Analyze(context.Background(), request)

	require.False(t, res.OK())
	assert.Equal(t, models.ErrNotConfigured, res.Err.Kind)
	assert.Zero(t, atomic.LoadInt32(&spy.calls))
}

func TestAnalyzeNilClientIsNotConfigured(t *testing.T) {
	res := NewAnalyzerService(nil, AnalyzerConfig{Configured: true}).Analyze(context.Background(), request)

	require.False(t, res.OK())
	assert.Equal(t, models.ErrNotConfigured, res.Err.Kind)
}

func TestAnalyzeUnwrapsFencedJSON(t *testing.T) {
	gemini := new(mockGemini)
	gemini.On("GenerateText", mock.Anything, mock.Anything).
		Return("```json\n{\"match_percentage\":65,\"strengths\":[\"A\"],\"weaknesses\":[\"B\"]}\n```", nil)

	res := configured(gemini).Analyze(context.Background(), request)

	require.True(t, res.OK(), "unexpected error: %v", res.Err)
	verdict, err := res.Verdict()
	require.NoError(t, err)
	assert.Equal(t, 65, verdict.MatchPercentage)
	assert.Equal(t, []string{"A"}, verdict.Strengths)
	assert.Equal(t, []string{"B"}, verdict.Weaknesses)
	gemini.AssertNumberOfCalls(t, "GenerateText", 1)
}

func TestAnalyzeUsesFirstFencedBlock(t *testing.T) {
	gemini := new(mockGemini)
	gemini.On("GenerateText", mock.Anything, mock.Anything).
		Return("Here you go:\n```json\n{\"match_percentage\":40}\n```\nAlternative:\n```json\n{\"match_percentage\":90}\n```", nil)

	res := configured(gemini).Analyze(context.Background(), request)

	require.True(t, res.OK())
	assert.JSONEq(t, `{"match_percentage":40}`, string(res.Payload))
}

func TestAnalyzePlainJSONPassesThroughUnchanged(t *testing.T) {
	gemini := new(mockGemini)
	gemini.On("GenerateText", mock.Anything, mock.Anything).
		Return(`{"match_percentage": 80, "weaknesses": [], "extra": {"note": "kept"}}`, nil)

	res := configured(gemini).Analyze(context.Background(), request)

	require.True(t, res.OK())
	assert.JSONEq(t, `{"match_percentage": 80, "weaknesses": [], "extra": {"note": "kept"}}`, string(res.Payload))
}

func TestAnalyzeNonJSONReply(t *testing.T) {
	raw := "I think this candidate is a strong fit overall."
	gemini := new(mockGemini)
	gemini.On("GenerateText", mock.Anything, mock.Anything).Return(raw, nil)

	res := configured(gemini).Analyze(context.Background(), request)

	require.False(t, res.OK())
	assert.Equal(t, models.ErrInvalidAIResponse, res.Err.Kind)
	assert.Equal(t, raw, res.Err.Raw)
	assert.NotEmpty(t, res.Err.Detail)
}

func TestAnalyzeFencedButBrokenJSON(t *testing.T) {
	raw := "```json\n{\"match_percentage\": 65,,}\n```"
	gemini := new(mockGemini)
	gemini.On("GenerateText", mock.Anything, mock.Anything).Return(raw, nil)

	res := configured(gemini).Analyze(context.Background(), request)

	require.False(t, res.OK())
	assert.Equal(t, models.ErrInvalidAIResponse, res.Err.Kind)
	assert.Equal(t, raw, res.Err.Raw)
}

func TestAnalyzeAPIError(t *testing.T) {
	gemini := new(mockGemini)
	gemini.On("GenerateText", mock.Anything, mock.Anything).
		Return("", errors.New("failed to generate text: API key not valid"))

	res := configured(gemini).Analyze(context.Background(), request)

	require.False(t, res.OK())
	assert.Equal(t, models.ErrAPI, res.Err.Kind)
	assert.Contains(t, res.Err.Detail, "API key not valid")
}

func TestAnalyzeTimeoutReturnsWithinBound(t *testing.T) {
	spy := &spyGemini{delay: 2 * time.Second, reply: `{"match_percentage":1}`}
	analyzer := NewAnalyzerService(spy, AnalyzerConfig{Configured: true, Timeout: 50 * time.Millisecond})

	start := time.Now()
	res := analyzer.Analyze(context.Background(), request)
	elapsed := time.Since(start)

	require.False(t, res.OK())
	assert.Equal(t, models.ErrTimeout, res.Err.Kind)
	assert.Less(t, elapsed, time.Second, "must not wait for the stalled call")
}

func TestAnalyzeDeadlineErrorFromClientIsTimeout(t *testing.T) {
	gemini := new(mockGemini)
	gemini.On("GenerateText", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return("", context.DeadlineExceeded)

	analyzer := NewAnalyzerService(gemini, AnalyzerConfig{Configured: true, Timeout: 20 * time.Millisecond})
	res := analyzer.Analyze(context.Background(), request)

	require.False(t, res.OK())
	assert.Equal(t, models.ErrTimeout, res.Err.Kind)
}

func TestAnalyzePromptEmbedsInputsVerbatim(t *testing.T) {
	var prompt string
	gemini := new(mockGemini)
	gemini.On("GenerateText", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { prompt = args.String(1) }).
		Return(`{}`, nil)

	configured(gemini).Analyze(context.Background(), request)

	assert.Contains(t, prompt, request.ResumeText)
	assert.Contains(t, prompt, request.JobDescription)
	for _, field := range []string{"match_percentage", "strengths", "weaknesses"} {
		assert.Contains(t, prompt, field)
	}
	assert.True(t, strings.Index(prompt, request.ResumeText) < strings.Index(prompt, request.JobDescription))
}
