package models

import (
	"encoding/json"
	"fmt"
)

type ErrorKind string

const (
	ErrNotConfigured     ErrorKind = "not_configured"
	ErrBadInput          ErrorKind = "bad_input"
	ErrAPI               ErrorKind = "api_error"
	ErrInvalidAIResponse ErrorKind = "invalid_ai_response"
	ErrTimeout           ErrorKind = "timeout"
	ErrInternal          ErrorKind = "internal"
)

// AnalysisRequest is built per inbound call and never stored.
type AnalysisRequest struct {
	ResumeText     string
	JobDescription string
}

// AnalysisError is a failed analysis. Raw carries the unparsed model
// reply when the failure is ErrInvalidAIResponse.
type AnalysisError struct {
	Kind   ErrorKind
	Detail string
	Raw    string
}

func NewAnalysisError(kind ErrorKind, detail string) *AnalysisError {
	return &AnalysisError{Kind: kind, Detail: detail}
}

func (e *AnalysisError) Error() string {
	if e.Detail == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// AnalysisResult holds exactly one of Payload or Err.
type AnalysisResult struct {
	// Payload is the model's JSON reply, unvalidated.
	Payload json.RawMessage
	Err     *AnalysisError
}

func Succeeded(payload json.RawMessage) AnalysisResult {
	return AnalysisResult{Payload: payload}
}

func Failed(err *AnalysisError) AnalysisResult {
	return AnalysisResult{Err: err}
}

func (r AnalysisResult) OK() bool {
	return r.Err == nil
}

// Verdict is the shape the model is asked to reply with.
type Verdict struct {
	MatchPercentage int      `json:"match_percentage"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
}

// Verdict decodes the payload. Missing fields are left zero.
func (r AnalysisResult) Verdict() (*Verdict, error) {
	if !r.OK() {
		return nil, r.Err
	}

	var v Verdict
	if err := json.Unmarshal(r.Payload, &v); err != nil {
		return nil, fmt.Errorf("failed to decode verdict: %w", err)
	}
	return &v, nil
}
