package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/mediscribe-api/pkg/logging"
)

// Observer records one observation per document generation.
type Observer interface {
	ObserveLLMOp(operation, status string, seconds float64)
}

// Service produces clinical documents from transcripts.
type Service struct {
	generator Generator
	advisor   *PrerequisitesAdvisor
	observer  Observer
	logger    *logging.Logger
}

// NewService wires the document generator and the prerequisites advisor.
// observer may be nil.
func NewService(generator Generator, advisor *PrerequisitesAdvisor, observer Observer, logger *logging.Logger) *Service {
	if generator == nil || advisor == nil {
		panic("llm: service requires a generator and an advisor")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{generator: generator, advisor: advisor, observer: observer, logger: logger}
}

func (s *Service) SOAPNote(ctx context.Context, in ClinicalInput) (string, error) {
	return s.generate(ctx, "soap_note", in.Text, SOAPNotePrompt(in))
}

func (s *Service) ReferralLetter(ctx context.Context, in ClinicalInput) (string, error) {
	return s.generate(ctx, "referral_letter", in.Text, ReferralLetterPrompt(in))
}

func (s *Service) Summary(ctx context.Context, text string) (string, error) {
	return s.generate(ctx, "summary", text, SummaryPrompt(text))
}

// Prerequisites never fails; degraded answers are still answers.
func (s *Service) Prerequisites(ctx context.Context, condition string) PrerequisiteAnswer {
	began := time.Now()
	answer := s.advisor.Advise(ctx, condition)
	status := "ok"
	switch {
	case answer.Greeting:
		status = "greeting"
	case answer.GenerationDegraded:
		status = "degraded"
	}
	s.observe("prerequisites", status, began)
	return answer
}

func (s *Service) generate(ctx context.Context, operation, source, prompt string) (string, error) {
	if strings.TrimSpace(source) == "" {
		return "", fmt.Errorf("%w: text is required", ErrInvalidInput)
	}
	began := time.Now()
	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.observe(operation, "error", began)
		s.logger.Error("document generation failed", "operation", operation, "error", err)
		return "", err
	}
	s.observe(operation, "ok", began)
	return text, nil
}

func (s *Service) observe(operation, status string, began time.Time) {
	if s.observer != nil {
		s.observer.ObserveLLMOp(operation, status, time.Since(began).Seconds())
	}
}
