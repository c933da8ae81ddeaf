package llm

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/mediscribe-api/pkg/logging"
)

const (
	// GreetingReply answers a bare greeting instead of a condition.
	GreetingReply = "Hello! I can help you prepare for your doctor's appointment. " +
		"Please tell me the medical condition or symptoms you are visiting the doctor for, " +
		"and I will list the tests, dietary restrictions, documents and precautions to keep in mind."

	// NoSearchResults stands in for findings when the search step fails.
	NoSearchResults = "No search results found."

	// GenerationApology is returned when the final generation step fails.
	GenerationApology = "I'm sorry, I couldn't prepare the appointment guidance right now. " +
		"Please try again in a moment or contact your clinic for preparation instructions."
)

var errNoSearcher = errors.New("llm: no searcher configured")

var greetings = map[string]struct{}{"hi": {}, "hello": {}, "hey": {}}

// IsGreeting reports whether condition is one of the greeting tokens.
func IsGreeting(condition string) bool {
	_, ok := greetings[strings.ToLower(strings.TrimSpace(condition))]
	return ok
}

// Searcher returns text findings for a query.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// outcome is the tagged result of one downstream call.
type outcome struct {
	text string
	err  error
}

func capture(text string, err error) outcome { return outcome{text: text, err: err} }

func (o outcome) ok() bool { return o.err == nil }

// orElse returns the successful text or fallback.
func (o outcome) orElse(fallback string) string {
	if o.ok() {
		return o.text
	}
	return fallback
}

// PrerequisiteAnswer is the orchestrator's result. Text is always set.
type PrerequisiteAnswer struct {
	Text               string
	Greeting           bool
	SearchDegraded     bool
	GenerationDegraded bool
}

// PrerequisitesAdvisor answers "how should I prepare for my appointment"
// questions by combining web search with generation. Both downstream calls
// are best effort and it never returns an error.
type PrerequisitesAdvisor struct {
	search    Searcher
	generator Generator
	tracer    trace.Tracer
	logger    *logging.Logger
}

func NewPrerequisitesAdvisor(search Searcher, generator Generator, logger *logging.Logger) *PrerequisitesAdvisor {
	if generator == nil {
		panic("llm: prerequisites advisor requires a generator")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &PrerequisitesAdvisor{
		search:    search,
		generator: generator,
		tracer:    otel.Tracer("mediscribe.internal.llm"),
		logger:    logger,
	}
}

func (a *PrerequisitesAdvisor) Advise(ctx context.Context, condition string) PrerequisiteAnswer {
	if IsGreeting(condition) {
		return PrerequisiteAnswer{Text: GreetingReply, Greeting: true}
	}

	ctx, span := a.tracer.Start(ctx, "llm.prerequisites")
	defer span.End()

	found := a.runSearch(ctx, PrerequisitesSearchQuery(condition))
	if !found.ok() {
		a.logger.Warn("prerequisite search failed, continuing without findings", "condition", condition, "error", found.err)
	}

	generated := capture(a.generator.Generate(ctx, PrerequisitesPrompt(condition, found.orElse(NoSearchResults))))
	if !generated.ok() {
		a.logger.Warn("prerequisite generation failed, returning apology", "condition", condition, "error", generated.err)
		span.RecordError(generated.err)
	}

	span.SetAttributes(
		attribute.Bool("mediscribe.search_degraded", !found.ok()),
		attribute.Bool("mediscribe.generation_degraded", !generated.ok()),
	)
	return PrerequisiteAnswer{
		Text:               generated.orElse(GenerationApology),
		SearchDegraded:     !found.ok(),
		GenerationDegraded: !generated.ok(),
	}
}

func (a *PrerequisitesAdvisor) runSearch(ctx context.Context, query string) outcome {
	if a.search == nil {
		return outcome{err: errNoSearcher}
	}
	return capture(a.search.Search(ctx, query))
}
