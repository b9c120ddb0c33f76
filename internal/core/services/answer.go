package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// failedAfterRetries is returned if the attempt loop ends without a verdict.
const failedAfterRetries = "Failed after all retries."

// Notifier receives transient, user-visible notices such as retry waits.
type Notifier = driving.Notifier

// AnswerGenerator builds the answer prompt and calls the LLM, retrying on
// rate limits. It never returns an error: every failure becomes a
// displayable message.
type AnswerGenerator struct {
	llm         driven.LLMService
	promptStore driven.PromptStore
	maxRetries  int
	sleep       Sleeper
	notify      Notifier
	genOpts     driven.GenerateOptions
}

// AnswerOption configures the answer generator.
type AnswerOption func(*AnswerGenerator)

// WithMaxRetries sets the number of attempts made when rate limited.
func WithMaxRetries(n int) AnswerOption {
	return func(g *AnswerGenerator) {
		if n > 0 {
			g.maxRetries = n
		}
	}
}

// WithSleeper replaces the backoff sleep.
func WithSleeper(s Sleeper) AnswerOption {
	return func(g *AnswerGenerator) {
		if s != nil {
			g.sleep = s
		}
	}
}

// WithNotifier sets the default sink for retry notices.
func WithNotifier(n Notifier) AnswerOption {
	return func(g *AnswerGenerator) {
		if n != nil {
			g.notify = n
		}
	}
}

// WithPromptStore loads the answer template from a prompt store.
func WithPromptStore(ps driven.PromptStore) AnswerOption {
	return func(g *AnswerGenerator) {
		g.promptStore = ps
	}
}

// WithGenerateOptions sets the options passed to every Generate call.
func WithGenerateOptions(opts driven.GenerateOptions) AnswerOption {
	return func(g *AnswerGenerator) {
		g.genOpts = opts
	}
}

// NewAnswerGenerator creates a new answer generator.
func NewAnswerGenerator(llm driven.LLMService, opts ...AnswerOption) *AnswerGenerator {
	g := &AnswerGenerator{
		llm:        llm,
		maxRetries: domain.DefaultMaxRetries,
		sleep:      SleepContext,
		notify: func(notice string) {
			logger.Warn("%s", notice)
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// BuildPrompt fills the answer template with context and question.
func (g *AnswerGenerator) BuildPrompt(contextText, question string) string {
	return fmt.Sprintf(g.template(), contextText, question)
}

func (g *AnswerGenerator) template() string {
	if g.promptStore == nil {
		return domain.AnswerPromptTemplate
	}
	tpl, err := g.promptStore.Load(driven.PromptAnswer)
	if err != nil {
		logger.Warn("Loading answer prompt failed, using built-in: %v", err)
		return domain.AnswerPromptTemplate
	}
	if strings.Count(tpl, "%s") != 2 {
		logger.Warn("Answer prompt must contain exactly two %%s placeholders, using built-in")
		return domain.AnswerPromptTemplate
	}
	return tpl
}

// Generate answers the question from the given context.
//
// Rate-limited calls are retried up to maxRetries attempts, sleeping for the
// delay computed by RetryDelay between attempts. A missing model or any other
// failure ends the loop immediately.
func (g *AnswerGenerator) Generate(ctx context.Context, contextText, question string) string {
	logger.Section("Generation")

	prompt := g.BuildPrompt(contextText, question)
	provider := g.llm.Provider()
	logger.Debug("Provider: %s, model: %s, prompt: %d chars", provider, g.llm.ModelName(), len(prompt))

	for attempt := 0; attempt < g.maxRetries; attempt++ {
		text, err := g.llm.Generate(ctx, prompt, g.genOpts)
		if err == nil {
			logger.Debug("Attempt %d succeeded", attempt+1)
			return strings.TrimSpace(text)
		}

		class := ClassifyError(err)
		logger.Debug("Attempt %d failed (%s): %v", attempt+1, class, err)

		switch class {
		case ErrorClassRateLimited:
			if attempt == g.maxRetries-1 {
				return quotaExceededMessage(provider)
			}
			wait := RetryDelay(err)
			g.emit(ctx, fmt.Sprintf("Rate limit hit. Waiting %ds then retrying... (Attempt %d/%d)",
				int(wait.Seconds()), attempt+1, g.maxRetries))
			if sleepErr := g.sleep(ctx, wait); sleepErr != nil {
				return providerErrorMessage(provider, sleepErr)
			}

		case ErrorClassModelNotFound:
			return modelNotFoundMessage(provider, g.llm.ModelName())

		default:
			return providerErrorMessage(provider, err)
		}
	}

	return failedAfterRetries
}

func (g *AnswerGenerator) emit(ctx context.Context, notice string) {
	if fn := driving.NoticeSink(ctx); fn != nil {
		fn(notice)
		return
	}
	g.notify(notice)
}

func quotaExceededMessage(provider domain.AIProvider) string {
	links := domain.ProviderLinksFor(provider)
	return "Quota exceeded after all retries.\n\n" +
		"Fix options:\n" +
		"1. Wait a few minutes and try again\n" +
		"2. " + links.NewKeyStep + "\n" +
		"3. Enable billing at " + links.BillingURL
}

func modelNotFoundMessage(provider domain.AIProvider, model string) string {
	links := domain.ProviderLinksFor(provider)
	return fmt.Sprintf("Model %s not found on your API key.\n\n"+
		"Check your key at %s or see available models at %s",
		model, links.KeyURL, links.ModelsURL)
}

func providerErrorMessage(provider domain.AIProvider, err error) string {
	return fmt.Sprintf("%s API Error: %v", provider.DisplayName(), err)
}
