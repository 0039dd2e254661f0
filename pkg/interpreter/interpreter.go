package interpreter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dream-journal-be/pkg/llm"
)

// Emotion is a single emotion detected in a dream.
type Emotion struct {
	Name      string `json:"name"`
	Intensity string `json:"intensity"`
	Meaning   string `json:"meaning"`
}

// Result is the structured interpretation of a dream.
type Result struct {
	MainSymbol      string    `json:"main_symbol"`
	MainSymbolEmoji string    `json:"main_symbol_emoji"`
	Interpretation  string    `json:"interpretation"`
	Emotions        []Emotion `json:"emotions"`
	Advice          string    `json:"advice"`
	Tags            []string  `json:"tags"`
	Model           string    `json:"-"`
	PromptVersion   string    `json:"-"`
	IsFallback      bool      `json:"-"`
	// ProcessingTimeMs is the wall-clock duration of the model call plus
	// parsing, in milliseconds.
	ProcessingTimeMs int64 `json:"-"`
}

// Interpreter turns dream text into a structured interpretation.
type Interpreter struct {
	provider llm.LLMProvider
	model    string
}

func NewInterpreter(provider llm.LLMProvider, model string) *Interpreter {
	return &Interpreter{
		provider: provider,
		model:    model,
	}
}

// BuildMessages renders the chat history sent to the model. Exposed so
// callers can derive deterministic cache keys from the exact prompt.
func (i *Interpreter) BuildMessages(dreamText string, userContext *UserContext, language string) []llm.Message {
	return []llm.Message{
		{Role: "system", Content: SystemPrompt(language)},
		{Role: "user", Content: BuildInterpretationPrompt(dreamText, userContext, language)},
	}
}

// Model returns the chat model the interpreter asks for.
func (i *Interpreter) Model() string {
	return i.model
}

// Interpret asks the model for an interpretation. A failed model call is
// returned as an error; a response that cannot be parsed as JSON degrades
// to the fallback interpretation instead.
func (i *Interpreter) Interpret(ctx context.Context, dreamText string, userContext *UserContext, language string) (*Result, error) {
	messages := i.BuildMessages(dreamText, userContext, language)

	start := time.Now()
	completion, err := i.provider.Chat(ctx, messages,
		llm.WithModel(i.model),
		llm.WithTemperature(0.7),
		llm.WithMaxTokens(2000),
		llm.WithJSONMode(),
	)
	if err != nil {
		return nil, fmt.Errorf("interpretation call failed: %w", err)
	}

	result := i.ParseResponse(completion.Content, completion.Model)
	result.ProcessingTimeMs = time.Since(start).Milliseconds()
	return result, nil
}

// ParseResponse parses raw model output into a Result, falling back to the
// canned interpretation when the output is not valid JSON.
func (i *Interpreter) ParseResponse(content, model string) *Result {
	var result Result
	if err := json.Unmarshal([]byte(content), &result); err != nil || result.Interpretation == "" {
		return i.Fallback(model)
	}

	if result.MainSymbolEmoji == "" {
		result.MainSymbolEmoji = "🌙"
	}
	result.Model = model
	result.PromptVersion = PromptVersion
	return &result
}

// Fallback is the interpretation returned when parsing model output fails.
func (i *Interpreter) Fallback(model string) *Result {
	if model == "" {
		model = i.model
	}
	return &Result{
		MainSymbol:      "Сон",
		MainSymbolEmoji: "💭",
		Interpretation: "Ваш сон содержит важные символы, которые требуют внимательного анализа. " +
			"К сожалению, полная интерпретация временно недоступна. " +
			"Попробуйте описать сон более подробно или обратитесь позже.",
		Emotions: []Emotion{
			{Name: "неопределенность", Intensity: "средняя"},
		},
		Advice: "Запишите детали сна, пока они свежи в памяти. " +
			"Обратите внимание на эмоции, которые вы испытывали во сне.",
		Model:         model,
		PromptVersion: PromptVersion,
		IsFallback:    true,
	}
}
