package interpreter

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dream-journal-be/pkg/llm"
)

type stubProvider struct {
	completion *llm.Completion
	err        error
}

func (s *stubProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (*llm.Completion, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.completion, nil
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (*llm.Completion, error) {
	return s.Chat(ctx, nil, opts...)
}

func TestInterpret_ParsesStructuredResponse(t *testing.T) {
	content := `{
		"main_symbol": "Полет",
		"main_symbol_emoji": "🕊️",
		"interpretation": "Полет во сне отражает стремление к свободе.",
		"emotions": [{"name": "радость", "intensity": "высокая", "meaning": "освобождение"}],
		"advice": "Подумайте, где в жизни вам не хватает свободы.",
		"tags": ["полет", "свобода", "небо"]
	}`
	i := NewInterpreter(&stubProvider{
		completion: &llm.Completion{Content: content, Model: "gpt-4-turbo-preview"},
	}, "gpt-4-turbo-preview")

	result, err := i.Interpret(context.Background(), "Мне снилось, что я летаю над городом", nil, "ru")
	require.NoError(t, err)
	assert.False(t, result.IsFallback)
	assert.Equal(t, "Полет", result.MainSymbol)
	assert.Equal(t, "🕊️", result.MainSymbolEmoji)
	assert.Len(t, result.Emotions, 1)
	assert.Equal(t, "радость", result.Emotions[0].Name)
	assert.Equal(t, []string{"полет", "свобода", "небо"}, result.Tags)
	assert.Equal(t, PromptVersion, result.PromptVersion)
}

func TestInterpret_FallbackOnMalformedJSON(t *testing.T) {
	i := NewInterpreter(&stubProvider{
		completion: &llm.Completion{Content: "Sorry, I cannot respond in JSON today", Model: "gpt-4-turbo-preview"},
	}, "gpt-4-turbo-preview")

	result, err := i.Interpret(context.Background(), "Мне снился очень длинный и странный сон", nil, "ru")
	require.NoError(t, err)
	assert.True(t, result.IsFallback)
	assert.Equal(t, "Сон", result.MainSymbol)
	assert.Equal(t, "💭", result.MainSymbolEmoji)
	require.Len(t, result.Emotions, 1)
	assert.Equal(t, "неопределенность", result.Emotions[0].Name)
	assert.Equal(t, "средняя", result.Emotions[0].Intensity)
}

type slowProvider struct {
	stubProvider
	delay time.Duration
}

func (s *slowProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (*llm.Completion, error) {
	time.Sleep(s.delay)
	return s.stubProvider.Chat(ctx, history, opts...)
}

func TestInterpret_RecordsProcessingTime(t *testing.T) {
	i := NewInterpreter(&slowProvider{
		stubProvider: stubProvider{
			completion: &llm.Completion{
				Content: `{"main_symbol": "Вода", "interpretation": "Вода символизирует эмоции."}`,
				Model:   "gpt-4-turbo-preview",
			},
		},
		delay: 20 * time.Millisecond,
	}, "gpt-4-turbo-preview")

	result, err := i.Interpret(context.Background(), "Мне снилось, что я плыву по спокойной реке", nil, "ru")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.ProcessingTimeMs, int64(20))
}

func TestInterpret_CallFailureIsAnError(t *testing.T) {
	i := NewInterpreter(&stubProvider{err: errors.New("connection refused")}, "gpt-4-turbo-preview")

	_, err := i.Interpret(context.Background(), "Мне снился сон без интерпретации", nil, "ru")
	require.Error(t, err)
}

func TestParseResponse_DefaultEmoji(t *testing.T) {
	i := NewInterpreter(nil, "gpt-4-turbo-preview")
	result := i.ParseResponse(`{"main_symbol": "Вода", "interpretation": "Вода символизирует эмоции."}`, "gpt-4")
	assert.False(t, result.IsFallback)
	assert.Equal(t, "🌙", result.MainSymbolEmoji)
	assert.Equal(t, "gpt-4", result.Model)
}

func TestBuildInterpretationPrompt_IncludesContext(t *testing.T) {
	prompt := BuildInterpretationPrompt("сон", &UserContext{
		RecentThemes: []string{"вода", "полет"},
		StreakDays:   5,
	}, "ru")
	assert.Contains(t, prompt, "вода, полет")
	assert.Contains(t, prompt, "5 дней подряд")
}

func TestSystemPrompt_LanguageSelection(t *testing.T) {
	assert.True(t, strings.Contains(SystemPrompt("en"), "dream analyst"))
	assert.True(t, strings.Contains(SystemPrompt("ru"), "психолог-аналитик"))
	// unknown languages default to Russian
	assert.True(t, strings.Contains(SystemPrompt("de"), "психолог-аналитик"))
}
