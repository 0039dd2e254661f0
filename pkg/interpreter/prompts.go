package interpreter

import (
	"fmt"
	"strings"
)

const PromptVersion = "v1.0"

const systemPromptRU = `Ты опытный психолог-аналитик снов с глубоким пониманием символизма, архетипов Юнга и современной психологии.
Твоя задача - предоставлять глубокий, осмысленный и поддерживающий анализ снов.

ВАЖНО: Всегда отвечай в формате JSON со следующей структурой:
{
    "main_symbol": "Главный символ сна",
    "main_symbol_emoji": "Эмодзи символа",
    "interpretation": "Подробная интерпретация сна",
    "emotions": [
        {"name": "эмоция", "intensity": "низкая/средняя/высокая", "meaning": "значение"}
    ],
    "advice": "Персонализированный совет",
    "tags": ["тег1", "тег2", "тег3"]
}

Правила интерпретации:
1. Будь внимательным и эмпатичным
2. Избегай категоричных утверждений
3. Учитывай культурный контекст
4. Предлагай конструктивные инсайты
5. Не давай медицинских диагнозов`

const systemPromptEN = `You are an experienced dream analyst with deep understanding of symbolism, Jungian archetypes, and modern psychology.
Your task is to provide deep, meaningful, and supportive dream analysis.

IMPORTANT: Always respond in JSON format with the following structure:
{
    "main_symbol": "Main dream symbol",
    "main_symbol_emoji": "Symbol emoji",
    "interpretation": "Detailed dream interpretation",
    "emotions": [
        {"name": "emotion", "intensity": "low/medium/high", "meaning": "significance"}
    ],
    "advice": "Personalized advice",
    "tags": ["tag1", "tag2", "tag3"]
}

Interpretation rules:
1. Be attentive and empathetic
2. Avoid categorical statements
3. Consider cultural context
4. Offer constructive insights
5. Don't provide medical diagnoses`

// SystemPrompt returns the interpretation system prompt for a language.
// Anything other than "en" falls back to Russian.
func SystemPrompt(language string) string {
	if language == "en" {
		return systemPromptEN
	}
	return systemPromptRU
}

// UserContext carries journal history used to personalize the prompt.
type UserContext struct {
	RecentThemes []string
	StreakDays   int
}

// BuildInterpretationPrompt renders the user prompt for a dream.
func BuildInterpretationPrompt(dreamText string, userContext *UserContext, language string) string {
	var contextInfo strings.Builder
	if userContext != nil {
		if len(userContext.RecentThemes) > 0 {
			contextInfo.WriteString(fmt.Sprintf("\nЧастые темы в снах пользователя: %s",
				strings.Join(userContext.RecentThemes, ", ")))
		}
		if userContext.StreakDays > 0 {
			contextInfo.WriteString(fmt.Sprintf("\nПользователь записывает сны %d дней подряд",
				userContext.StreakDays))
		}
	}

	if language == "en" {
		return fmt.Sprintf(`Analyze the following dream:

"%s"
%s

Provide a deep psychological interpretation of this dream. Pay attention to:
1. The main symbol or image of the dream
2. Emotional coloring and hidden feelings
3. Possible connections to real life
4. Archetypal patterns
5. Potential insights for personal growth

Response must be in JSON format as specified in the system prompt.`, dreamText, contextInfo.String())
	}

	return fmt.Sprintf(`Проанализируй следующий сон:

"%s"
%s

Предоставь глубокую психологическую интерпретацию этого сна. Обрати внимание на:
1. Главный символ или образ сна
2. Эмоциональную окраску и скрытые чувства
3. Возможные связи с реальной жизнью
4. Архетипические паттерны
5. Потенциальные инсайты для личностного роста

Ответ должен быть в формате JSON, как указано в системном промпте.`, dreamText, contextInfo.String())
}
