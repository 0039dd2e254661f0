package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregateContext_Empty(t *testing.T) {
	resp := AggregateContext(nil)
	assert.Equal(t, 0, resp.SimilarCount)
	assert.Empty(t, resp.CommonSymbols)
	assert.Empty(t, resp.RecurringEmotions)
	assert.Equal(t, 0.0, resp.AverageSimilarity)
}

func TestAggregateContext_Patterns(t *testing.T) {
	items := []ContextItem{
		{Similarity: 0.9, MainSymbol: "Вода", Emotions: []string{"страх", "тревога"}},
		{Similarity: 0.8, MainSymbol: "Вода", Emotions: []string{"страх"}},
		{Similarity: 0.7, MainSymbol: "Полет", Emotions: []string{"радость"}},
	}

	resp := AggregateContext(items)
	assert.Equal(t, 3, resp.SimilarCount)
	assert.Equal(t, []string{"Вода", "Полет"}, resp.CommonSymbols)
	// страх appears twice and must come first
	assert.Equal(t, "страх", resp.RecurringEmotions[0])
	assert.InDelta(t, 0.8, resp.AverageSimilarity, 1e-9)
}

func TestAggregateContext_CapsRecurringEmotions(t *testing.T) {
	items := []ContextItem{
		{Similarity: 0.75, Emotions: []string{"a", "b", "c", "d", "e", "f", "g"}},
	}

	resp := AggregateContext(items)
	assert.Len(t, resp.RecurringEmotions, maxRecurringEmotions)
}

func TestAggregateContext_IgnoresMissingInterpretation(t *testing.T) {
	items := []ContextItem{
		{Similarity: 0.8},
		{Similarity: 0.9, MainSymbol: "Лес"},
	}

	resp := AggregateContext(items)
	assert.Equal(t, []string{"Лес"}, resp.CommonSymbols)
	assert.Equal(t, 2, resp.SimilarCount)
}
