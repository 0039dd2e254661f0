package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dream-journal-be/internal/entity"
	"dream-journal-be/pkg/events"
)

func TestNotificationService_InterpretedEventUpdatesFavoriteSymbol(t *testing.T) {
	userId := uuid.New()
	dreams := &fakeDreamRepo{symbolCounts: map[string]int64{"Вода": 4}}
	stats := &fakeStatsRepo{stats: &entity.UserStats{
		Id:                  uuid.New(),
		UserId:              userId,
		FavoriteSymbol:      "Лес",
		FavoriteSymbolCount: 2,
	}}
	uow := &fakeUnitOfWork{dreams: dreams, stats: stats}

	svc := NewNotificationService(&fakeUowFactory{uow: uow}, nil, nil, nopLogger{})

	err := svc.handleEvent(context.Background(), events.NewDreamInterpreted(uuid.New(), userId, "Вода", false, false))
	require.NoError(t, err)

	assert.Equal(t, "Вода", dreams.countedSymbol)
	require.NotNil(t, stats.saved)
	assert.Equal(t, "Вода", stats.saved.FavoriteSymbol)
	assert.Equal(t, 4, stats.saved.FavoriteSymbolCount)
}

func TestNotificationService_InterpretedEventKeepsLeaderOnLowerCount(t *testing.T) {
	userId := uuid.New()
	dreams := &fakeDreamRepo{symbolCounts: map[string]int64{"Полет": 1}}
	stats := &fakeStatsRepo{stats: &entity.UserStats{
		Id:                  uuid.New(),
		UserId:              userId,
		FavoriteSymbol:      "Вода",
		FavoriteSymbolCount: 5,
	}}
	uow := &fakeUnitOfWork{dreams: dreams, stats: stats}

	svc := NewNotificationService(&fakeUowFactory{uow: uow}, nil, nil, nopLogger{})

	err := svc.handleEvent(context.Background(), events.NewDreamInterpreted(uuid.New(), userId, "Полет", false, false))
	require.NoError(t, err)

	require.NotNil(t, stats.saved)
	assert.Equal(t, "Вода", stats.saved.FavoriteSymbol)
	assert.Equal(t, 5, stats.saved.FavoriteSymbolCount)
}

func TestNotificationService_InterpretedEventSkipsFallback(t *testing.T) {
	userId := uuid.New()
	dreams := &fakeDreamRepo{symbolCounts: map[string]int64{"Сон": 9}}
	stats := &fakeStatsRepo{}
	uow := &fakeUnitOfWork{dreams: dreams, stats: stats}

	svc := NewNotificationService(&fakeUowFactory{uow: uow}, nil, nil, nopLogger{})

	err := svc.handleEvent(context.Background(), events.NewDreamInterpreted(uuid.New(), userId, "Сон", false, true))
	require.NoError(t, err)

	assert.Empty(t, dreams.countedSymbol)
	assert.Nil(t, stats.saved)
}
