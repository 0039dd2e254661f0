package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"dream-journal-be/internal/entity"
	"dream-journal-be/internal/pkg/logger"
	"dream-journal-be/internal/repository/unitofwork"
	"dream-journal-be/internal/websocket"
	"dream-journal-be/pkg/events"
	pkgNats "dream-journal-be/pkg/nats"
)

// UpdateDelivery defines how real-time updates reach connected clients.
// Implemented by the WebSocket hub.
type UpdateDelivery interface {
	Send(userID uuid.UUID, update websocket.Update)
}

// NotificationService consumes domain events: it maintains per-user journal
// statistics and pushes interpretation-ready notices over WebSocket.
type NotificationService struct {
	uowFactory unitofwork.RepositoryFactory
	subscriber *pkgNats.Subscriber
	delivery   UpdateDelivery
	logger     logger.ILogger
}

func NewNotificationService(uowFactory unitofwork.RepositoryFactory, sub *pkgNats.Subscriber, delivery UpdateDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		uowFactory: uowFactory,
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() {
	err := s.subscriber.Subscribe("events.>", "notification-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("notification", "failed to start event subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("notification", "listening to events.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	switch event.EventType() {
	case "dream.created":
		return s.onDreamCreated(ctx, event)
	case "dream.interpreted":
		if err := s.onDreamInterpreted(ctx, event); err != nil {
			return err
		}
		s.push(event, "dream.interpreted")
	case "subscription.activated":
		s.push(event, "subscription.activated")
	case "subscription.expired":
		s.push(event, "subscription.expired")
	}
	return nil
}

func (s *NotificationService) onDreamCreated(ctx context.Context, event events.Event) error {
	userId, ok := payloadUserId(event)
	if !ok {
		s.logger.Warn("notification", "dream.created without user_id", nil)
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	stats, err := uow.UserStatsRepository().FindByUserId(ctx, userId)
	if err != nil {
		return err
	}
	if stats == nil {
		stats = &entity.UserStats{
			Id:     uuid.New(),
			UserId: userId,
		}
	}

	stats.RecordDream(event.Timestamp())
	if err := uow.UserStatsRepository().Save(ctx, stats); err != nil {
		return err
	}

	s.logger.Debug("notification", "stats updated", map[string]interface{}{
		"user_id": userId.String(),
		"streak":  stats.CurrentStreak,
	})
	return nil
}

// onDreamInterpreted keeps the user's favorite symbol current. Fallback
// interpretations carry a canned symbol and are skipped.
func (s *NotificationService) onDreamInterpreted(ctx context.Context, event events.Event) error {
	userId, ok := payloadUserId(event)
	if !ok {
		s.logger.Warn("notification", "dream.interpreted without user_id", nil)
		return nil
	}
	symbol, _ := event.Payload()["main_symbol"].(string)
	if symbol == "" {
		return nil
	}
	if fallback, _ := event.Payload()["is_fallback"].(bool); fallback {
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	count, err := uow.DreamRepository().CountByMainSymbol(ctx, userId, symbol)
	if err != nil {
		return err
	}

	stats, err := uow.UserStatsRepository().FindByUserId(ctx, userId)
	if err != nil {
		return err
	}
	if stats == nil {
		stats = &entity.UserStats{
			Id:     uuid.New(),
			UserId: userId,
		}
	}

	stats.RecordSymbol(symbol, int(count))
	return uow.UserStatsRepository().Save(ctx, stats)
}

func (s *NotificationService) push(event events.Event, updateType string) {
	if s.delivery == nil {
		return
	}
	userId, ok := payloadUserId(event)
	if !ok {
		return
	}

	data := event.Payload()
	data["occurred_at"] = event.Timestamp().Format(time.RFC3339)
	s.delivery.Send(userId, websocket.Update{
		Type: updateType,
		Data: data,
	})
}

func payloadUserId(event events.Event) (uuid.UUID, bool) {
	raw, ok := event.Payload()["user_id"].(string)
	if !ok {
		return uuid.Nil, false
	}
	uid, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return uid, true
}
