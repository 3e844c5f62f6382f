package service

import (
	"context"
	"sync"

	"lexi-drafting-be/internal/dto"
	"lexi-drafting-be/internal/pkg/logger"
	"lexi-drafting-be/pkg/events"
	pktNats "lexi-drafting-be/pkg/nats"
)

const (
	activityMessageType = "activity"
	activityDurable     = "lexi-activity"
	defaultActivityKeep = 50
)

// Broadcaster is satisfied by *websocket.Hub.
type Broadcaster interface {
	Broadcast(messageType string, data interface{})
}

// EventSubscriber is satisfied by *nats.Subscriber.
type EventSubscriber interface {
	Subscribe(ctx context.Context, subject, durableName string, handler pktNats.EventHandler) error
}

type IActivityService interface {
	Start(ctx context.Context) error
	Record(evt events.Event)
	Recent() []dto.ActivityEvent
}

type activityService struct {
	subscriber EventSubscriber
	hub        Broadcaster
	logger     logger.ILogger

	mu     sync.Mutex
	recent []dto.ActivityEvent
	keep   int
}

func NewActivityService(subscriber EventSubscriber, hub Broadcaster, log logger.ILogger) IActivityService {
	return &activityService{
		subscriber: subscriber,
		hub:        hub,
		logger:     log,
		keep:       defaultActivityKeep,
	}
}

// Start relays every drafting event from the bus into the feed.
func (s *activityService) Start(ctx context.Context) error {
	if s.subscriber == nil {
		return nil
	}
	return s.subscriber.Subscribe(ctx, pktNats.SubjectPrefix+">", activityDurable, func(_ context.Context, evt events.Event) error {
		s.Record(evt)
		return nil
	})
}

func (s *activityService) Record(evt events.Event) {
	item := dto.ActivityEvent{
		Type:       evt.EventType(),
		Data:       evt.Payload(),
		OccurredAt: evt.Timestamp(),
	}

	s.mu.Lock()
	s.recent = append(s.recent, item)
	if len(s.recent) > s.keep {
		s.recent = s.recent[len(s.recent)-s.keep:]
	}
	s.mu.Unlock()

	s.logger.Debug("ACTIVITY", "Event recorded", map[string]interface{}{"type": item.Type})
	if s.hub != nil {
		s.hub.Broadcast(activityMessageType, item)
	}
}

// Recent returns the kept events newest first.
func (s *activityService) Recent() []dto.ActivityEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]dto.ActivityEvent, len(s.recent))
	for i, e := range s.recent {
		out[len(s.recent)-1-i] = e
	}
	return out
}
