package drafting

import (
	"context"
	"errors"

	"lexi-drafting-be/internal/pkg/logger"
	"lexi-drafting-be/pkg/apperror"
	"lexi-drafting-be/pkg/store"
)

// Engine is the entry point for chat transports.
type Engine struct {
	registry *Registry
	machine  *Machine
	logger   logger.ILogger
}

func NewEngine(registry *Registry, machine *Machine, log logger.ILogger) *Engine {
	return &Engine{registry: registry, machine: machine, logger: log}
}

// Handle processes one message for conversationID, starting a new
// conversation when the id is empty. A missing template or instance resets
// the session and is returned wrapping apperror.ErrReferentialNotFound.
func (e *Engine) Handle(ctx context.Context, conversationID, message string) (*Reply, error) {
	if conversationID == "" {
		conversationID = store.NewConversationID()
	}

	var reply *Reply
	err := e.registry.With(ctx, conversationID, func(s *store.Session) error {
		r, err := e.machine.Handle(ctx, s, message)
		if err != nil {
			if errors.Is(err, apperror.ErrReferentialNotFound) {
				e.logger.Warn("ENGINE", "Session reset after missing record", map[string]interface{}{
					"session_id": s.ID,
					"error":      err,
				})
				s.Reset()
			}
			return err
		}
		reply = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	reply.ConversationID = conversationID
	return reply, nil
}

// Conversation returns a snapshot of the session state.
func (e *Engine) Conversation(ctx context.Context, conversationID string) (*store.Session, error) {
	s, err := e.registry.Snapshot(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, apperror.NotFound("conversation", conversationID)
	}
	return s, nil
}
