package service

import (
	"context"
	"strings"

	"lexi-drafting-be/internal/dto"
	"lexi-drafting-be/pkg/apperror"
	"lexi-drafting-be/pkg/drafting"
	"lexi-drafting-be/pkg/export"
)

const maxMessageLength = 8000

type IChatService interface {
	SendMessage(ctx context.Context, req *dto.ChatMessageRequest) (*drafting.Reply, error)
	Conversation(ctx context.Context, conversationId string) (*dto.ConversationResponse, error)
	Instance(ctx context.Context, id string, withHtml bool) (*dto.InstanceResponse, error)
}

type chatService struct {
	engine  *drafting.Engine
	catalog Catalog
}

func NewChatService(engine *drafting.Engine, catalog Catalog) IChatService {
	return &chatService{
		engine:  engine,
		catalog: catalog,
	}
}

func (s *chatService) SendMessage(ctx context.Context, req *dto.ChatMessageRequest) (*drafting.Reply, error) {
	if len([]rune(req.Message)) > maxMessageLength {
		return nil, apperror.Invalid("message exceeds %d characters", maxMessageLength)
	}
	return s.engine.Handle(ctx, strings.TrimSpace(req.ConversationId), req.Message)
}

func (s *chatService) Conversation(ctx context.Context, conversationId string) (*dto.ConversationResponse, error) {
	session, err := s.engine.Conversation(ctx, conversationId)
	if err != nil {
		return nil, err
	}
	return &dto.ConversationResponse{
		ConversationId: session.ID,
		State:          session.State,
		TemplateId:     session.TemplateID,
		InstanceId:     session.InstanceID,
		Query:          session.Query,
		Answers:        session.Answers,
		QuestionIndex:  session.Cursor,
		TotalQuestions: len(session.Questions),
		UpdatedAt:      session.UpdatedAt,
	}, nil
}

// Instance returns a stored draft, optionally rendered to sanitized HTML.
func (s *chatService) Instance(ctx context.Context, id string, withHtml bool) (*dto.InstanceResponse, error) {
	inst, err := s.catalog.GetInstance(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &dto.InstanceResponse{Instance: *inst}
	if withHtml && inst.Draft != nil {
		html, err := export.HTML(*inst.Draft)
		if err != nil {
			return nil, err
		}
		out.DraftHtml = &html
	}
	return out, nil
}
