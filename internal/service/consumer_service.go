package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"lexi-drafting-be/internal/dto"
	"lexi-drafting-be/internal/pkg/logger"
	"lexi-drafting-be/pkg/apperror"
	"lexi-drafting-be/pkg/embedding"
	"lexi-drafting-be/pkg/store"

	"github.com/ThreeDotsLabs/watermill/message"
)

const (
	EmbedKindTemplate = "template"
	EmbedKindDocument = "document"

	embedMaxChars = 8000
	embedAttempts = 3
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber        message.Subscriber
	topicName         string
	catalog           Catalog
	embeddingProvider embedding.EmbeddingProvider
	logger            logger.ILogger
	backoff           time.Duration
}

// NewConsumerService computes embeddings for templates and documents
// announced on topicName.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	catalog Catalog,
	embeddingProvider embedding.EmbeddingProvider,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:        subscriber,
		topicName:         topicName,
		catalog:           catalog,
		embeddingProvider: embeddingProvider,
		logger:            log,
		backoff:           time.Second,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage always acks: retries happen here so a poisoned job
// cannot spin forever on the in-process channel.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var payload dto.PublishEmbedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("EMBED", "Failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		return
	}

	var err error
	for attempt := 1; attempt <= embedAttempts; attempt++ {
		err = cs.embed(ctx, payload)
		if err == nil || errors.Is(err, apperror.ErrReferentialNotFound) || ctx.Err() != nil {
			break
		}
		cs.logger.Warn("EMBED", "Embedding attempt failed", map[string]interface{}{
			"kind": payload.Kind, "id": payload.Id, "attempt": attempt, "error": err.Error(),
		})
		select {
		case <-time.After(cs.backoff * time.Duration(attempt)):
		case <-ctx.Done():
		}
	}

	switch {
	case err == nil:
		cs.logger.Info("EMBED", "Embedding stored", map[string]interface{}{"kind": payload.Kind, "id": payload.Id})
	case errors.Is(err, apperror.ErrReferentialNotFound):
		cs.logger.Warn("EMBED", "Record vanished before embedding", map[string]interface{}{"kind": payload.Kind, "id": payload.Id})
	default:
		cs.logger.Error("EMBED", "Embedding abandoned", map[string]interface{}{"kind": payload.Kind, "id": payload.Id, "error": err.Error()})
	}
}

func (cs *consumerService) embed(ctx context.Context, payload dto.PublishEmbedMessage) error {
	switch payload.Kind {
	case EmbedKindTemplate:
		tpl, err := cs.catalog.GetTemplate(ctx, payload.Id)
		if err != nil {
			return err
		}
		vec, err := cs.embeddingProvider.Embed(ctx, TemplateEmbeddingText(tpl), embedding.TaskDocument)
		if err != nil {
			return err
		}
		return cs.catalog.SetTemplateEmbedding(ctx, tpl.ID, vec)

	case EmbedKindDocument:
		doc, err := cs.catalog.GetDocument(ctx, payload.Id)
		if err != nil {
			return err
		}
		vec, err := cs.embeddingProvider.Embed(ctx, clip(doc.Text, embedMaxChars), embedding.TaskDocument)
		if err != nil {
			return err
		}
		return cs.catalog.SetDocumentEmbedding(ctx, doc.ID, vec)
	}
	return fmt.Errorf("unknown embed kind %q: %w", payload.Kind, apperror.ErrReferentialNotFound)
}

// TemplateEmbeddingText is the text embedded for a template.
func TemplateEmbeddingText(tpl *store.Template) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", tpl.Title)
	if tpl.DocType != "" {
		fmt.Fprintf(&b, "Type: %s\n", tpl.DocType)
	}
	if tpl.Jurisdiction != "" {
		fmt.Fprintf(&b, "Jurisdiction: %s\n", tpl.Jurisdiction)
	}
	if len(tpl.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(tpl.Tags, ", "))
	}
	if tpl.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", tpl.Description)
	}
	b.WriteString("\n")
	b.WriteString(tpl.Body)
	return clip(b.String(), embedMaxChars)
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
