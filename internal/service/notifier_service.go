package service

import (
	"context"
	"encoding/json"

	"lexi-drafting-be/internal/dto"
	"lexi-drafting-be/internal/pkg/logger"
	"lexi-drafting-be/pkg/drafting"
	"lexi-drafting-be/pkg/events"
	"lexi-drafting-be/pkg/store"
)

// EventPublisher is satisfied by *nats.Publisher.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type INotifierService interface {
	drafting.Notifier
	DocumentUploaded(ctx context.Context, doc *store.Document)
	TemplateChanged(ctx context.Context, tpl *store.Template)
}

type notifierService struct {
	templateJobs   IPublisherService // nil when no embedding provider is configured
	documentJobs   IPublisherService
	eventPublisher EventPublisher // nil without NATS
	activity       IActivityService
	logger         logger.ILogger
}

// NewNotifierService fans domain events out to the embed queue and the
// event bus. Without a bus, events go straight to the activity feed.
func NewNotifierService(templateJobs, documentJobs IPublisherService, eventPublisher EventPublisher, activity IActivityService, log logger.ILogger) INotifierService {
	return &notifierService{
		templateJobs:   templateJobs,
		documentJobs:   documentJobs,
		eventPublisher: eventPublisher,
		activity:       activity,
		logger:         log,
	}
}

func (n *notifierService) TemplateCreated(ctx context.Context, tpl *store.Template) {
	n.enqueueEmbed(ctx, n.templateJobs, EmbedKindTemplate, tpl.ID)
	n.emit(ctx, events.TemplateCreated(tpl))
}

// TemplateChanged re-embeds without announcing a new template.
func (n *notifierService) TemplateChanged(ctx context.Context, tpl *store.Template) {
	n.enqueueEmbed(ctx, n.templateJobs, EmbedKindTemplate, tpl.ID)
}

func (n *notifierService) DraftGenerated(ctx context.Context, inst *store.Instance) {
	n.emit(ctx, events.DraftGenerated(inst))
}

func (n *notifierService) DocumentUploaded(ctx context.Context, doc *store.Document) {
	n.enqueueEmbed(ctx, n.documentJobs, EmbedKindDocument, doc.ID)
	n.emit(ctx, events.DocumentUploaded(doc))
}

func (n *notifierService) enqueueEmbed(ctx context.Context, jobs IPublisherService, kind, id string) {
	if jobs == nil {
		return
	}
	payload, err := json.Marshal(dto.PublishEmbedMessage{Kind: kind, Id: id})
	if err != nil {
		return
	}
	if err := jobs.Publish(ctx, payload); err != nil {
		n.logger.Warn("NOTIFIER", "Failed to enqueue embedding", map[string]interface{}{"kind": kind, "id": id, "error": err.Error()})
	}
}

func (n *notifierService) emit(ctx context.Context, evt events.BaseEvent) {
	if n.eventPublisher != nil {
		err := n.eventPublisher.Publish(ctx, evt)
		if err == nil {
			return
		}
		n.logger.Warn("NOTIFIER", "Failed to publish event, delivering locally", map[string]interface{}{"type": evt.Type, "error": err.Error()})
	}
	if n.activity != nil {
		n.activity.Record(evt)
	}
}
