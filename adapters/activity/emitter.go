package letteractivity

import (
	"context"
	"strings"

	"github.com/goliatone/go-letters/letter"
	"github.com/goliatone/go-users/activity"
	"github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Config configures the activity emitter adapter.
type Config struct {
	Sink       types.ActivitySink
	Channel    string
	ObjectType string
}

// Emitter adapts ChangeEmitter events into go-users activity records.
type Emitter struct {
	sink       types.ActivitySink
	channel    string
	objectType string
}

// NewEmitter creates a new activity emitter.
func NewEmitter(cfg Config) *Emitter {
	channel := strings.TrimSpace(cfg.Channel)
	if channel == "" {
		channel = "letters"
	}
	objectType := strings.TrimSpace(cfg.ObjectType)
	if objectType == "" {
		objectType = "internship_request"
	}
	return &Emitter{
		sink:       cfg.Sink,
		channel:    channel,
		objectType: objectType,
	}
}

// Emit logs request lifecycle events to the configured ActivitySink.
func (e *Emitter) Emit(ctx context.Context, evt letter.ChangeEvent) error {
	if e == nil {
		return letter.NewError(letter.KindInternal, "activity emitter is nil", nil)
	}
	if e.sink == nil {
		return letter.NewError(letter.KindNotImpl, "activity sink not configured", nil)
	}
	verb := strings.TrimSpace(evt.Name)
	if verb == "" {
		return letter.NewError(letter.KindValidation, "activity verb is required", nil)
	}
	objectID := strings.TrimSpace(evt.RequestID)
	if objectID == "" {
		return letter.NewError(letter.KindValidation, "activity object ID is required", nil)
	}

	meta := buildMetadata(evt)
	record, err := activity.BuildRecordFromUUID(
		parseUUID(evt.Actor),
		verb,
		e.objectType,
		objectID,
		meta,
		activity.WithChannel(e.channel),
		activity.WithOccurredAt(evt.Timestamp),
	)
	if err != nil {
		return err
	}
	return e.sink.Log(ctx, record)
}

func buildMetadata(evt letter.ChangeEvent) map[string]any {
	meta := make(map[string]any, 3)
	if evt.Status != "" {
		meta["status"] = string(evt.Status)
	}
	if evt.Actor != "" {
		meta["actor"] = evt.Actor
	}
	for k, v := range evt.Metadata {
		meta[k] = v
	}
	return meta
}

func parseUUID(value string) uuid.UUID {
	value = strings.TrimSpace(value)
	if value == "" {
		return uuid.Nil
	}
	parsed, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil
	}
	return parsed
}
