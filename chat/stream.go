// Package chat implements the chat front-ends: one turn in, a streamed reply out.
package chat

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/giygas/bulario-chat/entities"
	"github.com/giygas/bulario-chat/interfaces"
)

// sinkError marks a failure of the sink so it is not mistaken for a
// model error
type sinkError struct {
	err error
}

func (e *sinkError) Error() string { return e.err.Error() }
func (e *sinkError) Unwrap() error { return e.err }

// newMessageID returns the id of an outbound message
func newMessageID() string {
	return uuid.NewString()
}

// streamReply relays the completion for req into sink and ends the message.
// A model error becomes a single Fail built by failText. The returned error
// is non-nil only when the sink failed or ctx was cancelled.
func streamReply(
	ctx context.Context,
	streamer interfaces.CompletionStreamer,
	req entities.CompletionRequest,
	sink interfaces.Sink,
	failText func(error) string,
) error {
	err := streamer.StreamCompletion(ctx, req, func(ctx context.Context, fragment string) error {
		if err := sink.Append(ctx, fragment); err != nil {
			return &sinkError{err: err}
		}
		return nil
	})

	var se *sinkError
	switch {
	case err == nil:
		return sink.Finalize(ctx)
	case errors.As(err, &se):
		return se.err
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		return sink.Fail(ctx, failText(err))
	}
}

func welcome(content string) entities.Message {
	return entities.Message{ID: newMessageID(), Author: assistantAuthor, Content: content}
}
