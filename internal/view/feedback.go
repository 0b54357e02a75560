package view

import (
	"context"
	"errors"
	"strings"

	"github.com/atinyakov/PolicyFinder/internal/models"
	"go.uber.org/zap"
)

// FeedbackSender stores one feedback comment.
type FeedbackSender interface {
	Submit(ctx context.Context, comment string, policyID *int64) error
}

// MessageKind tells success and error messages apart.
type MessageKind string

const (
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)

// Message is the inline status line under the feedback form.
type Message struct {
	Kind MessageKind `json:"type"`
	Text string      `json:"text"`
}

// FeedbackForm is the state of the feedback form.
type FeedbackForm struct {
	// Comment is the text in the input.
	Comment string
	// PolicyID ties the feedback to a policy when set.
	PolicyID *int64

	message *Message

	sender FeedbackSender
	log    *zap.Logger
}

// NewFeedbackForm returns an empty form, optionally tied to policyID.
func NewFeedbackForm(sender FeedbackSender, policyID *int64, log *zap.Logger) *FeedbackForm {
	if log == nil {
		log = zap.NewNop()
	}
	return &FeedbackForm{PolicyID: policyID, sender: sender, log: log}
}

// Submit sends the current comment. Blank input is rejected without
// calling the sender. On failure the comment is kept; on success it is
// cleared. It reports whether the feedback was stored.
func (f *FeedbackForm) Submit(ctx context.Context) bool {
	f.message = nil

	if strings.TrimSpace(f.Comment) == "" {
		f.message = &Message{Kind: MessageError, Text: MsgFeedbackEmpty}
		return false
	}

	if err := f.sender.Submit(ctx, f.Comment, f.PolicyID); err != nil {
		if errors.Is(err, models.ErrEmptyComment) {
			f.message = &Message{Kind: MessageError, Text: MsgFeedbackEmpty}
			return false
		}
		f.log.Error("Error submitting feedback", zap.Error(err))
		f.message = &Message{Kind: MessageError, Text: MsgFeedbackFailed}
		return false
	}

	f.message = &Message{Kind: MessageSuccess, Text: MsgFeedbackSuccess}
	f.Comment = ""
	return true
}

// Message returns the status line, or nil.
func (f *FeedbackForm) Message() *Message {
	return f.message
}
