// Copyright (c) 2026 Client Pulse. All rights reserved.
// Author: hello@manilee.dev

package nav

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ManileeDev/clientpulse/internal/platform/constants"
	"github.com/ManileeDev/clientpulse/internal/session"
)

// # Flash Messages

// Message is a one-shot notification for the next page view. ShowLogin
// asks the client surface to open the login prompt after a short pause,
// used when account creation completes.
type Message struct {
	Text      string `json:"message"`
	Type      string `json:"type"`
	ShowLogin bool   `json:"showLogin,omitempty"`
}

// Message types.
const (
	TypeSuccess = "success"
	TypeError   = "error"
	TypeInfo    = "info"
)

func (message Message) dismissAfter() time.Duration { return constants.ToastDismissAfter }

func (message Message) loginPromptDelay() time.Duration {
	if !message.ShowLogin {
		return 0
	}
	return constants.LoginPromptDelay
}

func secondsOf(duration time.Duration) int {
	return int(duration / time.Second)
}

// Flashes persists one pending message per browser session. Reads are
// destructive so a message is shown exactly once.
type Flashes struct {
	repository session.StateRepository
	log        *slog.Logger
}

func NewFlashes(repository session.StateRepository, logger *slog.Logger) *Flashes {
	return &Flashes{
		repository: repository,
		log:        logger.With(slog.String("component", "flashes")),
	}
}

// Set stores the pending message, replacing any unread one.
func (flashes *Flashes) Set(ctx context.Context, sid string, message Message) {
	raw, err := json.Marshal(message)
	if err != nil {
		flashes.log.Error("flash_marshal_failed", slog.String("error", err.Error()))
		return
	}
	if err := flashes.repository.Set(ctx, flashKey(sid), string(raw)); err != nil {
		flashes.log.Error("flash_set_failed", slog.String("error", err.Error()))
	}
}

// Consume returns the pending message and removes it atomically.
func (flashes *Flashes) Consume(ctx context.Context, sid string) (Message, bool) {
	raw, err := flashes.repository.GetDel(ctx, flashKey(sid))
	if err != nil {
		if !errors.Is(err, session.ErrNoValue) {
			flashes.log.Error("flash_consume_failed", slog.String("error", err.Error()))
		}
		return Message{}, false
	}

	var message Message
	if err := json.Unmarshal([]byte(raw), &message); err != nil {
		flashes.log.Warn("flash_payload_malformed", slog.String("error", err.Error()))
		return Message{}, false
	}

	return message, true
}

func flashKey(sid string) string {
	return fmt.Sprintf(constants.StateKeyFlash, sid)
}
