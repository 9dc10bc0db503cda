// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/indiedeck/indiedeck/internal/recommend"
)

type mockAppender struct {
	appended []recommend.Interaction
	err      error
}

func (m *mockAppender) AppendInteraction(_ context.Context, in *recommend.Interaction) error {
	if m.err != nil {
		return m.err
	}
	m.appended = append(m.appended, *in)
	return nil
}

type mockInvalidator struct {
	users []string
	err   error
}

func (m *mockInvalidator) Invalidate(_ context.Context, userID string) error {
	if m.err != nil {
		return m.err
	}
	m.users = append(m.users, userID)
	return nil
}

func interactionMessage(t *testing.T, action recommend.ActionKind) *message.Message {
	t.Helper()
	msg, err := NewInteractionMessage(&recommend.Interaction{
		UserID:    "u1",
		GameID:    "g1",
		Action:    action,
		Timestamp: time.Now(),
	})
	if err != nil {
		t.Fatalf("build message: %v", err)
	}
	return msg
}

func TestPersistHandlerQualifyingEmitsInvalidation(t *testing.T) {
	appender := &mockAppender{}
	handler := persistHandler(appender, zerolog.Nop())

	out, err := handler(interactionMessage(t, recommend.ActionLike))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(appender.appended) != 1 {
		t.Fatalf("appended %d interactions, want 1", len(appender.appended))
	}
	if len(out) != 1 {
		t.Fatalf("emitted %d messages, want 1 invalidation", len(out))
	}

	var event InvalidationEvent
	if err := json.Unmarshal(out[0].Payload, &event); err != nil {
		t.Fatalf("decode invalidation: %v", err)
	}
	if event.UserID != "u1" || event.Reason != "like" {
		t.Errorf("event = %+v", event)
	}
}

func TestPersistHandlerPassiveSkipsInvalidation(t *testing.T) {
	appender := &mockAppender{}
	handler := persistHandler(appender, zerolog.Nop())

	for _, action := range []recommend.ActionKind{recommend.ActionSkip, recommend.ActionViewDetails, recommend.ActionLongView} {
		out, err := handler(interactionMessage(t, action))
		if err != nil {
			t.Fatalf("handler(%v): %v", action, err)
		}
		if len(out) != 0 {
			t.Errorf("action %v emitted %d messages, want none", action, len(out))
		}
	}
	if len(appender.appended) != 3 {
		t.Errorf("appended %d interactions, want 3", len(appender.appended))
	}
}

func TestPersistHandlerMalformedDropped(t *testing.T) {
	appender := &mockAppender{}
	handler := persistHandler(appender, zerolog.Nop())

	msg := message.NewMessage("bad", []byte("{not json"))
	out, err := handler(msg)
	if err != nil {
		t.Fatalf("malformed payload should not be retried: %v", err)
	}
	if len(out) != 0 || len(appender.appended) != 0 {
		t.Error("malformed payload should be dropped entirely")
	}
}

func TestPersistHandlerAppendFailureRetryable(t *testing.T) {
	appender := &mockAppender{err: errors.New("db down")}
	handler := persistHandler(appender, zerolog.Nop())

	if _, err := handler(interactionMessage(t, recommend.ActionLike)); err == nil {
		t.Error("append failure should surface for retry")
	}
}

func TestInvalidateHandler(t *testing.T) {
	inv := &mockInvalidator{}
	handler := invalidateHandler(inv, zerolog.Nop())

	msg, err := NewInvalidationMessage("u7", "super_like")
	if err != nil {
		t.Fatal(err)
	}
	if err := handler(msg); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(inv.users) != 1 || inv.users[0] != "u7" {
		t.Errorf("invalidated = %v, want [u7]", inv.users)
	}

	inv.err = errors.New("cache down")
	if err := handler(msg); err == nil {
		t.Error("invalidation failure should surface for retry")
	}
}
