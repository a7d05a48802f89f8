package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []Event
	d.Subscribe(EventQuestionEscalated, func(_ context.Context, e Event) error {
		got = append(got, e)
		return nil
	})

	event := Event{ID: "1", Type: EventQuestionEscalated, QuestionID: 7}
	if err := d.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(got) != 1 || got[0].QuestionID != 7 {
		t.Fatalf("expected one delivery for question 7, got %+v", got)
	}
}

func TestDispatcherIgnoresOtherTypes(t *testing.T) {
	d := NewInMemoryDispatcher()

	called := false
	d.Subscribe(EventQuestionResolved, func(context.Context, Event) error {
		called = true
		return nil
	})

	_ = d.Publish(context.Background(), Event{Type: EventQuestionAnswered})
	if called {
		t.Fatal("handler must only see its subscribed type")
	}
}

func TestDispatcherContinuesPastHandlerError(t *testing.T) {
	d := NewInMemoryDispatcher()

	d.Subscribe(EventFAQImported, func(context.Context, Event) error {
		return errors.New("handler failed")
	})
	reached := false
	d.Subscribe(EventFAQImported, func(context.Context, Event) error {
		reached = true
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventFAQImported}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !reached {
		t.Fatal("a failing handler must not block later handlers")
	}
}
