package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStoryletEnter EventType = "storylet_enter"
	EventChoice        EventType = "choice"
	EventEffect        EventType = "effect"
	EventDiagnostic    EventType = "diagnostic"
	EventTransaction   EventType = "transaction"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// NewEventBase stamps an event of type t with the current time.
func NewEventBase(t EventType) EventBase {
	return EventBase{Timestamp: time.Now(), Type: t}
}

// StoryletEvent is emitted when a storylet becomes active.
type StoryletEvent struct {
	EventBase
	Storylet string `json:"storylet"`
	Ambient  bool   `json:"ambient"`
}

// ChoiceEvent is emitted when a choice or listed storylet is executed.
type ChoiceEvent struct {
	EventBase
	ID       int    `json:"id"`
	Storylet string `json:"storylet,omitempty"`
}

// EffectEvent is emitted for every mutation that changed a quality.
type EffectEvent struct {
	EventBase
	Quality string `json:"quality"`
	Effect
}

// DiagnosticEvent is emitted for malformed content met during evaluation.
type DiagnosticEvent struct {
	EventBase
	Err *ContentError `json:"error"`
}

// TransactionOutcome is how a transaction ended.
type TransactionOutcome string

const (
	OutcomeCommitted  TransactionOutcome = "committed"
	OutcomeRolledBack TransactionOutcome = "rolled_back"
	OutcomeFailed     TransactionOutcome = "failed"
)

// TransactionEvent is emitted once per transaction.
type TransactionEvent struct {
	EventBase
	Outcome  TransactionOutcome `json:"outcome"`
	Duration time.Duration      `json:"duration"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnStoryletEnter func(context.Context, *StoryletEvent)
	OnChoice        func(context.Context, *ChoiceEvent)
	OnEffect        func(context.Context, *EffectEvent)
	OnDiagnostic    func(context.Context, *DiagnosticEvent)
	OnTransaction   func(context.Context, *TransactionEvent)
}

// ComposeHooks returns hooks that call every non-nil callback of each argument in order.
func ComposeHooks(hooks ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnStoryletEnter: func(ctx context.Context, e *StoryletEvent) {
			for _, h := range hooks {
				if h.OnStoryletEnter != nil {
					h.OnStoryletEnter(ctx, e)
				}
			}
		},
		OnChoice: func(ctx context.Context, e *ChoiceEvent) {
			for _, h := range hooks {
				if h.OnChoice != nil {
					h.OnChoice(ctx, e)
				}
			}
		},
		OnEffect: func(ctx context.Context, e *EffectEvent) {
			for _, h := range hooks {
				if h.OnEffect != nil {
					h.OnEffect(ctx, e)
				}
			}
		},
		OnDiagnostic: func(ctx context.Context, e *DiagnosticEvent) {
			for _, h := range hooks {
				if h.OnDiagnostic != nil {
					h.OnDiagnostic(ctx, e)
				}
			}
		},
		OnTransaction: func(ctx context.Context, e *TransactionEvent) {
			for _, h := range hooks {
				if h.OnTransaction != nil {
					h.OnTransaction(ctx, e)
				}
			}
		},
	}
}
