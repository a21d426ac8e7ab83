package events

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thelife/models"
)

// TestEventDeliveryIntegration tests the complete event flow from TransactionalBus to main Bus
func TestEventDeliveryIntegration(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	eventReceived := make(chan BalanceChangeEvent, 1)
	mainBus.Subscribe(EventTypeBalanceChange, func(ctx context.Context, event Event) {
		if balanceEvent, ok := event.(BalanceChangeEvent); ok {
			eventReceived <- balanceEvent
		} else {
			t.Errorf("Expected BalanceChangeEvent, got %T", event)
		}
	})

	testEvent := BalanceChangeEvent{
		PlayerID:   uuid.New(),
		CashBefore: 1000,
		CashAfter:  1500,
		ChangeType: models.ChangeTypeCrime,
	}

	transactionalBus.Publish(testEvent)
	assert.Equal(t, 1, transactionalBus.Pending())

	err := transactionalBus.Flush(context.Background())
	assert.NoError(t, err)
	assert.Zero(t, transactionalBus.Pending())

	select {
	case received := <-eventReceived:
		assert.Equal(t, testEvent, received)
	case <-time.After(2 * time.Second):
		t.Fatal("Event was not received within timeout")
	}
}

// TestDiscardDropsPendingEvents tests that rolled back work emits nothing
func TestDiscardDropsPendingEvents(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	received := make(chan Event, 1)
	mainBus.Subscribe(EventTypeLevelUp, func(ctx context.Context, event Event) {
		received <- event
	})

	transactionalBus.Publish(LevelUpEvent{PlayerID: uuid.New(), OldLevel: 1, NewLevel: 2})
	transactionalBus.Discard()
	require.NoError(t, transactionalBus.Flush(context.Background()))

	select {
	case ev := <-received:
		t.Fatalf("unexpected event delivered: %v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}

// TestPanickingHandlerDoesNotStopOthers tests handler isolation
func TestPanickingHandlerDoesNotStopOthers(t *testing.T) {
	bus := NewBus()

	var wg sync.WaitGroup
	wg.Add(1)
	bus.Subscribe(EventTypeConfinement, func(ctx context.Context, event Event) {
		panic("boom")
	})
	bus.Subscribe(EventTypeConfinement, func(ctx context.Context, event Event) {
		wg.Done()
	})

	bus.Emit(context.Background(), ConfinementEvent{PlayerID: uuid.New(), State: "jailed"})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("second handler was not called")
	}
}

type recordingPublisher struct {
	mu       sync.Mutex
	subjects []string
	payloads [][]byte
	sent     chan struct{}
}

func (p *recordingPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	p.mu.Lock()
	p.subjects = append(p.subjects, subject)
	p.payloads = append(p.payloads, data)
	p.mu.Unlock()
	p.sent <- struct{}{}
	return nil
}

// TestForwardPublishesEnvelopes tests that committed events reach the publisher
func TestForwardPublishesEnvelopes(t *testing.T) {
	bus := NewBus()
	publisher := &recordingPublisher{sent: make(chan struct{}, 1)}
	Forward(bus, publisher)

	attack := PlayerAttackedEvent{
		AttackerID: uuid.New(),
		DefenderID: uuid.New(),
		CashStolen: 250,
		OccurredAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	attack.WinnerID = attack.AttackerID
	bus.Emit(context.Background(), attack)

	select {
	case <-publisher.sent:
	case <-time.After(2 * time.Second):
		t.Fatal("event was not forwarded")
	}

	publisher.mu.Lock()
	defer publisher.mu.Unlock()
	require.Len(t, publisher.subjects, 1)
	assert.Equal(t, "thelife.events.player_attacked", publisher.subjects[0])

	var env Envelope
	require.NoError(t, json.Unmarshal(publisher.payloads[0], &env))
	assert.Equal(t, EventTypePlayerAttacked, env.Type)
	_, err := uuid.Parse(env.ID)
	assert.NoError(t, err)

	var payload PlayerAttackedEvent
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, attack, payload)
}

// TestDrainWaitsForRunningHandlers tests shutdown draining
func TestDrainWaitsForRunningHandlers(t *testing.T) {
	bus := NewBus()
	release := make(chan struct{})
	var finished sync.WaitGroup
	finished.Add(1)
	bus.Subscribe(EventTypeLevelUp, func(ctx context.Context, event Event) {
		<-release
		finished.Done()
	})

	bus.Emit(context.Background(), LevelUpEvent{PlayerID: uuid.New(), OldLevel: 1, NewLevel: 2})

	short, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, bus.Drain(short), context.DeadlineExceeded)

	close(release)
	require.NoError(t, bus.Drain(context.Background()))
	finished.Wait()
}
