// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package event_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/blinklabs-io/slick/event"
	"go.uber.org/goleak"
)

func TestEventBusSingleSubscriber(t *testing.T) {
	var testEvtData int = 999
	var testEvtType event.EventType = "test.event"
	eb := event.NewEventBus(nil, nil)
	_, subCh := eb.Subscribe(testEvtType)
	eb.Publish(testEvtType, event.NewEvent(testEvtType, testEvtData))
	select {
	case evt, ok := <-subCh:
		if !ok {
			t.Fatalf("event channel closed unexpectedly")
		}
		switch v := evt.Data.(type) {
		case int:
			if v != testEvtData {
				t.Fatalf("did not get expected event")
			}
		default:
			t.Fatalf(
				"event data was not of expected type, expected int, got %T",
				evt.Data,
			)
		}
	case <-time.After(1 * time.Second):
		t.Fatalf("timeout waiting for event")
	}
}

func TestEventBusMultipleSubscribers(t *testing.T) {
	var testEvtType event.EventType = "test.event"
	eb := event.NewEventBus(nil, nil)
	_, sub1Ch := eb.Subscribe(testEvtType)
	_, sub2Ch := eb.Subscribe(testEvtType)
	eb.Publish(testEvtType, event.NewEvent(testEvtType, 999))
	for _, subCh := range []<-chan event.Event{sub1Ch, sub2Ch} {
		select {
		case _, ok := <-subCh:
			if !ok {
				t.Fatalf("event channel closed unexpectedly")
			}
		case <-time.After(1 * time.Second):
			t.Fatalf("timeout waiting for event")
		}
	}
}

func TestEventBusTypeIsolation(t *testing.T) {
	eb := event.NewEventBus(nil, nil)
	_, subCh := eb.Subscribe("test.type-a")
	eb.Publish("test.type-b", event.NewEvent("test.type-b", 1))
	select {
	case evt := <-subCh:
		t.Fatalf("unexpected event delivered: %v", evt)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestEventBusSubscribeFunc(t *testing.T) {
	defer goleak.VerifyNone(t)
	var testEvtType event.EventType = "test.event"
	var gotEvents atomic.Int64
	eb := event.NewEventBus(nil, nil)
	eb.SubscribeFunc(testEvtType, func(evt event.Event) {
		gotEvents.Add(1)
	})
	for range 5 {
		eb.Publish(testEvtType, event.NewEvent(testEvtType, nil))
	}
	// Stop waits for handler goroutines to drain and exit
	eb.Stop()
	if gotEvents.Load() != 5 {
		t.Fatalf("expected 5 events, got %d", gotEvents.Load())
	}
}

func TestEventBusUnsubscribeSlowSubscriber(t *testing.T) {
	defer goleak.VerifyNone(t)
	var testEvtType event.EventType = "test.event"
	eb := event.NewEventBus(nil, nil)
	subId, _ := eb.Subscribe(testEvtType)
	// Fill the subscriber buffer without ever draining it
	for range event.EventQueueSize {
		eb.Publish(testEvtType, event.NewEvent(testEvtType, nil))
	}
	// The next publish blocks on the full channel
	publishDone := make(chan struct{})
	go func() {
		defer close(publishDone)
		eb.Publish(testEvtType, event.NewEvent(testEvtType, nil))
	}()
	// Give the publisher time to block on the send
	time.Sleep(50 * time.Millisecond)
	// Unsubscribing must unblock the stuck publisher rather than wait
	// for the subscriber to drain
	eb.Unsubscribe(testEvtType, subId)
	select {
	case <-publishDone:
	case <-time.After(1 * time.Second):
		t.Fatalf("publish still blocked after unsubscribe")
	}
}

func TestEventBusUnsubscribe(t *testing.T) {
	var testEvtType event.EventType = "test.event"
	eb := event.NewEventBus(nil, nil)
	subId, subCh := eb.Subscribe(testEvtType)
	eb.Unsubscribe(testEvtType, subId)
	if _, ok := <-subCh; ok {
		t.Fatalf("expected channel to be closed after unsubscribe")
	}
	// Publishing after unsubscribe must not panic
	eb.Publish(testEvtType, event.NewEvent(testEvtType, nil))
}
