package events

import (
	"sync"
	"testing"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	b := NewBroker[int]()
	s1 := b.Subscribe(4)
	s2 := b.Subscribe(4)

	b.Publish(7)

	for i, s := range []*Subscription[int]{s1, s2} {
		select {
		case v := <-s.Events():
			if v != 7 {
				t.Errorf("Subscriber %d got %d, want 7", i, v)
			}
		default:
			t.Errorf("Subscriber %d received nothing", i)
		}
	}
}

func TestPublishDropsOldestWhenFull(t *testing.T) {
	b := NewBroker[int]()
	s := b.Subscribe(2)

	b.Publish(1)
	b.Publish(2)
	b.Publish(3)

	got := []int{<-s.Events(), <-s.Events()}
	if got[0] != 2 || got[1] != 3 {
		t.Errorf("Expected [2 3] after overflow, got %v", got)
	}
}

func TestClosedSubscriptionReceivesNothing(t *testing.T) {
	b := NewBroker[string]()
	s := b.Subscribe(1)
	s.Close()
	s.Close() // idempotent

	if b.Count() != 0 {
		t.Errorf("Expected 0 subscriptions after close, got %d", b.Count())
	}

	b.Publish("late")
	select {
	case v := <-s.Events():
		t.Errorf("Closed subscription received %q", v)
	default:
	}

	select {
	case <-s.Done():
	default:
		t.Error("Done() should be closed")
	}
}

func TestBrokerCloseEndsSubscriptions(t *testing.T) {
	b := NewBroker[int]()
	s := b.Subscribe(0)
	if cap(s.events) != DefaultBuffer {
		t.Errorf("Expected default buffer %d, got %d", DefaultBuffer, cap(s.events))
	}

	b.Close()
	select {
	case <-s.Done():
	default:
		t.Error("Broker.Close() should end subscriptions")
	}
	s.Close()
}

func TestConcurrentPublish(t *testing.T) {
	b := NewBroker[int]()
	s := b.Subscribe(1000)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				b.Publish(base*100 + j)
			}
		}(i)
	}
	wg.Wait()

	if n := len(s.Events()); n != 500 {
		t.Errorf("Expected 500 buffered events, got %d", n)
	}
}
