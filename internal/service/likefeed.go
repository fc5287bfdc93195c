package service

import (
	"sync"

	"gamepal/internal/models"
)

// LikeEvent is a realtime signal that something changed in a guardian's
// like feed. It carries just enough for the client to decide to re-fetch;
// delivery is at-least-once and never blocks the publisher.
type LikeEvent struct {
	Kind      string            `json:"kind"`
	LikeID    int64             `json:"likeId"`
	Status    models.LikeStatus `json:"status"`
	ChildName string            `json:"childName,omitempty"`
	OtherName string            `json:"otherName,omitempty"`
}

// Event kinds published to the feed
const (
	LikeEventReceived  = "like_received"
	LikeEventApproved  = "like_approved"
	LikeEventRejected  = "like_rejected"
	LikeEventWithdrawn = "like_withdrawn"
)

// LikeFeed is an in-process hub fanning like events out to subscribed
// guardians. A slow subscriber drops events rather than stalling writers.
type LikeFeed struct {
	mu   sync.RWMutex
	subs map[int64]map[chan LikeEvent]bool
}

// NewLikeFeed creates an empty feed hub
func NewLikeFeed() *LikeFeed {
	return &LikeFeed{
		subs: make(map[int64]map[chan LikeEvent]bool),
	}
}

// Subscribe registers a listener for a guardian's events. The returned
// function removes the subscription and closes the channel.
func (f *LikeFeed) Subscribe(guardianID int64) (<-chan LikeEvent, func()) {
	ch := make(chan LikeEvent, 16)

	f.mu.Lock()
	if f.subs[guardianID] == nil {
		f.subs[guardianID] = make(map[chan LikeEvent]bool)
	}
	f.subs[guardianID][ch] = true
	f.mu.Unlock()

	unsubscribe := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if set, ok := f.subs[guardianID]; ok && set[ch] {
			delete(set, ch)
			if len(set) == 0 {
				delete(f.subs, guardianID)
			}
			close(ch)
		}
	}
	return ch, unsubscribe
}

// Publish delivers an event to every active subscription for a guardian
func (f *LikeFeed) Publish(guardianID int64, event LikeEvent) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for ch := range f.subs[guardianID] {
		select {
		case ch <- event:
		default:
			// Subscriber buffer full; the client re-fetches on reconnect
		}
	}
}
