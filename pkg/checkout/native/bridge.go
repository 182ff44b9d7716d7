// Package native implements the checkout.Provider contract over the host
// shell's in-app-purchase bridge: a one-way outbound message channel plus a
// process-wide broadcast channel for asynchronous purchase results.
package native

import (
	"sync"

	"github.com/mihaimyh/gocheckout/pkg/checkout"
)

// Host message handler identifiers. Subscriptions and cores purchases are
// dispatched to distinct handlers.
const (
	HandlerSubscription = "subscriptionPurchase"
	HandlerCores        = "coresPurchase"
)

// BroadcastChannelName is the named broadcast channel carrying purchase
// events from the host shell.
const BroadcastChannelName = "purchase-events"

// OutboundMessage is the one-way message posted to a host handler to start
// a purchase. The host presents and dismisses the purchase sheet entirely
// outside this layer's control.
type OutboundMessage struct {
	ProductID       string `json:"productId"`
	AppAccountToken string `json:"appAccountToken,omitempty"`
}

// MessagePoster posts outbound messages across the trust boundary to the
// host shell. Posting cannot fail synchronously on the host side; an error
// here means the bridge itself is missing.
type MessagePoster interface {
	Post(handlerID string, msg OutboundMessage) error
}

// Broadcaster is the inbound side of the bridge: a broadcast channel
// delivering PurchaseEvents to every subscriber. The cancel func returned by
// Subscribe must be called when the owning surface unmounts.
type Broadcaster interface {
	Subscribe() (<-chan checkout.PurchaseEvent, func())
}

// Publisher is implemented by broadcasters that accept events from a
// transport (e.g. the HTTP handlers under transport/).
type Publisher interface {
	Publish(ev checkout.PurchaseEvent)
}

// ChannelBroadcaster is an in-process Broadcaster. Events publish to every
// live subscription in the order they arrive; a full subscriber buffer drops
// the event for that subscriber rather than blocking the bridge.
type ChannelBroadcaster struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan checkout.PurchaseEvent
	closed bool
}

// NewChannelBroadcaster creates an in-process broadcast channel.
func NewChannelBroadcaster() *ChannelBroadcaster {
	return &ChannelBroadcaster{subs: make(map[int]chan checkout.PurchaseEvent)}
}

// Subscribe registers a new subscription. The returned cancel func is safe
// to call more than once.
func (b *ChannelBroadcaster) Subscribe() (<-chan checkout.PurchaseEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan checkout.PurchaseEvent, 16)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

// Publish delivers an event to all current subscribers.
func (b *ChannelBroadcaster) Publish(ev checkout.PurchaseEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Close tears down the broadcaster and all subscriptions.
func (b *ChannelBroadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
