package router

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/scrawlparty/client/src/transport"
	"github.com/scrawlparty/client/src/types"
)

// Sender is the outbound surface of the transport manager. Higher
// components never touch the connection directly; everything goes
// through the router and this interface.
type Sender interface {
	Send(types.Frame) error
}

// Router multiplexes named topics and the per-session private queues
// over the single connection. It tracks active subscriptions, replays
// them after a reconnect, and dispatches inbound message frames to
// their handlers in arrival order.
type Router struct {
	sender Sender
	logger zerolog.Logger

	mu           sync.RWMutex
	subs         map[string][]*Subscription
	wasConnected bool
	onResync     func()
}

// Subscription is a disposable handle for one (topic, handler) pair.
type Subscription struct {
	topic   string
	handler types.FrameHandler
	router  *Router
}

// Topic returns the subscribed topic name.
func (s *Subscription) Topic() string { return s.topic }

// Unsubscribe tears down this subscription. Idempotent.
func (s *Subscription) Unsubscribe() {
	s.router.remove(s)
}

// New creates a router on top of the given sender.
func New(sender Sender, logger zerolog.Logger) *Router {
	return &Router{
		sender: sender,
		logger: logger.With().Str("component", "router").Logger(),
		subs:   make(map[string][]*Subscription),
	}
}

// OnResync registers the hook fired after a reconnect-triggered
// resubscription, so the session can pull a fresh snapshot and close
// the resubscription gap.
func (r *Router) OnResync(cb func()) { r.onResync = cb }

// Subscribe registers a handler for a topic and announces the
// subscription to the server.
func (r *Router) Subscribe(topic string, handler types.FrameHandler) *Subscription {
	sub := &Subscription{topic: topic, handler: handler, router: r}

	r.mu.Lock()
	r.subs[topic] = append(r.subs[topic], sub)
	first := len(r.subs[topic]) == 1
	r.mu.Unlock()

	if first {
		if err := r.sender.Send(types.Frame{Type: types.FrameSubscribe, Topic: topic}); err != nil {
			r.logger.Debug().Err(err).Str("topic", topic).Msg("subscribe frame not sent")
		}
	}
	r.logger.Debug().Str("topic", topic).Msg("subscribed")
	return sub
}

// UnsubscribeAll tears down every active subscription. Called on room
// exit and before a reconnect-triggered resubscribe.
func (r *Router) UnsubscribeAll() {
	r.mu.Lock()
	topics := make([]string, 0, len(r.subs))
	for topic := range r.subs {
		topics = append(topics, topic)
	}
	r.subs = make(map[string][]*Subscription)
	r.mu.Unlock()

	for _, topic := range topics {
		if err := r.sender.Send(types.Frame{Type: types.FrameUnsubscribe, Topic: topic}); err != nil {
			r.logger.Debug().Err(err).Str("topic", topic).Msg("unsubscribe frame not sent")
		}
	}
	r.logger.Debug().Int("count", len(topics)).Msg("all subscriptions removed")
}

// Topics returns the active topic set.
func (r *Router) Topics() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	topics := make([]string, 0, len(r.subs))
	for topic := range r.subs {
		topics = append(topics, topic)
	}
	return topics
}

// Send publishes a body to an app destination, fire-and-forget.
func (r *Router) Send(dest string, body any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", dest, err)
	}
	return r.sender.Send(types.Frame{Type: types.FrameSend, Topic: dest, Body: raw})
}

// Dispatch routes an inbound frame to the handlers of its topic.
// Invoked from the transport's single read loop, so handlers for the
// same topic always run in server-send order.
func (r *Router) Dispatch(f types.Frame) {
	if f.Type != types.FrameMessage {
		r.logger.Debug().Str("type", f.Type).Msg("ignoring non-message frame")
		return
	}

	r.mu.RLock()
	handlers := make([]types.FrameHandler, 0, len(r.subs[f.Topic]))
	for _, sub := range r.subs[f.Topic] {
		handlers = append(handlers, sub.handler)
	}
	r.mu.RUnlock()

	if len(handlers) == 0 {
		r.logger.Debug().Str("topic", f.Topic).Msg("no handler for topic")
		return
	}
	for _, h := range handlers {
		h(f)
	}
}

// HandleStateChange reacts to transport state transitions. On every
// Connected the active topic set is (re)announced, covering both
// subscriptions registered before the first connection came up and
// reconnects. After a reconnect the resync hook runs once the
// subscriptions are back, so no events published during the
// resubscription window are silently missed.
func (r *Router) HandleStateChange(s transport.State) {
	if s != transport.Connected {
		return
	}

	r.mu.Lock()
	reconnected := r.wasConnected
	r.wasConnected = true
	topics := make([]string, 0, len(r.subs))
	for topic := range r.subs {
		topics = append(topics, topic)
	}
	r.mu.Unlock()

	for _, topic := range topics {
		if err := r.sender.Send(types.Frame{Type: types.FrameSubscribe, Topic: topic}); err != nil {
			r.logger.Warn().Err(err).Str("topic", topic).Msg("resubscribe failed")
		}
	}

	if !reconnected {
		return
	}
	r.logger.Info().Int("topics", len(topics)).Msg("resubscribed after reconnect")
	if r.onResync != nil {
		r.onResync()
	}
}

func (r *Router) remove(sub *Subscription) {
	r.mu.Lock()
	list := r.subs[sub.topic]
	for i, s := range list {
		if s == sub {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	last := len(list) == 0
	if last {
		delete(r.subs, sub.topic)
	} else {
		r.subs[sub.topic] = list
	}
	r.mu.Unlock()

	if last {
		if err := r.sender.Send(types.Frame{Type: types.FrameUnsubscribe, Topic: sub.topic}); err != nil {
			r.logger.Debug().Err(err).Str("topic", sub.topic).Msg("unsubscribe frame not sent")
		}
	}
}
