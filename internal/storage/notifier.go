package storage

import "sync"

// Observer receives repository change events.
type Observer func(Event)

// Notifier fans repository mutation events out to subscribed observers.
// It is decoupled from the storage engine: the repository publishes after a
// successful write, and consumers re-query whatever state they render.
type Notifier struct {
	mu        sync.Mutex
	nextID    int
	observers map[int]Observer
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{observers: make(map[int]Observer)}
}

// Subscribe registers an observer and returns an unsubscribe func.
func (n *Notifier) Subscribe(obs Observer) (cancel func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.observers[id] = obs

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.observers, id)
	}
}

// Publish delivers an event to all current observers. Observers run on the
// publisher's goroutine, in unspecified order.
func (n *Notifier) Publish(evt Event) {
	n.mu.Lock()
	observers := make([]Observer, 0, len(n.observers))
	for _, obs := range n.observers {
		observers = append(observers, obs)
	}
	n.mu.Unlock()

	for _, obs := range observers {
		obs(evt)
	}
}
