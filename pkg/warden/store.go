package warden

import "sync"

// observable is the subscription mechanism shared by the stores. Any UI layer
// or test harness can subscribe without coupling to a specific framework;
// observers are invoked after every state change, outside the store lock.
type observable struct {
	obsMu     sync.Mutex
	observers []func()
}

// Subscribe registers fn to run after every state change of the store.
func (o *observable) Subscribe(fn func()) {
	o.obsMu.Lock()
	defer o.obsMu.Unlock()
	o.observers = append(o.observers, fn)
}

func (o *observable) notify() {
	o.obsMu.Lock()
	observers := make([]func(), len(o.observers))
	copy(observers, o.observers)
	o.obsMu.Unlock()

	for _, fn := range observers {
		fn()
	}
}
