package store

import "sync"

// notifier is the change-notification registry owned by the Store.
// Notifications carry no payload; subscribers re-query ListAll to refresh.
type notifier struct {
	mu   sync.Mutex
	next int
	subs map[int]func()
}

func newNotifier() *notifier {
	return &notifier{subs: make(map[int]func())}
}

// subscribe registers fn and returns a token for unsubscribe.
func (n *notifier) subscribe(fn func()) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.next++
	n.subs[n.next] = fn
	return n.next
}

func (n *notifier) unsubscribe(token int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.subs, token)
}

// notify invokes every subscriber. Callbacks run synchronously, outside any
// store lock, after the mutation has committed.
func (n *notifier) notify() {
	n.mu.Lock()
	fns := make([]func(), 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
