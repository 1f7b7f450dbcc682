package repository

import (
	"sync"

	"github.com/dafitra/prompt-to-app/internal/domain"
)

// Broadcaster fans session updates out to subscribed observers. Both
// storage backends embed it so notification stays outside the write path
// proper and storage code never imports a transport.
type Broadcaster struct {
	mu        sync.RWMutex
	observers []domain.SessionObserver
}

// Subscribe registers an observer for session updates.
func (b *Broadcaster) Subscribe(obs domain.SessionObserver) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.observers = append(b.observers, obs)
}

// NotifyUpdated delivers the merged data to every observer in
// subscription order.
func (b *Broadcaster) NotifyUpdated(id string, data map[string]any) {
	b.mu.RLock()
	observers := make([]domain.SessionObserver, len(b.observers))
	copy(observers, b.observers)
	b.mu.RUnlock()

	for _, obs := range observers {
		obs.SessionUpdated(id, data)
	}
}

// MergeData applies a shallow merge of patch into data: top-level keys in
// patch fully replace same-named keys. The input maps are not modified.
func MergeData(data, patch map[string]any) map[string]any {
	merged := make(map[string]any, len(data)+len(patch))
	for k, v := range data {
		merged[k] = v
	}
	for k, v := range patch {
		merged[k] = v
	}
	return merged
}
