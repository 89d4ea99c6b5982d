package lifecycle

// Subscribe registers an observer of the manager state. The channel is
// primed with the current snapshot and receives a fresh one on every
// mutation. Delivery is latest-wins over a single slot: a slow subscriber
// sees the newest state, never blocks the manager, and may miss
// intermediate snapshots. The returned cancel func closes the channel.
func (m *Manager) Subscribe() (<-chan Snapshot, func()) {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	ch := make(chan Snapshot, 1)
	m.subs[id] = ch
	ch <- m.snapshotLocked()
	m.mu.Unlock()

	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if c, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

// broadcastLocked pushes the current snapshot to every subscriber,
// replacing an undelivered older one. Callers must hold m.mu.
func (m *Manager) broadcastLocked() {
	snap := m.snapshotLocked()
	for _, ch := range m.subs {
		select {
		case ch <- snap:
		default:
			// Slot occupied: drop the stale snapshot and retry once.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}
