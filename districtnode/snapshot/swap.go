package snapshot

import (
	"os"

	"github.com/districtproof/districtnode/districtnode/boundary"
	"github.com/pkg/errors"
)

// generation pairs a Handle with the open store backing it. Superseded
// generations stay in the Synchronizer's retained list, store open,
// until either pruned or reactivated by rollback.
type generation struct {
	handle *Handle
	store  *boundary.Store
	dir    string
}

// Activate swaps a newly validated generation in as the serving
// snapshot. The previous active generation moves to Superseded and
// joins the retained list; generations beyond maxRetained are pruned
// from disk once their refcount reaches zero.
//
// Callers obtain readable references to the active store via
// ActiveStore, which bumps the handle's refcount for the duration of
// the caller's work; Release must be called when done. This lets old
// generations drain in-flight readers before Activate's prune step
// removes them, without blocking the swap itself.
func (s *Synchronizer) Activate(h *Handle, store *boundary.Store, dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil && s.active.handle.Meta.SnapshotID == h.Meta.SnapshotID {
		return errors.Wrapf(ErrAlreadyActive, "%s", h.Meta.SnapshotID)
	}
	if h.State != Validated {
		return errors.Errorf("snapshot: cannot activate handle in state %s", h.State)
	}

	h.State = Active
	next := &generation{handle: h, store: store, dir: dir}

	prev := s.active
	s.active = next
	activations.Inc()
	activeDistrictCount.Set(float64(h.Meta.DistrictCount))

	if prev != nil {
		prev.handle.State = Superseded
		s.retained = append([]*generation{prev}, s.retained...)
		prev.handle.State = Retained
		s.prune()
	}

	if s.onActivate != nil {
		if err := s.onActivate(store); err != nil {
			// The swap already happened; a refresh-hook failure is
			// logged by the caller's hook and does not roll back the
			// pointer, since the new store is still valid to serve.
			return errors.Wrap(err, "snapshot: post-activation refresh hook")
		}
	}
	return nil
}

// prune drops retained generations beyond maxRetained that have no
// in-flight readers, oldest first. Must be called with s.mu held.
func (s *Synchronizer) prune() {
	for len(s.retained) > s.maxRetained {
		last := s.retained[len(s.retained)-1]
		if last.handle.refs() > 0 {
			// Still draining; try again on the next activation.
			return
		}
		s.retained = s.retained[:len(s.retained)-1]
		last.handle.State = Pruned
		_ = last.store.Close()
		_ = os.RemoveAll(last.dir)
		prunedTotal.Inc()
	}
}

// ActiveStore returns the currently serving store along with a release
// function the caller must invoke when finished reading from it.
func (s *Synchronizer) ActiveStore() (*boundary.Store, func(), error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == nil {
		return nil, nil, ErrNoActiveSnapshot
	}
	g := s.active
	g.handle.acquire()
	return g.store, func() { g.handle.release() }, nil
}

// ActiveMeta returns the metadata of the currently serving snapshot.
func (s *Synchronizer) ActiveMeta() (Meta, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == nil {
		return Meta{}, false
	}
	return s.active.handle.Meta, true
}

// Retained lists the snapshot IDs currently available for rollback,
// newest first.
func (s *Synchronizer) Retained() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.retained))
	for _, g := range s.retained {
		ids = append(ids, g.handle.Meta.SnapshotID)
	}
	return ids
}

// Rollback reactivates a retained generation by snapshot ID, moving
// the current active generation back into the retained set. It is a
// manual operator action, not something the poll loop triggers.
func (s *Synchronizer) Rollback(snapshotID string) error {
	s.mu.Lock()

	idx := -1
	for i, g := range s.retained {
		if g.handle.Meta.SnapshotID == snapshotID {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		return errors.Wrapf(ErrNotRetained, "%s", snapshotID)
	}

	target := s.retained[idx]
	s.retained = append(s.retained[:idx], s.retained[idx+1:]...)
	prev := s.active

	target.handle.State = Active
	s.active = target
	activations.Inc()
	activeDistrictCount.Set(float64(target.handle.Meta.DistrictCount))

	if prev != nil {
		prev.handle.State = Retained
		s.retained = append([]*generation{prev}, s.retained...)
	}
	hook := s.onActivate
	store := target.store
	s.prune()
	s.mu.Unlock()

	if hook != nil {
		return errors.Wrap(hook(store), "snapshot: post-rollback refresh hook")
	}
	return nil
}
