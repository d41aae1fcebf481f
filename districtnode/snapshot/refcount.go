package snapshot

import "sync/atomic"

// acquire increments the handle's reader refcount. Call once per
// in-flight request holding a reference to this snapshot's store.
func (h *Handle) acquire() {
	atomic.AddInt32(&h.refCount, 1)
}

// release decrements the refcount. A Superseded snapshot reaching zero
// becomes eligible for retention bookkeeping / pruning.
func (h *Handle) release() {
	atomic.AddInt32(&h.refCount, -1)
}

func (h *Handle) refs() int32 {
	return atomic.LoadInt32(&h.refCount)
}
