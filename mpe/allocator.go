// Package mpe implements the MPE lower-zone channel pool: per-finger member
// channels 2-16 (wire channel indices 1-15), with oldest-allocation stealing
// when all fifteen are busy.
package mpe

// FirstChannel and LastChannel are 0-based wire channel indices, so they map
// to musical channels 2 and 16. Channel 1 (index 0) is the MPE master channel
// and is never allocated to a finger.
const (
	FirstChannel = 1
	LastChannel  = 15
	NumChannels  = LastChannel - FirstChannel + 1
)

type slot struct {
	fingerID  uint64
	active    bool
	timestamp uint64
}

// Allocator hands out the 15 member channels. Not safe for concurrent use;
// callers serialize access on the dispatch goroutine.
type Allocator struct {
	slots   [NumChannels]slot
	byID    map[uint64]uint8
	counter uint64
	steals  uint64
}

func NewAllocator() *Allocator {
	return &Allocator{byID: make(map[uint64]uint8)}
}

// Allocate returns the channel owned by fingerID, assigning a free one if
// needed. With no free slot it steals the slot allocated longest ago; the
// stolen finger's later events become orphaned with respect to that channel.
func (a *Allocator) Allocate(fingerID uint64) uint8 {
	if ch, ok := a.byID[fingerID]; ok {
		return ch
	}

	for i := range a.slots {
		if !a.slots[i].active {
			a.slots[i] = slot{fingerID: fingerID, active: true, timestamp: a.counter}
			a.counter++
			ch := uint8(FirstChannel + i)
			a.byID[fingerID] = ch
			return ch
		}
	}

	// All busy: steal the oldest allocation. 15 fixed entries, so a linear
	// scan is fine.
	oldest := 0
	for i := 1; i < NumChannels; i++ {
		if a.slots[i].timestamp < a.slots[oldest].timestamp {
			oldest = i
		}
	}

	delete(a.byID, a.slots[oldest].fingerID)
	a.slots[oldest] = slot{fingerID: fingerID, active: true, timestamp: a.counter}
	a.counter++
	a.steals++
	ch := uint8(FirstChannel + oldest)
	a.byID[fingerID] = ch
	return ch
}

// Channel returns the channel owned by fingerID, if any.
func (a *Allocator) Channel(fingerID uint64) (uint8, bool) {
	ch, ok := a.byID[fingerID]
	return ch, ok
}

// Release frees the slot owned by fingerID. No-op for unknown fingers.
func (a *Allocator) Release(fingerID uint64) {
	ch, ok := a.byID[fingerID]
	if !ok {
		return
	}
	a.slots[ch-FirstChannel] = slot{}
	delete(a.byID, fingerID)
}

// ReleaseAll frees every slot. Used on panic and configuration reset.
func (a *Allocator) ReleaseAll() {
	a.slots = [NumChannels]slot{}
	a.byID = make(map[uint64]uint8)
}

// ActiveCount reports how many member channels are currently owned.
func (a *Allocator) ActiveCount() int {
	return len(a.byID)
}

// Steals reports how many allocations had to evict an older finger. Channel
// exhaustion degrades rather than fails, but it should be visible.
func (a *Allocator) Steals() uint64 {
	return a.steals
}
