package collision

// Tracker records which signal names map to which hash key and detects keys
// shared by different names. Names may repeat: the same name tracked twice is
// a redefinition, not a collision.
type Tracker struct {
	owners   map[uint64]string   // hash -> first name seen with it
	collided map[uint64]struct{} // hashes shared by more than one distinct name
	names    []string            // every tracked name in call order
}

// NewTracker creates a new collision tracker.
func NewTracker() *Tracker {
	return &Tracker{
		owners:   make(map[uint64]string),
		collided: make(map[uint64]struct{}),
		names:    make([]string, 0),
	}
}

// TrackName records name under hash. It reports whether hash is shared with
// a different name, either now or from an earlier call.
func (t *Tracker) TrackName(name string, hash uint64) bool {
	t.names = append(t.names, name)

	owner, exists := t.owners[hash]
	if !exists {
		t.owners[hash] = name
		return false
	}
	if owner != name {
		t.collided[hash] = struct{}{}
	}

	return t.Collides(hash)
}

// Collides reports whether hash is shared by different names.
func (t *Tracker) Collides(hash uint64) bool {
	_, ok := t.collided[hash]
	return ok
}

// Owner returns the first name tracked under hash.
func (t *Tracker) Owner(hash uint64) (string, bool) {
	name, ok := t.owners[hash]
	return name, ok
}

// HasCollision returns true if any collision has been detected.
func (t *Tracker) HasCollision() bool {
	return len(t.collided) > 0
}

// Names returns every tracked name in call order, repeats included.
func (t *Tracker) Names() []string {
	return t.names
}

// Count returns the number of TrackName calls.
func (t *Tracker) Count() int {
	return len(t.names)
}

// Reset clears all tracked names and collision state.
func (t *Tracker) Reset() {
	clear(t.owners)
	clear(t.collided)
	t.names = t.names[:0]
}
