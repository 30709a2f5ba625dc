package cache

import (
	"sync"

	"stylo/domiface"
)

// Sharing tracks candidate donor elements for style sharing (§4.6): an
// element whose tag, class set, and absence-of-id make it structurally
// interchangeable with another is recorded as a donor under its structural
// fingerprint, and handed out to later elements with a matching
// fingerprint instead of recomputing their bundle from scratch. Elements
// carrying an id never register or consult a donor.
type Sharing struct {
	mu     sync.Mutex
	donors map[Fingerprint]Key // structural fingerprint -> the donor's cache key
}

// NewSharing creates an empty sharing table.
func NewSharing() *Sharing {
	return &Sharing{donors: make(map[Fingerprint]Key)}
}

// Donor returns a prior element's cache key sharing el's structural
// fingerprint, if el is eligible (no id) and a donor has been recorded.
func (s *Sharing) Donor(el domiface.Element) (Key, bool) {
	if el.ID() != "" {
		return Key{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key, ok := s.donors[FingerprintElement(el)]
	return key, ok
}

// Register records el's cache key as a sharing donor for future
// structurally-equivalent elements. A no-op for elements with an id.
func (s *Sharing) Register(el domiface.Element, key Key) {
	if el.ID() != "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.donors[FingerprintElement(el)] = key
}
