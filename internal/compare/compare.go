// Package compare holds the bounded product selection shown side by side.
package compare

import "errors"

// MaxItems is the largest selection the compare page shows.
const MaxItems = 3

var (
	ErrFull      = errors.New("compare: at most 3 products can be compared")
	ErrDuplicate = errors.New("compare: product is already in the comparison list")
)

// Notice is the user-facing text for a rejected add.
func Notice(err error) string {
	switch {
	case errors.Is(err, ErrFull):
		return "Máximo 3 productos para comparar"
	case errors.Is(err, ErrDuplicate):
		return "Este producto ya está en la lista de comparación"
	}
	return ""
}

// Set is an ordered list of product ids, unique and never longer than MaxItems.
type Set struct {
	ids []string
}

// NewSet rebuilds a set from stored ids, dropping duplicates and overflow.
func NewSet(ids ...string) *Set {
	s := &Set{}
	for _, id := range ids {
		_, _ = s.Add(id)
	}
	return s
}

// Add appends id. It returns false with ErrFull or ErrDuplicate when rejected.
func (s *Set) Add(id string) (bool, error) {
	if len(s.ids) >= MaxItems {
		return false, ErrFull
	}
	if s.Contains(id) {
		return false, ErrDuplicate
	}
	s.ids = append(s.ids, id)
	return true, nil
}

// Remove drops id if present.
func (s *Set) Remove(id string) {
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			return
		}
	}
}

func (s *Set) Clear() { s.ids = nil }

func (s *Set) Contains(id string) bool {
	for _, v := range s.ids {
		if v == id {
			return true
		}
	}
	return false
}

func (s *Set) Len() int { return len(s.ids) }

// IDs returns a copy in insertion order.
func (s *Set) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}
