package likes

// Set is an insertion-ordered set of article ids. The zero value is empty and
// read-only; use NewSet to build one that can be toggled.
type Set struct {
	ids   []string
	index map[string]struct{}
}

func NewSet(ids ...string) Set {
	s := Set{index: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if _, ok := s.index[id]; ok {
			continue
		}
		s.index[id] = struct{}{}
		s.ids = append(s.ids, id)
	}
	return s
}

func (s Set) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// IsLiked lets a Set serve as a view.LikeChecker.
func (s Set) IsLiked(id string) bool { return s.Has(id) }

func (s Set) Len() int { return len(s.ids) }

// IDs returns the members in persisted order; never nil.
func (s Set) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Toggle flips membership of id and reports whether it is now a member.
func (s *Set) Toggle(id string) bool {
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[id]; ok {
		delete(s.index, id)
		for i, v := range s.ids {
			if v == id {
				s.ids = append(s.ids[:i], s.ids[i+1:]...)
				break
			}
		}
		return false
	}
	s.index[id] = struct{}{}
	s.ids = append(s.ids, id)
	return true
}
