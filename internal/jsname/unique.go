package jsname

import "strconv"

// UniqueName returns preferred when it is free, otherwise the
// first of preferred$1, preferred$2, ... that is free. An empty preferred
// name yields the first free minimized name: $0, $1, ... $a, $b, ...
func UniqueName(preferred string, isUsed func(string) bool) string {
	if preferred == "" {
		for i := 0; ; i++ {
			if cand := MinimizedName(i); !isUsed(cand) {
				return cand
			}
		}
	}
	if !isUsed(preferred) {
		return preferred
	}
	for i := 1; ; i++ {
		cand := preferred + "$" + strconv.Itoa(i)
		if !isUsed(cand) {
			return cand
		}
	}
}

// Set is a plain name set with a UniqueName helper.
type Set map[string]struct{}

func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

func (s Set) Add(name string) { s[name] = struct{}{} }

// Unique picks a free name derived from preferred and records it.
func (s Set) Unique(preferred string) string {
	name := UniqueName(preferred, s.Has)
	s.Add(name)
	return name
}
