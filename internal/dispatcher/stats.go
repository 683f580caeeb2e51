package dispatcher

import "sort"

// Stats counts dispatcher activity.
type Stats struct {
	Presses      uint64
	Opens        uint64
	Runs         uint64
	Cancels      uint64
	Resets       uint64
	EffectErrors uint64

	// Actions counts fired run actions by name.
	Actions map[string]uint64
}

func (s *Stats) recordRun(name string, failed bool) {
	s.Runs++
	if failed {
		s.EffectErrors++
	}
	if s.Actions == nil {
		s.Actions = make(map[string]uint64)
	}
	s.Actions[name]++
}

func (s Stats) clone() Stats {
	out := s
	if s.Actions != nil {
		out.Actions = make(map[string]uint64, len(s.Actions))
		for k, v := range s.Actions {
			out.Actions[k] = v
		}
	}
	return out
}

// ActionCount is one entry of TopActions.
type ActionCount struct {
	Name  string
	Count uint64
}

// TopActions returns the n most fired run actions, most fired first, ties
// broken by name.
func (s Stats) TopActions(n int) []ActionCount {
	out := make([]ActionCount, 0, len(s.Actions))
	for name, c := range s.Actions {
		out = append(out, ActionCount{Name: name, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}
