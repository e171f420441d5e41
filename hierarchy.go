package mimemagic

// IsDescendant reports whether candidate equals ancestor or reaches it
// through any chain of parent edges. Parents that are not registered end
// that chain without error.
func (r *Registry) IsDescendant(candidate, ancestor string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.isDescendantLocked(candidate, ancestor)
}

func (r *Registry) isDescendantLocked(candidate, ancestor string) bool {
	if candidate == ancestor {
		return true
	}
	visited := map[string]struct{}{candidate: {}}
	stack := []string{candidate}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		rec, ok := r.types[id]
		if !ok {
			continue
		}
		for _, p := range rec.Parents {
			if p == ancestor {
				return true
			}
			if _, seen := visited[p]; seen {
				continue
			}
			visited[p] = struct{}{}
			stack = append(stack, p)
		}
	}
	return false
}

// Ancestors returns every type reachable from id through parent edges, in
// depth-first discovery order. id itself is not included.
func (r *Registry) Ancestors(id string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	visited := map[string]struct{}{id: {}}
	var walk func(string)
	walk = func(cur string) {
		rec, ok := r.types[cur]
		if !ok {
			return
		}
		for _, p := range rec.Parents {
			if _, seen := visited[p]; seen {
				continue
			}
			visited[p] = struct{}{}
			out = append(out, p)
			walk(p)
		}
	}
	walk(id)
	return out
}
