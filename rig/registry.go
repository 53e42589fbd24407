package rig

// Registry is the explicit set of focusable subjects in a scene. The scene
// owns one and registers subjects as they spawn and despawn; the controller
// consults it every tick, so a removed subject drops out of consideration
// within that tick.
//
// Not safe for concurrent use. The rig runs on the game tick.
type Registry struct {
	items []Focusable
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers f. Adding a subject twice is a no-op.
func (r *Registry) Add(f Focusable) {
	if f == nil || r.Contains(f) {
		return
	}
	r.items = append(r.items, f)
}

func (r *Registry) Remove(f Focusable) {
	for i, it := range r.items {
		if it == f {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return
		}
	}
}

func (r *Registry) Contains(f Focusable) bool {
	for _, it := range r.items {
		if it == f {
			return true
		}
	}
	return false
}

// Each visits every subject in registration order.
func (r *Registry) Each(fn func(Focusable)) {
	for _, it := range r.items {
		fn(it)
	}
}

func (r *Registry) Len() int {
	return len(r.items)
}
