package ecs

// Registry tracks component stores and destroy hooks for bulk cleanup.
type Registry struct {
	stores []Removable
	hooks  []func(EntityID)
}

func NewRegistry() *Registry {
	return &Registry{stores: make([]Removable, 0, 8)}
}

func (r *Registry) Register(store Removable) {
	r.stores = append(r.stores, store)
}

// OnDestroy adds a hook run for each destroyed entity before its
// components are dropped, while they are still readable.
func (r *Registry) OnDestroy(fn func(EntityID)) {
	r.hooks = append(r.hooks, fn)
}

// RemoveAll runs the destroy hooks for id, then clears it from every store.
func (r *Registry) RemoveAll(id EntityID) {
	for _, h := range r.hooks {
		h(id)
	}
	for _, s := range r.stores {
		s.Remove(id)
	}
}
