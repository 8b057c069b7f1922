package datastore

import "sync"

// Instance lazily builds a shared client the first time it is asked for.
type Instance struct {
	initializer func() any
	instance    any
	once        sync.Once
}

// Instance gets the singleton instance
func (i *Instance) Instance() any {
	i.once.Do(func() {
		i.instance = i.initializer()
	})
	return i.instance
}
