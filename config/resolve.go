package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

type UnknownModule struct {
	Requested string
	// Available are the names of all configured modules in sorted order.
	Available []string
}

func (e *UnknownModule) Error() string {
	return fmt.Sprintf("unknown module '%s', available modules: %s",
		e.Requested,
		strings.Join(e.Available, ", "),
	)
}

func (*UnknownModule) Is(target error) bool { return target == ErrUnknownModule }

// Module returns the descriptor of the module with the case-insensitive name.
// If there is no such module the error is an [*UnknownModule].
func (r *Resolved) Module(name string) (ModuleDescriptor, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if d, ok := r.Modules[key]; ok {
		return d, nil
	}
	return ModuleDescriptor{}, &UnknownModule{
		Requested: name,
		Available: r.Names(),
	}
}

// Names returns the sorted names of all modules.
func (r *Resolved) Names() []string {
	return slices.Sorted(maps.Keys(r.Modules))
}
