package config

import "strings"

// Merge combines the user settings with the modules of both layers. Modules
// are taken from project first and then from user, a module defined in both
// layers is the user's module as is. It fails with [ErrNoModules] if there is
// no module at all.
func Merge(set Settings, user, project map[string]ModuleDescriptor) (*Resolved, error) {
	res := &Resolved{
		Settings: set,
		Modules:  make(map[string]ModuleDescriptor, len(user)+len(project)),
	}
	put := func(mods map[string]ModuleDescriptor) {
		for name, d := range mods {
			d.Name = strings.ToLower(name)
			res.Modules[d.Name] = d
		}
	}
	put(project)
	put(user)
	if len(res.Modules) == 0 {
		return nil, ErrNoModules
	}
	return res, nil
}

