// SPDX-License-Identifier: MPL-2.0

package expectation

import "fmt"

// compiledModules is the table of contrib modules linked into the binary.
// Contrib packages fill it from their init functions; nothing registers
// into a Registry until a loader explicitly activates a module.
var compiledModules = make(map[Group]map[string]RegisterFunc)

// RegisterContribModule declares a compiled-in contrib module. It panics on
// a duplicate declaration or an unknown group, both of which are programmer
// errors surfaced at process start.
func RegisterContribModule(group Group, module string, fn RegisterFunc) {
	if !group.Valid() {
		panic(fmt.Sprintf("expectation: unknown contrib group %q for module %q", group, module))
	}
	if fn == nil {
		panic(fmt.Sprintf("expectation: nil registration function for contrib module %s/%s", group, module))
	}
	if _, exists := compiledModules[group][module]; exists {
		panic(fmt.Sprintf("expectation: contrib module %s/%s declared twice", group, module))
	}
	if compiledModules[group] == nil {
		compiledModules[group] = make(map[string]RegisterFunc)
	}
	compiledModules[group][module] = fn
}

// CompiledLoader creates a StaticLoader seeded with every contrib module
// declared through RegisterContribModule.
func CompiledLoader(registry *Registry) *StaticLoader {
	loader := NewStaticLoader(registry)
	for group, modules := range compiledModules {
		for module, fn := range modules {
			loader.Add(group, module, fn)
		}
	}
	return loader
}
