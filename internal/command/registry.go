package command

import "sort"

// Registry holds registered commands. Not safe for concurrent mutation;
// commands are registered during startup before the gateway opens.
type Registry struct {
	byName map[string]Command
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Command)}
}

func (r *Registry) Register(cmd Command) {
	r.byName[cmd.Name()] = cmd
}

func (r *Registry) Get(name string) (Command, bool) {
	cmd, ok := r.byName[name]
	return cmd, ok
}

// All returns the registered commands sorted by name.
func (r *Registry) All() []Command {
	list := make([]Command, 0, len(r.byName))
	for _, cmd := range r.byName {
		list = append(list, cmd)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}
