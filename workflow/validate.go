package workflow

import (
	"fmt"

	"github.com/ophflow/ophflow/types"
)

// Validate replays the attachment rules over the document without building a
// workflow: default names are simulated with the same "{workflow}_{counter}"
// scheme, task names must be unique, every dependency must target a task
// declared earlier in the list, and every edge type must be "embedded" or
// "all". A document that validates reconstructs through FromDocument without
// error.
//
// Validation is a convenience for documents received from elsewhere; Save
// and ToDocument only emit documents that pass it.
func (d *Document) Validate() error {
	if d.Name == "" {
		return types.NewError(types.ErrMissingField, "document has no name")
	}
	counter := 1
	seen := make(map[string]bool, len(d.Tasks))
	for _, td := range d.Tasks {
		name := td.Name
		if name == "" {
			name = fmt.Sprintf("%s_%d", d.Name, counter)
		}
		if seen[name] {
			return types.Errorf(types.ErrDuplicateName, "task %q appears more than once", name)
		}
		for _, dep := range td.Dependencies {
			if dep.Type != DependencyEmbedded && dep.Type != DependencyAll {
				return types.Errorf(types.ErrFormat, "task %q has dependency type %q, want %q or %q",
					name, dep.Type, DependencyEmbedded, DependencyAll)
			}
			if !seen[dep.Task] {
				return types.Errorf(types.ErrUnresolvedDependency, "task %q depends on %q, which is not declared before it", name, dep.Task)
			}
		}
		seen[name] = true
		counter++
	}
	return nil
}
