package workflow

import (
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"github.com/ophflow/ophflow/types"
)

// placeholderPattern matches a "$token" placeholder: everything from the
// first dollar sign to the end of the line.
var placeholderPattern = regexp.MustCompile(`\$.*`)

// substituteFirst replaces the first placeholder match in s when the matched
// text is a key of params. At most one occurrence is rewritten; a match
// without a mapping is left untouched.
func substituteFirst(params map[string]string, s string) string {
	loc := placeholderPattern.FindStringIndex(s)
	if loc == nil {
		return s
	}
	replacement, ok := params[s[loc[0]:loc[1]]]
	if !ok {
		return s
	}
	return s[:loc[0]] + replacement + s[loc[1]:]
}

// substituteArgs applies substituteFirst to every key and every value
// independently, returning a new argument list in the same order.
func substituteArgs(params map[string]string, args Args) Args {
	out := make(Args, 0, len(args))
	for _, a := range args {
		out = append(out, Arg{
			Key:   substituteFirst(params, a.Key),
			Value: substituteFirst(params, a.Value),
		})
	}
	return out
}

// validateAnchor checks the external dependency descriptor of an embedding:
// at most the "task" and "argument" keys, with "task" mandatory whenever the
// map is non-empty.
func validateAnchor(dependency map[string]string) error {
	if len(dependency) == 0 {
		return nil
	}
	if len(dependency) > 2 {
		return types.Errorf(types.ErrConfig, "dependency takes at most the task and argument keys, got %d keys", len(dependency))
	}
	if _, ok := dependency["task"]; !ok {
		return types.NewError(types.ErrConfig, "dependency requires the task key")
	}
	for key := range dependency {
		if key != "task" && key != "argument" {
			return types.Errorf(types.ErrConfig, "unknown dependency key %q", key)
		}
	}
	return nil
}

// NewSubWorkflow embeds a copy of every task of template into the workflow
// and returns the clones of the template's leaf tasks, the natural join
// points for tasks attached afterwards. A leaf is a template task that no
// other template task depends on.
//
// Clone names are prefixed: "{name}_{task}" when name is non-empty, else
// "{workflow}_{i}_{task}" with i counting template tasks from 1. Placeholder
// tokens ("$size") in argument keys and values are substituted from params;
// tokens without a mapping stay as written.
//
// The dependency map anchors the template's root tasks to a host task:
// {"task": target} adds an "embedded" edge, {"task": target, "argument": arg}
// an "all" edge. The map is validated before any task is cloned.
//
// Edges between template tasks are rewritten with the "{name}_" prefix, so
// embedding a template that has internal edges requires a non-empty name;
// with an empty name the rewritten targets cannot resolve and attachment
// fails with an UNRESOLVED_DEPENDENCY error. Clones attached before the
// failing one stay in the workflow.
func (w *Workflow) NewSubWorkflow(template *Workflow, params map[string]string, dependency map[string]string, name string) ([]*Task, error) {
	if template == nil {
		return nil, types.NewError(types.ErrConfig, "template workflow is required")
	}
	if template.name == w.name {
		return nil, types.Errorf(types.ErrConfig, "template %q must differ from the host workflow", template.name)
	}
	if err := validateAnchor(dependency); err != nil {
		return nil, err
	}

	clones := make([]*Task, 0, len(template.tasks))
	dependedOn := make(map[string]bool)
	for i, src := range template.tasks {
		cloneName := name + "_" + src.name
		if name == "" {
			cloneName = fmt.Sprintf("%s_%d_%s", w.name, i+1, src.name)
		}
		clone, err := NewTask(src.operator, substituteArgs(params, src.args), WithTaskName(cloneName))
		if err != nil {
			return nil, err
		}
		if len(src.dependencies) == 0 {
			if len(dependency) > 0 {
				clone.dependOn(dependency["task"], dependency["argument"])
			}
		} else {
			for _, dep := range src.dependencies {
				dep.Task = name + "_" + dep.Task
				clone.CopyDependency(dep)
			}
		}
		if err := w.AddTask(clone); err != nil {
			return nil, err
		}
		clones = append(clones, clone)
		for _, dep := range src.dependencies {
			dependedOn[dep.Task] = true
		}
	}

	leaves := make([]*Task, 0, len(clones))
	for i, src := range template.tasks {
		if !dependedOn[src.name] {
			leaves = append(leaves, clones[i])
		}
	}
	w.logger.Info("sub-workflow embedded",
		zap.String("workflow", w.name),
		zap.String("template", template.name),
		zap.Int("tasks", len(clones)),
		zap.Int("leaves", len(leaves)))
	return leaves, nil
}
