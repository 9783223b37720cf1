package workflow

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ophflow/ophflow/types"
)

// Workflow is a named, append-only collection of tasks plus the metadata the
// execution engine expects alongside them. Tasks are attached through
// AddTask, which enforces name uniqueness and dependency resolution, so an
// attached graph never contains a forward or dangling edge.
type Workflow struct {
	name     string
	author   string
	abstract string
	attrs    Attributes
	tasks    []*Task
	counter  int
	logger   *zap.Logger
}

// New creates an empty workflow. The name is required; it doubles as the
// prefix for auto-assigned task names.
func New(name string, opts ...Option) (*Workflow, error) {
	if name == "" {
		return nil, types.NewError(types.ErrConfig, "workflow name is required")
	}
	cfg := &workflowConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	for _, attr := range cfg.named {
		if !cfg.attrs.set(attr.name, attr.value) {
			return nil, types.Errorf(types.ErrConfig, "unknown workflow attribute %q", attr.name)
		}
	}
	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workflow{
		name:     name,
		author:   cfg.author,
		abstract: cfg.abstract,
		attrs:    cfg.attrs,
		tasks:    []*Task{},
		counter:  1,
		logger:   logger,
	}, nil
}

// Name returns the workflow name.
func (w *Workflow) Name() string { return w.name }

// Author returns the workflow author, empty when unset.
func (w *Workflow) Author() string { return w.author }

// Abstract returns the workflow abstract, empty when unset.
func (w *Workflow) Abstract() string { return w.abstract }

// Attributes returns the engine attributes of the workflow.
func (w *Workflow) Attributes() Attributes { return w.attrs }

// Tasks returns the attached tasks in attachment order.
func (w *Workflow) Tasks() []*Task {
	tasks := make([]*Task, len(w.tasks))
	copy(tasks, w.tasks)
	return tasks
}

// GetTask returns the attached task with the given name.
func (w *Workflow) GetTask(name string) (*Task, bool) {
	for _, t := range w.tasks {
		if t.name == name {
			return t, true
		}
	}
	return nil, false
}

// AddTask attaches a task to the workflow. A task without a name is assigned
// "{workflow}_{counter}" before any check runs, so a rejected task can come
// back with its name already set. The counter advances only on success.
//
// Attachment fails with a DUPLICATE_NAME error when the name is taken and
// with an UNRESOLVED_DEPENDENCY error when an edge targets a task that is
// not attached yet; the workflow is unchanged in both cases.
func (w *Workflow) AddTask(t *Task) error {
	if t == nil {
		return types.NewError(types.ErrConfig, "task is required")
	}
	if t.name == "" {
		t.name = fmt.Sprintf("%s_%d", w.name, w.counter)
	}
	if _, ok := w.GetTask(t.name); ok {
		return types.Errorf(types.ErrDuplicateName, "task %q already exists in workflow %q", t.name, w.name)
	}
	for _, dep := range t.dependencies {
		if _, ok := w.GetTask(dep.Task); !ok {
			return types.Errorf(types.ErrUnresolvedDependency, "task %q depends on %q, which is not attached", t.name, dep.Task)
		}
	}
	w.counter++
	w.tasks = append(w.tasks, t)
	w.logger.Debug("task attached",
		zap.String("workflow", w.name),
		zap.String("task", t.name),
		zap.String("operator", t.operator))
	return nil
}

// Dep names a prerequisite task and, for data dependencies, the argument its
// output binds to.
type Dep struct {
	Task     string
	Argument string
}

// Deps is an ordered list of dependency descriptors.
type Deps []Dep

// NewTask creates a task, wires the given dependencies and attaches it in one
// step. Edges keep the order of deps; descriptors without an Argument become
// "embedded" edges.
func (w *Workflow) NewTask(operator string, args Args, deps Deps, opts ...TaskOption) (*Task, error) {
	t, err := NewTask(operator, args, opts...)
	if err != nil {
		return nil, err
	}
	for _, d := range deps {
		t.dependOn(d.Task, d.Argument)
	}
	if err := w.AddTask(t); err != nil {
		return nil, err
	}
	return t, nil
}
