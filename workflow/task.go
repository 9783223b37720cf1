package workflow

import (
	"strings"

	"github.com/ophflow/ophflow/types"
)

// DefaultTaskType is the engine type assigned to tasks that do not set one.
const DefaultTaskType = "ophidia"

// argumentSeparator joins keys and values in the wire encoding of arguments.
const argumentSeparator = "="

// DependencyType classifies an edge between two tasks.
type DependencyType string

const (
	// DependencyEmbedded is a pure ordering constraint with no data flow.
	DependencyEmbedded DependencyType = "embedded"
	// DependencyAll binds the full output of the target to one argument.
	DependencyAll DependencyType = "all"
)

// Dependency is a directed edge from a task to a task attached before it.
// Argument is set only for "all" edges.
type Dependency struct {
	Task     string         `json:"task" yaml:"task"`
	Argument string         `json:"argument,omitempty" yaml:"argument,omitempty"`
	Type     DependencyType `json:"type" yaml:"type"`
}

// Arg is a single operator argument.
type Arg struct {
	Key   string
	Value string
}

// Args is an ordered operator argument list. Order is significant and is
// preserved through the wire encoding.
type Args []Arg

// Flatten encodes the arguments as "key=value" strings in order.
func (a Args) Flatten() []string {
	flat := make([]string, 0, len(a))
	for _, arg := range a {
		flat = append(flat, arg.Key+argumentSeparator+arg.Value)
	}
	return flat
}

// UnflattenArgs decodes "key=value" strings back into an ordered argument
// list. Each entry is split on the first separator only, so values may
// contain the separator. An entry without a separator becomes a key with an
// empty value.
func UnflattenArgs(flat []string) Args {
	args := make(Args, 0, len(flat))
	for _, entry := range flat {
		key, value, _ := strings.Cut(entry, argumentSeparator)
		args = append(args, Arg{Key: key, Value: value})
	}
	return args
}

// taskAttributes lists the wire names a task may carry beyond its core
// fields.
var taskAttributes = []string{"run", "on_exit", "on_error"}

func isTaskAttribute(name string) bool {
	for _, attr := range taskAttributes {
		if attr == name {
			return true
		}
	}
	return false
}

// Task is one node of a workflow graph: an operator invocation with ordered
// arguments, optional engine attributes, and dependency edges. Tasks are
// created detached and enter a graph through Workflow.AddTask.
type Task struct {
	name         string
	operator     string
	taskType     string
	args         Args
	dependencies []Dependency

	run     string
	onExit  string
	onError string
}

type taskConfig struct {
	name     string
	taskType string
	run      string
	onExit   string
	onError  string
	named    []namedAttribute
}

type namedAttribute struct {
	name  string
	value string
}

// TaskOption configures a task at construction time.
type TaskOption func(*taskConfig)

// WithTaskName sets an explicit task name. Tasks without a name are assigned
// one by the workflow when attached.
func WithTaskName(name string) TaskOption {
	return func(c *taskConfig) { c.name = name }
}

// WithTaskType overrides the engine type. The zero value selects
// DefaultTaskType.
func WithTaskType(taskType string) TaskOption {
	return func(c *taskConfig) { c.taskType = taskType }
}

// WithTaskRun sets the run flag forwarded to the engine.
func WithTaskRun(run string) TaskOption {
	return func(c *taskConfig) { c.run = run }
}

// WithTaskOnExit sets the operation executed when the task finishes.
func WithTaskOnExit(onExit string) TaskOption {
	return func(c *taskConfig) { c.onExit = onExit }
}

// WithTaskOnError sets the engine behaviour when the task fails.
func WithTaskOnError(onError string) TaskOption {
	return func(c *taskConfig) { c.onError = onError }
}

// WithTaskAttribute sets an attribute by its wire name. Names outside the
// task attribute list ("run", "on_exit", "on_error") fail NewTask with a
// CONFIG error.
func WithTaskAttribute(name, value string) TaskOption {
	return func(c *taskConfig) {
		c.named = append(c.named, namedAttribute{name: name, value: value})
	}
}

// NewTask creates a detached task for the given operator. The argument list
// is copied; its order is preserved through serialization.
func NewTask(operator string, args Args, opts ...TaskOption) (*Task, error) {
	cfg := &taskConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	for _, attr := range cfg.named {
		switch attr.name {
		case "run":
			cfg.run = attr.value
		case "on_exit":
			cfg.onExit = attr.value
		case "on_error":
			cfg.onError = attr.value
		default:
			return nil, types.Errorf(types.ErrConfig, "unknown task attribute %q", attr.name)
		}
	}
	if cfg.taskType == "" {
		cfg.taskType = DefaultTaskType
	}
	copied := make(Args, len(args))
	copy(copied, args)
	return &Task{
		name:         cfg.name,
		operator:     operator,
		taskType:     cfg.taskType,
		args:         copied,
		dependencies: []Dependency{},
		run:          cfg.run,
		onExit:       cfg.onExit,
		onError:      cfg.onError,
	}, nil
}

// Name returns the task name. Empty until the owning workflow assigns one.
func (t *Task) Name() string { return t.name }

// Operator returns the operator identifier the task invokes.
func (t *Task) Operator() string { return t.operator }

// Type returns the engine type of the task.
func (t *Task) Type() string { return t.taskType }

// Run returns the run flag, empty when unset.
func (t *Task) Run() string { return t.run }

// OnExit returns the on-exit operation, empty when unset.
func (t *Task) OnExit() string { return t.onExit }

// OnError returns the on-error behaviour, empty when unset.
func (t *Task) OnError() string { return t.onError }

// Arguments returns a copy of the ordered argument list.
func (t *Task) Arguments() Args {
	args := make(Args, len(t.args))
	copy(args, t.args)
	return args
}

// FlatArguments returns the arguments in their "key=value" wire encoding.
func (t *Task) FlatArguments() []string {
	return t.args.Flatten()
}

// Dependencies returns a copy of the task's dependency edges in insertion
// order.
func (t *Task) Dependencies() []Dependency {
	deps := make([]Dependency, len(t.dependencies))
	copy(deps, t.dependencies)
	return deps
}

// AddDependency appends an edge to target. Without an argument the edge is a
// pure ordering constraint ("embedded"); with one argument it is a data
// dependency ("all") bound to that argument. Passing more than one argument
// or a nil target fails with a CONFIG error.
func (t *Task) AddDependency(target *Task, argument ...string) error {
	if target == nil {
		return types.NewError(types.ErrConfig, "dependency target must be a task")
	}
	if len(argument) > 1 {
		return types.Errorf(types.ErrConfig, "at most one argument can bind a dependency, got %d", len(argument))
	}
	bound := ""
	if len(argument) == 1 {
		bound = argument[0]
	}
	t.dependOn(target.name, bound)
	return nil
}

// CopyDependency appends a pre-built edge verbatim, keeping its type and
// argument binding.
func (t *Task) CopyDependency(dep Dependency) {
	t.dependencies = append(t.dependencies, dep)
}

// dependOn appends an edge by target name. An empty argument selects an
// "embedded" edge, anything else an "all" edge.
func (t *Task) dependOn(target, argument string) {
	dep := Dependency{Task: target, Type: DependencyEmbedded}
	if argument != "" {
		dep.Argument = argument
		dep.Type = DependencyAll
	}
	t.dependencies = append(t.dependencies, dep)
}
