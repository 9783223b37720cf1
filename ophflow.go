// Package ophflow provides a top-level convenience entry point for building
// workflow specifications with a single import.
//
// Usage:
//
//	import "github.com/ophflow/ophflow"
//
//	w, err := ophflow.New("experiment", ophflow.WithAuthor("climate-lab"))
//	t, err := w.NewTask("oph_importnc", ophflow.Args{{Key: "measure", Value: "tos"}}, nil)
//	err = w.Save("experiment")
//
// This is a thin wrapper around the workflow package; both produce identical
// results. Use this package when you prefer the shorter import path.
package ophflow

import (
	"github.com/ophflow/ophflow/workflow"
)

// Workflow composes operator tasks into a pipeline specification.
type Workflow = workflow.Workflow

// Task is a single operator invocation inside a workflow.
type Task = workflow.Task

// Document is the serialized wire form of a workflow.
type Document = workflow.Document

// Dependency is a directed edge between two tasks.
type Dependency = workflow.Dependency

// Arg is a single operator argument; Args is the ordered argument list.
type (
	Arg  = workflow.Arg
	Args = workflow.Args
)

// Dep names a prerequisite task; Deps is the ordered dependency list used by
// [Workflow.NewTask].
type (
	Dep  = workflow.Dep
	Deps = workflow.Deps
)

// Option configures the workflow created by [New].
type Option = workflow.Option

// TaskOption configures a task created by [NewTask] or [Workflow.NewTask].
type TaskOption = workflow.TaskOption

// Edge types of a [Dependency].
const (
	DependencyEmbedded = workflow.DependencyEmbedded
	DependencyAll      = workflow.DependencyAll
)

// New creates an empty workflow specification.
func New(name string, opts ...Option) (*Workflow, error) {
	return workflow.New(name, opts...)
}

// NewTask creates a detached task that can be attached with
// [Workflow.AddTask].
func NewTask(operator string, args Args, opts ...TaskOption) (*Task, error) {
	return workflow.NewTask(operator, args, opts...)
}

// Load reads a saved workflow document and rebuilds the workflow.
func Load(path string) (*Workflow, error) {
	return workflow.Load(path)
}

// Re-export option constructors so callers never need to import workflow/.

// WithAuthor sets the workflow author.
var WithAuthor = workflow.WithAuthor

// WithAbstract sets the workflow abstract.
var WithAbstract = workflow.WithAbstract

// WithURL sets the engine endpoint recorded in the document.
var WithURL = workflow.WithURL

// WithSessionID pins the workflow to an existing engine session.
var WithSessionID = workflow.WithSessionID

// WithExecMode sets the execution mode, typically "sync" or "async".
var WithExecMode = workflow.WithExecMode

// WithNCores sets the number of cores requested per task.
var WithNCores = workflow.WithNCores

// WithNHost sets the number of hosts requested.
var WithNHost = workflow.WithNHost

// WithOnError sets the workflow-wide behaviour when a task fails.
var WithOnError = workflow.WithOnError

// WithOnExit sets the operation executed when the workflow finishes.
var WithOnExit = workflow.WithOnExit

// WithRun sets the workflow-wide run flag.
var WithRun = workflow.WithRun

// WithCWD sets the engine working directory.
var WithCWD = workflow.WithCWD

// WithCDD sets the engine current data directory.
var WithCDD = workflow.WithCDD

// WithCube sets the input cube identifier.
var WithCube = workflow.WithCube

// WithCallbackURL sets the URL notified when the workflow completes.
var WithCallbackURL = workflow.WithCallbackURL

// WithOutputFormat sets the response format requested from the engine.
var WithOutputFormat = workflow.WithOutputFormat

// WithHostPartition sets the host partition the workflow runs on.
var WithHostPartition = workflow.WithHostPartition

// WithNThreads sets the number of threads requested per task.
var WithNThreads = workflow.WithNThreads

// WithAttribute sets an engine attribute by its wire name.
var WithAttribute = workflow.WithAttribute

// WithLogger attaches a zap logger to the workflow.
var WithLogger = workflow.WithLogger

// WithTaskName sets an explicit task name.
var WithTaskName = workflow.WithTaskName

// WithTaskType overrides the engine type of a task.
var WithTaskType = workflow.WithTaskType

// WithTaskRun sets the run flag of a task.
var WithTaskRun = workflow.WithTaskRun

// WithTaskOnExit sets the operation executed when a task finishes.
var WithTaskOnExit = workflow.WithTaskOnExit

// WithTaskOnError sets the engine behaviour when a task fails.
var WithTaskOnError = workflow.WithTaskOnError

// WithTaskAttribute sets a task attribute by its wire name.
var WithTaskAttribute = workflow.WithTaskAttribute
