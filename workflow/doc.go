/*
Package workflow builds analytics pipeline specifications as directed graphs
of operator tasks and serializes them into the JSON document format consumed
by the execution engine.

# Overview

A Workflow is a named, append-only collection of tasks. Each Task invokes one
operator with an ordered argument list and depends on zero or more tasks that
were attached before it. Attachment is the only validation gate: a task enters
the graph only if its name is unique and every dependency target is already
present, so a workflow is acyclic by construction.

# Core types

  - Workflow   — named task collection plus engine-facing metadata
  - Task       — single operator invocation with arguments and edges
  - Dependency — directed edge to an earlier task ("embedded" or "all")
  - Document   — serializable wire form of a workflow
  - Args / Arg — ordered operator arguments, encoded as "key=value" strings

# Documents

Save and Load exchange workflows with the engine's JSON contract: field names
are fixed, arguments are flattened to "key=value" strings, and the internal
naming counter is never serialized. Load rebuilds the graph through AddTask,
so every structural rule is re-checked on the way in. Document additionally
supports YAML for inspection and configuration pipelines.

# Sub-workflows

NewSubWorkflow embeds a copy of a template workflow into a host: clone names
are prefixed, "$token" placeholders in arguments are substituted from a
parameter map, and the template's root tasks are anchored to a task of the
host. The returned leaf tasks are the natural join points for tasks added
after the embedding.

Errors carry the codes defined in the types package; use types.IsCode to
branch on them.

A Workflow carries no internal synchronization. All operations are
synchronous; callers sharing one Workflow across goroutines must serialize
access themselves.
*/
package workflow
