/*
Package main provides the ophflow command line tool for working with saved
workflow documents.

# Subcommands

  - validate — check a JSON or YAML document against the engine contract
  - convert  — rewrite a document between JSON and YAML
  - submit   — send a document to an execution engine
  - version  — print build information

Documents are read through the workflow package, so every structural rule
a freshly built workflow satisfies is enforced on the way in. The submit
subcommand reads the engine location from flags or from the
OPHFLOW_ENGINE_URL and OPHFLOW_ENGINE_TOKEN environment variables.
*/
package main
