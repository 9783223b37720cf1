package main

import (
	"fmt"
	"os"
)

// Build information, injected via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "validate":
		runValidate(os.Args[2:])
	case "convert":
		runConvert(os.Args[2:])
	case "submit":
		runSubmit(os.Args[2:])
	case "version":
		printVersion()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("ophflow %s (built %s, commit %s)\n", Version, BuildTime, GitCommit)
}

func printUsage() {
	fmt.Println(`ophflow - workflow document tool

Usage:
  ophflow validate <file>             Check a JSON or YAML workflow document
  ophflow convert [--to yaml] <file>  Print a document in another format
  ophflow submit [flags] <file>       Submit a document to an execution engine
  ophflow version                     Print build information

Submit flags:
  --url      Engine base URL (default: $OPHFLOW_ENGINE_URL)
  --token    Bearer token (default: $OPHFLOW_ENGINE_TOKEN)
  --timeout  Request timeout (default: 30s)
  --verbose  Log progress to stderr`)
}
