// Command annomodel extracts annotation usages from Java and Kotlin sources
// and generates Go code that registers their fully resolved values.
//
// Usage:
//
//	annomodel generate [flags] [paths...]
//	annomodel dump [flags] [paths...]
//	annomodel schemas [flags] [paths...]
//	annomodel version
//
// Paths may be files or directories; directories are searched recursively
// for .java and .kt sources. Settings may also be given in an annomodel.yaml
// file in the current directory or in ANNOMODEL_* environment variables.
package main

import (
	"errors"
	"os"
)

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			errorColor.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
