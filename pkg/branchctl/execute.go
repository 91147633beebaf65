package branchctl

import "github.com/sbitxtools/branchctl/internal/cli"

// Execute runs the branchctl CLI entrypoint.
func Execute() int {
	return cli.Execute()
}
