package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/driver"
)

func printTimings(cmd *cobra.Command, opts driver.Options) {
	if opts.Timer == nil {
		return
	}
	fmt.Fprint(cmd.ErrOrStderr(), opts.Timer.Summary())
}
