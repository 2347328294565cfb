// Package main provides the spfxdoctor command.
package main

import (
	"os"

	"github.com/leapstack-labs/spfxdoctor/internal/cli"
	"github.com/leapstack-labs/spfxdoctor/internal/doctor"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(doctor.ExitCode(err))
	}
}
