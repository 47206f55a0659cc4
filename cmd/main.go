package main

import (
	"fmt"
	"os"

	// Outage dates are Asia/Bangkok calendar days even on hosts without zoneinfo.
	_ "time/tzdata"

	"github.com/outagedesk/outage-server/cli"
)

func main() {
	if err := cli.BuildCLI().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
