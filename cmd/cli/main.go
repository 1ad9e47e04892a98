// bootlog - Device Boot Time Reporter
//
// bootlog reads device logs, pairs boot start and boot completed markers,
// and writes a report of every boot with its boot time.
package main

import (
	"os"

	"github.com/ccollicutt/bootlog/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
