// Command geoscale computes bounding boxes and device-space scaling for WKT
// geometry and includes a terminal viewer.
package main

import (
	"os"

	"geoscale/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
