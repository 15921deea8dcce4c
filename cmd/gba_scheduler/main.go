package main

import (
	"os"

	"github.com/gstbooks/gst_billing_app/cmd/gba_scheduler/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
