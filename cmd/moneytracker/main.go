// Command moneytracker is a terminal personal finance tracker.
package main

import (
	"os"

	"moneytracker/cmd/moneytracker/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
