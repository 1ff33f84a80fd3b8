package main

import (
	"fmt"
	"os"

	"github.com/donyusuf12/namada/cmd/anomac"
)

func main() {
	rootCmd := anomac.BuildRootCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
