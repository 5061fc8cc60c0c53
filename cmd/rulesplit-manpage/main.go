package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/rulesplit/cmd/rulesplit"
	"github.com/arthur-debert/rulesplit/internal/version"
)

func main() {
	rootCmd := rulesplit.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "RULESPLIT",
		Section: "1",
		Source:  "rulesplit " + version.Version,
		Manual:  "rulesplit manual",
	}

	err := doc.GenMan(rootCmd, header, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
