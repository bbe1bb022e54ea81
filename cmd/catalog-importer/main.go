// Package main imports institution registry data into the scheduling catalog.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/examdesk/examdesk/internal/cmd/catalogimporter"
	"github.com/examdesk/examdesk/internal/platform/config"
)

func main() {
	cfg, err := catalogimporter.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	if err := catalogimporter.Run(context.Background(), cfg, os.Stdout); err != nil {
		config.Exitf("Error: %v", err)
	}
}
