package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alexflint/go-arg"

	"github.com/femnad/kur/base"
	"github.com/femnad/kur/internal"
	"github.com/femnad/kur/release"
	"github.com/femnad/kur/remote"
	"github.com/femnad/kur/status"
)

type args struct {
	LogLevel int      `arg:"-l,--loglevel" default:"3" help:"Diagnostic log level, 0 (critical) to 5 (debug)"`
	Targets  []string `arg:"positional" help:"Target names to resolve, all release targets when omitted"`
}

func (args) Description() string {
	return "Prints the download URL each release target currently resolves to"
}

func main() {
	var parsed args
	arg.MustParse(&parsed)
	internal.InitLogging(parsed.LogLevel)

	config, err := base.ReadConfig()
	if err != nil {
		internal.Log.Fatalf("Error reading catalog: %v", err)
	}

	wanted := map[string]bool{}
	for _, name := range parsed.Targets {
		wanted[name] = true
	}

	s := config.Settings
	resolver := release.NewDefaultResolver(s, remote.NewClient(s.GetConnectTimeout()), status.NewReporter(os.Stderr))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, target := range config.Targets {
		src, ok := target.Release()
		if !ok || (len(wanted) > 0 && !wanted[target.Name]) {
			continue
		}

		asset := resolver.Resolve(context.Background(), target.Name, src)
		fmt.Fprintf(w, "%s\t%s\t%s\n", target.Name, asset.Filename, asset)
	}

	if err = w.Flush(); err != nil {
		internal.Log.Fatalf("Error writing output: %v", err)
	}
}
