package main

import (
	"fmt"
	"os"

	"github.com/alexflint/go-arg"

	"github.com/femnad/kur/base"
	"github.com/femnad/kur/cmd/verify"
	"github.com/femnad/kur/internal"
	"github.com/femnad/kur/status"
)

type args struct {
	LogLevel int `arg:"-l,--loglevel" default:"3" help:"Diagnostic log level, 0 (critical) to 5 (debug)"`
}

func (args) Description() string {
	return "Reports which catalog entries are present on this host without changing anything"
}

func main() {
	var parsed args
	arg.MustParse(&parsed)
	internal.InitLogging(parsed.LogLevel)

	user, err := internal.LookupEffectiveUser()
	if err != nil {
		internal.Log.Fatalf("Error determining the effective user: %v", err)
	}

	config, err := base.ReadConfig()
	if err != nil {
		internal.Log.Fatalf("Error reading catalog: %v", err)
	}

	report, err := verify.New(config, status.Default(), user).Verify()
	if err != nil {
		internal.Log.Fatalf("Error during verification: %v", err)
	}

	fmt.Println(report)
	if !report.OK() {
		os.Exit(1)
	}
}
