package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alexflint/go-arg"

	"github.com/femnad/kur/base"
	"github.com/femnad/kur/internal"
	"github.com/femnad/kur/provision"
	"github.com/femnad/kur/status"
)

const (
	version = "0.1.0"
)

type args struct {
	LogLevel int  `arg:"-l,--loglevel" default:"3" help:"Diagnostic log level, 0 (critical) to 5 (debug)"`
	Yes      bool `arg:"-y,--yes" help:"Do not ask for confirmation before provisioning"`
}

func (args) Description() string {
	return "Provisions a Debian family host from the built in catalog"
}

func (args) Version() string {
	return fmt.Sprintf("kur %s", version)
}

func confirm() (bool, error) {
	fmt.Print("Proceed with provisioning? [y/N] ")
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("error reading confirmation: %w", err)
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}

func main() {
	var parsed args
	p, err := arg.NewParser(arg.Config{}, &parsed)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	err = p.Parse(os.Args[1:])
	switch {
	case errors.Is(err, arg.ErrHelp):
		p.WriteHelp(os.Stdout)
		os.Exit(0)
	case errors.Is(err, arg.ErrVersion):
		fmt.Println(parsed.Version())
		os.Exit(0)
	case err != nil:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		p.WriteUsage(os.Stderr)
		os.Exit(1)
	}

	internal.InitLogging(parsed.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	user, err := internal.LookupEffectiveUser()
	if err != nil {
		internal.Log.Fatalf("Error determining the effective user: %v", err)
	}

	config, err := base.ReadConfig()
	if err != nil {
		internal.Log.Fatalf("Error reading catalog: %v", err)
	}

	provisioner, err := provision.New(config, status.Default(), user)
	if err != nil {
		internal.Log.Fatalf("Error initializing provisioner: %v", err)
	}
	if !parsed.Yes {
		provisioner.Confirm = confirm
	}

	if err = provisioner.Apply(ctx); err != nil {
		internal.Log.Errorf("Provisioning failed: %v", err)
		cancel()
		os.Exit(1)
	}
}
