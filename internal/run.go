package internal

import (
	"errors"
	"os/exec"
	"strings"

	marecmd "github.com/femnad/mare/cmd"
)

const (
	shell = "sh"
)

// Run runs input and reports a non-zero exit through Output.Code alone. The error is only
// set when the command could not be run at all.
func Run(input marecmd.Input) (marecmd.Output, error) {
	out, err := marecmd.Run(input)
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return out, nil
	}
	return out, err
}

// AsUser rewrites input to run through a login-less sudo switch to user. An empty user leaves
// input as it is.
func AsUser(input marecmd.Input, user string) marecmd.Input {
	if user == "" {
		return input
	}

	input.CmdSlice = []string{"sudo", "-H", "-u", user, shell, "-c", input.Command}
	input.Shell = false
	input.Sudo = false
	return input
}

func maybeWarnPasswordRequired(cmdStr string) {
	out, _ := Run(marecmd.Input{Command: "sudo -Nnv"})
	if out.Code == 0 {
		return
	}

	cmdHead := strings.Split(cmdStr, " ")[0]
	Log.Warningf("Sudo authentication required for escalating privileges to run command %s", cmdHead)
}

// MaybeRunWithSudo runs the command directly when root, via sudo otherwise.
func MaybeRunWithSudo(input marecmd.Input) error {
	isRoot, err := IsUserRoot()
	if err != nil {
		return err
	}

	if !isRoot {
		maybeWarnPasswordRequired(input.Command)
	}

	input.Sudo = !isRoot
	input.SudoPreserveEnv = !isRoot && len(input.Env) > 0
	return marecmd.RunErrOnly(input)
}
