// Package unless implements the presence probes deciding whether an installation can be skipped.
package unless

import (
	"fmt"
	"os"
	"strings"

	marecmd "github.com/femnad/mare/cmd"

	"github.com/femnad/kur/common"
	"github.com/femnad/kur/internal"
)

const (
	dpkgInstalled = "installed"
)

// Unless describes the state that makes an installation unnecessary. Every set field has to
// be satisfied.
type Unless struct {
	Cmd      string   `yaml:"cmd"`
	Command  string   `yaml:"command"`
	Dir      string   `yaml:"dir"`
	ExitCode int      `yaml:"exit_code"`
	Flatpak  string   `yaml:"flatpak"`
	Package  []string `yaml:"package"`
	Snap     string   `yaml:"snap"`
	Stat     string   `yaml:"stat"`
}

func (u Unless) IsZero() bool {
	return u.Cmd == "" && u.Command == "" && u.Dir == "" && u.Flatpak == "" && len(u.Package) == 0 &&
		u.Snap == "" && u.Stat == ""
}

func (u Unless) String() string {
	var checks []string
	if u.Command != "" {
		checks = append(checks, fmt.Sprintf("which %s", u.Command))
	}
	if u.Stat != "" {
		checks = append(checks, fmt.Sprintf("ls %s", u.Stat))
	}
	if u.Dir != "" {
		checks = append(checks, fmt.Sprintf("ls -A %s", u.Dir))
	}
	if len(u.Package) > 0 {
		checks = append(checks, fmt.Sprintf("dpkg-query -W %s", strings.Join(u.Package, " ")))
	}
	if u.Snap != "" {
		checks = append(checks, fmt.Sprintf("snap list %s", u.Snap))
	}
	if u.Flatpak != "" {
		checks = append(checks, fmt.Sprintf("flatpak info %s", u.Flatpak))
	}
	if u.Cmd != "" {
		checks = append(checks, u.Cmd)
	}
	return strings.Join(checks, " && ")
}

// Prober evaluates Unless specs. Its collaborators can be replaced in tests.
type Prober struct {
	Expand func(string) string
	Run    func(marecmd.Input) (marecmd.Output, error)
	Which  func(string) (string, error)
}

func NewProber(expand func(string) string) Prober {
	return Prober{Expand: expand, Run: internal.Run, Which: common.Which}
}

func (p Prober) expand(s string) string {
	if p.Expand == nil {
		return s
	}
	return p.Expand(s)
}

func (p Prober) sudoStat(target string) bool {
	internal.Log.Debugf("Trying to access %s with elevated privileges", target)

	out, err := p.Run(marecmd.Input{Command: fmt.Sprintf("stat %s", target), Sudo: true})
	if err != nil {
		return false
	}
	return out.Code == 0
}

func (p Prober) fileExists(target string) bool {
	internal.Log.Debugf("Checking existence of %s", target)

	_, err := os.Stat(target)
	if err == nil {
		return true
	} else if os.IsPermission(err) {
		return p.sudoStat(target)
	}

	return false
}

func (p Prober) exitsWith(input marecmd.Input, code int) bool {
	out, err := p.Run(input)
	if err != nil {
		internal.Log.Debugf("Command %s could not be run: %v", input.Command, err)
		return false
	}

	internal.Log.Debugf("Command %s exited with code: %d, skip when: %d", input.Command, out.Code, code)
	return out.Code == code
}

func (p Prober) packageInstalled(pkg string) bool {
	out, err := p.Run(marecmd.Input{Command: fmt.Sprintf("dpkg-query -W -f=${db:Status-Status} %s", pkg)})
	if err != nil || out.Code != 0 {
		return false
	}
	return strings.TrimSpace(out.Stdout) == dpkgInstalled
}

// ShouldSkip runs the probes of u. A zero Unless never skips.
func (p Prober) ShouldSkip(u Unless) bool {
	if u.IsZero() {
		return false
	}

	if u.Command != "" {
		if _, err := p.Which(u.Command); err != nil {
			return false
		}
	}

	if u.Stat != "" && !p.fileExists(p.expand(u.Stat)) {
		return false
	}

	if u.Dir != "" && !common.DirNonEmpty(p.expand(u.Dir)) {
		return false
	}

	for _, pkg := range u.Package {
		if !p.packageInstalled(pkg) {
			return false
		}
	}

	if u.Snap != "" && !p.exitsWith(marecmd.Input{Command: fmt.Sprintf("snap list %s", u.Snap)}, 0) {
		return false
	}

	if u.Flatpak != "" && !p.exitsWith(marecmd.Input{Command: fmt.Sprintf("flatpak info %s", u.Flatpak)}, 0) {
		return false
	}

	if u.Cmd != "" && !p.exitsWith(marecmd.Input{Command: p.expand(u.Cmd), Shell: true}, u.ExitCode) {
		return false
	}

	return true
}
