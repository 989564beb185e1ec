package packages

import (
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

const (
	dpkgInstalled = "installed"

	// Quoted so that the escapes reach dpkg-query through shell-style splitting.
	dpkgQuery = `dpkg-query -W -f='${Package}\t${db:Status-Status}\n'`
)

type Apt struct {
}

func (Apt) PkgExec() string {
	return "apt-get"
}

func (Apt) PkgEnv() map[string]string {
	return map[string]string{
		"DEBIAN_FRONTEND": "noninteractive",
		"DEBIAN_PRIORITY": "critical",
	}
}

func (Apt) ListInstalledCmd(pkgs []string) string {
	return fmt.Sprintf("%s %s", dpkgQuery, strings.Join(pkgs, " "))
}

// ParseInstalled reads dpkg-query lines of package name and status, dropping any
// architecture qualifier from the name.
func (Apt) ParseInstalled(out string) mapset.Set[string] {
	installed := mapset.NewThreadUnsafeSet[string]()
	for _, line := range strings.Split(out, "\n") {
		name, status, ok := strings.Cut(strings.TrimSpace(line), "\t")
		if !ok || strings.TrimSpace(status) != dpkgInstalled {
			continue
		}

		name, _, _ = strings.Cut(name, ":")
		installed.Add(name)
	}

	return installed
}
