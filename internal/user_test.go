package internal

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	marecmd "github.com/femnad/mare/cmd"
)

func TestEnsureDirCreatesParents(t *testing.T) {
	u, err := LookupEffectiveUser()
	if err != nil {
		t.Fatalf("error looking up user: %v", err)
	}

	dir := filepath.Join(t.TempDir(), "Downloads", "Installers")
	if err = u.EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("expected %s to exist: %v", dir, err)
	}
	if !info.IsDir() {
		t.Errorf("expected %s to be a directory", dir)
	}

	if err = u.EnsureDir(dir); err != nil {
		t.Errorf("EnsureDir() on existing dir error = %v", err)
	}
}

func TestRunExitCode(t *testing.T) {
	out, err := Run(marecmd.Input{Command: "exit 3", Shell: true})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.Code != 3 {
		t.Errorf("expected exit code 3, got %d", out.Code)
	}

	if _, err = Run(marecmd.Input{Command: "kur-no-such-command"}); err == nil {
		t.Error("expected an error for a command that cannot be started")
	}

	_, err = marecmd.RunFmtErr(marecmd.Input{Command: "echo oops >&2; exit 1", Shell: true})
	if err == nil {
		t.Fatal("expected an error for non-zero exit")
	}
}

func TestAsUser(t *testing.T) {
	tests := []struct {
		name  string
		input marecmd.Input
		user  string
		want  marecmd.Input
	}{
		{
			name:  "No switch",
			input: marecmd.Input{Command: "rustup update", Shell: true},
			want:  marecmd.Input{Command: "rustup update", Shell: true},
		},
		{
			name:  "Switch to user",
			input: marecmd.Input{Command: "sh /tmp/rustup.sh -y", Shell: true, Sudo: true},
			user:  "kur",
			want: marecmd.Input{
				Command:  "sh /tmp/rustup.sh -y",
				CmdSlice: []string{"sudo", "-H", "-u", "kur", "sh", "-c", "sh /tmp/rustup.sh -y"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AsUser(tt.input, tt.user); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("AsUser() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
