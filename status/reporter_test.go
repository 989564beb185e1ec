package status

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestReporterPrefixes(t *testing.T) {
	color.NoColor = true

	tests := []struct {
		name string
		log  func(r *Reporter)
		want string
	}{
		{
			name: "Info",
			log:  func(r *Reporter) { r.Info("Updating %s", "apt") },
			want: "[INFO] Updating apt\n",
		},
		{
			name: "Success",
			log:  func(r *Reporter) { r.Success("%s installed", "Docker") },
			want: "[ OK ] Docker installed\n",
		},
		{
			name: "Warning",
			log:  func(r *Reporter) { r.Warning("Git is already installed") },
			want: "[WARN] Git is already installed\n",
		},
		{
			name: "Error",
			log:  func(r *Reporter) { r.Error("failed") },
			want: "[FAIL] failed\n",
		},
		{
			name: "Disabled",
			log:  func(r *Reporter) { r.Disabled("Slack is disabled") },
			want: "[SKIP] Slack is disabled\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			tt.log(NewReporter(&out))
			if got := out.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReporterCounts(t *testing.T) {
	color.NoColor = true

	var out bytes.Buffer
	r := NewReporter(&out)
	r.Success("a")
	r.Success("b")
	r.Disabled("c")

	if r.Count(Success) != 2 || r.Count(Disabled) != 1 || r.Count(Error) != 0 {
		t.Errorf("unexpected counts: success=%d disabled=%d error=%d", r.Count(Success), r.Count(Disabled),
			r.Count(Error))
	}
	if lines := strings.Count(out.String(), "\n"); lines != 3 {
		t.Errorf("expected 3 lines, got %d", lines)
	}
}
