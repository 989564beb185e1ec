package settings

import (
	"bytes"
	"fmt"
	"time"
)

const (
	defaultConnectTimeout = 10
	defaultFontOwner      = "root"
	defaultFontRoot       = "/usr/share/fonts"
	defaultInstallerDir   = "~/Downloads/Installers"
	defaultLinkDir        = "/usr/local/bin"
	defaultOptDir         = "/opt"
)

type Settings struct {
	// ConnectTimeout bounds dialing and TLS handshakes for metadata queries, in seconds.
	ConnectTimeout int    `yaml:"connect_timeout,omitempty"`
	FontOwner      string `yaml:"font_owner,omitempty"`
	FontRoot       string `yaml:"font_root,omitempty"`
	InstallerDir   string `yaml:"installer_dir,omitempty"`
	LinkDir        string `yaml:"link_dir,omitempty"`
	OptDir         string `yaml:"opt_dir,omitempty"`
	UseGHClient    bool   `yaml:"use_github_cli,omitempty"`
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func (s Settings) GetConnectTimeout() time.Duration {
	if s.ConnectTimeout > 0 {
		return time.Duration(s.ConnectTimeout) * time.Second
	}
	return defaultConnectTimeout * time.Second
}

func (s Settings) GetFontOwner() string {
	return orDefault(s.FontOwner, defaultFontOwner)
}

func (s Settings) GetFontRoot() string {
	return orDefault(s.FontRoot, defaultFontRoot)
}

func (s Settings) GetInstallerDir() string {
	return orDefault(s.InstallerDir, defaultInstallerDir)
}

func (s Settings) GetLinkDir() string {
	return orDefault(s.LinkDir, defaultLinkDir)
}

func (s Settings) GetOptDir() string {
	return orDefault(s.OptDir, defaultOptDir)
}

// Expand replaces ${var} references with values from lookup. Unknown references are kept
// verbatim and a backslash escapes a dollar sign.
func Expand(s string, lookup map[string]string) string {
	var cur bytes.Buffer
	var out bytes.Buffer
	var backspace bool
	var consuming bool
	var dollar bool

	for _, c := range s {
		if backspace {
			if c != '$' {
				out.WriteRune('\\')
			}
		} else if c == '$' {
			dollar = true
			continue
		}

		backspace = c == '\\'
		if backspace {
			continue
		}

		if dollar {
			dollar = false
			if c == '{' {
				consuming = true
				continue
			}
			out.WriteRune('$')
		}

		if c == '}' && consuming {
			consuming = false
			curStr := cur.String()
			val, ok := lookup[curStr]
			if ok {
				out.WriteString(val)
			} else {
				out.WriteString(fmt.Sprintf("${%s}", curStr))
			}
			cur.Reset()
			continue
		}

		if consuming {
			cur.WriteRune(c)
		} else {
			out.WriteRune(c)
		}
	}

	if dollar {
		out.WriteRune('$')
	}
	if consuming {
		out.WriteString("${")
		out.Write(cur.Bytes())
	}

	return out.String()
}
