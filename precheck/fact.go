package precheck

import (
	"fmt"
	"os"
	"runtime"
)

const (
	desktopEnvKey = "XDG_CURRENT_DESKTOP"
)

func isOs(osId string) (bool, error) {
	foundOsId, err := GetOsId()
	if err != nil {
		return false, fmt.Errorf("error getting OS ID %v", err)
	}

	return foundOsId == osId, nil
}

func IsDebian() (bool, error) {
	return isOs("debian")
}

func IsUbuntu() (bool, error) {
	return isOs("ubuntu")
}

// HasDesktop checks for a graphical session or installed session types.
func HasDesktop() (bool, error) {
	if os.Getenv(desktopEnvKey) != "" {
		return true, nil
	}

	_, err := os.Stat("/usr/share/xsessions")
	if err == nil {
		return true, nil
	}
	_, err = os.Stat("/usr/share/wayland-sessions")
	return err == nil, nil
}

func IsAmd64() (bool, error) {
	return runtime.GOARCH == "amd64", nil
}

func IsArm64() (bool, error) {
	return runtime.GOARCH == "arm64", nil
}

var Facts = map[string]func() (bool, error){
	"amd64":       IsAmd64,
	"arm64":       IsArm64,
	"has-desktop": HasDesktop,
	"is-debian":   IsDebian,
	"is-ubuntu":   IsUbuntu,
}
