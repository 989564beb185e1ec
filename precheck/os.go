package precheck

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

const (
	quote                = `"`
	osIdField            = "ID"
	osIdLikeField        = "ID_LIKE"
	versionCodenameField = "VERSION_CODENAME"
)

var (
	osReleaseFile = "/etc/os-release"
)

func removeLeadingTrailingQuotes(s string) string {
	s = strings.TrimPrefix(s, quote)
	return strings.TrimSuffix(s, quote)
}

func getOSReleaseField(file, f string) (string, error) {
	fd, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer fd.Close()

	scanner := bufio.NewScanner(fd)
	scanner.Split(bufio.ScanLines)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		field, value, ok := strings.Cut(line, "=")
		if !ok {
			return "", fmt.Errorf("unexpected line in %s: %s", file, line)
		}
		if field != f {
			continue
		}

		return removeLeadingTrailingQuotes(value), nil
	}

	if err = scanner.Err(); err != nil {
		return "", err
	}

	return "", fmt.Errorf("unable to locate field %s in %s", f, file)
}

func GetOSVersionCodename() (string, error) {
	return getOSReleaseField(osReleaseFile, versionCodenameField)
}

func GetOsId() (string, error) {
	return getOSReleaseField(osReleaseFile, osIdField)
}

func isDebianFamily(file string) (bool, error) {
	osId, err := getOSReleaseField(file, osIdField)
	if err != nil {
		return false, err
	}
	if osId == "debian" {
		return true, nil
	}

	idLike, err := getOSReleaseField(file, osIdLikeField)
	if err != nil {
		return false, nil
	}

	for _, like := range strings.Fields(idLike) {
		if like == "debian" || like == "ubuntu" {
			return true, nil
		}
	}

	return false, nil
}

// IsDebianFamily reports whether the host is Debian or derived from it.
func IsDebianFamily() (bool, error) {
	return isDebianFamily(osReleaseFile)
}
