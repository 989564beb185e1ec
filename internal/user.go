package internal

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
)

const (
	rootUid     = 0
	sudoUserEnv = "SUDO_USER"
)

// EffectiveUser is the non-root user on whose behalf the run happens, even when the process
// itself has been started with sudo.
type EffectiveUser struct {
	Name string
	Uid  int
	Gid  int
	Home string
}

func GetCurrentUserId() (int64, error) {
	currentUser, err := user.Current()
	if err != nil {
		return 0, err
	}

	return strconv.ParseInt(currentUser.Uid, 10, 64)
}

func IsUserRoot() (bool, error) {
	userId, err := GetCurrentUserId()
	if err != nil {
		return false, err
	}

	return userId == rootUid, nil
}

func fromUser(u *user.User) (EffectiveUser, error) {
	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return EffectiveUser{}, fmt.Errorf("error parsing uid of %s: %v", u.Username, err)
	}
	gid, err := strconv.Atoi(u.Gid)
	if err != nil {
		return EffectiveUser{}, fmt.Errorf("error parsing gid of %s: %v", u.Username, err)
	}

	return EffectiveUser{Name: u.Username, Uid: uid, Gid: gid, Home: u.HomeDir}, nil
}

// LookupEffectiveUser determines the invoking user, preferring SUDO_USER when running as root.
func LookupEffectiveUser() (EffectiveUser, error) {
	sudoUser := os.Getenv(sudoUserEnv)
	if os.Geteuid() == rootUid && sudoUser != "" && sudoUser != "root" {
		u, err := user.Lookup(sudoUser)
		if err != nil {
			return EffectiveUser{}, fmt.Errorf("error looking up invoking user %s: %v", sudoUser, err)
		}
		return fromUser(u)
	}

	u, err := user.Current()
	if err != nil {
		return EffectiveUser{}, err
	}
	return fromUser(u)
}

// RunAs returns the user name commands should be run as, empty when no switch is needed.
func (u EffectiveUser) RunAs() string {
	if os.Geteuid() != rootUid || u.Uid == rootUid {
		return ""
	}
	return u.Name
}

func (u EffectiveUser) ExpandUser(path string) string {
	return ExpandUserWithHome(path, u.Home)
}

// Chown hands path over to the user. It is a no-op unless the process runs as root.
func (u EffectiveUser) Chown(path string) error {
	if os.Geteuid() != rootUid {
		return nil
	}
	return os.Lchown(path, u.Uid, u.Gid)
}

// ChownTree hands every entry under root over to the user.
func (u EffectiveUser) ChownTree(root string) error {
	if os.Geteuid() != rootUid {
		return nil
	}
	return filepath.Walk(root, func(path string, _ os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		return os.Lchown(path, u.Uid, u.Gid)
	})
}

// EnsureDir creates dir and any missing parents, making each created directory owned by the user.
func (u EffectiveUser) EnsureDir(dir string) error {
	dir = filepath.Clean(dir)
	var missing []string
	for cur := dir; ; cur = filepath.Dir(cur) {
		_, err := os.Stat(cur)
		if err == nil {
			break
		} else if !os.IsNotExist(err) {
			return err
		}
		missing = append(missing, cur)
		if filepath.Dir(cur) == cur {
			break
		}
	}

	for i := len(missing) - 1; i >= 0; i-- {
		err := os.Mkdir(missing[i], 0o755)
		if err != nil && !os.IsExist(err) {
			return err
		}
		if err = u.Chown(missing[i]); err != nil {
			return fmt.Errorf("error setting owner of %s to %s: %v", missing[i], u.Name, err)
		}
	}

	return nil
}
