// Package pkgmgr knows the command lines of each supported system package
// manager.
package pkgmgr

import (
	"strings"

	"github.com/arthur-debert/hostprep/pkg/types"
)

type surface struct {
	refresh []string
	query   []string
	install []string
}

var surfaces = map[types.PackageManager]surface{
	types.PackageManagerApt: {
		refresh: []string{"apt-get", "update"},
		query:   []string{"dpkg-query", "-W", "-f=${Package}\\n"},
		install: []string{"apt-get", "install", "-y"},
	},
	types.PackageManagerDnf: {
		refresh: []string{"dnf", "makecache"},
		query:   []string{"rpm", "-qa", "--qf", "%{NAME}\\n"},
		install: []string{"dnf", "install", "-y"},
	},
	types.PackageManagerZypper: {
		refresh: []string{"zypper", "--non-interactive", "refresh"},
		query:   []string{"rpm", "-qa", "--qf", "%{NAME}\\n"},
		install: []string{"zypper", "--non-interactive", "install"},
	},
	types.PackageManagerPacman: {
		refresh: []string{"pacman", "-Sy", "--noconfirm"},
		query:   []string{"pacman", "-Qq"},
		install: []string{"pacman", "-S", "--noconfirm", "--needed"},
	},
}

// Refresh returns the command that updates package metadata.
// Needs privilege.
func Refresh(pm types.PackageManager) types.Command {
	return build(surfaces[pm].refresh)
}

// QueryInstalled returns the command printing one installed package name
// per line.
func QueryInstalled(pm types.PackageManager) types.Command {
	return build(surfaces[pm].query)
}

// Install returns the command installing pkgs in one transaction.
// Needs privilege.
func Install(pm types.PackageManager, pkgs ...string) types.Command {
	return build(surfaces[pm].install, pkgs...)
}

// ParseInstalled turns QueryInstalled output into a set of names.
func ParseInstalled(output string) map[string]bool {
	installed := make(map[string]bool)
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		installed[fields[0]] = true
	}
	return installed
}

func build(argv []string, extra ...string) types.Command {
	if len(argv) == 0 {
		return types.Command{}
	}
	args := make([]string, 0, len(argv)-1+len(extra))
	args = append(args, argv[1:]...)
	args = append(args, extra...)
	return types.Command{Name: argv[0], Args: args}
}
