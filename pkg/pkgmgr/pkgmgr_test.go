package pkgmgr

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arthur-debert/hostprep/pkg/types"
)

func TestCommands(t *testing.T) {
	tests := []struct {
		pm      types.PackageManager
		refresh string
		query   string
		install string
	}{
		{
			pm:      types.PackageManagerApt,
			refresh: "apt-get update",
			query:   `dpkg-query -W -f=${Package}\n`,
			install: "apt-get install -y git curl",
		},
		{
			pm:      types.PackageManagerDnf,
			refresh: "dnf makecache",
			query:   `rpm -qa --qf %{NAME}\n`,
			install: "dnf install -y git curl",
		},
		{
			pm:      types.PackageManagerZypper,
			refresh: "zypper --non-interactive refresh",
			query:   `rpm -qa --qf %{NAME}\n`,
			install: "zypper --non-interactive install git curl",
		},
		{
			pm:      types.PackageManagerPacman,
			refresh: "pacman -Sy --noconfirm",
			query:   "pacman -Qq",
			install: "pacman -S --noconfirm --needed git curl",
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.pm), func(t *testing.T) {
			assert.Equal(t, tt.refresh, Refresh(tt.pm).String())
			assert.Equal(t, tt.query, QueryInstalled(tt.pm).String())
			assert.Equal(t, tt.install, Install(tt.pm, "git", "curl").String())
		})
	}
}

func TestInstallDoesNotAliasTable(t *testing.T) {
	first := Install(types.PackageManagerApt, "vim")
	second := Install(types.PackageManagerApt, "htop")

	assert.Equal(t, "apt-get install -y vim", first.String())
	assert.Equal(t, "apt-get install -y htop", second.String())
}

func TestParseInstalled(t *testing.T) {
	installed := ParseInstalled("git\ncurl\n\n  vim  \nlibc6 2.36\n")

	assert.Equal(t, map[string]bool{"git": true, "curl": true, "vim": true, "libc6": true}, installed)
	assert.Empty(t, ParseInstalled(""))
}
