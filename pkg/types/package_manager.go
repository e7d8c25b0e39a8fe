package types

// PackageManager identifies one of the supported system package managers.
type PackageManager string

const (
	PackageManagerApt    PackageManager = "apt"
	PackageManagerDnf    PackageManager = "dnf"
	PackageManagerZypper PackageManager = "zypper"
	PackageManagerPacman PackageManager = "pacman"
)

// SupportedPackageManagers lists the managers in detection order.
var SupportedPackageManagers = []PackageManager{
	PackageManagerApt,
	PackageManagerDnf,
	PackageManagerZypper,
	PackageManagerPacman,
}

// IsValid reports whether pm is one of the supported managers.
func (pm PackageManager) IsValid() bool {
	for _, candidate := range SupportedPackageManagers {
		if pm == candidate {
			return true
		}
	}
	return false
}
