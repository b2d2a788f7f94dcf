package detect

import "strings"

// Action is the package-manager verb captured from a command. The
// vocabulary is closed: install, remove/uninstall, update/upgrade.
type Action string

const (
	ActionInstall   Action = "install"
	ActionRemove    Action = "remove"
	ActionUninstall Action = "uninstall"
	ActionUpdate    Action = "update"
	ActionUpgrade   Action = "upgrade"
)

// Canonical folds the vocabulary to its three canonical verbs: uninstall
// reads as remove, upgrade as update, and anything unrecognized as install.
func (a Action) Canonical() Action {
	switch a {
	case ActionRemove, ActionUninstall:
		return ActionRemove
	case ActionUpdate, ActionUpgrade:
		return ActionUpdate
	default:
		return ActionInstall
	}
}

// PackageRef records one package-manager operation found in a command.
// Version is empty when the command did not pin one.
type PackageRef struct {
	Manager string `json:"manager"`
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
	Action  Action `json:"action"`
}

// Packages reports every package operation a command performs. Each manager
// pattern (npm, apt/apt-get, pip, cargo, brew) is checked independently, so
// a single command may contribute several refs. The token following the
// action verb is the package name; a version pinned inside that token is
// split into the Version field.
func (r *Ruleset) Packages(command string) []PackageRef {
	var packages []PackageRef

	for _, mp := range r.managers {
		if m := mp.re.FindStringSubmatch(command); m != nil {
			name, version := splitNameVersion(mp.manager, m[2])
			packages = append(packages, PackageRef{
				Manager: mp.manager,
				Name:    name,
				Version: version,
				Action:  Action(m[1]),
			})
		}
	}

	return packages
}

// splitNameVersion separates a pinned version from a package token using
// the manager's pinning idiom: name@1.2 for npm, brew and cargo, name==1.2
// for pip, name=1.2 for apt. The version part must start with a digit, so
// scoped npm names (@types/node) and dist-tags (express@next) stay part of
// the name.
func splitNameVersion(manager, token string) (string, string) {
	var name, version string
	switch manager {
	case "npm", "brew", "cargo":
		if i := strings.LastIndex(token, "@"); i > 0 {
			name, version = token[:i], token[i+1:]
		}
	case "pip":
		if i := strings.Index(token, "=="); i > 0 {
			name, version = token[:i], token[i+2:]
		}
	case "apt":
		if i := strings.Index(token, "="); i > 0 {
			name, version = token[:i], token[i+1:]
		}
	}
	if version == "" || version[0] < '0' || version[0] > '9' {
		return token, ""
	}
	return name, version
}
