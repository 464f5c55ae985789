package adb

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"

	"github.com/tungetti/adbkit/internal/errors"
)

// Package is one entry of "pm list packages". File, VersionCode and UID are
// only set when the matching ListPackagesOptions field asked for them.
type Package struct {
	Name        string
	File        string
	VersionCode int64
	UID         int
}

// ListPackagesOptions selects and decorates the packages listed.
type ListPackagesOptions struct {
	Disabled   bool // -d
	Enabled    bool // -e
	System     bool // -s
	ThirdParty bool // -3

	ShowFile        bool // -f
	ShowUID         bool // -U
	ShowVersionCode bool // --show-versioncode

	User string
	Name string // Substring filter on the package name
}

func (o ListPackagesOptions) args() []string {
	args := []string{"pm", "list", "packages"}
	for _, f := range []struct {
		on   bool
		flag string
	}{
		{o.Disabled, "-d"},
		{o.Enabled, "-e"},
		{o.System, "-s"},
		{o.ThirdParty, "-3"},
		{o.ShowFile, "-f"},
		{o.ShowUID, "-U"},
		{o.ShowVersionCode, "--show-versioncode"},
	} {
		if f.on {
			args = append(args, f.flag)
		}
	}
	if o.User != "" {
		args = append(args, "--user", shellQuote(o.User))
	}
	if o.Name != "" {
		args = append(args, shellQuote(o.Name))
	}
	return args
}

var (
	packageLineRe = regexp.MustCompile(`^package:(?:(.*\.apk)=)?(\S+)(?:\s+(versionCode|uid):(\d+))?(?:\s+(versionCode|uid):(\d+))?`)

	permissionLineRe = regexp.MustCompile(`^(\s*)([\w.]+)(?::.*)?$`)
)

// PackageManager drives the device's "pm" tool. An empty user means the
// tool's default user.
type PackageManager struct {
	shell *Shell
}

// PackageManager returns the package manager of the device.
func (s *Shell) PackageManager() *PackageManager {
	return &PackageManager{shell: s}
}

// ListPackages lists installed packages.
func (pm *PackageManager) ListPackages(opts ListPackagesOptions) ([]Package, error) {
	o, err := pm.shell.run(opts.args()...)
	if err != nil {
		return nil, err
	}
	return parsePackages(o.StdoutString())
}

func parsePackages(out string) ([]Package, error) {
	packages := []Package{}
	for _, line := range strings.Split(out, "\n") {
		m := packageLineRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		p := Package{Name: m[2], File: m[1]}
		for i := 3; i+1 < len(m); i += 2 {
			if m[i] == "" {
				continue
			}
			n, err := strconv.ParseInt(m[i+1], 10, 64)
			if err != nil {
				return nil, errors.Wrapf(errors.Parse, err, "invalid %s in %q", m[i], line).WithOp("adb.ListPackages")
			}
			if m[i] == "uid" {
				p.UID = int(n)
			} else {
				p.VersionCode = n
			}
		}
		packages = append(packages, p)
	}
	return packages, nil
}

// Path returns the path of the package's base APK. A package that is not
// installed is a NotFound error.
func (pm *PackageManager) Path(pkg, user string) (string, error) {
	o, err := pm.shell.Exec(pm.userArgs([]string{"pm", "path"}, user, pkg), nil, 0)
	if err != nil {
		return "", err
	}
	for _, line := range o.StdoutLines() {
		if path, ok := strings.CutPrefix(strings.TrimSpace(line), "package:"); ok {
			return path, nil
		}
	}
	// pm exits 1 without output for unknown packages.
	if o.Failed() && (o.HasStdout() || o.HasStderr()) {
		return "", o.Err()
	}
	return "", errors.Newf(errors.NotFound, "package %s is not installed", pkg).WithOp("adb.Path")
}

// IsInstalled reports whether a package is installed.
func (pm *PackageManager) IsInstalled(pkg, user string) (bool, error) {
	_, err := pm.Path(pkg, user)
	if errors.IsCode(err, errors.NotFound) {
		return false, nil
	}
	return err == nil, err
}

// Grant grants a runtime permission.
func (pm *PackageManager) Grant(pkg, user, permission string) error {
	_, err := pm.shell.run(append(pm.userArgs([]string{"pm", "grant"}, user, pkg), shellQuote(permission))...)
	return err
}

// Revoke revokes a runtime permission.
func (pm *PackageManager) Revoke(pkg, user, permission string) error {
	_, err := pm.shell.run(append(pm.userArgs([]string{"pm", "revoke"}, user, pkg), shellQuote(permission))...)
	return err
}

// Dump returns the output of "pm dump" for a package.
func (pm *PackageManager) Dump(pkg string) (string, error) {
	o, err := pm.shell.run("pm", "dump", shellQuote(pkg))
	if err != nil {
		return "", err
	}
	return o.StdoutString(), nil
}

// RequestedPermissions returns the permissions a package declares in its
// manifest.
func (pm *PackageManager) RequestedPermissions(pkg string) ([]string, error) {
	dump, err := pm.Dump(pkg)
	if err != nil {
		return nil, err
	}
	perms, ok := parseRequestedPermissions(dump)
	if !ok {
		return nil, errors.Newf(errors.Parse, "no requested permissions section for %s", pkg).WithOp("adb.RequestedPermissions")
	}
	return perms, nil
}

// parseRequestedPermissions reads the indented list below the first
// "requested permissions:" header.
func parseRequestedPermissions(dump string) ([]string, bool) {
	perms := []string{}
	headerIndent := -1
	scanner := bufio.NewScanner(strings.NewReader(dump))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if headerIndent < 0 {
			if strings.TrimSpace(line) == "requested permissions:" {
				headerIndent = len(line) - len(strings.TrimLeft(line, " \t"))
			}
			continue
		}
		m := permissionLineRe.FindStringSubmatch(line)
		if m == nil || len(m[1]) <= headerIndent {
			break
		}
		perms = append(perms, m[2])
	}
	return perms, headerIndent >= 0
}

// Clear deletes all data of a package.
func (pm *PackageManager) Clear(pkg, user string) error { return pm.op("clear", pkg, user) }

// Enable enables a package or component.
func (pm *PackageManager) Enable(pkg, user string) error { return pm.op("enable", pkg, user) }

// Disable disables a package or component.
func (pm *PackageManager) Disable(pkg, user string) error { return pm.op("disable", pkg, user) }

// DisableUser disables a package for the user only.
func (pm *PackageManager) DisableUser(pkg, user string) error { return pm.op("disable-user", pkg, user) }

// Suspend suspends a package.
func (pm *PackageManager) Suspend(pkg, user string) error { return pm.op("suspend", pkg, user) }

// Unsuspend lifts a suspension.
func (pm *PackageManager) Unsuspend(pkg, user string) error { return pm.op("unsuspend", pkg, user) }

// Hide hides a package.
func (pm *PackageManager) Hide(pkg, user string) error { return pm.op("hide", pkg, user) }

// Unhide makes a hidden package visible again.
func (pm *PackageManager) Unhide(pkg, user string) error { return pm.op("unhide", pkg, user) }

// ResetPermissions reverts every runtime permission to its default.
func (pm *PackageManager) ResetPermissions() error {
	_, err := pm.shell.run("pm", "reset-permissions")
	return err
}

func (pm *PackageManager) op(operation, pkg, user string) error {
	_, err := pm.shell.run(pm.userArgs([]string{"pm", operation}, user, pkg)...)
	return err
}

// userArgs appends the optional user selection and the package.
func (pm *PackageManager) userArgs(args []string, user, pkg string) []string {
	if user != "" {
		args = append(args, "--user", shellQuote(user))
	}
	return append(args, shellQuote(pkg))
}
