package common

import (
	"path"
	"regexp"
	"strings"
)

var majorVersion = regexp.MustCompile(`^v[0-9]+$`)

// PkgAlias returns the name a package is imported under by default: the
// last path element, skipping a major version element ("example.com/m/v2"
// is m) and dropping a gopkg.in version suffix ("gopkg.in/yaml.v3" is yaml).
// Returns "" for an empty path.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	alias := path.Base(pkgPath)
	if dir := path.Dir(pkgPath); majorVersion.MatchString(alias) && dir != "." {
		alias = path.Base(dir)
	}

	if strings.HasPrefix(pkgPath, "gopkg.in/") {
		if i := strings.LastIndex(alias, ".v"); i > 0 && majorVersion.MatchString(alias[i+1:]) {
			alias = alias[:i]
		}
	}

	return alias
}
