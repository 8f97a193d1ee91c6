package pathmap

import (
	"path"
	"strings"
)

// DefaultMountRoot is where the host's user directories are mounted inside
// the server container.
const DefaultMountRoot = "/mnt/users"

// Translator rewrites host paths into the paths a containerized server sees.
// It does not check that the mount exists.
type Translator struct {
	MountRoot string
}

// New creates a Translator for mountRoot, or DefaultMountRoot when empty.
func New(mountRoot string) *Translator {
	if mountRoot == "" {
		mountRoot = DefaultMountRoot
	}
	return &Translator{MountRoot: mountRoot}
}

// ToContainer maps a drive-letter path such as C:\Users\HomePC\Music\a.mp3
// to <root>/Music/a.mp3. The drive and the Users\<account>\ prefix are
// dropped; a file directly under Users keeps its name. Any other path only
// has its separators converted.
func (t *Translator) ToContainer(p string) string {
	if !isDrivePath(p) {
		return toSlash(p)
	}

	rest := toSlash(p[3:])
	if head, tail, ok := strings.Cut(rest, "/"); ok && strings.EqualFold(head, "Users") {
		rest = tail
		// the account segment only exists when something follows it
		if _, afterAccount, ok := strings.Cut(tail, "/"); ok {
			rest = afterAccount
		}
	}
	return path.Clean(t.MountRoot + "/" + rest)
}

// ToContainer translates p with the default mount root.
func ToContainer(p string) string {
	return New("").ToContainer(p)
}

func isDrivePath(p string) bool {
	if len(p) < 3 || p[1] != ':' || (p[2] != '\\' && p[2] != '/') {
		return false
	}
	c := p[0]
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func toSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
