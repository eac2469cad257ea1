package scan

// DefaultDirectories is the ordered list of directories (relative to the
// system root) where blobs live. Order matters: the first directory holding a
// name decides how it is reported, and when a name is written with its
// directory the longest matching entry must come first.
var DefaultDirectories = []string{
	"/vendor/lib64/egl/",
	"/vendor/lib/egl/",
	"/vendor/lib64/hw/",
	"/vendor/lib/hw/",
	"/vendor/lib64/",
	"/vendor/lib/",
	"/vendor/bin/",
	"/lib64/egl/",
	"/lib/egl/",
	"/lib64/hw/",
	"/lib/hw/",
	"/lib64/",
	"/lib/",
	"/usr/lib/",
	"/usr/lib/alsa-lib/",
	"/bin/",
}

// Directories returns a copy of DefaultDirectories.
func Directories() []string {
	dirs := make([]string, len(DefaultDirectories))
	copy(dirs, DefaultDirectories)
	return dirs
}
