package loader

import "strings"

var zReplacer = strings.NewReplacer("z", "zz", ".", "zi")

// ZEncode returns the registry key for a dotted module name: every "z"
// becomes "zz" and every "." becomes "zi".
func ZEncode(name string) string {
	return zReplacer.Replace(name)
}

// Path returns the slash-separated location of a module within its
// package, for diagnostics.
func Path(pkg, name string) string {
	return pkg + "/" + strings.ReplaceAll(name, ".", "/")
}
