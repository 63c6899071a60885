// Package layout is the canonical mapping between tree value nodes and
// on-disk names. Split and merge never invent a file name outside this
// package; the names are a durable contract other tooling reads.
package layout

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gobuffalo/flect"

	"github.com/opencontrolkit/shard/format"
)

const (
	// Sep separates the index or key prefix from the singular property
	// name in expanded item files: "00000__group.json", "x__param.json".
	Sep = "__"
	// IndexDigits is the zero padded width of sequence indices at split
	// time. Merge accepts any width and compares numeric values.
	IndexDigits = 5
)

var (
	ErrBadName   = errors.New("bad artifact name")
	ErrUnsafeKey = errors.New("key not filesystem-safe")
)

// Singular derives the singular property name used in item file names:
// "groups" items are named "...__group".
func Singular(prop string) string {
	s := flect.Singularize(prop)
	if s == "" {
		return prop
	}
	return s
}

// BaseName returns the property name an artifact path stands for: the
// file name with its extension removed, or the directory name.
func BaseName(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); format.IsKnownSuffix(ext) {
		return strings.TrimSuffix(base, ext)
	}
	return base
}

// ItemName names the file for the index-th element of an expanded
// sequence property.
func ItemName(index int, prop string, f format.Format) string {
	return fmt.Sprintf("%0*d%s%s%s", IndexDigits, index, Sep, Singular(prop), f.Suffix())
}

// EntryName names the file for one key of an expanded mapping property.
// The key appears verbatim, so it must be filesystem-safe.
func EntryName(key, prop string, f format.Format) (string, error) {
	if err := CheckKey(key); err != nil {
		return "", err
	}
	return key + Sep + Singular(prop) + f.Suffix(), nil
}

// WrapperName names the empty "all items"/"all entries" marker file of
// an expanded container, and equally the remainder file of a promoted
// object: both live inside the directory under its own name.
func WrapperName(prop string, f format.Format) string {
	return prop + f.Suffix()
}

// CheckKey rejects mapping keys that cannot round-trip through a file
// name.
func CheckKey(key string) error {
	if key == "" || key == "." || key == ".." {
		return fmt.Errorf("%w: %q", ErrUnsafeKey, key)
	}
	if strings.Contains(key, Sep) {
		return fmt.Errorf("%w: %q contains %q", ErrUnsafeKey, key, Sep)
	}
	if strings.ContainsAny(key, "/\\:*?\"<>|\x00") {
		return fmt.Errorf("%w: %q", ErrUnsafeKey, key)
	}
	if strings.HasPrefix(key, ".") {
		return fmt.Errorf("%w: %q starts with a dot", ErrUnsafeKey, key)
	}
	return nil
}

// SplitName decomposes an expanded item or entry artifact name into its
// prefix (index text or key) and singular property name. The extension,
// if any, must already be removed (see BaseName).
func SplitName(base string) (prefix, singular string, err error) {
	i := strings.Index(base, Sep)
	if i <= 0 || i+len(Sep) >= len(base) {
		return "", "", fmt.Errorf("%w: %q is not <prefix>%s<name>", ErrBadName, base, Sep)
	}
	return base[:i], base[i+len(Sep):], nil
}

// ParseIndex interprets an item name prefix as a sequence index.
func ParseIndex(prefix string) (int, error) {
	u, err := strconv.ParseUint(prefix, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an index: %v", ErrBadName, prefix, err)
	}
	return int(u), nil
}

// DocDir returns the directory a document file's split artifacts live
// in: the same-named directory next to (or containing) the file.
// promoted reports whether the file already lives inside it.
func DocDir(rootFile string) (dir string, promoted bool) {
	parent := filepath.Dir(rootFile)
	base := BaseName(rootFile)
	if filepath.Base(parent) == base {
		return parent, true
	}
	return filepath.Join(parent, base), false
}
