// Package id implements Immich's opaque identifier type and its shape
// validation. The shape is fixed: 36 characters, alphanumeric, with dashes
// at positions 8, 13, 18 and 23 — the UUID layout without requiring hex
// digits or a version nibble.
package id

import (
	"fmt"
	"regexp"

	"github.com/immich-go/client/immicherr"
)

// ID is an opaque identifier assigned by the Immich server to assets,
// albums and users. Parse is the only constructor that checks the shape;
// ID is a plain string type, so a conversion such as ID(s) skips the check.
// Code in this module that embeds an id in a URL path calls Safe first.
type ID string

var shape = regexp.MustCompile(`^[0-9A-Za-z]{8}-[0-9A-Za-z]{4}-[0-9A-Za-z]{4}-[0-9A-Za-z]{4}-[0-9A-Za-z]{12}$`)

// Parse validates s against the id shape.
func Parse(s string) (ID, error) {
	if !shape.MatchString(s) {
		return "", fmt.Errorf("%w: %q does not have the expected shape", immicherr.ErrInvalidID, s)
	}
	return ID(s), nil
}

// Safe reports whether id passes the shape check. Call this before
// embedding id in a URL path.
func (i ID) Safe() bool {
	return shape.MatchString(string(i))
}

func (i ID) String() string { return string(i) }
