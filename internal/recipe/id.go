package recipe

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// TagMarker prefixes identifiers that reference a tag instead of an item.
const TagMarker = "#"

// DefaultNamespace is used when an identifier omits its namespace.
const DefaultNamespace = "minecraft"

// UnknownKind is the kind of a unit that declares no type. It is stored bare
// and never qualified.
const UnknownKind = "unknown"

// CanonicalID trims surrounding whitespace and applies NFC normalization so
// that visually identical identifiers compare equal.
func CanonicalID(id string) string {
	return norm.NFC.String(strings.TrimSpace(id))
}

// IsTag reports whether id is a tag reference.
func IsTag(id string) bool {
	return strings.HasPrefix(id, TagMarker)
}

// Qualify returns id with namespace prepended when id has no namespace of its
// own. Tag references keep their marker in front: "#planks" becomes
// "#minecraft:planks".
func Qualify(id, namespace string) string {
	id = CanonicalID(id)
	if id == "" || strings.Contains(id, ":") {
		return id
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if IsTag(id) {
		return TagMarker + namespace + ":" + strings.TrimPrefix(id, TagMarker)
	}
	return namespace + ":" + id
}

// LocalName returns the part of id after its namespace, without a tag marker.
//
//	LocalName("#minecraft:planks") == "planks"
func LocalName(id string) string {
	id = strings.TrimPrefix(id, TagMarker)
	if i := strings.LastIndex(id, ":"); i >= 0 {
		return id[i+1:]
	}
	return id
}

// DisplayName derives the human readable name of an item identifier:
// namespace stripped, underscores turned into spaces, every word title-cased.
//
//	DisplayName("minecraft:chiseled_stone_bricks") == "Chiseled Stone Bricks"
func DisplayName(id string) string {
	if i := strings.LastIndex(id, ":"); i >= 0 {
		id = id[i+1:]
	}
	// Casers keep state between calls and must not be shared across goroutines.
	return cases.Title(language.Und).String(strings.ReplaceAll(id, "_", " "))
}
