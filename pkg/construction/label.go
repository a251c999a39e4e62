package construction

import (
	"strconv"
	"strings"
)

// PointIDPrefix is prepended to a label to form a point id.
const PointIDPrefix = "pt-"

// PointID returns the id of the point carrying label.
func PointID(label string) string {
	return PointIDPrefix + label
}

// LabelOf strips the point-id prefix. Ids that are not point ids are
// returned unchanged.
func LabelOf(id string) string {
	return strings.TrimPrefix(id, PointIDPrefix)
}

// LabelAt returns the auto-label for index i: A..Z, then A1..Z1, A2..
func LabelAt(i int) string {
	if i < 0 {
		return ""
	}
	letter := string(rune('A' + i%26))
	if round := i / 26; round > 0 {
		return letter + strconv.Itoa(round)
	}
	return letter
}

// LabelIndex is the inverse of LabelAt. ok is false for labels that the
// allocator would never produce (e.g. "P'" or "foo").
func LabelIndex(label string) (int, bool) {
	if label == "" {
		return 0, false
	}
	c := label[0]
	if c < 'A' || c > 'Z' {
		return 0, false
	}
	idx := int(c - 'A')
	if len(label) == 1 {
		return idx, true
	}
	round, err := strconv.Atoi(label[1:])
	if err != nil || round < 1 || label[1] == '0' {
		return 0, false
	}
	return idx + 26*round, true
}
