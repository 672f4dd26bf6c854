// Package datakey parses the free-form user data key into a typed schema.
//
// The key shape selects the storage strategy, evaluated in a fixed priority
// order: "chat," then "notes," then "answer,", and anything else falls back
// to the generic blob store. The key is parsed exactly once and handlers
// dispatch on the variant.
package datakey

import (
	"errors"
	"strconv"
	"strings"
)

var ErrMalformed = errors.New("malformed data key")

// Kind tags the parsed variant.
type Kind int

const (
	KindGeneric Kind = iota
	KindChat
	KindNote
	KindAnswer
)

// Key is the parsed, typed form of a data key.
type Key struct {
	Kind Kind

	// Raw is the original key string; delete always operates on it.
	Raw string

	// Chat
	GroupID int64

	// Note and Answer: class id or resource id, resolved by the caller.
	ClassRef string

	// Answer
	Week int
}

// Parse converts a raw key string into its typed form. Prefixed keys with an
// unparsable numeric segment are malformed; everything without a known
// prefix is a valid generic key, whatever it contains.
func Parse(raw string) (Key, error) {
	k := Key{Raw: raw}

	switch {
	case strings.HasPrefix(raw, "chat,"):
		items := strings.Split(raw, ",")
		groupID, err := strconv.ParseInt(items[len(items)-1], 10, 64)
		if err != nil {
			return Key{}, ErrMalformed
		}
		k.Kind = KindChat
		k.GroupID = groupID

	case strings.HasPrefix(raw, "notes,"):
		ref := raw[len("notes,"):]
		if ref == "" {
			return Key{}, ErrMalformed
		}
		k.Kind = KindNote
		k.ClassRef = ref

	case strings.HasPrefix(raw, "answer,"):
		items := strings.Split(raw, ",")
		if len(items) < 3 || items[1] == "" {
			return Key{}, ErrMalformed
		}
		week, err := strconv.Atoi(items[2])
		if err != nil {
			return Key{}, ErrMalformed
		}
		k.Kind = KindAnswer
		k.ClassRef = items[1]
		k.Week = week

	default:
		k.Kind = KindGeneric
	}

	return k, nil
}
