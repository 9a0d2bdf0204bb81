// Package descriptor maps vim key names ("w", "cc", "f,", "i(", "2e") to the
// motions and text objects the change operator takes. It resolves one
// complete name at a time and keeps no input state.
package descriptor

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/dshills/vimchange/internal/motion"
	"github.com/dshills/vimchange/internal/textobj"
)

// ErrUnknown is returned for names that are neither a motion nor an object.
var ErrUnknown = errors.New("unknown descriptor")

// Kind says which half of a Descriptor is set.
type Kind uint8

const (
	// KindMotion is a motion descriptor.
	KindMotion Kind = iota
	// KindObject is a text object descriptor.
	KindObject
)

// String returns the kind name.
func (k Kind) String() string {
	if k == KindObject {
		return "object"
	}
	return "motion"
}

// Descriptor is a resolved name.
type Descriptor struct {
	Kind   Kind
	Motion motion.Motion
	Object textobj.Object
	Around bool

	// Count is the repeat prefix, 0 when absent.
	Count int
}

// Name returns a human-readable name for the descriptor.
func (d Descriptor) Name() string {
	if d.Kind == KindObject {
		if d.Around {
			return "around-" + textobj.Name(d.Object)
		}
		return "inner-" + textobj.Name(d.Object)
	}
	return motion.Name(d.Motion)
}

// motions maps vim keys to motions.
var motions = map[string]motion.Motion{
	"h":       motion.CharLeft{},
	"l":       motion.CharRight{},
	"<BS>":    motion.WrappingLeft{},
	"<Space>": motion.WrappingRight{},
	"k":       motion.Up{},
	"j":       motion.Down{},
	"w":       motion.NextWordStart{},
	"W":       motion.NextWordStart{IgnorePunctuation: true},
	"e":       motion.NextWordEnd{},
	"E":       motion.NextWordEnd{IgnorePunctuation: true},
	"b":       motion.PreviousWordStart{},
	"B":       motion.PreviousWordStart{IgnorePunctuation: true},
	"ge":      motion.PreviousWordEnd{},
	"gE":      motion.PreviousWordEnd{IgnorePunctuation: true},
	"0":       motion.LineStart{},
	"^":       motion.FirstNonWhitespace{},
	"$":       motion.LineEnd{},
	"cc":      motion.CurrentLine{},
	"+":       motion.NextLineStart{},
	"-":       motion.PreviousLineStart{},
	"gg":      motion.StartOfDocument{},
	"G":       motion.EndOfDocument{},
	"{":       motion.StartOfParagraph{},
	"}":       motion.EndOfParagraph{},
	"%":       motion.Matching{},
}

// longMotions are reachable only by their descriptive name.
var longMotions = []motion.Motion{
	motion.NextSubwordStart{},
	motion.NextSubwordStart{IgnorePunctuation: true},
	motion.NextSubwordEnd{},
	motion.NextSubwordEnd{IgnorePunctuation: true},
	motion.PreviousSubwordStart{},
	motion.PreviousSubwordStart{IgnorePunctuation: true},
}

// objects maps the key after i/a to text objects.
var objects = map[string]textobj.Object{
	"w":  textobj.Word{},
	"W":  textobj.Word{IgnorePunctuation: true},
	"s":  textobj.Sentence{},
	"p":  textobj.Paragraph{},
	"b":  textobj.AnyBrackets{},
	"B":  textobj.CurlyBrackets,
	"t":  textobj.Tag{},
	"(":  textobj.Parens,
	")":  textobj.Parens,
	"[":  textobj.SquareBrackets,
	"]":  textobj.SquareBrackets,
	"{":  textobj.CurlyBrackets,
	"}":  textobj.CurlyBrackets,
	"<":  textobj.AngleBrackets,
	">":  textobj.AngleBrackets,
	"\"": textobj.Quotes{Char: '"'},
	"'":  textobj.Quotes{Char: '\''},
	"`":  textobj.Quotes{Char: '`'},
	"i":  textobj.Indent{},
	"I":  textobj.Indent{IncludeBelow: true},
}

// longObjects are reachable only by their descriptive name.
var longObjects = []textobj.Object{
	textobj.Subword{},
	textobj.Subword{IgnorePunctuation: true},
}

// byName indexes every motion and object by its descriptive name.
var (
	motionsByName = map[string]motion.Motion{}
	objectsByName = map[string]textobj.Object{}
)

func init() {
	for _, m := range motions {
		motionsByName[motion.Name(m)] = m
	}
	for _, m := range longMotions {
		motionsByName[motion.Name(m)] = m
	}
	for _, obj := range objects {
		objectsByName[textobj.Name(obj)] = obj
	}
	for _, obj := range longObjects {
		objectsByName[textobj.Name(obj)] = obj
	}
}

// Parse resolves name, which may carry a count prefix ("3w", "2cc").
func Parse(name string) (Descriptor, error) {
	count, rest := splitCount(name)
	if rest == "" {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	if m, err := ParseMotion(rest); err == nil {
		return Descriptor{Kind: KindMotion, Motion: m, Count: count}, nil
	}
	if obj, around, err := ParseObject(rest); err == nil {
		return Descriptor{Kind: KindObject, Object: obj, Around: around, Count: count}, nil
	}
	return Descriptor{}, fmt.Errorf("%w: %q", ErrUnknown, name)
}

// ParseMotion resolves a motion key ("w", "gE", "f;", "T)") or descriptive
// name ("next-subword-start").
func ParseMotion(name string) (motion.Motion, error) {
	if m, ok := motions[name]; ok {
		return m, nil
	}
	if m, ok := motionsByName[name]; ok {
		return m, nil
	}
	if m, ok := findMotion(name); ok {
		return m, nil
	}
	return nil, fmt.Errorf("%w motion: %q", ErrUnknown, name)
}

// findMotion handles f, F, t and T followed by exactly one character.
func findMotion(name string) (motion.Motion, bool) {
	if len(name) < 2 {
		return nil, false
	}
	c, size := utf8.DecodeRuneInString(name[1:])
	if c == utf8.RuneError || 1+size != len(name) {
		return nil, false
	}
	switch name[0] {
	case 'f':
		return motion.FindForward{Char: c}, true
	case 't':
		return motion.FindForward{Char: c, Before: true}, true
	case 'F':
		return motion.FindBackward{Char: c}, true
	case 'T':
		return motion.FindBackward{Char: c, After: true}, true
	}
	return nil, false
}

// ParseObject resolves "i"/"a" followed by an object key ("iw", "a(", "it")
// or "inner-"/"around-" followed by a descriptive name ("inner-subword").
func ParseObject(name string) (obj textobj.Object, around bool, err error) {
	for prefix, isAround := range map[string]bool{"inner-": false, "around-": true} {
		if rest, ok := strings.CutPrefix(name, prefix); ok {
			if obj, ok := objectsByName[rest]; ok {
				return obj, isAround, nil
			}
		}
	}
	if len(name) >= 2 && (name[0] == 'i' || name[0] == 'a') {
		if obj, ok := objects[name[1:]]; ok {
			return obj, name[0] == 'a', nil
		}
	}
	return nil, false, fmt.Errorf("%w object: %q", ErrUnknown, name)
}

// splitCount strips a leading count. A leading '0' is the line-start motion,
// not a count. Counts saturate instead of overflowing.
func splitCount(name string) (int, string) {
	if name == "" || name[0] < '1' || name[0] > '9' {
		return 0, name
	}
	count, i := 0, 0
	for ; i < len(name) && name[i] >= '0' && name[i] <= '9'; i++ {
		digit := int(name[i] - '0')
		if count > (math.MaxInt32-digit)/10 {
			count = math.MaxInt32
			continue
		}
		count = count*10 + digit
	}
	return count, name[i:]
}

// MotionKeys returns the vim keys with a fixed motion, sorted. The find
// motions (f, F, t, T) take a character and are not listed.
func MotionKeys() []string {
	return slices.Sorted(maps.Keys(motions))
}

// ObjectKeys returns every "i"/"a" object name, sorted.
func ObjectKeys() []string {
	keys := make([]string, 0, 2*len(objects))
	for k := range objects {
		keys = append(keys, "i"+k, "a"+k)
	}
	slices.Sort(keys)
	return keys
}
