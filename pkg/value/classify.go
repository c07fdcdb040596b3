package value

import (
	"regexp"
	"strings"
)

// ImageKeys is the vocabulary of key fragments that mark a field as an image reference.
var ImageKeys = []string{"image", "thumbnail", "photo", "avatar", "logo"}

var imageExtRe = regexp.MustCompile(`(?i)\.(jpe?g|png|gif|svg|webp|bmp)$`)

// Classify returns exactly one of Null, Primitive, Array or Object.
func Classify(v Value) Kind { return v.Kind() }

// IsImageRef reports whether a string s, optionally stored under key, refers to an image.
// Bare primitives pass an empty key so only the extension check can match.
func IsImageRef(key, s string) bool {
	if key != "" {
		lower := strings.ToLower(key)
		for _, k := range ImageKeys {
			if strings.Contains(lower, k) {
				return true
			}
		}
	}
	return imageExtRe.MatchString(s)
}

// IsImageValue reports whether v is a string primitive that IsImageRef accepts.
func IsImageValue(key string, v Value) bool {
	s, ok := v.Text()
	return ok && IsImageRef(key, s)
}
