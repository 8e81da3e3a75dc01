package models

// MapCategories is the fixed set of marketplace category slugs.
var MapCategories = []string{
	"restaurant",
	"cafe",
	"travel",
	"shopping",
	"nature",
	"culture",
	"sports",
	"entertainment",
	"other",
}

// IsValidCategory reports whether slug is one of the known categories.
func IsValidCategory(slug string) bool {
	for _, c := range MapCategories {
		if c == slug {
			return true
		}
	}
	return false
}
