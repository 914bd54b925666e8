package domain

import "github.com/gosimple/slug"

// Slugify derives a URL-safe identifier from a display name: lower-cased,
// runs of non-alphanumeric characters collapsed to single hyphens, leading and
// trailing hyphens stripped. Idempotent. Two distinct names may collapse to
// the same slug; uniqueness is enforced on name, not slug.
func Slugify(name string) string {
	return slug.Make(name)
}
