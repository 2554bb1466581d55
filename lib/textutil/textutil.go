package textutil

import "strings"

// CollapseWhitespace trims a string and folds any run of interior
// whitespace (including the \r\n the course guide embeds in cells)
// into a single space.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Slugify turns a course key like "EECS 280" into the URL-safe
// "eecs-280" used to name per-course blobs.
func Slugify(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}
