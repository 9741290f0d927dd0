package render

import "strings"

const slugMaxLen = 100

// invalidFilenameChars are characters that cannot appear in filenames on at
// least one supported platform.
const invalidFilenameChars = `<>:"/\|?*`

// Slugify turns a conversation or project title into a safe filename stem.
func Slugify(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r < 0x20 || strings.ContainsRune(invalidFilenameChars, r) {
			b.WriteRune('_')
			continue
		}
		b.WriteRune(r)
	}
	slug := strings.TrimSpace(b.String())
	if len(slug) > slugMaxLen {
		runes := []rune(slug)
		for len(slug) > slugMaxLen && len(runes) > 0 {
			runes = runes[:len(runes)-1]
			slug = string(runes)
		}
		slug = strings.TrimSpace(slug)
	}
	if slug == "" {
		return "untitled"
	}
	return slug
}
