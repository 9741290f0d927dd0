package render

import (
	"fmt"
	"os"
	"path/filepath"

	"chatdig/internal/parse"
)

// WriteBundle writes the markdown export bundle: one file per conversation
// at {project}/{slug}.md under dir. Filename collisions within a project get
// a numeric suffix. Returns the number of files written.
func WriteBundle(dir string, convs []*parse.Conversation) (int, error) {
	written := 0
	for _, project := range parse.Projects(convs) {
		if len(project.Conversations) == 0 {
			continue
		}
		projectDir := filepath.Join(dir, Slugify(project.Name))
		if err := os.MkdirAll(projectDir, 0o755); err != nil {
			return written, fmt.Errorf("create project dir: %w", err)
		}

		used := make(map[string]bool)
		for _, conv := range project.Conversations {
			name := uniqueName(Slugify(conv.Title), used)
			path := filepath.Join(projectDir, name+".md")
			if err := os.WriteFile(path, []byte(Markdown(conv)), 0o644); err != nil {
				return written, fmt.Errorf("write %s: %w", path, err)
			}
			written++
		}
	}
	return written, nil
}

// uniqueName disambiguates slug collisions with -2, -3, ... suffixes.
func uniqueName(slug string, used map[string]bool) string {
	name := slug
	for n := 2; used[name]; n++ {
		name = fmt.Sprintf("%s-%d", slug, n)
	}
	used[name] = true
	return name
}
