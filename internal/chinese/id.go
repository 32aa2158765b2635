package chinese

import (
	"strings"

	"github.com/google/uuid"
)

// poemNamespace scopes the name-based poem UUIDs.
var poemNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/palemoky/chinese-poetry-web/poem"))

// StablePoemUUID generates a stable UUID (version 5) based on poem content.
// The same title, author and paragraphs always map to the same UUID, even
// across re-imports.
func StablePoemUUID(title, author string, paragraphs []string) string {
	key := strings.Join([]string{
		strings.TrimSpace(title),
		strings.TrimSpace(author),
		strings.Join(paragraphs, "|"),
	}, "|")

	return uuid.NewSHA1(poemNamespace, []byte(key)).String()
}

// IsUUID reports whether s is a well-formed UUID.
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
