package note

import (
	"embed"
	"fmt"
)

//go:embed messages
var embeddedMessages embed.FS

// EmbeddedFS returns the embedded snapshot of relnote's own messages
// directory. The snapshot is fixed at build time and lets the CLI show
// its changelog without network or filesystem access.
func EmbeddedFS() embed.FS {
	return embeddedMessages
}

// EmbeddedDir is the root of the messages tree inside EmbeddedFS.
const EmbeddedDir = "messages"

// EmbeddedNote reads and parses one version's document from the
// embedded snapshot.
func EmbeddedNote(version string) (*Note, error) {
	content, err := embeddedMessages.ReadFile(fmt.Sprintf("%s/%s.txt", EmbeddedDir, version))
	if err != nil {
		return nil, fmt.Errorf("reading embedded note %s: %w", version, err)
	}
	return Parse(version, content)
}
