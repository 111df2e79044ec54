package session

import (
	"fmt"
	"strings"
)

// MetadataEntry is stamped onto every rendered frame under the ingest/ namespace.
type MetadataEntry struct {
	Key   string `toml:"key" json:"key"`
	Value string `toml:"value" json:"value"`
}

// MetadataScript serializes entries into the metadata script understood by the
// compositing host, one `{set ingest/<key> "\<value>"}` line per entry.
func MetadataScript(entries []MetadataEntry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf(`{set ingest/%s "\%s"}`, e.Key, e.Value))
	}
	return strings.Join(lines, "\n")
}
