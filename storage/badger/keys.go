package badger

import (
	"fmt"

	"github.com/poiesic/syllabus/core"
)

// Key prefixes for the index collections
const (
	catalogPrefix  = "catalog"
	contentPrefix  = "content"
	metadataPrefix = "meta"
)

// makeCatalogKey generates a key for a catalog entry by course ID.
func makeCatalogKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", catalogPrefix, id))
}

// makeContentKey generates a key for a content entry by chunk ID.
func makeContentKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", contentPrefix, id))
}

// makeMetadataKey generates a key for a named metadata value.
func makeMetadataKey(name string) []byte {
	return []byte(fmt.Sprintf("%s:%s", metadataPrefix, name))
}

// collectionPrefix returns the iteration prefix of a collection.
func collectionPrefix(prefix string) []byte {
	return []byte(prefix + ":")
}
