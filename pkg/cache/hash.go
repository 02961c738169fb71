package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey derives the key for a cached result of the given kind ("layout"
// or "graph"). The digest covers the document hash and the options that
// change the result, so two solves share an entry only when both match.
func hashKey(kind, docHash string, opts any) string {
	payload, _ := json.Marshal(struct {
		Doc  string `json:"doc"`
		Opts any    `json:"opts"`
	}{docHash, opts})
	return kind + ":" + Hash(payload)
}

// Hash returns the hex SHA-256 digest of data. Runners use it to identify
// canonical layout documents.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
