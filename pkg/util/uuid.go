package util

import (
	"encoding/hex"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"
)

// Namespace seeds document fingerprints.
var Namespace = uuid.NewMD5(uuid.NameSpaceURL, []byte("https://github.com/jpfielding/webpexif.go"))

// Digest is the hex BLAKE3-256 sum of value.
func Digest(value []byte) string {
	sum := blake3.Sum256(value)
	return hex.EncodeToString(sum[:])
}

// Fingerprint is a name-based UUID of the JSON form of value, or "" when
// value cannot be marshaled. Equal values always map to the same UUID.
func Fingerprint(value any) string {
	raw, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	return uuid.NewMD5(Namespace, raw).String()
}
