package syncer

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	dexerrors "github.com/Aman-CERP/dexsync/internal/errors"
)

// RecordHash fingerprints an API payload. The JSON is decoded and
// re-encoded so object keys come out sorted, then hashed, so two
// payloads that differ only in key order or whitespace hash the same.
func RecordHash(raw json.RawMessage) (string, error) {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", dexerrors.New(dexerrors.ErrCodeInvalidInput, "decoding record payload for hashing", err)
	}
	canonical, err := json.Marshal(value)
	if err != nil {
		return "", dexerrors.InternalError("re-encoding record payload", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
