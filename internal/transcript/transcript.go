package transcript

import "encoding/json"

// TokenType classifies a transcript token.
type TokenType string

const (
	TypeWord    TokenType = "word"
	TypePause   TokenType = "pause"
	TypeSpacing TokenType = "spacing"
)

// ClientID is an opaque client-supplied identifier. It is kept as raw JSON so
// string and numeric ids round-trip byte-for-byte.
type ClientID = json.RawMessage

// RawToken is a transcript item as supplied by the client.
type RawToken struct {
	ID      ClientID `json:"id,omitempty"`
	Text    string   `json:"text"`
	Start   float64  `json:"start"`
	End     float64  `json:"end"`
	Type    string   `json:"type"`
	Speaker *string  `json:"speaker_id"`
}

// RawTranscript is the client-facing transcript payload.
type RawTranscript struct {
	Words []RawToken `json:"words"`
}

// Token is a transcript item after dehydration. ID is the dense internal
// identifier; the original client id, if any, lives in the request's IDMap.
type Token struct {
	ID      int       `json:"id"`
	Text    string    `json:"text"`
	Start   float64   `json:"start"`
	End     float64   `json:"end"`
	Type    TokenType `json:"type"`
	Speaker string    `json:"speaker_id,omitempty"`
}

// IsWord reports whether the token carries spoken content.
func (t Token) IsWord() bool { return t.Type == TypeWord }

// Transcript is an ordered token sequence with internal ids.
type Transcript struct {
	Words []Token
}

// Text concatenates the raw text of every token.
func (tr Transcript) Text() string {
	size := 0
	for _, tok := range tr.Words {
		size += len(tok.Text)
	}
	out := make([]byte, 0, size)
	for _, tok := range tr.Words {
		out = append(out, tok.Text...)
	}
	return string(out)
}

// IDMap associates internal integer ids with the original client ids.
// It is built once per request by Dehydrate and read-only afterwards.
type IDMap map[int]ClientID

// Lookup returns the original client id for an internal id. Internal-only ids
// (synthetic spacing) have no entry; callers must drop such references rather
// than treat the miss as an error.
func (m IDMap) Lookup(id int) (ClientID, bool) {
	original, ok := m[id]
	return original, ok
}
