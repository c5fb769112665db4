package serial

import (
	"strings"

	"github.com/pontonfc/ponto-system/internal/core/domain"
)

// Wire protocol tokens. Host→device commands and acknowledgements are
// all-caps, newline-terminated.
const (
	CmdDump  = "EDUMP"  // request the buffered offline batch
	CmdClear = "ECLEAR" // clear the device's buffered batch (best effort)

	TokenDumpBegin = "EBEGIN"
	TokenDumpEnd   = "EEND"
	TokenReady     = "READY"
	TokenAckOK     = "OK"
	TokenAckErr    = "ERR"
)

func isControlToken(s string) bool {
	switch s {
	case TokenDumpBegin, TokenDumpEnd, TokenReady, TokenAckOK, TokenAckErr:
		return true
	}
	return false
}

// ExtractUID recognizes a card identifier in a live line from the device:
// a bare hex string or one prefixed with "UID:". Comment lines (leading
// '#'), control tokens, and anything that is not valid hex of even length
// between 8 and 20 characters yield no identifier: that is ignored
// input, such as diagnostic chatter, not an error.
func ExtractUID(line string) (string, bool) {
	s := strings.ToUpper(strings.TrimSpace(line))
	if s == "" || strings.HasPrefix(s, "#") || isControlToken(s) {
		return "", false
	}
	if rest, ok := strings.CutPrefix(s, "UID:"); ok {
		s = strings.TrimSpace(rest)
	}
	if !domain.ValidUID(s) {
		return "", false
	}
	return s, true
}
