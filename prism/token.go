package prism

import (
	"strings"

	"github.com/pkg/errors"
)

const (
	tokenCharset   = "\x000123456789abcdefghijklmnopqrstuvwxyz_"
	tokenBase      = uint64(len(tokenCharset))
	TokenMaxLength = 12
)

// Token is a base-38 packed identifier, least significant digit first
type Token uint64

func (t Token) String() string {
	var sb strings.Builder
	for v := uint64(t); v != 0; v /= tokenBase {
		if c := tokenCharset[v%tokenBase]; c != 0 {
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func StringToToken(s string) (Token, error) {
	if len(s) > TokenMaxLength {
		return 0, errors.Errorf("Token %q is longer than %d characters", s, TokenMaxLength)
	}
	var t uint64
	for i := len(s) - 1; i >= 0; i-- {
		idx := strings.IndexByte(tokenCharset[1:], s[i])
		if idx < 0 {
			return 0, errors.Errorf("Invalid character %q in token %q", s[i], s)
		}
		t = t*tokenBase + uint64(idx+1)
	}
	return Token(t), nil
}
