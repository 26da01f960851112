package utils

import (
	"bytes"

	"github.com/mogaika/prism_converter/config"
)

// BytesToString decodes byte string with configured charmap, stops at first zero byte.
// Single byte charmaps map every byte, so decoding never fails.
func BytesToString(bs []byte) string {
	if n := bytes.IndexByte(bs, 0); n >= 0 {
		bs = bs[:n]
	}
	decoder := config.GetEncoding().NewDecoder()
	s, err := decoder.Bytes(bs)
	if err != nil {
		return string(bs)
	}
	return string(s)
}
