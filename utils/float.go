package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// FloatHex encodes float as &xxxxxxxx of its IEEE-754 bits,
// so reader gets back exactly the same value
func FloatHex(f float32) string {
	return fmt.Sprintf("&%08x", math.Float32bits(f))
}

func ParseFloatHex(s string) (float32, error) {
	if !strings.HasPrefix(s, "&") {
		return 0, errors.Errorf("Hex float %q must start with '&'", s)
	}
	bits, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "Invalid hex float %q", s)
	}
	return math.Float32frombits(uint32(bits)), nil
}
