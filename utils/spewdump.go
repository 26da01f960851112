package utils

import (
	"io"

	"github.com/davecgh/go-spew/spew"
)

// pointer addresses and capacities differ between runs, hide them so dumps can be diffed
var spewConfig = &spew.ConfigState{
	Indent:                  "  ",
	DisableCapacities:       true,
	DisablePointerAddresses: true,
	SortKeys:                true,
}

func Dump(w io.Writer, a ...interface{}) {
	spewConfig.Fdump(w, a...)
}

func SDump(a ...interface{}) string {
	return spewConfig.Sdump(a...)
}
