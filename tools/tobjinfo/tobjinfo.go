package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mogaika/prism_converter/config"
	"github.com/mogaika/prism_converter/dds"
	"github.com/mogaika/prism_converter/reslib"
	"github.com/mogaika/prism_converter/utils"
)

func main() {
	var base, encoding string
	var inspectDds bool
	flag.StringVar(&base, "base", ".", "Game data root directory")
	flag.StringVar(&encoding, "encoding", config.DefaultEncoding, "Charmap of strings inside game files")
	flag.BoolVar(&inspectDds, "dds", false, "Inspect referenced dds textures")
	flag.Parse()

	if err := config.SetEncoding(encoding); err != nil {
		log.Fatalf("[tobjinfo] %v", err)
	}

	lib := reslib.NewLibrary(nil)
	lib.Logger = utils.NewLogger(os.Stderr)
	defer lib.Destroy()

	failed := false
	for _, key := range flag.Args() {
		t, err := lib.Obtain(base, key)
		if err != nil {
			failed = true
			continue
		}

		fmt.Printf("%s:\n", key)
		fmt.Printf("  type: %v bias: %d filters(mag/min/mip): %d/%d/%d addr(u/v/w): %d/%d/%d\n",
			t.Type, t.Bias, t.MagFilter, t.MinFilter, t.MipFilter, t.AddrU, t.AddrV, t.AddrW)
		fmt.Printf("  ui: %t noanisotropic: %t tsnormal: %t\n", t.UI, t.NoAnisotropic, t.TsNormal)
		for _, texPath := range t.TexturePaths() {
			fmt.Printf("  texture: %q\n", texPath)
			if !inspectDds {
				continue
			}
			info, err := dds.InspectFile(filepath.Join(base, filepath.FromSlash(texPath)))
			if err != nil {
				log.Printf("[tobjinfo] %v", err)
				failed = true
				continue
			}
			fmt.Print(info)
		}
	}
	log.Printf("[tobjinfo] %d texture objects cached", lib.Len())

	if failed {
		os.Exit(1)
	}
}
