package main

import (
	"flag"
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/mogaika/prism_converter/anim"
	"github.com/mogaika/prism_converter/config"
	"github.com/mogaika/prism_converter/skeleton"
	"github.com/mogaika/prism_converter/utils"
)

func convert(s *config.Settings, skel *skeleton.Model, animPath string, dump bool, l *utils.Logger) error {
	a, err := anim.Load(skel, animPath, l)
	if err != nil {
		return err
	}
	if dump {
		utils.Dump(os.Stdout, a, anim.ComposeAll(a))
	}

	piaPath, err := a.ExportPia(s.Out)
	if err != nil {
		return errors.Wrapf(err, "pia export of %q", a.FilePath())
	}
	log.Printf("[pma2pia] %q => %q", a.FilePath(), piaPath)

	if s.GLTF {
		glbPath, err := a.ExportGLB(s.Out)
		if err != nil {
			return errors.Wrapf(err, "gltf export of %q", a.FilePath())
		}
		log.Printf("[pma2pia] %q => %q", a.FilePath(), glbPath)
	}
	return nil
}

func main() {
	var configPath string
	var flags config.Settings
	var dump, verbose, listEncodings bool
	flag.StringVar(&configPath, "config", "", "Path to yaml settings file")
	flag.StringVar(&flags.Base, "base", "", "Game data root directory")
	flag.StringVar(&flags.Skeleton, "skeleton", "", "Logical path to skeleton without .pis extension, eg /vehicle/truck/truck")
	flag.StringVar(&flags.Out, "out", "", "Export directory, base directory if empty")
	flag.StringVar(&flags.Encoding, "encoding", "", "Charmap of strings inside game files")
	flag.BoolVar(&flags.GLTF, "gltf", false, "Also write .glb next to .pia")
	flag.BoolVar(&dump, "dump", false, "Dump decoded animation")
	flag.BoolVar(&verbose, "v", false, "Trace pma decoding")
	flag.BoolVar(&listEncodings, "encodings", false, "List available encodings and exit")
	flag.Parse()

	if listEncodings {
		for _, name := range config.ListEncodings() {
			log.Println(name)
		}
		return
	}

	s := &config.Settings{}
	if configPath != "" {
		var err error
		if s, err = config.LoadSettings(configPath); err != nil {
			log.Fatalf("[pma2pia] %v", err)
		}
	}
	flags.Animations = flag.Args()
	s.Override(flags)
	if err := s.Apply(); err != nil {
		log.Fatalf("[pma2pia] %v", err)
	}

	var l *utils.Logger
	if verbose {
		l = utils.NewLogger(os.Stderr)
	}

	skel, err := skeleton.Load(s.Base, s.Skeleton)
	if err != nil {
		log.Fatalf("[pma2pia] %v", err)
	}
	log.Printf("[pma2pia] Skeleton %q loaded: %d bones", skel.FilePath(), skel.BoneCount())

	failed := 0
	for _, animPath := range s.Animations {
		if err := convert(s, skel, animPath, dump, l); err != nil {
			log.Printf("[pma2pia] %q: %v", animPath, err)
			failed++
		}
	}

	log.Printf("[pma2pia] Converted %d/%d animations", len(s.Animations)-failed, len(s.Animations))
	if failed != 0 {
		os.Exit(1)
	}
}
