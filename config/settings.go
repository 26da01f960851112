package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Settings of conversion tools. Paths inside game data are logical:
// '/' separated and relative to Base.
type Settings struct {
	Base       string   `yaml:"base"`
	Out        string   `yaml:"out"`
	Skeleton   string   `yaml:"skeleton"`
	Encoding   string   `yaml:"encoding"`
	GLTF       bool     `yaml:"gltf"`
	Animations []string `yaml:"animations"`
}

func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot read settings %q", path)
	}
	s := &Settings{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, errors.Wrapf(err, "Cannot parse settings %q", path)
	}
	return s, nil
}

// Override replaces fields with non-empty values from o
func (s *Settings) Override(o Settings) {
	if o.Base != "" {
		s.Base = o.Base
	}
	if o.Out != "" {
		s.Out = o.Out
	}
	if o.Skeleton != "" {
		s.Skeleton = o.Skeleton
	}
	if o.Encoding != "" {
		s.Encoding = o.Encoding
	}
	if o.GLTF {
		s.GLTF = true
	}
	if len(o.Animations) != 0 {
		s.Animations = append(s.Animations, o.Animations...)
	}
}

// Apply fills defaults, checks required fields and activates encoding
func (s *Settings) Apply() error {
	if s.Encoding == "" {
		s.Encoding = DefaultEncoding
	}
	if s.Out == "" {
		s.Out = s.Base
	}
	if s.Base == "" {
		return errors.New("Base path is not set")
	}
	if s.Skeleton == "" {
		return errors.New("Skeleton path is not set")
	}
	return SetEncoding(s.Encoding)
}
