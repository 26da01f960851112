package tobj

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pkg/errors"

	"github.com/mogaika/prism_converter/utils"
)

func buildTobj(typ Type, textures ...[]byte) []byte {
	header := make([]byte, HEADER_SIZE)
	binary.LittleEndian.PutUint32(header, TOBJ_MAGIC)
	header[22] = 7 // bias
	header[24] = byte(typ)
	header[26], header[27], header[28] = 1, 0, 2
	header[30], header[31], header[32] = 3, 4, 6
	header[33] = 1
	header[35] = 1
	header[38] = 1

	var buf bytes.Buffer
	buf.Write(header)
	for _, tex := range textures {
		binary.Write(&buf, binary.LittleEndian, [2]uint32{uint32(len(tex)), 0})
		buf.Write(tex)
	}
	return buf.Bytes()
}

func TestDecodeGeneric(t *testing.T) {
	to, err := Decode(buildTobj(TYPE_GENERIC, []byte("truck_diff.dds")))
	if err != nil {
		t.Fatal(err)
	}
	expected := Header{
		Magic: TOBJ_MAGIC, Bias: 7, Type: TYPE_GENERIC,
		MagFilter: 1, MinFilter: 0, MipFilter: 2,
		AddrU: 3, AddrV: 4, AddrW: 6,
		UI: true, NoAnisotropic: true, TsNormal: true,
	}
	if to.Header != expected {
		t.Errorf("Header\n%s\nexpected\n%s", utils.SDump(to.Header), utils.SDump(expected))
	}
	if !reflect.DeepEqual(to.Textures, []string{"truck_diff.dds"}) {
		t.Errorf("Textures: %q", to.Textures)
	}
}

func TestDecodeCubic(t *testing.T) {
	faces := [][]byte{
		[]byte("/sky/px.dds"), []byte("/sky/nx.dds"), []byte("/sky/py.dds"),
		[]byte("/sky/ny.dds"), []byte("/sky/pz.dds"), []byte("/sky/n\xe9.dds"),
	}
	to, err := Decode(buildTobj(TYPE_CUBIC, faces...))
	if err != nil {
		t.Fatal(err)
	}
	if len(to.Textures) != 6 || to.Textures[0] != "/sky/px.dds" {
		t.Fatalf("Textures: %q", to.Textures)
	}
	// default charmap is Windows 1252
	if to.Textures[5] != "/sky/né.dds" {
		t.Errorf("Charmap decoded path: %q", to.Textures[5])
	}
}

func TestDecodeErrors(t *testing.T) {
	badMagic := buildTobj(TYPE_GENERIC, []byte("a.dds"))
	badMagic[0] = 0
	if _, err := Decode(badMagic); err == nil {
		t.Errorf("Bad magic accepted")
	}
	if _, err := Decode(buildTobj(3, []byte("a.dds"))); err == nil {
		t.Errorf("Unknown type accepted")
	}

	data := buildTobj(TYPE_CUBIC, []byte("a"), []byte("bb"), []byte("c"), []byte("d"), []byte("e"), []byte("f"))
	for n := 0; n < len(data); n++ {
		if _, err := Decode(data[:n]); !errors.Is(err, utils.ErrOutOfBounds) {
			t.Fatalf("Decode of %d/%d bytes: %v", n, len(data), err)
		}
	}
}

func TestLoad(t *testing.T) {
	base := t.TempDir()
	if err := os.MkdirAll(filepath.Join(base, "vehicle", "truck"), 0777); err != nil {
		t.Fatal(err)
	}
	err := os.WriteFile(filepath.Join(base, "vehicle", "truck", "body.tobj"),
		buildTobj(TYPE_GENERIC, []byte("body.dds")), 0666)
	if err != nil {
		t.Fatal(err)
	}

	to, err := Load(base, "/vehicle/truck/body.tobj")
	if err != nil {
		t.Fatal(err)
	}
	if to.FilePath() != "/vehicle/truck/body.tobj" {
		t.Errorf("FilePath: %q", to.FilePath())
	}
	if paths := to.TexturePaths(); !reflect.DeepEqual(paths, []string{"/vehicle/truck/body.dds"}) {
		t.Errorf("TexturePaths: %q", paths)
	}

	if _, err := Load(base, "/missing.tobj"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Missing file: %v", err)
	}
}
