package anim

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mogaika/prism_converter/utils"
)

const (
	PIA_FORMAT_VERSION    = 3
	MOVEMENT_CHANNEL_NAME = "Prism Movement"
)

var ConverterVersion = "prism_converter 1.0"

var flh = utils.FloatHex

func writeTimeStream(b *bytes.Buffer, timeframes []float32) {
	b.WriteString("\tStream {\n")
	b.WriteString("\t\tFormat: FLOAT\n")
	b.WriteString("\t\tTag: \"_TIME\"\n")
	for j, t := range timeframes {
		fmt.Fprintf(b, "\t\t%-5d( %s )\n", j, flh(t))
	}
	b.WriteString("\t}\n")
}

func (a *Animation) writeMovementChannel(b *bytes.Buffer) {
	b.WriteString("CustomChannel {\n")
	fmt.Fprintf(b, "\tName: %q\n", MOVEMENT_CHANNEL_NAME)
	fmt.Fprintf(b, "\tStreamCount: %d\n", 2)
	fmt.Fprintf(b, "\tKeyframeCount: %d\n", len(a.Timeframes))

	writeTimeStream(b, a.Timeframes)

	b.WriteString("\tStream {\n")
	b.WriteString("\t\tFormat: FLOAT3\n")
	b.WriteString("\t\tTag: \"_MOVEMENT\"\n")
	for j := range a.Timeframes {
		m := a.Movement[j]
		fmt.Fprintf(b, "\t\t%-5d( %s  %s  %s )\n", j, flh(m[0]), flh(m[1]), flh(m[2]))
	}
	b.WriteString("\t}\n")
	b.WriteString("}\n")
}

func (a *Animation) writeBoneChannel(b *bytes.Buffer, channel int) {
	b.WriteString("BoneChannel {\n")
	fmt.Fprintf(b, "\tName: %q\n", a.skeleton.BoneName(int(a.Bones[channel])))
	fmt.Fprintf(b, "\tStreamCount: %d\n", 2)
	fmt.Fprintf(b, "\tKeyframeCount: %d\n", len(a.Timeframes))

	writeTimeStream(b, a.Timeframes)

	b.WriteString("\tStream {\n")
	b.WriteString("\t\tFormat: FLOAT4x4\n")
	b.WriteString("\t\tTag: \"_MATRIX\"\n")
	for j := range a.Timeframes {
		m := Compose(a.Frames[channel][j])
		fmt.Fprintf(b, "\t\t%-5d(  %s  %s  %s  %s\n", j, flh(m[0]), flh(m[1]), flh(m[2]), flh(m[3]))
		fmt.Fprintf(b, "\t\t        %s  %s  %s  %s\n", flh(m[4]), flh(m[5]), flh(m[6]), flh(m[7]))
		fmt.Fprintf(b, "\t\t        %s  %s  %s  %s\n", flh(m[8]), flh(m[9]), flh(m[10]), flh(m[11]))
		fmt.Fprintf(b, "\t\t        %s  %s  %s  %s )\n", flh(m[12]), flh(m[13]), flh(m[14]), flh(m[15]))
	}
	b.WriteString("\t}\n")
	b.WriteString("}\n")
}

// MarshalPia renders whole pia document. Single channel pointing outside
// of skeleton invalidates everything.
func (a *Animation) MarshalPia() ([]byte, error) {
	if a.skeleton == nil || !a.skeleton.Loaded() {
		return nil, &PreconditionError{Reason: "animation is not bound to loaded skeleton"}
	}

	var b bytes.Buffer
	customChannels := 0
	if a.HasMovement() {
		customChannels = 1
	}

	b.WriteString("Header {\n")
	fmt.Fprintf(&b, "\tFormatVersion: %d\n", PIA_FORMAT_VERSION)
	fmt.Fprintf(&b, "\tSource: %q\n", ConverterVersion)
	b.WriteString("\tType: \"Animation\"\n")
	fmt.Fprintf(&b, "\tName: %q\n", utils.FileName(a.filePath))
	b.WriteString("}\n")

	b.WriteString("Global {\n")
	fmt.Fprintf(&b, "\tSkeleton: %q\n", utils.RelativePath(a.skeleton.FilePath()+".pis", utils.Directory(a.filePath)))
	fmt.Fprintf(&b, "\tTotalTime: %f\n", a.TotalLength)
	fmt.Fprintf(&b, "\tBoneChannelCount: %d\n", len(a.Bones))
	fmt.Fprintf(&b, "\tCustomChannelCount: %d\n", customChannels)
	b.WriteString("}\n")

	if a.HasMovement() {
		a.writeMovementChannel(&b)
	}

	for i, bone := range a.Bones {
		if int(bone) >= a.skeleton.BoneCount() {
			return nil, a.referenceError(bone)
		}
		a.writeBoneChannel(&b, i)
	}

	return b.Bytes(), nil
}

func (a *Animation) WritePia(w io.Writer) error {
	data, err := a.MarshalPia()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// exportFile writes fully rendered document to <exportPath>/<filePath><ext>.
// File is removed if it could not be written completely.
func (a *Animation) exportFile(exportPath, ext string, data []byte) (string, error) {
	path := filepath.Join(exportPath, filepath.FromSlash(a.filePath)) + ext
	if err := os.MkdirAll(filepath.Dir(path), 0777); err != nil {
		return "", &IOError{Op: "create directory for", Path: path, Err: err}
	}

	f, err := os.Create(path)
	if err != nil {
		return "", &IOError{Op: "open file", Path: path, Err: err}
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return "", &IOError{Op: "write file", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", &IOError{Op: "close file", Path: path, Err: err}
	}
	return path, nil
}

// ExportPia writes <exportPath>/<filePath>.pia and returns its path.
// Nothing is left on disk when conversion fails.
func (a *Animation) ExportPia(exportPath string) (string, error) {
	data, err := a.MarshalPia()
	if err != nil {
		return "", err
	}
	return a.exportFile(exportPath, ".pia", data)
}
