package anim

import (
	"bytes"
	"io"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// GLTFDocument builds skeleton nodes hierarchy and one animation
// with translation, rotation and scale samplers for every channel
func (a *Animation) GLTFDocument() (*gltf.Document, error) {
	if err := a.validateBones(); err != nil {
		return nil, err
	}
	skel := a.skeleton

	doc := gltf.NewDocument()
	for iBone := 0; iBone < skel.BoneCount(); iBone++ {
		doc.Nodes = append(doc.Nodes, &gltf.Node{Name: skel.BoneName(iBone)})
	}
	for iBone := 0; iBone < skel.BoneCount(); iBone++ {
		if parent := skel.BoneParent(iBone); parent >= 0 && parent < skel.BoneCount() {
			doc.Nodes[parent].Children = append(doc.Nodes[parent].Children, uint32(iBone))
		} else {
			doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(iBone))
		}
	}

	if len(a.Timeframes) == 0 {
		return doc, nil
	}

	input := modeler.WriteAccessor(doc, gltf.TargetNone, a.Timeframes)
	minTime, maxTime := a.Timeframes[0], a.Timeframes[0]
	for _, t := range a.Timeframes {
		if t < minTime {
			minTime = t
		}
		if t > maxTime {
			maxTime = t
		}
	}
	doc.Accessors[input].Min = []float32{minTime}
	doc.Accessors[input].Max = []float32{maxTime}

	animation := &gltf.Animation{Name: a.Name}
	for iChannel, bone := range a.Bones {
		frames := a.Frames[iChannel]
		translations := make([][3]float32, len(frames))
		rotations := make([][4]float32, len(frames))
		scales := make([][3]float32, len(frames))
		for j, frame := range frames {
			translations[j] = frame.Translation
			rotations[j] = frame.Rotation.XYZW()
			scales[j] = frame.Scale
		}

		for _, track := range []struct {
			path gltf.TRSProperty
			data interface{}
		}{
			{gltf.TRSTranslation, translations},
			{gltf.TRSRotation, rotations},
			{gltf.TRSScale, scales},
		} {
			output := modeler.WriteAccessor(doc, gltf.TargetNone, track.data)
			animation.Samplers = append(animation.Samplers, &gltf.AnimationSampler{
				Input:         gltf.Index(input),
				Output:        gltf.Index(output),
				Interpolation: gltf.InterpolationLinear,
			})
			animation.Channels = append(animation.Channels, &gltf.Channel{
				Sampler: gltf.Index(uint32(len(animation.Samplers) - 1)),
				Target: gltf.ChannelTarget{
					Node: gltf.Index(uint32(bone)),
					Path: track.path,
				},
			})
		}
	}
	doc.Animations = append(doc.Animations, animation)

	return doc, nil
}

// ExportGLTF writes binary gltf (glb)
func (a *Animation) ExportGLTF(w io.Writer) error {
	doc, err := a.GLTFDocument()
	if err != nil {
		return err
	}
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = true
	return encoder.Encode(doc)
}

// ExportGLB writes <exportPath>/<filePath>.glb and returns its path.
// Document is encoded in memory first, so failed export leaves no file.
func (a *Animation) ExportGLB(exportPath string) (string, error) {
	var b bytes.Buffer
	if err := a.ExportGLTF(&b); err != nil {
		return "", err
	}
	return a.exportFile(exportPath, ".glb", b.Bytes())
}
