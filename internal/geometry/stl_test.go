package geometry

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type triangle [3]vec3

// cubeTriangles lists an axis-aligned cube of edge s at the given offset,
// wound so every face normal points outward.
func cubeTriangles(s float64, off vec3) []triangle {
	p := func(x, y, z float64) vec3 {
		return vec3{off.x + x*s, off.y + y*s, off.z + z*s}
	}
	return []triangle{
		{p(0, 0, 0), p(1, 1, 0), p(1, 0, 0)},
		{p(0, 0, 0), p(0, 1, 0), p(1, 1, 0)},
		{p(0, 0, 1), p(1, 0, 1), p(1, 1, 1)},
		{p(0, 0, 1), p(1, 1, 1), p(0, 1, 1)},
		{p(0, 0, 0), p(0, 0, 1), p(0, 1, 1)},
		{p(0, 0, 0), p(0, 1, 1), p(0, 1, 0)},
		{p(1, 0, 0), p(1, 1, 0), p(1, 1, 1)},
		{p(1, 0, 0), p(1, 1, 1), p(1, 0, 1)},
		{p(0, 0, 0), p(1, 0, 0), p(1, 0, 1)},
		{p(0, 0, 0), p(1, 0, 1), p(0, 0, 1)},
		{p(0, 1, 0), p(0, 1, 1), p(1, 1, 1)},
		{p(0, 1, 0), p(1, 1, 1), p(1, 1, 0)},
	}
}

func asciiSTL(tris []triangle) string {
	var b strings.Builder
	b.WriteString("solid test\n")
	for _, t := range tris {
		b.WriteString("  facet normal 0 0 0\n    outer loop\n")
		for _, v := range t {
			fmt.Fprintf(&b, "      vertex %g %g %g\n", v.x, v.y, v.z)
		}
		b.WriteString("    endloop\n  endfacet\n")
	}
	b.WriteString("endsolid test\n")
	return b.String()
}

func binarySTL(tris []triangle) []byte {
	var b bytes.Buffer
	b.Write(make([]byte, 80))
	binary.Write(&b, binary.LittleEndian, uint32(len(tris)))
	for _, t := range tris {
		binary.Write(&b, binary.LittleEndian, [3]float32{0, 0, 0}) // normal
		for _, v := range t {
			binary.Write(&b, binary.LittleEndian, [3]float32{float32(v.x), float32(v.y), float32(v.z)})
		}
		binary.Write(&b, binary.LittleEndian, uint16(0))
	}
	return b.Bytes()
}

func TestMeasureVolumeASCIICube(t *testing.T) {
	// 10mm cube: 1000 mm³, so exactly 1 cm³
	stl := asciiSTL(cubeTriangles(10, vec3{}))
	got, err := MeasureVolume(strings.NewReader(stl))
	require.NoError(t, err)
	require.InDelta(t, 1.0, got, 1e-9)
}

func TestMeasureVolumeBinaryCube(t *testing.T) {
	stl := binarySTL(cubeTriangles(20, vec3{}))
	got, err := MeasureVolume(bytes.NewReader(stl))
	require.NoError(t, err)
	require.InDelta(t, 8.0, got, 1e-6)
}

func TestMeasureVolumeTranslationInvariant(t *testing.T) {
	// the signed tetrahedron sum must not care where the mesh sits
	at := asciiSTL(cubeTriangles(10, vec3{}))
	away := asciiSTL(cubeTriangles(10, vec3{x: -500, y: 123.5, z: 9000}))

	a, err := MeasureVolume(strings.NewReader(at))
	require.NoError(t, err)
	b, err := MeasureVolume(strings.NewReader(away))
	require.NoError(t, err)
	require.InDelta(t, a, b, 1e-6)
}

func TestMeasureVolumeBinaryCommentStartingWithSolid(t *testing.T) {
	// some exporters write "solid" into the binary comment block
	stl := binarySTL(cubeTriangles(10, vec3{}))
	copy(stl, []byte("solid exported by cad tool"))

	got, err := MeasureVolume(bytes.NewReader(stl))
	require.NoError(t, err)
	require.InDelta(t, 1.0, got, 1e-6)
}

func TestMeasureVolumeMalformed(t *testing.T) {
	cases := map[string][]byte{
		"empty":            {},
		"garbage text":     []byte("not a mesh at all"),
		"solid no facets":  []byte("solid empty\nendsolid empty\n"),
		"short vertex":     []byte("solid x\nfacet\nouter loop\nvertex 1 2\nendloop\nendfacet\nendsolid x\n"),
		"truncated binary": append(make([]byte, 80), 0xFF, 0xFF, 0xFF, 0x00),
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := MeasureVolume(bytes.NewReader(data))
			require.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestMeasureVolumeAlwaysNonNegative(t *testing.T) {
	// reverse every winding; the magnitude must survive the sign flip
	tris := cubeTriangles(10, vec3{})
	for i := range tris {
		tris[i][1], tris[i][2] = tris[i][2], tris[i][1]
	}
	got, err := MeasureVolume(strings.NewReader(asciiSTL(tris)))
	require.NoError(t, err)
	require.InDelta(t, 1.0, got, 1e-9)
	require.GreaterOrEqual(t, got, 0.0)
}

func TestMeasureVolumeHugeDeclaredCount(t *testing.T) {
	var b bytes.Buffer
	b.Write(make([]byte, 80))
	binary.Write(&b, binary.LittleEndian, uint32(math.MaxUint32))
	b.Write(make([]byte, 50))

	_, err := MeasureVolume(bytes.NewReader(b.Bytes()))
	require.ErrorIs(t, err, ErrMalformed)
}
