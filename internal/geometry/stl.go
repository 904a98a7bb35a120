// Package geometry measures print volume from uploaded mesh files. Only the
// STL format is understood, in both its binary and ASCII encodings.
package geometry

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ErrMalformed reports a file that could not be parsed as an STL mesh.
var ErrMalformed = errors.New("malformed stl file")

const (
	binaryHeaderLen   = 84 // 80-byte comment + uint32 triangle count
	binaryTriangleLen = 50 // normal + 3 vertices (12 float32) + attribute uint16

	// maxTriangles bounds the declared triangle count so a corrupt header
	// cannot drive a multi-gigabyte allocation.
	maxTriangles = 50_000_000
)

type vec3 struct {
	x, y, z float64
}

func (a vec3) sub(b vec3) vec3 {
	return vec3{a.x - b.x, a.y - b.y, a.z - b.z}
}

func (a vec3) cross(b vec3) vec3 {
	return vec3{
		a.y*b.z - a.z*b.y,
		a.z*b.x - a.x*b.z,
		a.x*b.y - a.y*b.x,
	}
}

func (a vec3) dot(b vec3) float64 {
	return a.x*b.x + a.y*b.y + a.z*b.z
}

// MeasureVolume parses the mesh and returns its enclosed volume in cm³.
// Vertex coordinates are taken to be millimetres, the unit every slicer
// writes. The volume is the absolute signed sum of the tetrahedra spanned by
// the origin and each triangle, so it is exact for watertight meshes
// regardless of where they sit relative to the origin.
func MeasureVolume(r io.Reader) (float64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("read mesh: %w", err)
	}
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: empty file", ErrMalformed)
	}

	var signed float64
	if isBinary(data) {
		signed, err = binaryVolume(data)
	} else {
		signed, err = asciiVolume(data)
	}
	if err != nil {
		return 0, err
	}

	return math.Abs(signed) / 1000, nil // mm³ to cm³
}

// isBinary decides the encoding. ASCII files start with the "solid" keyword,
// but some binary exporters write that word into the 80-byte comment too, so
// the declared triangle count has the final say: a binary file's length is
// exactly header + count*50.
func isBinary(data []byte) bool {
	if len(data) < binaryHeaderLen {
		return false
	}
	count := binary.LittleEndian.Uint32(data[80:binaryHeaderLen])
	if uint64(len(data)) == binaryHeaderLen+uint64(count)*binaryTriangleLen {
		return true
	}
	return !bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("solid"))
}

func binaryVolume(data []byte) (float64, error) {
	count := binary.LittleEndian.Uint32(data[80:binaryHeaderLen])
	if count > maxTriangles {
		return 0, fmt.Errorf("%w: triangle count %d too large", ErrMalformed, count)
	}
	if uint64(len(data)) != binaryHeaderLen+uint64(count)*binaryTriangleLen {
		return 0, fmt.Errorf("%w: truncated binary body", ErrMalformed)
	}

	var signed float64
	for i := uint32(0); i < count; i++ {
		// skip the 12-byte normal, read the three vertices
		tri := data[binaryHeaderLen+int(i)*binaryTriangleLen+12:]
		var v [3]vec3
		for j := range v {
			v[j] = vec3{
				x: float64(math.Float32frombits(binary.LittleEndian.Uint32(tri[j*12:]))),
				y: float64(math.Float32frombits(binary.LittleEndian.Uint32(tri[j*12+4:]))),
				z: float64(math.Float32frombits(binary.LittleEndian.Uint32(tri[j*12+8:]))),
			}
		}
		signed += v[0].dot(v[1].cross(v[2])) / 6
	}
	return signed, nil
}

func asciiVolume(data []byte) (float64, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var (
		signed    float64
		verts     []vec3
		sawSolid  bool
		triangles int
	)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "solid":
			sawSolid = true
		case "vertex":
			if len(fields) < 4 {
				return 0, fmt.Errorf("%w: short vertex line", ErrMalformed)
			}
			var v vec3
			var err error
			if v.x, err = strconv.ParseFloat(fields[1], 64); err != nil {
				return 0, fmt.Errorf("%w: bad vertex coordinate", ErrMalformed)
			}
			if v.y, err = strconv.ParseFloat(fields[2], 64); err != nil {
				return 0, fmt.Errorf("%w: bad vertex coordinate", ErrMalformed)
			}
			if v.z, err = strconv.ParseFloat(fields[3], 64); err != nil {
				return 0, fmt.Errorf("%w: bad vertex coordinate", ErrMalformed)
			}
			verts = append(verts, v)
		case "endfacet":
			if len(verts) != 3 {
				return 0, fmt.Errorf("%w: facet with %d vertices", ErrMalformed, len(verts))
			}
			signed += verts[0].dot(verts[1].cross(verts[2])) / 6
			verts = verts[:0]
			triangles++
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("read mesh: %w", err)
	}
	if !sawSolid || triangles == 0 {
		return 0, fmt.Errorf("%w: no facets found", ErrMalformed)
	}
	return signed, nil
}
