package mesh

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/teranos/polishcow/math3d"
)

const (
	stlHeaderSize = 80
	stlRecordSize = 50
)

// DecodeSTL reads an ASCII or binary STL file into an indexed mesh.
// Identical vertex positions are merged.
func DecodeSTL(r io.Reader) (*Mesh, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read stl: %w", err)
	}

	var tris [][3]math3d.Vec3
	switch {
	case isBinarySTL(data):
		tris, err = decodeBinarySTL(data)
	case bytes.HasPrefix(bytes.TrimSpace(data), []byte("solid")):
		tris, err = decodeASCIISTL(data)
	default:
		return nil, fmt.Errorf("stl: unrecognised format (%d bytes)", len(data))
	}
	if err != nil {
		return nil, err
	}
	if len(tris) == 0 {
		return nil, fmt.Errorf("stl: no facets")
	}

	m := index(tris)
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("stl: %w", err)
	}
	return m, nil
}

// isBinarySTL trusts the facet count in the header only when it accounts
// for the file size exactly, since binary headers may also begin "solid".
func isBinarySTL(data []byte) bool {
	if len(data) < stlHeaderSize+4 {
		return false
	}
	n := binary.LittleEndian.Uint32(data[stlHeaderSize:])
	return uint64(len(data)) == stlHeaderSize+4+uint64(n)*stlRecordSize
}

func decodeBinarySTL(data []byte) ([][3]math3d.Vec3, error) {
	n := int(binary.LittleEndian.Uint32(data[stlHeaderSize:]))
	tris := make([][3]math3d.Vec3, n)

	for i := range tris {
		// Skip the stored normal; it is recomputed from winding.
		off := stlHeaderSize + 4 + i*stlRecordSize + 12
		for j := 0; j < 3; j++ {
			p := data[off+j*12:]
			tris[i][j] = math3d.V(
				float64(math.Float32frombits(binary.LittleEndian.Uint32(p[0:]))),
				float64(math.Float32frombits(binary.LittleEndian.Uint32(p[4:]))),
				float64(math.Float32frombits(binary.LittleEndian.Uint32(p[8:]))),
			)
		}
	}
	return tris, nil
}

func decodeASCIISTL(data []byte) ([][3]math3d.Vec3, error) {
	var (
		tris    [][3]math3d.Vec3
		corners []math3d.Vec3
		inLoop  bool
		ended   bool
		lineNo  int
	)

	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid", "facet", "endfacet":
		case "outer":
			if inLoop {
				return nil, fmt.Errorf("stl line %d: nested loop", lineNo)
			}
			inLoop = true
			corners = corners[:0]
		case "vertex":
			if !inLoop {
				return nil, fmt.Errorf("stl line %d: vertex outside loop", lineNo)
			}
			v, err := parseVertex(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("stl line %d: %w", lineNo, err)
			}
			corners = append(corners, v)
		case "endloop":
			if len(corners) != 3 {
				return nil, fmt.Errorf("stl line %d: facet has %d vertices", lineNo, len(corners))
			}
			tris = append(tris, [3]math3d.Vec3{corners[0], corners[1], corners[2]})
			inLoop = false
		case "endsolid":
			ended = true
		default:
			return nil, fmt.Errorf("stl line %d: unexpected %q", lineNo, fields[0])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("stl: %w", err)
	}
	if inLoop || !ended {
		return nil, fmt.Errorf("stl: truncated")
	}
	return tris, nil
}

func parseVertex(fields []string) (math3d.Vec3, error) {
	if len(fields) != 3 {
		return math3d.Zero, fmt.Errorf("vertex wants 3 coordinates, got %d", len(fields))
	}
	var c [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return math3d.Zero, fmt.Errorf("vertex coordinate %q: %w", f, err)
		}
		c[i] = v
	}
	return math3d.V(c[0], c[1], c[2]), nil
}

func index(tris [][3]math3d.Vec3) *Mesh {
	seen := make(map[math3d.Vec3]int)
	var vertices []math3d.Vec3
	faces := make([]Face, len(tris))

	for i, tri := range tris {
		idx := make([]int, 3)
		for j, v := range tri {
			n, ok := seen[v]
			if !ok {
				n = len(vertices)
				seen[v] = n
				vertices = append(vertices, v)
			}
			idx[j] = n
		}
		faces[i] = Face{Indices: idx, Char: SolidChar}
	}
	return New(vertices, faces)
}
