package scene

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"debris-sandbox/math"
)

// LoadOBJ reads a Wavefront .obj file into a single TriangleMesh.
func LoadOBJ(path, name string) (*TriangleMesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj %q: %w", path, err)
	}
	defer f.Close()

	mesh, err := DecodeOBJ(f, name)
	if err != nil {
		return nil, fmt.Errorf("decode obj %q: %w", path, err)
	}
	return mesh, nil
}

// DecodeOBJ parses positions and faces from OBJ text. Every object and
// group is merged into one mesh; polygons are fan-triangulated. Normals,
// UVs and materials are ignored since colliders only need positions.
func DecodeOBJ(r io.Reader, name string) (*TriangleMesh, error) {
	var positions []math.Vec3
	var indices []uint32

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs 3 coordinates", lineNo)
			}
			var xyz [3]float32
			for i := 0; i < 3; i++ {
				f, err := strconv.ParseFloat(fields[i+1], 32)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				xyz[i] = float32(f)
			}
			positions = append(positions, math.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]})

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNo)
			}
			face := make([]uint32, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				idx, err := parseFaceVertex(tok, len(positions))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				face = append(face, idx)
			}
			// Fan triangulation: 0-1-2, 0-2-3, 0-3-4, ...
			for i := 1; i+1 < len(face); i++ {
				indices = append(indices, face[0], face[i], face[i+1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan obj: %w", err)
	}
	if len(indices) == 0 {
		return nil, ErrNoGeometry
	}

	return NewTriangleMesh(name, positions, indices), nil
}

// parseFaceVertex resolves the position part of a face token ("v", "v/vt",
// "v//vn", "v/vt/vn") to a 0-based index. OBJ indices are 1-based; negative
// indices count back from the most recent vertex.
func parseFaceVertex(tok string, count int) (uint32, error) {
	v := tok
	if i := strings.IndexByte(tok, '/'); i >= 0 {
		v = tok[:i]
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("face vertex %q: %w", tok, err)
	}
	switch {
	case n > 0:
		n--
	case n < 0:
		n += count
	default:
		return 0, fmt.Errorf("face vertex %q: index 0 is invalid", tok)
	}
	if n < 0 || n >= count {
		return 0, fmt.Errorf("face vertex %q: index out of range", tok)
	}
	return uint32(n), nil
}
