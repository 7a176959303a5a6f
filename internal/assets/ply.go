package assets

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Faultbox/darkdescent/pkg/math"
)

type plyElement struct {
	name  string
	count int
	props []string
	list  bool // face element carries a list property
}

// DecodePLY reads an ASCII PLY mesh. Vertex elements must carry x, y and z
// properties; other scalar properties are skipped. Face elements carry one
// index list per line.
func DecodePLY(r io.Reader, source string) (*Mesh, error) {
	sc := bufio.NewScanner(r)
	line := 0
	next := func() (string, bool) {
		for sc.Scan() {
			line++
			if s := strings.TrimSpace(sc.Text()); s != "" {
				return s, true
			}
		}
		return "", false
	}

	if s, ok := next(); !ok || s != "ply" {
		return nil, formatErr(source, line, "missing ply magic")
	}

	var elems []*plyElement
	for {
		s, ok := next()
		if !ok {
			return nil, formatErr(source, line, "unexpected end of header")
		}
		fields := strings.Fields(s)
		switch fields[0] {
		case "format":
			if len(fields) < 2 || fields[1] != "ascii" {
				return nil, formatErr(source, line, "unsupported format %q", strings.Join(fields[1:], " "))
			}
		case "comment", "obj_info":
		case "element":
			if len(fields) != 3 {
				return nil, formatErr(source, line, "bad element line")
			}
			n, err := strconv.Atoi(fields[2])
			if err != nil || n < 0 {
				return nil, formatErr(source, line, "bad element count %q", fields[2])
			}
			elems = append(elems, &plyElement{name: fields[1], count: n})
		case "property":
			if len(elems) == 0 {
				return nil, formatErr(source, line, "property before element")
			}
			el := elems[len(elems)-1]
			if len(fields) >= 2 && fields[1] == "list" {
				el.list = true
			}
			el.props = append(el.props, fields[len(fields)-1])
		case "end_header":
			return decodePLYBody(next, elems, source, &line)
		default:
			return nil, formatErr(source, line, "unknown header keyword %q", fields[0])
		}
	}
}

func decodePLYBody(next func() (string, bool), elems []*plyElement, source string, line *int) (*Mesh, error) {
	mesh := &Mesh{}

	for _, el := range elems {
		axes := [3]int{-1, -1, -1}
		if el.name == "vertex" {
			for i, p := range el.props {
				switch p {
				case "x":
					axes[0] = i
				case "y":
					axes[1] = i
				case "z":
					axes[2] = i
				}
			}
			if axes[0] < 0 || axes[1] < 0 || axes[2] < 0 {
				return nil, formatErr(source, *line, "vertex element lacks x, y or z")
			}
		}

		for range el.count {
			s, ok := next()
			if !ok {
				return nil, formatErr(source, *line, "expected %d %s entries", el.count, el.name)
			}
			fields := strings.Fields(s)

			switch {
			case el.name == "vertex":
				var v [3]float64
				for a, idx := range axes {
					if idx >= len(fields) {
						return nil, formatErr(source, *line, "short vertex line")
					}
					f, err := strconv.ParseFloat(fields[idx], 64)
					if err != nil {
						return nil, formatErr(source, *line, "bad coordinate %q", fields[idx])
					}
					v[a] = f
				}
				mesh.Vertices = append(mesh.Vertices, math.Vec3{X: v[0], Y: v[1], Z: v[2]})

			case el.name == "face" && el.list:
				n, err := strconv.Atoi(fields[0])
				if err != nil || n < 0 || len(fields) < n+1 {
					return nil, formatErr(source, *line, "bad face list")
				}
				face := make([]int, n)
				for i := range n {
					if face[i], err = strconv.Atoi(fields[i+1]); err != nil {
						return nil, formatErr(source, *line, "bad face index %q", fields[i+1])
					}
				}
				mesh.Faces = append(mesh.Faces, face)
			}
		}
	}

	return mesh, nil
}

// EncodePLY writes the mesh as ASCII PLY. Coordinates use the shortest
// representation that parses back to the same float64.
func EncodePLY(w io.Writer, m *Mesh) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "ply\nformat ascii 1.0\ncomment %s\n", m.Name)
	fmt.Fprintf(bw, "element vertex %d\nproperty double x\nproperty double y\nproperty double z\n", len(m.Vertices))
	fmt.Fprintf(bw, "element face %d\nproperty list uchar int vertex_indices\nend_header\n", len(m.Faces))

	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "%s %s %s\n",
			strconv.FormatFloat(v.X, 'g', -1, 64),
			strconv.FormatFloat(v.Y, 'g', -1, 64),
			strconv.FormatFloat(v.Z, 'g', -1, 64))
	}
	for _, f := range m.Faces {
		bw.WriteString(strconv.Itoa(len(f)))
		for _, idx := range f {
			bw.WriteByte(' ')
			bw.WriteString(strconv.Itoa(idx))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
