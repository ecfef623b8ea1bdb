package tetmesh

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/tetlattice/types"
)

// ReadOptions controls how the lines around the records are treated
type ReadOptions struct {
	// Footer drops the last non-blank line even when it is not a comment
	Footer bool
}

// MeshOptions holds the read options of the node and element files
type MeshOptions struct {
	Nodes    ReadOptions
	Elements ReadOptions
}

// record is one data line with its 1-based position in the file
type record struct {
	line   int
	fields []string
}

// readRecords splits a mesh file into header and data records. Blank lines
// and '#' comment lines are skipped.
func readRecords(r io.Reader, opts ReadOptions) (header string, recs []record, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	var (
		lineNo     int
		haveHeader bool
	)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if !haveHeader {
			header, haveHeader = line, true
			continue
		}
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}
		recs = append(recs, record{line: lineNo, fields: strings.Fields(line)})
	}
	if err = scanner.Err(); err != nil {
		return
	}
	if opts.Footer && len(recs) != 0 {
		recs = recs[:len(recs)-1]
	}
	return
}

func parseID(name string, rec record) error {
	if _, err := strconv.Atoi(rec.fields[0]); err != nil {
		return &types.ParseError{File: name, Line: rec.line,
			Reason: fmt.Sprintf("record id %q is not an integer", rec.fields[0])}
	}
	return nil
}

// ParseNodes reads "<id> <x> <y> <z>" records after a header line
func ParseNodes(r io.Reader, name string, opts ReadOptions) (nodes []r3.Vec, err error) {
	var (
		recs []record
	)
	if _, recs, err = readRecords(r, opts); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	nodes = make([]r3.Vec, len(recs))
	for i, rec := range recs {
		if len(rec.fields) != 4 {
			return nil, &types.ParseError{File: name, Line: rec.line,
				Reason: fmt.Sprintf("node record needs 4 tokens (id x y z), got %d", len(rec.fields))}
		}
		if err = parseID(name, rec); err != nil {
			return nil, err
		}
		var xyz [3]float64
		for j := range xyz {
			if xyz[j], err = strconv.ParseFloat(rec.fields[1+j], 64); err != nil {
				return nil, &types.ParseError{File: name, Line: rec.line,
					Reason: fmt.Sprintf("coordinate %q is not a number", rec.fields[1+j])}
			}
		}
		nodes[i] = r3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}
	}
	return nodes, nil
}

// ParseElements reads "<id> <v0> <v1> <v2> <v3> [<attr>]" records after a
// header line. Vertex references are 1-based in the file and 0-based in the
// result. The attribute column is not parsed.
func ParseElements(r io.Reader, name string, opts ReadOptions) (elements []Element, err error) {
	var (
		recs []record
	)
	if _, recs, err = readRecords(r, opts); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	elements = make([]Element, len(recs))
	for i, rec := range recs {
		if len(rec.fields) != 5 && len(rec.fields) != 6 {
			return nil, &types.ParseError{File: name, Line: rec.line,
				Reason: fmt.Sprintf("element record needs 5 or 6 tokens (id v0 v1 v2 v3 [attr]), got %d", len(rec.fields))}
		}
		if err = parseID(name, rec); err != nil {
			return nil, err
		}
		for j := 0; j < 4; j++ {
			var v int
			if v, err = strconv.Atoi(rec.fields[1+j]); err != nil {
				return nil, &types.ParseError{File: name, Line: rec.line,
					Reason: fmt.Sprintf("vertex reference %q is not an integer", rec.fields[1+j])}
			}
			if v < 1 {
				return nil, &types.ParseError{File: name, Line: rec.line,
					Reason: fmt.Sprintf("vertex reference %d is not a 1-based node id", v)}
			}
			elements[i][j] = v - 1 // Convert to 0-based indexing
		}
	}
	return elements, nil
}

func header(r io.Reader) string {
	h, _, _ := readRecords(r, ReadOptions{})
	return h
}

// ReadNodeFile reads a node file
func ReadNodeFile(filename string, opts ReadOptions) ([]r3.Vec, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ParseNodes(file, filename, opts)
}

// ReadElementFile reads an element file
func ReadElementFile(filename string, opts ReadOptions) ([]Element, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ParseElements(file, filename, opts)
}

// ReadMesh reads a node file and an element file into a validated mesh
func ReadMesh(nodeFile, elementFile string, opts MeshOptions) (*Mesh, error) {
	nodeData, err := os.ReadFile(nodeFile)
	if err != nil {
		return nil, err
	}
	elemData, err := os.ReadFile(elementFile)
	if err != nil {
		return nil, err
	}
	return parseMesh(nodeData, elemData, nodeFile, elementFile, opts)
}

// ParseMesh builds a validated mesh from the contents of a node file and an
// element file
func ParseMesh(nodeData, elemData []byte, opts MeshOptions) (*Mesh, error) {
	return parseMesh(nodeData, elemData, "nodes", "elements", opts)
}

func parseMesh(nodeData, elemData []byte, nodeName, elemName string, opts MeshOptions) (msh *Mesh, err error) {
	msh = &Mesh{
		NodeHeader:    header(bytes.NewReader(nodeData)),
		ElementHeader: header(bytes.NewReader(elemData)),
	}
	if msh.Nodes, err = ParseNodes(bytes.NewReader(nodeData), nodeName, opts.Nodes); err != nil {
		return nil, err
	}
	if msh.Elements, err = ParseElements(bytes.NewReader(elemData), elemName, opts.Elements); err != nil {
		return nil, err
	}
	if err = msh.Validate(); err != nil {
		return nil, &types.ParseError{File: elemName, Reason: err.Error()}
	}
	return msh, nil
}
