package mesh

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/klauspost/compress/gzip"
)

//go:embed assets/lowpolycow.stl.gz
var cowSTL []byte

// Cow decodes the embedded low-poly cow.
func Cow() (*Mesh, error) {
	return DecodeCompressedSTL(cowSTL)
}

// DecodeCompressedSTL decodes a gzip-compressed STL file.
func DecodeCompressedSTL(data []byte) (*Mesh, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open compressed stl: %w", err)
	}
	defer zr.Close()

	m, err := DecodeSTL(zr)
	if err != nil {
		return nil, fmt.Errorf("decode cow: %w", err)
	}
	return m, nil
}
