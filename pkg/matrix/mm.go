package matrix

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ccoveille/go-safecast/v2"
)

// Header is the size line of a MatrixMarket coordinate file.
type Header struct {
	Rows    uint
	Cols    uint
	Entries uint64
}

// ReadMatrixMarket reads a MatrixMarket coordinate file into a square matrix
// of at least n by n. Entries are 1-based and any value column is ignored;
// every listed entry is true. The returned header is the file's size line,
// whose entry count is the label's size estimate.
func ReadMatrixMarket(r io.Reader, n uint) (*Matrix, Header, error) {
	scanner := bufio.NewScanner(r)
	lineNo := 0

	var (
		header    Header
		m         *Matrix
		seenSizes bool
	)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}

		fields := strings.Fields(line)
		if !seenSizes {
			if len(fields) < 3 {
				return nil, Header{}, fmt.Errorf("line %d: expected `rows cols entries`, found %q", lineNo, line)
			}
			rows, err := parseDim(fields[0])
			if err != nil {
				return nil, Header{}, fmt.Errorf("line %d: invalid row count: %w", lineNo, err)
			}
			cols, err := parseDim(fields[1])
			if err != nil {
				return nil, Header{}, fmt.Errorf("line %d: invalid column count: %w", lineNo, err)
			}
			entries, err := strconv.ParseUint(fields[2], 10, 64)
			if err != nil {
				return nil, Header{}, fmt.Errorf("line %d: invalid entry count: %w", lineNo, err)
			}

			header = Header{Rows: rows, Cols: cols, Entries: entries}
			size := max(n, rows, cols)
			m = New(size, size)
			seenSizes = true
			continue
		}

		if len(fields) < 2 {
			return nil, Header{}, fmt.Errorf("line %d: expected `row col [value]`, found %q", lineNo, line)
		}
		i, err := parseIndex(fields[0])
		if err != nil {
			return nil, Header{}, fmt.Errorf("line %d: invalid row: %w", lineNo, err)
		}
		j, err := parseIndex(fields[1])
		if err != nil {
			return nil, Header{}, fmt.Errorf("line %d: invalid column: %w", lineNo, err)
		}
		if err := m.Set(i, j); err != nil {
			return nil, Header{}, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, Header{}, err
	}
	if !seenSizes {
		return nil, Header{}, errors.New("missing size line")
	}
	return m, header, nil
}

func parseDim(s string) (uint, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return safecast.Convert[uint](v)
}

func parseIndex(s string) (uint, error) {
	v, err := parseDim(s)
	if err != nil {
		return 0, err
	}
	if v == 0 {
		return 0, errors.New("indexes are 1-based, found 0")
	}
	return v - 1, nil
}
