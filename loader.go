package gensvm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadDataFile reads a dataset from the text format used by the CLI
// tools: a header line with the instance and feature counts, then one
// line per instance holding the feature values, optionally followed by an
// integer class label.
func ReadDataFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	d, err := ReadData(f, path)
	if err != nil {
		return nil, err
	}
	d.File = path
	return d, nil
}

// ReadData parses a dataset from r. name is used in diagnostics only.
//
// Whether the data carries labels is decided by the first data line: m
// fields means unlabeled, m+1 fields means the last field is a label.
// Labels are shifted to 1-indexed if the minimum observed label is 0; a
// negative label or a shortfall of tokens is an error, never silently
// truncated or padded.
func ReadData(r io.Reader, name string) (*Dataset, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<22)

	header, ok := nextLine(sc)
	if !ok {
		return nil, fmt.Errorf("%s: missing header line: %w", name, ErrDataFormat)
	}
	dims := strings.Fields(header)
	if len(dims) < 2 {
		return nil, fmt.Errorf("%s: header %q, want \"n m\": %w", name, header, ErrDataFormat)
	}
	n, err := strconv.Atoi(dims[0])
	if err != nil {
		return nil, fmt.Errorf("%s: instance count %q: %w", name, dims[0], ErrDataFormat)
	}
	m, err := strconv.Atoi(dims[1])
	if err != nil {
		return nil, fmt.Errorf("%s: feature count %q: %w", name, dims[1], ErrDataFormat)
	}
	if n < 1 || m < 1 {
		return nil, fmt.Errorf("%s: dimensions %dx%d: %w", name, n, m, ErrDataFormat)
	}

	x := make([][]float64, n)
	var y []int
	hasLabels := false
	for i := 0; i < n; i++ {
		line, ok := nextLine(sc)
		if !ok {
			return nil, fmt.Errorf("%s: found %d data lines, want %d: %w", name, i, n, ErrDataFormat)
		}
		fields := strings.Fields(line)
		if i == 0 {
			switch len(fields) {
			case m:
			case m + 1:
				hasLabels = true
				y = make([]int, n)
			default:
				return nil, fmt.Errorf("%s: line 1 has %d values, want %d or %d: %w",
					name, len(fields), m, m+1, ErrDataFormat)
			}
		}
		want := m
		if hasLabels {
			want = m + 1
		}
		if len(fields) != want {
			return nil, fmt.Errorf("%s: line %d has %d values, want %d: %w",
				name, i+1, len(fields), want, ErrDataFormat)
		}
		row := make([]float64, m)
		for j := 0; j < m; j++ {
			v, err := strconv.ParseFloat(fields[j], 64)
			if err != nil {
				return nil, fmt.Errorf("%s: line %d value %q: %w", name, i+1, fields[j], ErrDataFormat)
			}
			row[j] = v
		}
		x[i] = row
		if hasLabels {
			// Labels may be written as floats; truncate like the readers
			// this format originated with.
			v, err := strconv.ParseFloat(fields[m], 64)
			if err != nil {
				return nil, fmt.Errorf("%s: line %d label %q: %w", name, i+1, fields[m], ErrDataFormat)
			}
			y[i] = int(v)
		}
	}

	d, err := NewDataset(x, y)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}

// nextLine returns the next non-blank line.
func nextLine(sc *bufio.Scanner) (string, bool) {
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			return line, true
		}
	}
	return "", false
}
