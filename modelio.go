package gensvm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"
)

// WriteModelFile writes the model to path in the text model format.
func WriteModelFile(m *Model, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteModel(m, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteModel writes the model in the text format read by ReadModel: a
// banner with a timestamp and UTC offset (cosmetic, skipped on read), the
// hyperparameters as "key = value" lines, the data dimensions, and V
// row-major with one row per line.
func WriteModel(m *Model, w io.Writer) error {
	bw := bufio.NewWriter(w)

	now := time.Now()
	_, off := now.Zone()
	hours := off / 3600
	mins := (off % 3600) / 60
	if mins < 0 {
		mins = -mins
	}
	fmt.Fprintf(bw, "Output file for GenSVM (version %s)\n", Version)
	fmt.Fprintf(bw, "Generated on: %s (UTC %+03d:%02d)\n", now.Format("Mon Jan  2 15:04:05 2006"), hours, mins)
	fmt.Fprintf(bw, "\n")
	fmt.Fprintf(bw, "Model:\n")
	fmt.Fprintf(bw, "p = %.16f\n", m.P)
	fmt.Fprintf(bw, "lambda = %.16f\n", m.Lambda)
	fmt.Fprintf(bw, "kappa = %.16f\n", m.Kappa)
	fmt.Fprintf(bw, "epsilon = %g\n", m.Epsilon)
	fmt.Fprintf(bw, "weight_idx = %d\n", m.WeightIdx)
	fmt.Fprintf(bw, "\n")
	fmt.Fprintf(bw, "Data:\n")
	fmt.Fprintf(bw, "filename = %s\n", m.DataFile)
	fmt.Fprintf(bw, "n = %d\n", m.N)
	fmt.Fprintf(bw, "m = %d\n", m.M)
	fmt.Fprintf(bw, "K = %d\n", m.K)
	fmt.Fprintf(bw, "\n")
	fmt.Fprintf(bw, "Output:\n")
	for i := 0; i < m.M+1; i++ {
		row := m.V.RawRowView(i)
		for _, v := range row {
			fmt.Fprintf(bw, "%+.16f ", v)
		}
		fmt.Fprintf(bw, "\n")
	}
	return bw.Flush()
}

// ReadModelFile reads a model written by WriteModelFile.
func ReadModelFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadModel(f, path)
}

// ReadModel parses a model from r. name is used in diagnostics only. The
// returned model carries the hyperparameters, dimensions and V; the
// optimizer buffers stay unallocated until the model is trained again.
func ReadModel(r io.Reader, name string) (*Model, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<22)

	// Banner and section header are not consumed for content.
	for i := 0; i < 4; i++ {
		if !sc.Scan() {
			return nil, fmt.Errorf("%s: truncated header: %w", name, ErrModelFormat)
		}
	}

	m := NewModel()
	var err error
	if m.P, err = readKeyFloat(sc, name, "p"); err != nil {
		return nil, err
	}
	if m.Lambda, err = readKeyFloat(sc, name, "lambda"); err != nil {
		return nil, err
	}
	if m.Kappa, err = readKeyFloat(sc, name, "kappa"); err != nil {
		return nil, err
	}
	if m.Epsilon, err = readKeyFloat(sc, name, "epsilon"); err != nil {
		return nil, err
	}
	widx, err := readKeyInt(sc, name, "weight_idx")
	if err != nil {
		return nil, err
	}
	m.WeightIdx = widx

	// Blank line and "Data:" header.
	for i := 0; i < 2; i++ {
		if !sc.Scan() {
			return nil, fmt.Errorf("%s: truncated data section: %w", name, ErrModelFormat)
		}
	}
	file, err := readKeyValue(sc, name, "filename")
	if err != nil {
		return nil, err
	}
	m.DataFile = file
	if m.N, err = readKeyInt(sc, name, "n"); err != nil {
		return nil, err
	}
	if m.M, err = readKeyInt(sc, name, "m"); err != nil {
		return nil, err
	}
	if m.K, err = readKeyInt(sc, name, "K"); err != nil {
		return nil, err
	}
	if m.K < 2 {
		return nil, fmt.Errorf("%s: K = %d: %w", name, m.K, ErrClassCount)
	}
	if m.M < 1 {
		return nil, fmt.Errorf("%s: m = %d: %w", name, m.M, ErrModelFormat)
	}

	// Blank line and "Output:" header.
	for i := 0; i < 2; i++ {
		if !sc.Scan() {
			return nil, fmt.Errorf("%s: truncated output section: %w", name, ErrModelFormat)
		}
	}

	want := (m.M + 1) * (m.K - 1)
	vals := make([]float64, 0, want)
	for len(vals) < want && sc.Scan() {
		for _, field := range strings.Fields(sc.Text()) {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: V value %q: %w", name, field, ErrModelFormat)
			}
			vals = append(vals, v)
		}
	}
	if len(vals) < want {
		return nil, fmt.Errorf("%s: found %d elements of V, want %d: %w",
			name, len(vals), want, ErrModelFormat)
	}
	m.V = mat.NewDense(m.M+1, m.K-1, vals[:want])
	return m, nil
}

func readKeyValue(sc *bufio.Scanner, name, key string) (string, error) {
	if !sc.Scan() {
		return "", fmt.Errorf("%s: missing %q line: %w", name, key, ErrModelFormat)
	}
	k, v, found := strings.Cut(sc.Text(), "=")
	if !found || strings.TrimSpace(k) != key {
		return "", fmt.Errorf("%s: got %q, want \"%s = ...\": %w", name, sc.Text(), key, ErrModelFormat)
	}
	return strings.TrimSpace(v), nil
}

func readKeyFloat(sc *bufio.Scanner, name, key string) (float64, error) {
	s, err := readKeyValue(sc, name, key)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %s = %q: %w", name, key, s, ErrModelFormat)
	}
	return v, nil
}

func readKeyInt(sc *bufio.Scanner, name, key string) (int, error) {
	s, err := readKeyValue(sc, name, key)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %s = %q: %w", name, key, s, ErrModelFormat)
	}
	return v, nil
}
