package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/nao1215/marinecrawl/internal/model"
)

const (
	// Separator is the field separator of every dataset file.
	Separator = ';'

	// cumulativeSuffix is appended to the file stem of the cumulative file.
	cumulativeSuffix = "_acumulado"

	// utf8BOM is skipped at the start of input files.
	utf8BOM = "\ufeff"
)

// Store reads and writes datasets under a directory.
//
// Every dataset has two files: <name>.csv, the snapshot overwritten by each
// run, and <name>_acumulado.csv, the cumulative log appended by each run.
// Each append starts with a header line, so the cumulative file is a
// sequence of snapshots.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore creates a Store rooted at dir. A nil logger uses slog.Default().
func NewStore(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, logger: logger}
}

// Dir returns the directory of the store.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the snapshot path of the named dataset.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+".csv")
}

// CumulativePath returns the cumulative path matching a snapshot path.
func CumulativePath(snapshot string) string {
	ext := filepath.Ext(snapshot)
	return strings.TrimSuffix(snapshot, ext) + cumulativeSuffix + ext
}

// Save writes ds to its snapshot file and appends it to its cumulative file.
func (s *Store) Save(ds *model.Dataset) error {
	return s.SaveFile(s.Path(ds.Name), ds)
}

// SaveFile writes ds to the snapshot file at path and appends it to the
// matching cumulative file. Missing parent directories are created.
func (s *Store) SaveFile(path string, ds *model.Dataset) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create dataset directory: %w", err)
		}
	}

	data, err := encode(ds)
	if err != nil {
		return fmt.Errorf("failed to encode dataset %s: %w", ds.Name, err)
	}

	cumulative := CumulativePath(path)
	if err := appendFile(cumulative, data); err != nil {
		return fmt.Errorf("failed to append %s: %w", cumulative, err)
	}
	s.logger.Info("dataset file written", "path", cumulative, "rows", ds.Len())

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	s.logger.Info("dataset file written", "path", path, "rows", ds.Len())
	return nil
}

// Load reads the snapshot of the named dataset.
func (s *Store) Load(name string) (*model.Dataset, error) {
	ds, err := LoadFile(s.Path(name))
	if err != nil {
		return nil, err
	}
	ds.Name = name
	return ds, nil
}

// LoadFile reads a dataset file. The file may be UTF-8 or Latin-1.
// Empty fields are read as null.
func LoadFile(path string) (*model.Dataset, error) {
	records, err := readCSV(path, 0)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, absPath(path))
	}

	ds := &model.Dataset{
		Name:   strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Header: records[0],
		Rows:   make([][]model.Value, 0, len(records)-1),
	}
	for _, rec := range records[1:] {
		row := make([]model.Value, len(ds.Header))
		for i := range ds.Header {
			if i < len(rec) && rec[i] != "" {
				row[i] = model.Text(rec[i])
			}
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

// encode renders a dataset as CSV with a header line.
func encode(ds *model.Dataset) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = Separator

	if err := w.Write(ds.Header); err != nil {
		return nil, err
	}
	line := make([]string, len(ds.Header))
	for _, row := range ds.Rows {
		for i := range line {
			line[i] = ""
			if i < len(row) {
				line[i] = row[i].String()
			}
		}
		if err := w.Write(line); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func appendFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec // Dataset path comes from configuration
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close() //nolint:errcheck // write error takes precedence
		return err
	}
	return f.Close()
}

// readCSV reads a ';' separated file, decoding Latin-1 when the content is
// not valid UTF-8. A non-zero comment rune cuts every line at its first
// occurrence, so whole-line and trailing comments are both dropped.
func readCSV(path string, comment rune) ([][]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Dataset path comes from configuration
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, absPath(path))
		}
		return nil, err
	}

	var r io.Reader = bytes.NewReader(bytes.TrimPrefix(data, []byte(utf8BOM)))
	if !utf8.Valid(data) {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}

	if comment != 0 {
		text, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		r = strings.NewReader(stripComments(string(text), comment))
	}

	cr := csv.NewReader(r)
	cr.Comma = Separator
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr.ReadAll()
}

func stripComments(text string, comment rune) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if cut := strings.IndexRune(line, comment); cut >= 0 {
			lines[i] = line[:cut]
		}
	}
	return strings.Join(lines, "\n")
}

// absPath returns the absolute form of path for messages.
func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
