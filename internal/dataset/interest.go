package dataset

import (
	"fmt"
	"strings"
)

// InterestColumn is the column of the interest file holding port names.
const InterestColumn = "Nome"

// InterestFilter is the user maintained list of ports to crawl.
// It is read-only: the crawler never writes it.
type InterestFilter struct {
	// Path is the file the filter was read from.
	Path string

	// Names are the port names in file order, trimmed and without blanks.
	Names []string
}

// LoadInterestFilter reads the interest file: ';' separated, UTF-8 or
// Latin-1, with a Nome column. Everything from '#' to the end of a line is
// a comment.
func LoadInterestFilter(path string) (*InterestFilter, error) {
	records, err := readCSV(path, '#')
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, absPath(path))
	}

	col := -1
	for i, h := range records[0] {
		if strings.TrimSpace(h) == InterestColumn {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("%w %q in %s", ErrMissingColumn, InterestColumn, absPath(path))
	}

	filter := &InterestFilter{Path: path, Names: make([]string, 0, len(records)-1)}
	for _, rec := range records[1:] {
		if col >= len(rec) {
			continue
		}
		if name := strings.TrimSpace(rec[col]); name != "" {
			filter.Names = append(filter.Names, name)
		}
	}
	return filter, nil
}
