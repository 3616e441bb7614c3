package dataset

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/marinecrawl/internal/model"
)

// UpperName normalizes a port name for matching: trimmed and upper-cased
// with Unicode rules, so "São Sebastião" matches "SÃO SEBASTIÃO".
func UpperName(name string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(name))
}

// PortIndex resolves port names against a ports dataset.
type PortIndex struct {
	ports map[string]model.Port
}

// NewPortIndex indexes the ports dataset by upper-cased name.
// When a name appears twice, the first row wins.
func NewPortIndex(ds *model.Dataset) *PortIndex {
	idx := &PortIndex{ports: make(map[string]model.Port, ds.Len())}
	for i := range ds.Rows {
		p := portAt(ds, i)
		key := UpperName(p.Name.String())
		if key == "" {
			continue
		}
		if _, dup := idx.ports[key]; !dup {
			idx.ports[key] = p
		}
	}
	return idx
}

// Resolve returns the port whose name matches name, ignoring case.
func (x *PortIndex) Resolve(name string) (model.Port, bool) {
	p, ok := x.ports[UpperName(name)]
	return p, ok
}

// Len returns the number of indexed ports.
func (x *PortIndex) Len() int {
	return len(x.ports)
}

// portAt reads row i of a ports dataset by column name, so files written
// with a different column order still load.
func portAt(ds *model.Dataset, i int) model.Port {
	get := func(col string) model.Value {
		return ds.Get(i, col)
	}
	h := model.PortHeader
	return model.Port{
		Country:             get(h[0]),
		Name:                get(h[1]),
		Code:                get(h[2]),
		Type:                get(h[3]),
		AISCoverage:         get(h[4]),
		FlagLink:            get(h[5]),
		ShipsLink:           get(h[6]),
		ExpectedArrivalLink: get(h[7]),
		ArrivalsLink:        get(h[8]),
		PortLink:            get(h[9]),
		PhotosLink:          get(h[10]),
		MapLink:             get(h[11]),
		CollectedAt:         get(h[12]),
		ID:                  get(h[13]),
		Longitude:           get(h[14]),
		Latitude:            get(h[15]),
	}
}
