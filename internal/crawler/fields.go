package crawler

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/marinecrawl/internal/fetch"
	"github.com/nao1215/marinecrawl/internal/model"
)

var (
	// coordinatesPattern reads the map position of a link such as
	// ".../centerx:-43.2/centery:-22.9/zoom:10".
	coordinatesPattern = regexp.MustCompile(`centerx:(?P<Longitude>-?\d{0,3}\.?\d*)/centery:(?P<Latitude>-?\d{0,3}\.?\d*)`)

	// portIDPattern reads the numeric id of a port details link.
	portIDPattern = regexp.MustCompile(`ports/(\d+)/`)

	// lengthPattern and beamPattern split "183.2m × 32.2m" into its parts.
	lengthPattern = regexp.MustCompile(`(\d{0,4}(?:[.,]\d{1,3})?)m`)
	beamPattern   = regexp.MustCompile(`(\d{0,4}(?:[.,]\d{1,3})?)m$`)

	// lastSignalPattern reads the timestamp of a "Position Received" value.
	lastSignalPattern = regexp.MustCompile(`\d{4}-\d\d-\d\d\s\d\d:\d\d`)
)

// Text returns the trimmed text of a cell. Empty text and the "-"
// placeholder are null.
func Text(cell *goquery.Selection) model.Value {
	if cell.Length() == 0 {
		return model.Null()
	}
	return model.Token(cell.Text())
}

// Attr returns an attribute of the first element matching selector inside
// cell. An empty selector reads the cell itself.
func Attr(cell *goquery.Selection, selector, attr string) model.Value {
	target := cell
	if selector != "" {
		target = cell.Find(selector)
	}
	v, ok := target.First().Attr(attr)
	if !ok {
		return model.Null()
	}
	return model.Token(v)
}

// Link returns the resolved href of the first anchor inside cell.
func Link(doc *Document, cell *goquery.Selection) model.Value {
	href, ok := cell.Find("a[href]").First().Attr("href")
	if !ok {
		return model.Null()
	}
	return doc.Resolve(href)
}

// AnchorText returns the text of the first anchor inside cell.
func AnchorText(cell *goquery.Selection) model.Value {
	a := cell.Find("a").First()
	if a.Length() == 0 {
		return model.Null()
	}
	return model.Token(a.Text())
}

// FlagImage returns the title and resolved source of the flag image in cell.
// A missing image makes both null.
func FlagImage(doc *Document, cell *goquery.Selection) (country, link model.Value) {
	img := cell.Find("img").First()
	if img.Length() == 0 {
		return model.Null(), model.Null()
	}
	title, _ := img.Attr("title")
	src, _ := img.Attr("src")
	return model.Token(title), doc.Resolve(src)
}

// Epoch reads an epoch-seconds timestamp nested in cell and formats it as
// "YYYY-MM-DD HH:MM" UTC. The value is taken from the first data-time
// attribute, or else from the text of the first <time> element.
// A missing or non-numeric value is null.
func Epoch(cell *goquery.Selection) model.Value {
	if v, ok := cell.Find("[data-time]").First().Attr("data-time"); ok {
		return FormatEpoch(v)
	}
	if t := cell.Find("time").First(); t.Length() > 0 {
		return FormatEpoch(t.Text())
	}
	return model.Null()
}

// FormatEpoch converts epoch seconds to "YYYY-MM-DD HH:MM" UTC.
func FormatEpoch(s string) model.Value {
	secs, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return model.Null()
	}
	return model.Text(time.Unix(secs, 0).UTC().Format(model.CollectedAtLayout))
}

// Coordinates reads longitude and latitude from a map link, with decimal
// commas. A link without a position yields two nulls.
func Coordinates(link model.Value) (longitude, latitude model.Value) {
	s, ok := link.Get()
	if !ok {
		return model.Null(), model.Null()
	}
	m := coordinatesPattern.FindStringSubmatch(s)
	if m == nil {
		return model.Null(), model.Null()
	}
	lon := m[coordinatesPattern.SubexpIndex("Longitude")]
	lat := m[coordinatesPattern.SubexpIndex("Latitude")]
	return model.Token(lon).DecimalComma(), model.Token(lat).DecimalComma()
}

// PositionText splits a "lat° / lon°" position into latitude and longitude
// with decimal commas.
func PositionText(v model.Value) (latitude, longitude model.Value) {
	s, ok := v.Get()
	if !ok {
		return model.Null(), model.Null()
	}
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return model.Null(), model.Null()
	}
	clean := func(p string) model.Value {
		return model.Token(strings.ReplaceAll(p, "°", "")).DecimalComma()
	}
	return clean(parts[0]), clean(parts[1])
}

// PortID reads the numeric id of a port details link.
func PortID(link model.Value) model.Value {
	s, ok := link.Get()
	if !ok {
		return model.Null()
	}
	m := portIDPattern.FindStringSubmatch(s)
	if m == nil {
		return model.Null()
	}
	return model.Text(m[1])
}

// SplitLengthBeam splits a "length × beam" value such as "183.2m × 32.2m"
// into length and beam with decimal commas.
func SplitLengthBeam(v model.Value) (length, beam model.Value) {
	s, ok := v.Get()
	if !ok {
		return model.Null(), model.Null()
	}
	length, beam = model.Null(), model.Null()
	if m := lengthPattern.FindStringSubmatch(s); m != nil {
		length = model.Token(m[1]).DecimalComma()
	}
	if m := beamPattern.FindStringSubmatch(s); m != nil {
		beam = model.Token(m[1]).DecimalComma()
	}
	return length, beam
}

// StripUnit removes a unit suffix such as " t" from a value.
func StripUnit(v model.Value, unit string) model.Value {
	return v.Map(func(s string) string {
		return strings.TrimSpace(strings.ReplaceAll(s, unit, ""))
	})
}

// LastSignal extracts the "YYYY-MM-DD HH:MM" timestamp of a position report.
func LastSignal(v model.Value) model.Value {
	s, ok := v.Get()
	if !ok {
		return model.Null()
	}
	return model.Token(lastSignalPattern.FindString(s))
}

// MatchesType reports whether text contains keyword, ignoring case.
// An empty keyword matches everything.
func MatchesType(text model.Value, keyword string) bool {
	if keyword == "" {
		return true
	}
	return strings.Contains(strings.ToLower(text.String()), strings.ToLower(keyword))
}

// HasIcon reports whether an icon link points at icon.
func HasIcon(link model.Value, icon string) bool {
	s, ok := link.Get()
	return ok && strings.Contains(s, icon)
}

// ErrorMessage builds the message of an error record. subject names what was
// being fetched, as in "do navio" or "da página".
func ErrorMessage(err error, subject, pageURL string) string {
	var statusErr *fetch.StatusError
	if errors.As(err, &statusErr) {
		return fmt.Sprintf("Erro código HTTP %d ao obter dados %s %s.", statusErr.StatusCode, subject, pageURL)
	}
	return fmt.Sprintf("Erro ao obter dados %s %s: %v", subject, pageURL, err)
}
