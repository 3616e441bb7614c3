package config

import "fmt"

// Selectors holds the CSS selectors and labels used to locate data on the
// site's pages. The defaults match the current markup. They can be
// overridden in the configuration file when the markup changes.
type Selectors struct {
	// Table locates the results table of a list page.
	Table string `yaml:"table,omitempty"`

	// NextDisabled matches the "next page" control when there is no next page.
	NextDisabled string `yaml:"nextDisabled,omitempty"`

	// NextLink matches the anchor of an enabled "next page" control.
	NextLink string `yaml:"nextLink,omitempty"`

	// ShipName locates the vessel name on a details page.
	ShipName string `yaml:"shipName,omitempty"`

	// ShipType locates the vessel type on a details page.
	ShipType string `yaml:"shipType,omitempty"`

	// ShipPosition locates the "lat° / lon°" position link on a details page.
	ShipPosition string `yaml:"shipPosition,omitempty"`

	// ShipPanelBox locates the vessel particulars panel. Only the first
	// match is read.
	ShipPanelBox string `yaml:"shipPanelBox,omitempty"`

	// ShipPanel locates the values inside the particulars panel, at any depth.
	ShipPanel string `yaml:"shipPanel,omitempty"`

	// LastSignalLabel is the text of the span labelling the last position report.
	LastSignalLabel string `yaml:"lastSignalLabel,omitempty"`

	// AreaLabel is the text of the span labelling the geographic area.
	AreaLabel string `yaml:"areaLabel,omitempty"`
}

// DefaultSelectors returns the selectors matching the site's markup.
func DefaultSelectors() Selectors {
	return Selectors{
		Table:           "table.table.table-hover.text-left",
		NextDisabled:    "span.next.disabled",
		NextLink:        "span.next a[href]",
		ShipName:        "h1.font-200.no-margin",
		ShipType:        "div.group-ib.vertical-offset-10",
		ShipPosition:    "a.details_data_link",
		ShipPanelBox:    "div.row.equal-height",
		ShipPanel:       "div.col-xs-6 b",
		LastSignalLabel: "Position Received",
		AreaLabel:       "Area:",
	}
}

// Merge returns a copy of s where every non-empty field of override wins.
func (s Selectors) Merge(override Selectors) Selectors {
	pick := func(base, over string) string {
		if over != "" {
			return over
		}
		return base
	}
	return Selectors{
		Table:           pick(s.Table, override.Table),
		NextDisabled:    pick(s.NextDisabled, override.NextDisabled),
		NextLink:        pick(s.NextLink, override.NextLink),
		ShipName:        pick(s.ShipName, override.ShipName),
		ShipType:        pick(s.ShipType, override.ShipType),
		ShipPosition:    pick(s.ShipPosition, override.ShipPosition),
		ShipPanelBox:    pick(s.ShipPanelBox, override.ShipPanelBox),
		ShipPanel:       pick(s.ShipPanel, override.ShipPanel),
		LastSignalLabel: pick(s.LastSignalLabel, override.LastSignalLabel),
		AreaLabel:       pick(s.AreaLabel, override.AreaLabel),
	}
}

// Validate reports the first empty selector.
func (s Selectors) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"table", s.Table},
		{"nextDisabled", s.NextDisabled},
		{"nextLink", s.NextLink},
		{"shipName", s.ShipName},
		{"shipType", s.ShipType},
		{"shipPosition", s.ShipPosition},
		{"shipPanelBox", s.ShipPanelBox},
		{"shipPanel", s.ShipPanel},
		{"lastSignalLabel", s.LastSignalLabel},
		{"areaLabel", s.AreaLabel},
	}
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("%w: %s", ErrEmptySelector, f.name)
		}
	}
	return nil
}
