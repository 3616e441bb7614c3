package model

// CollectedAtLayout is the layout of every timestamp written to a dataset.
const CollectedAtLayout = "2006-01-02 15:04"

// Dataset names. Each name is the stem of the snapshot file (<name>.csv)
// and of the cumulative file (<name>_acumulado.csv).
const (
	DatasetPorts            = "portos"
	DatasetShipsInPort      = "navios_em_portos"
	DatasetExpectedArrivals = "chegadas_esperadas"
	DatasetShipsOfInterest  = "navios_interesse"
	DatasetErrors           = "navios_erro"
)

// Record is one extracted entity.
// Values returns the fields in the order of the dataset header.
type Record interface {
	Values() []Value
}

// PortHeader is the column header of the ports dataset.
var PortHeader = []string{
	"Pais", "Nome", "Codigo", "Tipo", "CoberturaAIS", "LinkBandeira",
	"LinkNaviosPorto", "LinkChegadasEsperadas", "LinkChegadas", "LinkPorto",
	"LinkFotos", "LinkMapaPorto", "DataColeta", "Id", "Longitude", "Latitude",
}

// Port is a port listed on the ports index.
type Port struct {
	Country             Value
	Name                Value
	Code                Value
	Type                Value
	AISCoverage         Value
	FlagLink            Value
	ShipsLink           Value
	ExpectedArrivalLink Value
	ArrivalsLink        Value
	PortLink            Value
	PhotosLink          Value
	MapLink             Value
	CollectedAt         Value

	// ID, Longitude and Latitude are derived from PortLink and MapLink.
	ID        Value
	Longitude Value
	Latitude  Value
}

// Values implements Record.
func (p Port) Values() []Value {
	return []Value{
		p.Country, p.Name, p.Code, p.Type, p.AISCoverage, p.FlagLink,
		p.ShipsLink, p.ExpectedArrivalLink, p.ArrivalsLink, p.PortLink,
		p.PhotosLink, p.MapLink, p.CollectedAt, p.ID, p.Longitude, p.Latitude,
	}
}

// ShipInPortHeader is the column header of the ships-in-port dataset.
var ShipInPortHeader = []string{
	"Porto", "Nome", "Tipo", "Pais", "Dimensoes", "Porte", "DataUltimoSinal",
	"DataChegada", "LinkNavio", "LinkBandeira", "LinkFotos", "DataColeta",
}

// ShipInPort is a vessel currently in one of the ports of interest.
type ShipInPort struct {
	Port         Value
	Name         Value
	Type         Value
	Country      Value
	Dimensions   Value
	Deadweight   Value
	LastSignalAt Value
	ArrivedAt    Value
	ShipLink     Value
	FlagLink     Value
	PhotosLink   Value
	CollectedAt  Value
}

// Values implements Record.
func (s ShipInPort) Values() []Value {
	return []Value{
		s.Port, s.Name, s.Type, s.Country, s.Dimensions, s.Deadweight,
		s.LastSignalAt, s.ArrivedAt, s.ShipLink, s.FlagLink, s.PhotosLink,
		s.CollectedAt,
	}
}

// ExpectedArrivalHeader is the column header of the expected-arrivals dataset.
var ExpectedArrivalHeader = []string{
	"Porto", "PortoOrigem", "Navio", "ETAInformado", "ETACalculado",
	"DataChegada", "LinkNavio", "LinkIconeTipoNavio", "LinkPosicaoNavio",
	"DataColeta", "Longitude", "Latitude",
}

// ExpectedArrival is a vessel announced as heading to a port of interest.
type ExpectedArrival struct {
	Port          Value
	OriginPort    Value
	Ship          Value
	ReportedETA   Value
	CalculatedETA Value
	ArrivedAt     Value
	ShipLink      Value
	TypeIconLink  Value
	PositionLink  Value
	CollectedAt   Value
	Longitude     Value
	Latitude      Value
}

// Values implements Record.
func (e ExpectedArrival) Values() []Value {
	return []Value{
		e.Port, e.OriginPort, e.Ship, e.ReportedETA, e.CalculatedETA,
		e.ArrivedAt, e.ShipLink, e.TypeIconLink, e.PositionLink,
		e.CollectedAt, e.Longitude, e.Latitude,
	}
}

// ShipOfInterestHeader is the column header of the ships-of-interest dataset.
var ShipOfInterestHeader = []string{
	"Nome", "IMO", "MMSI", "Indicativo", "Bandeira", "TipoAIS", "Tonelagem",
	"Porte", "Comp_Larg", "Ano", "Estado", "Tipo", "Latitude", "Longitude",
	"DataUltimoSinal", "AreaGeografica", "LinkPosicaoNavio", "LinkNavio",
	"DataColeta", "Comprimento", "Largura",
}

// ShipOfInterest holds the details page of one vessel.
type ShipOfInterest struct {
	Name         Value
	IMO          Value
	MMSI         Value
	CallSign     Value
	Flag         Value
	AISType      Value
	GrossTonnage Value
	Deadweight   Value
	LengthBeam   Value
	YearBuilt    Value
	Status       Value
	Type         Value
	Latitude     Value
	Longitude    Value
	LastSignalAt Value
	Area         Value
	PositionLink Value
	ShipLink     Value
	CollectedAt  Value

	// Length and Beam are split out of LengthBeam.
	Length Value
	Beam   Value
}

// Values implements Record.
func (s ShipOfInterest) Values() []Value {
	return []Value{
		s.Name, s.IMO, s.MMSI, s.CallSign, s.Flag, s.AISType, s.GrossTonnage,
		s.Deadweight, s.LengthBeam, s.YearBuilt, s.Status, s.Type, s.Latitude,
		s.Longitude, s.LastSignalAt, s.Area, s.PositionLink, s.ShipLink,
		s.CollectedAt, s.Length, s.Beam,
	}
}

// ErrorHeader is the column header of the error dataset.
var ErrorHeader = []string{"Erro", "URL"}

// ErrorRecord is a fetch that failed. It drops the affected seed only.
type ErrorRecord struct {
	Message string `json:"message"`
	URL     string `json:"url"`
}

// Values implements Record.
func (e ErrorRecord) Values() []Value {
	return []Value{Text(e.Message), Text(e.URL)}
}
