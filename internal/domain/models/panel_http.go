package models

// Requests and responses for the panel HTTP endpoints. Defined in domain for consistency and reuse.

type PanelRequest struct {
	Symbols string `query:"symbols" json:"symbols" validate:"required"` // comma separated
}

type SeriesRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
}

type PanelResponse struct {
	Calendar []string                 `json:"calendar"`
	Series   map[string][]Observation `json:"series"`
}

type SeriesResponse struct {
	Symbol   string        `json:"symbol"`
	Calendar []string      `json:"calendar"`
	Values   []Observation `json:"values"`
}

type IntegrityResponse struct {
	Valid bool `json:"valid"`
}
