package domain

// Gender values accepted by the search
const (
	GenderMen   = "men"
	GenderWomen = "women"
)

// MaxShoeResults caps the number of cards returned per search
const MaxShoeResults = 5

// SearchRequest represents a shoe search request
type SearchRequest struct {
	Query  string `json:"query" form:"query"`
	Size   string `json:"size,omitempty" form:"size"`
	Gender string `json:"gender,omitempty" form:"gender"`
}

// InterpretedQuery is the normalized form of a raw query.
// An empty Size means no size was resolved.
type InterpretedQuery struct {
	Terms []string `json:"terms"`
	Size  string   `json:"size,omitempty"`
}

// ShoeResult is a single product card
type ShoeResult struct {
	Name   string `json:"name"`
	Price  string `json:"price"`
	Image  string `json:"image"`
	URL    string `json:"url"`
	Size   string `json:"size,omitempty"`
	Handle string `json:"handle"`
}

// SearchResponse is the result of a shoe search. Failures are reported in
// Error rather than returned as Go errors.
type SearchResponse struct {
	Query      string       `json:"query"`
	Size       string       `json:"size"`
	Gender     string       `json:"gender"`
	Shoes      []ShoeResult `json:"shoes"`
	TotalFound int          `json:"totalFound"`
	Error      *string      `json:"error"`
}

// Failed reports whether the search ended on the error path
func (r *SearchResponse) Failed() bool {
	return r.Error != nil
}
