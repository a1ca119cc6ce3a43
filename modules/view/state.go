package view

//go:generate go tool github.com/dmarkham/enumer -type=State -output state_enums.go -json

// State is the page-load pipeline position. Terminal states are Done and
// Error; there are no retries, a failed load needs a fresh navigation.
type State int

const (
	Init State = iota
	ResolvingURI
	Querying
	Parsing
	Rendering
	GeometryCheck
	RelatedLookup
	Done
	Error
)
