// Package process defines the pipeline stage label carried by events and
// shot requests.
package process

// Point is one of the enumerated pipeline stages. Stage changes are not
// required to be monotonic; membership in the set is validated, ordering is
// not.
type Point string

const (
	Idle      Point = "idle"
	Ingest    Point = "ingest"
	Cull      Point = "cull"
	Color     Point = "color"
	Delivered Point = "delivered"
)

func Parse(s string) (Point, bool) {
	switch Point(s) {
	case Idle, Ingest, Cull, Color, Delivered:
		return Point(s), true
	}
	return "", false
}

func (p Point) Valid() bool {
	_, ok := Parse(string(p))
	return ok
}
