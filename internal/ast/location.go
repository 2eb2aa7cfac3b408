package ast

import "fmt"

// Location is a position in source text. Rows start at 1, columns at 0.
type Location struct {
	Row    int
	Column int
}

// NewLocation returns the location at row and column.
func NewLocation(row, column int) Location {
	return Location{Row: row, Column: column}
}

// Compare orders locations by row, then column.
func (l Location) Compare(other Location) int {
	switch {
	case l.Row < other.Row:
		return -1
	case l.Row > other.Row:
		return 1
	case l.Column < other.Column:
		return -1
	case l.Column > other.Column:
		return 1
	}
	return 0
}

func (l Location) Before(other Location) bool { return l.Compare(other) < 0 }

// WithColOffset shifts the column by offset, clamping at zero.
func (l Location) WithColOffset(offset int) Location {
	col := l.Column + offset
	if col < 0 {
		col = 0
	}
	return Location{Row: l.Row, Column: col}
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Row, l.Column)
}

// Span carries the start and the optional end of a node. A nil end marks a
// synthetic node whose extent is unknown.
type Span struct {
	Location    Location
	EndLocation *Location
}

func NewSpan(start, end Location) Span {
	return Span{Location: start, EndLocation: &end}
}

func (s Span) Start() Location { return s.Location }

// End returns the end location and whether it is known.
func (s Span) End() (Location, bool) {
	if s.EndLocation == nil {
		return Location{}, false
	}
	return *s.EndLocation, true
}
