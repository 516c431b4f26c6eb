package display

// Rows is an inclusive span of panel rows. A span with Last < First is empty.
type Rows struct {
	First, Last int
}

// NoRows is the empty span.
var NoRows = Rows{First: 0, Last: -1}

// AllRows covers the whole panel.
var AllRows = Rows{First: 0, Last: Height - 1}

func (r Rows) Empty() bool { return r.Last < r.First }

// Len returns the number of rows in the span.
func (r Rows) Len() int {
	if r.Empty() {
		return 0
	}
	return r.Last - r.First + 1
}

// Contains reports whether row y lies in the span.
func (r Rows) Contains(y int) bool { return !r.Empty() && y >= r.First && y <= r.Last }

// Union returns the smallest span covering both r and o.
func (r Rows) Union(o Rows) Rows {
	switch {
	case r.Empty():
		return o
	case o.Empty():
		return r
	}
	if o.First < r.First {
		r.First = o.First
	}
	if o.Last > r.Last {
		r.Last = o.Last
	}
	return r
}

// Add extends the span to include row y.
func (r Rows) Add(y int) Rows { return r.Union(Rows{First: y, Last: y}) }
