package moelist

// Package file collection.go contains the accumulator of read archives.

// Collection accumulates the read archives of one or more batches.
// The zero value is an empty collection ready to use.
// A Collection is not safe for concurrent use.
type Collection struct {
	infos []Info
}

// Append adds the infos to the end of the collection.
func (c *Collection) Append(infos ...Info) {
	c.infos = append(c.infos, infos...)
}

// Add appends the infos of the batch result and returns its failures.
func (c *Collection) Add(res Result) []Failure {
	c.Append(res.Infos...)
	return res.Failures
}

// Clear empties the collection.
func (c *Collection) Clear() {
	c.infos = nil
}

// Infos returns a copy of the accumulated infos in the order they were added.
func (c *Collection) Infos() []Info {
	out := make([]Info, len(c.infos))
	copy(out, c.infos)
	return out
}

// Len returns the number of accumulated infos.
func (c *Collection) Len() int {
	return len(c.infos)
}
