package components

// Food is a passive point resource.
type Food struct {
	Position
}

// Location implements Located.
func (f Food) Location() Position { return f.Position }
