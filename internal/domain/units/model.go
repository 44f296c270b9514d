package units

// Rate is a directional conversion record:
// quantity_in_to = quantity_in_from * Rate.
type Rate struct {
	From string
	To   string
	Rate float64
}
