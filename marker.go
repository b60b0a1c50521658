package mdtokens

// IsTokenMarker reports whether n is a text node standing for a neutral token. It looks
// at the single-valued token field, not at attached tokens.
func IsTokenMarker(n *Node) bool {
	return n != nil && n.Shape() == ShapeText && n.Data != nil && n.Data.Token != ""
}

// MarkerID returns the identifier of a token marker, or "" when n is not one.
func MarkerID(n *Node) string {
	if !IsTokenMarker(n) {
		return ""
	}
	return n.Data.Token
}
