package primecode

// Sink receives a dictionary while it is being built, so callers can persist
// it incrementally instead of holding a second copy.
//
// WriteLayer is called once per layer, in ascending order, as soon as the
// layer is closed. WriteInverse is called once per code, in assignment order,
// after the last layer. An error from either aborts Build.
type Sink interface {
	WriteLayer(layer *Layer) error
	WriteInverse(code string, symbol rune) error
}
