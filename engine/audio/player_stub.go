//go:build tinygo || !cgo

package audio

// NewPlayer is unavailable without cgo; the audio device backend needs it.
func NewPlayer(data []byte, options ...PlayerBuilderOption) (Player, error) {
	if _, err := Sniff(data); err != nil {
		return nil, err
	}
	return nil, ErrUnavailable
}
