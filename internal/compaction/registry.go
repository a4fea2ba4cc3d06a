package compaction

import "fmt"

// Registry holds all available export decoders and provides auto-detection.
type Registry struct {
	decoders []Decoder
}

// Global registry instance
var globalRegistry = NewRegistry()

func NewRegistry() *Registry {
	return &Registry{
		decoders: []Decoder{
			NewFileExportDecoder(),
			NewNodeListDecoder(),
			NewRawNodeDecoder(),
		},
	}
}

// GetGlobalRegistry returns the singleton registry.
func GetGlobalRegistry() *Registry {
	return globalRegistry
}

// Register adds a new decoder to the registry.
func (r *Registry) Register(d Decoder) {
	r.decoders = append(r.decoders, d)
}

// FindDecoder detects the decoder for a payload.
func (r *Registry) FindDecoder(data []byte) (Decoder, error) {
	for _, d := range r.decoders {
		if d.CanDecode(data) {
			return d, nil
		}
	}
	return nil, fmt.Errorf("unrecognized design export format")
}

// DecodeDocument detects the format and decodes a design export payload.
func (r *Registry) DecodeDocument(data []byte) (*Document, error) {
	d, err := r.FindDecoder(data)
	if err != nil {
		return nil, err
	}
	return d.Decode(data)
}
