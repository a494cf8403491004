package blobstore

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// DecodeInto maps a decoded blob tree onto a typed target. Decoding is
// weakly typed because TOML integers arrive as int64 while callers often
// declare plain int or float64 fields.
func DecodeInto(source any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "toml",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("blobstore: decoder: %w", err)
	}
	if err := decoder.Decode(source); err != nil {
		return fmt.Errorf("blobstore: decode: %w", err)
	}
	return nil
}
