// Package yamlutil keeps goccy/go-yaml behind a small API with an input size
// limit, so configuration code never imports the YAML library directly.
package yamlutil

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize limits YAML input to 1MB. Abbreviation lists are small; a
// larger file is almost certainly the wrong file.
var MaxInputSize = 1 << 20

var (
	ErrEmptyInput = errors.New("yamlutil: empty input")
	ErrNilTarget  = errors.New("yamlutil: nil target")
	ErrTooLarge   = errors.New("yamlutil: input exceeds maximum size")
	ErrDecode     = errors.New("yamlutil: decode failed")
	ErrEncode     = errors.New("yamlutil: encode failed")
)

type decodeOptions struct {
	strict bool
}

// DecodeOption configures Decode.
type DecodeOption func(*decodeOptions)

// Strict rejects keys that have no matching struct field.
func Strict() DecodeOption {
	return func(o *decodeOptions) { o.strict = true }
}

// Decode parses data into v.
func Decode(data []byte, v any, opts ...DecodeOption) error {
	switch {
	case len(data) == 0:
		return ErrEmptyInput
	case len(data) > MaxInputSize:
		return fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, len(data), MaxInputSize)
	case v == nil:
		return ErrNilTarget
	}

	var o decodeOptions
	for _, opt := range opts {
		opt(&o)
	}

	var yopts []yaml.DecodeOption
	if o.strict {
		yopts = append(yopts, yaml.Strict())
	}
	if err := yaml.UnmarshalWithOptions(data, v, yopts...); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

// Encode renders v as YAML with two-space indentation and indented sequences.
func Encode(v any) ([]byte, error) {
	out, err := yaml.MarshalWithOptions(v, yaml.Indent(2), yaml.IndentSequence(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return out, nil
}
