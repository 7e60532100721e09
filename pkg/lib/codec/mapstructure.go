package codec

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// PercentHookFunc decodes strings such as "35%" into float64 fractions
// (0.35). Plain numeric strings are parsed as they are.
func PercentHookFunc() mapstructure.DecodeHookFunc {
	return percentHookFunc
}

func percentHookFunc(f, t reflect.Type, data interface{}) (interface{}, error) {
	if t.Kind() != reflect.Float64 || f.Kind() != reflect.String {
		return data, nil
	}

	s := strings.TrimSpace(data.(string))
	scale := 1.0
	if strings.HasSuffix(s, "%") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
		scale = 100
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid fraction %q: %v", data, err)
	}
	return v / scale, nil
}

// Decode decodes input, typically a map read from YAML, into output
// with the hooks of this package applied.
func Decode(input, output interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			PercentHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           output,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}
