package config

import (
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// CustomDecoderConfig returns a mapstructure decoder config with hooks for
// values that arrive as strings from the environment.
func CustomDecoderConfig() *mapstructure.DecoderConfig {
	return &mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringToBoolHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		Result:           nil, // Set by caller
	}
}

// stringToBoolHookFunc accepts yes/no and on/off in addition to the forms
// strconv.ParseBool understands.
//
//nolint:ireturn // required by mapstructure.DecodeHookFunc interface
func stringToBoolHookFunc() mapstructure.DecodeHookFunc {
	return func(
		f reflect.Type,
		t reflect.Type,
		data any,
	) (any, error) {
		if f.Kind() != reflect.String || t.Kind() != reflect.Bool {
			return data, nil
		}

		switch strings.ToLower(strings.TrimSpace(data.(string))) {
		case "yes", "on":
			return true, nil
		case "no", "off", "":
			return false, nil
		default:
			return data, nil
		}
	}
}
