package codec

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPercentHookFunc(t *testing.T) {
	type args struct {
		fromType, toType reflect.Type
		data             interface{}
	}
	type expected struct {
		converted interface{}
		err       bool
	}
	tests := []struct {
		description string
		args        args
		expected    expected
	}{
		{
			description: "StringToString/Passthrough",
			args: args{
				fromType: reflect.TypeOf(""),
				toType:   reflect.TypeOf(""),
				data:     "35%",
			},
			expected: expected{
				converted: "35%",
			},
		},
		{
			description: "FloatToFloat/Passthrough",
			args: args{
				fromType: reflect.TypeOf(0.0),
				toType:   reflect.TypeOf(0.0),
				data:     0.25,
			},
			expected: expected{
				converted: 0.25,
			},
		},
		{
			description: "PercentToFloat",
			args: args{
				fromType: reflect.TypeOf(""),
				toType:   reflect.TypeOf(0.0),
				data:     "35%",
			},
			expected: expected{
				converted: 0.35,
			},
		},
		{
			description: "SpacedPercentToFloat",
			args: args{
				fromType: reflect.TypeOf(""),
				toType:   reflect.TypeOf(0.0),
				data:     " 100 % ",
			},
			expected: expected{
				converted: 1.0,
			},
		},
		{
			description: "NumericStringToFloat",
			args: args{
				fromType: reflect.TypeOf(""),
				toType:   reflect.TypeOf(0.0),
				data:     "0.5",
			},
			expected: expected{
				converted: 0.5,
			},
		},
		{
			description: "InvalidStringToFloat/Errors",
			args: args{
				fromType: reflect.TypeOf(""),
				toType:   reflect.TypeOf(0.0),
				data:     "lots%",
			},
			expected: expected{
				err: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			converted, err := percentHookFunc(tt.args.fromType, tt.args.toType, tt.args.data)
			if tt.expected.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if f, ok := tt.expected.converted.(float64); ok {
				require.InDelta(t, f, converted, 1e-9)
				return
			}
			require.EqualValues(t, tt.expected.converted, converted)
		})
	}
}

func TestDecode(t *testing.T) {
	type config struct {
		Seed      int64    `mapstructure:"seed"`
		Linearity float64  `mapstructure:"linearity"`
		Items     []string `mapstructure:"items"`
	}

	var c config
	require.NoError(t, Decode(map[string]interface{}{
		"seed":      "12",
		"linearity": "25%",
		"items":     "Lamp,Rope",
	}, &c))
	require.Equal(t, config{Seed: 12, Linearity: 0.25, Items: []string{"Lamp", "Rope"}}, c)

	require.Error(t, Decode(map[string]interface{}{"unknown": 1}, &c))
}
