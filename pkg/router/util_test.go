package router

import (
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/operator-framework/item-router/pkg/router/loader"
	"github.com/operator-framework/item-router/pkg/router/requirement"
)

// worldSpec has five unconditional locations, so every attempt has room
// to place the mandatory items in any order.
const worldSpec = `
Start    *
Field    *
Meadow   *
Shore    *
Hill     *
Cave     Light
DeepCave Light & Rope
Lake     Boat | Swim
Island   Boat & Light
Tower    Key
Crypt    Light & Key
Summit   Key & Rope & Light
.def Light Lamp
`

const worldRestrictions = `
Summit Gem
`

func parseProblem(t *testing.T, spec, restrictions string, customs map[string]string, items ...Label) Problem {
	t.Helper()
	s, err := loader.ParseRequirements(strings.NewReader(spec))
	require.NoError(t, err)
	r, err := loader.ParseRestrictions(strings.NewReader(restrictions))
	require.NoError(t, err)
	c := loader.Customs{}
	for location, item := range customs {
		c[requirement.Label(location)] = requirement.Label(item)
	}
	return Problem{Spec: s, Restrictions: r, Customs: c, Items: items}
}

func worldProblem(t *testing.T) Problem {
	return parseProblem(t, worldSpec, worldRestrictions, map[string]string{"Meadow": "Coin"}, "Gem")
}

func quietLogger() Option {
	logger, _ := test.NewNullLogger()
	return WithLogger(logger)
}

func labels(s ...string) []Label {
	result := make([]Label, len(s))
	for i, each := range s {
		result[i] = Label(each)
	}
	return result
}
