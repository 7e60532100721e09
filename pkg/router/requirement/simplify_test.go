package requirement

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func location(label Label, condition string) Entry {
	return Entry{Label: label, Condition: MustParseCondition(condition)}
}

func definition(label Label, condition string) Entry {
	return Entry{Label: label, Condition: MustParseCondition(condition), IsDefinition: true}
}

func mustSpec(t *testing.T, entries ...Entry) *Spec {
	t.Helper()
	spec, err := NewSpec(entries...)
	require.NoError(t, err)
	return spec
}

func TestNewSpecRejectsDuplicates(t *testing.T) {
	_, err := NewSpec(location("A", "*"), definition("A", "X"))
	assert.Equal(t, DuplicateLabel("A"), err)
}

func TestSimplify(t *testing.T) {
	type tc struct {
		Name        string
		Entries     []Entry
		Expected    map[Label]string
		Unreachable []Label
	}

	for _, tt := range []tc{
		{
			Name: "plain atoms are untouched",
			Entries: []Entry{
				location("A", "*"),
				location("B", "X"),
				location("C", "X&Y"),
			},
			Expected: map[Label]string{
				"A": "*",
				"B": "X",
				"C": "X&Y",
			},
		},
		{
			Name: "definitions expand before the cross product",
			Entries: []Entry{
				definition("canFly", "Wings | Jetpack"),
				location("Cloud", "canFly & Key"),
			},
			Expected: map[Label]string{
				"canFly": "Jetpack | Wings",
				"Cloud":  "Jetpack&Key | Key&Wings",
			},
		},
		{
			Name: "nested definitions",
			Entries: []Entry{
				definition("canCut", "Sword | Axe"),
				definition("canClear", "canCut | Bomb"),
				location("Grove", "canClear & Lamp"),
			},
			Expected: map[Label]string{
				"Grove": "Axe&Lamp | Bomb&Lamp | Lamp&Sword",
			},
		},
		{
			Name: "self reference keeps the escape hatch",
			Entries: []Entry{
				definition("loop", "X | loop & Y"),
				location("L", "loop"),
			},
			Expected: map[Label]string{
				"loop": "X",
				"L":    "X",
			},
		},
		{
			Name: "mutual recursion settles",
			Entries: []Entry{
				definition("even", "Zero | odd & Step"),
				definition("odd", "even & Step"),
				location("L", "odd"),
			},
			Expected: map[Label]string{
				"even": "Zero",
				"odd":  "Step&Zero",
				"L":    "Step&Zero",
			},
		},
		{
			Name: "definition with no escape is impossible",
			Entries: []Entry{
				definition("trap", "trap & X"),
				location("Safe", "trap | Y"),
			},
			Expected: map[Label]string{
				"trap": impossibleString,
				"Safe": "Y",
			},
			Unreachable: []Label{"trap"},
		},
		{
			Name: "impossible location is reported",
			Entries: []Entry{
				definition("a", "b"),
				definition("b", "a"),
				location("Vault", "a & Key"),
			},
			Expected: map[Label]string{
				"Vault": impossibleString,
			},
			Unreachable: []Label{"a", "b", "Vault"},
		},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			s := NewSimplifier(mustSpec(t, tt.Entries...))
			result, err := s.Run()
			require.NoError(t, err)
			for label, expected := range tt.Expected {
				assert.Equal(t, expected, result[label].String(), "label %s", label)
				assert.Equal(t, expected, s.Simplify(label).String(), "label %s", label)
			}
			assert.Equal(t, tt.Unreachable, s.Unreachable())
		})
	}
}

func TestSimplifyIsIdempotent(t *testing.T) {
	spec := mustSpec(t,
		definition("canCut", "Sword | Axe"),
		definition("canBurn", "Lamp | Rod & Magic"),
		location("Grove", "canCut & canBurn"),
		location("Cave", "canBurn | Bomb & canCut"),
	)
	s := NewSimplifier(spec)
	_, err := s.Run()
	require.NoError(t, err)

	for _, label := range spec.Locations() {
		once := s.Simplify(label)
		assert.True(t, once.Equal(s.Resolve(once)), "resolve changed %s", label)

		reparsed, err := ParseCondition(once.String())
		require.NoError(t, err)
		assert.True(t, once.Equal(s.Resolve(reparsed)), "reparse changed %s", label)
	}
}

func TestSimplifyOrderIndependent(t *testing.T) {
	entries := []Entry{
		definition("p", "A | q & B"),
		definition("q", "C | p & D"),
		location("X", "p & q"),
		location("Y", "q | E"),
	}
	forward := NewSimplifier(mustSpec(t, entries...))
	fr, err := forward.Run()
	require.NoError(t, err)

	rev := make([]Entry, len(entries))
	for i, e := range entries {
		rev[len(entries)-1-i] = e
	}
	backward := NewSimplifier(mustSpec(t, rev...))
	br, err := backward.Run()
	require.NoError(t, err)

	for label, r := range fr {
		assert.True(t, r.Equal(br[label]), "label %s: %s != %s", label, r, br[label])
	}
}

func TestRunLogsPasses(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	s := NewSimplifier(mustSpec(t, location("A", "X")), WithLogger(logger))
	_, err := s.Run()
	require.NoError(t, err)
	require.NotEmpty(t, hook.AllEntries())
	assert.Contains(t, hook.AllEntries()[0].Message, "Loop 0")
}

func TestRunPassBudget(t *testing.T) {
	s := NewSimplifier(mustSpec(t, location("A", "X")), WithMaxPasses(1))
	_, err := s.Run()
	var fpErr *NoFixedPointError
	require.ErrorAs(t, err, &fpErr)
	assert.Equal(t, 1, fpErr.Passes)
}

func TestDefaultMaxPasses(t *testing.T) {
	assert.Equal(t, minPasses, DefaultMaxPasses(1))
	assert.Equal(t, 400, DefaultMaxPasses(100))
}
