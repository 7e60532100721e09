package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/operator-framework/item-router/pkg/router/requirement"
)

const requirementSpec = `
# definitions
.def canFly Wings | Jetpack
Start *
Cliff canFly
Summit canFly & Rope | Ladder
`

func TestParseRequirements(t *testing.T) {
	spec, err := ParseRequirements(strings.NewReader(requirementSpec))
	require.NoError(t, err)

	assert.Equal(t, []requirement.Label{"canFly", "Start", "Cliff", "Summit"}, spec.Labels())
	assert.Equal(t, []requirement.Label{"Start", "Cliff", "Summit"}, spec.Locations())
	assert.Equal(t, []requirement.Label{"canFly"}, spec.Definitions())

	summit, ok := spec.Lookup("Summit")
	require.True(t, ok)
	assert.False(t, summit.IsDefinition)
	assert.Equal(t, "Ladder | Rope&canFly", summit.Condition.String())
}

func TestParseRequirementsErrors(t *testing.T) {
	type tc struct {
		Name    string
		Input   string
		Message string
	}

	for _, tt := range []tc{
		{
			Name:    "missing condition",
			Input:   "Start\n",
			Message: "line 1: expected a label and a condition",
		},
		{
			Name:    "bad condition",
			Input:   "Start *\nCliff A & | B\n",
			Message: "line 2",
		},
		{
			Name:    "duplicate label",
			Input:   "Start *\n.def Start X\n",
			Message: `duplicate label "Start"`,
		},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			_, err := ParseRequirements(strings.NewReader(tt.Input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.Message)
		})
	}
}

func TestParseRestrictions(t *testing.T) {
	type tc struct {
		Name     string
		Input    string
		Expected Restrictions
		Error    string
	}

	for _, tt := range []tc{
		{
			Name:  "plain lists",
			Input: "Shop Sword,Shield\nChest Key\n",
			Expected: Restrictions{
				"Shop":  {"Shield", "Sword"},
				"Chest": {"Key"},
			},
		},
		{
			Name: "aliases substitute until stable",
			Input: `.def blades Sword,Axe
.def weapons blades,Bow
Armory weapons,Shield
`,
			Expected: Restrictions{
				"Armory": {"Axe", "Bow", "Shield", "Sword"},
			},
		},
		{
			Name:  "repeated locations accumulate",
			Input: "Shop Sword\nShop Shield,Sword\n",
			Expected: Restrictions{
				"Shop": {"Shield", "Sword"},
			},
		},
		{
			Name:  "cyclic aliases fail",
			Input: ".def a b\n.def b a\nShop a\n",
			Error: "did not settle",
		},
		{
			Name:  "malformed def",
			Input: ".def a\n",
			Error: "expected .def NAME VALUE",
		},
		{
			Name:  "malformed line",
			Input: "Shop Sword Shield\n",
			Error: "expected LOCATION ITEMS",
		},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			got, err := ParseRestrictions(strings.NewReader(tt.Input))
			if tt.Error != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.Error)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.Expected, got); diff != "" {
				t.Errorf("unexpected restrictions (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRestrictionsAllows(t *testing.T) {
	r := Restrictions{"Shop": {"Sword"}}
	assert.True(t, r.Allows("Shop", "Sword"))
	assert.False(t, r.Allows("Shop", "Bomb"))
	assert.True(t, r.Allows("Chest", "Bomb"))
}

func TestParseCustoms(t *testing.T) {
	customs, err := ParseCustoms([]byte("Start: Sword\nCliff: Wings\n"))
	require.NoError(t, err)
	assert.Equal(t, Customs{"Start": "Sword", "Cliff": "Wings"}, customs)

	_, err = ParseCustoms([]byte("Start: ''\n"))
	assert.Error(t, err)

	_, err = ParseCustoms([]byte("- not a map\n"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
		return p
	}

	in, err := Load(Files{
		Requirements: write("requirements.txt", requirementSpec),
		Restrictions: write("restrictions.txt", "Start Wings,Jetpack\n"),
		Customs:      write("customs.yaml", "Cliff: Rope\n"),
	})
	require.NoError(t, err)
	assert.Equal(t, 4, in.Spec.Len())
	assert.Equal(t, Restrictions{"Start": {"Jetpack", "Wings"}}, in.Restrictions)
	assert.Equal(t, Customs{"Cliff": "Rope"}, in.Customs)

	_, err = Load(Files{})
	assert.Error(t, err)

	_, err = Load(Files{Requirements: filepath.Join(dir, "missing.txt")})
	assert.Error(t, err)
}
