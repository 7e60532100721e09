package loader

import (
	"os"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"

	"github.com/operator-framework/item-router/pkg/router/requirement"
)

// Customs are caller-forced location -> item assignments.
type Customs map[requirement.Label]requirement.Label

// ParseCustoms decodes a YAML (or JSON) mapping of location to item.
func ParseCustoms(data []byte) (Customs, error) {
	raw := make(map[string]string)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "decoding custom assignments")
	}
	customs := make(Customs, len(raw))
	for location, item := range raw {
		if location == "" || item == "" {
			return nil, errors.Errorf("custom assignment %q: %q has an empty side", location, item)
		}
		customs[requirement.Label(location)] = requirement.Label(item)
	}
	return customs, nil
}

// Files names the on-disk inputs of a route. Only Requirements is
// mandatory.
type Files struct {
	Requirements string
	Restrictions string
	Customs      string
}

// Inputs are the parsed contents of Files.
type Inputs struct {
	Spec         *requirement.Spec
	Restrictions Restrictions
	Customs      Customs
}

// Load reads and parses every file named in f.
func Load(f Files) (*Inputs, error) {
	if f.Requirements == "" {
		return nil, errors.New("a requirement spec is required")
	}
	in := &Inputs{
		Restrictions: Restrictions{},
		Customs:      Customs{},
	}

	file, err := os.Open(f.Requirements)
	if err != nil {
		return nil, errors.Wrapf(err, "opening requirement spec %s", f.Requirements)
	}
	defer file.Close()
	if in.Spec, err = ParseRequirements(file); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", f.Requirements)
	}

	if f.Restrictions != "" {
		rf, err := os.Open(f.Restrictions)
		if err != nil {
			return nil, errors.Wrapf(err, "opening restriction spec %s", f.Restrictions)
		}
		defer rf.Close()
		if in.Restrictions, err = ParseRestrictions(rf); err != nil {
			return nil, errors.Wrapf(err, "parsing %s", f.Restrictions)
		}
	}

	if f.Customs != "" {
		data, err := os.ReadFile(f.Customs)
		if err != nil {
			return nil, errors.Wrapf(err, "reading custom assignments %s", f.Customs)
		}
		if in.Customs, err = ParseCustoms(data); err != nil {
			return nil, errors.Wrapf(err, "parsing %s", f.Customs)
		}
	}
	return in, nil
}
