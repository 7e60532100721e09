package main

import (
	"os"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/operator-framework/item-router/pkg/lib/codec"
	"github.com/operator-framework/item-router/pkg/router"
	"github.com/operator-framework/item-router/pkg/router/loader"
)

// routeOptions are the inputs shared by every command that solves
// routes. Fields can come from a YAML config file; flags set on the
// command line win.
type routeOptions struct {
	Requirements string   `mapstructure:"requirements"`
	Restrictions string   `mapstructure:"restrictions"`
	Customs      string   `mapstructure:"customs"`
	Items        []string `mapstructure:"items"`
	Seed         int64    `mapstructure:"seed"`
	Linearity    float64  `mapstructure:"linearity"`
	MaxRestarts  int      `mapstructure:"maxRestarts"`
	MaxPasses    int      `mapstructure:"maxPasses"`
	Filler       string   `mapstructure:"filler"`

	config string
	trace  bool
}

func defaultRouteOptions() routeOptions {
	return routeOptions{
		Linearity: router.DefaultLinearity,
		Filler:    string(router.DefaultFiller),
	}
}

func (o *routeOptions) addFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.config, "config", "c", "", "YAML file with default values for the flags below.")
	fs.StringVarP(&o.Requirements, "requirements", "r", o.Requirements, "The requirement spec: one `[.def] LABEL CONDITION` per line.")
	fs.StringVar(&o.Restrictions, "restrictions", o.Restrictions, "The restriction spec: `LOCATION ITEM[,ITEM...]` lines.")
	fs.StringVar(&o.Customs, "customs", o.Customs, "YAML mapping of location to forced item.")
	fs.StringSliceVar(&o.Items, "items", o.Items, "Items to place besides the ones locations require.")
	fs.Int64Var(&o.Seed, "seed", o.Seed, "The route seed.")
	fs.Float64Var(&o.Linearity, "linearity", o.Linearity, "0 places items as early as possible, 1 places them uniformly.")
	fs.IntVar(&o.MaxRestarts, "max-restarts", o.MaxRestarts, "Restart budget; 0 scales with the number of locations.")
	fs.IntVar(&o.MaxPasses, "max-passes", o.MaxPasses, "Simplification pass budget; 0 scales with the number of labels.")
	fs.StringVar(&o.Filler, "filler", o.Filler, "Label placed at locations left over once the items run out.")
	fs.BoolVar(&o.trace, "trace", false, "Print every abandoned attempt to stderr.")
}

// complete applies the config file, if any, underneath the flags that
// were set explicitly.
func (o *routeOptions) complete(fs *pflag.FlagSet) error {
	if o.config == "" {
		return nil
	}
	data, err := os.ReadFile(o.config)
	if err != nil {
		return errors.Wrapf(err, "reading config %s", o.config)
	}
	raw := make(map[string]interface{})
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return errors.Wrapf(err, "parsing config %s", o.config)
	}

	fromFile := defaultRouteOptions()
	if err := codec.Decode(raw, &fromFile); err != nil {
		return errors.Wrapf(err, "decoding config %s", o.config)
	}
	merge := func(flag string, apply func()) {
		if !fs.Changed(flag) {
			apply()
		}
	}
	merge("requirements", func() { o.Requirements = fromFile.Requirements })
	merge("restrictions", func() { o.Restrictions = fromFile.Restrictions })
	merge("customs", func() { o.Customs = fromFile.Customs })
	merge("items", func() { o.Items = fromFile.Items })
	merge("seed", func() { o.Seed = fromFile.Seed })
	merge("linearity", func() { o.Linearity = fromFile.Linearity })
	merge("max-restarts", func() { o.MaxRestarts = fromFile.MaxRestarts })
	merge("max-passes", func() { o.MaxPasses = fromFile.MaxPasses })
	merge("filler", func() { o.Filler = fromFile.Filler })
	return nil
}

// problem loads the input files.
func (o *routeOptions) problem() (router.Problem, error) {
	in, err := loader.Load(loader.Files{
		Requirements: o.Requirements,
		Restrictions: o.Restrictions,
		Customs:      o.Customs,
	})
	if err != nil {
		return router.Problem{}, err
	}
	items := make([]router.Label, len(o.Items))
	for i, item := range o.Items {
		items[i] = router.Label(item)
	}
	return router.ProblemFromInputs(in, items...), nil
}

// routerOptions translates o into router options for one seed.
func (o *routeOptions) routerOptions(seed int64, tracer router.Tracer) []router.Option {
	return []router.Option{
		router.WithSeed(seed),
		router.WithLinearity(o.Linearity),
		router.WithMaxRestarts(o.MaxRestarts),
		router.WithMaxPasses(o.MaxPasses),
		router.WithFiller(router.Label(o.Filler)),
		router.WithLogger(log.WithField("seed", seed)),
		router.WithTracer(tracer),
	}
}
