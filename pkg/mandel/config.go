package mandel

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/pflag"

	"github.com/willbeason/mandelscan/pkg/decimal"
)

// Config tunes evaluation and batching. It is read-only during a scan.
type Config struct {
	// Epsilon is the tolerance for decimal equality and cycle detection.
	Epsilon decimal.Decimal `json:"epsilon"`
	// Precision is the number of significant decimal digits retained.
	Precision uint32 `json:"precision"`
	// MaxIterations is the per-point iteration budget. In-set samples
	// report exactly this count.
	MaxIterations uint32 `json:"maxIterations"`
	// NeighborsToCheck is the sub-grid density used around in-set hits.
	// Zero disables neighbour expansion.
	NeighborsToCheck int `json:"neighborsToCheck"`
	// SecondPassEnabled re-verifies cycle-classified points from the
	// detected cycle point.
	SecondPassEnabled bool `json:"secondPassEnabled"`

	// HistoryLength is how many prior orbit values cycle detection keeps.
	HistoryLength int `json:"historyLength"`
	// AdaptiveBudget shortens the budget after runs of in-set points.
	AdaptiveBudget bool `json:"adaptiveBudget"`
	// ColumnsPerBatch is how many scan columns close a batch.
	ColumnsPerBatch int `json:"columnsPerBatch"`
	// Workers bounds the number of columns evaluated concurrently.
	Workers int `json:"workers"`
}

// DefaultConfig returns 64 significant digits, an epsilon of 1e-32 and a
// budget of 200 iterations.
func DefaultConfig() Config {
	return Config{
		Epsilon:          decimal.MustParse("1e-32"),
		Precision:        64,
		MaxIterations:    200,
		NeighborsToCheck: 2,
		HistoryLength:    16,
		ColumnsPerBatch:  4,
		Workers:          runtime.NumCPU(),
	}
}

func (c Config) Validate() error {
	switch {
	case c.Precision == 0:
		return fmt.Errorf("%w: precision must be positive", ErrInvalidConfig)
	case c.MaxIterations == 0:
		return fmt.Errorf("%w: max iterations must be positive", ErrInvalidConfig)
	case c.Epsilon.Sign() < 0:
		return fmt.Errorf("%w: epsilon %s is negative", ErrInvalidConfig, c.Epsilon)
	case c.NeighborsToCheck < 0:
		return fmt.Errorf("%w: neighbors to check %d is negative", ErrInvalidConfig, c.NeighborsToCheck)
	case c.HistoryLength < 0:
		return fmt.Errorf("%w: history length %d is negative", ErrInvalidConfig, c.HistoryLength)
	case c.ColumnsPerBatch <= 0:
		return fmt.Errorf("%w: columns per batch must be positive", ErrInvalidConfig)
	case c.Workers <= 0:
		return fmt.Errorf("%w: workers must be positive", ErrInvalidConfig)
	}
	return nil
}

// Context returns the decimal context described by c.
func (c Config) Context() *decimal.Context {
	return decimal.NewContext(c.Precision, c.Epsilon)
}

// AddFlags binds every option of c to fs.
func (c *Config) AddFlags(fs *pflag.FlagSet) {
	fs.Var((*decimalValue)(&c.Epsilon), "epsilon", "tolerance for decimal equality and cycle detection")
	fs.Uint32Var(&c.Precision, "precision", c.Precision, "significant decimal digits retained")
	fs.Uint32Var(&c.MaxIterations, "max-iterations", c.MaxIterations, "iteration budget per point")
	fs.IntVar(&c.NeighborsToCheck, "neighbors", c.NeighborsToCheck, "sub-grid density around in-set points, 0 disables")
	fs.BoolVar(&c.SecondPassEnabled, "second-pass", c.SecondPassEnabled, "re-verify cycle-classified points")
	fs.IntVar(&c.HistoryLength, "history", c.HistoryLength, "orbit values kept for cycle detection")
	fs.BoolVar(&c.AdaptiveBudget, "adaptive-budget", c.AdaptiveBudget, "shorten the budget inside runs of in-set points")
	fs.IntVar(&c.ColumnsPerBatch, "columns-per-batch", c.ColumnsPerBatch, "scan columns per emitted batch")
	fs.IntVar(&c.Workers, "workers", c.Workers, "columns evaluated concurrently")
}

// ApplyFlags copies the flags explicitly set on fs into c, so command line
// values win over a loaded file.
func ApplyFlags(fs *pflag.FlagSet, c *Config) error {
	scratch := pflag.NewFlagSet("config", pflag.ContinueOnError)
	c.AddFlags(scratch)

	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil || scratch.Lookup(f.Name) == nil {
			return
		}
		if setErr := scratch.Set(f.Name, f.Value.String()); setErr != nil {
			err = fmt.Errorf("%w: flag %s: %w", ErrInvalidConfig, f.Name, setErr)
		}
	})
	return err
}

// LoadConfig reads a JSON config file on top of base.
func LoadConfig(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := base
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	return cfg, nil
}

type decimalValue decimal.Decimal

func (v *decimalValue) String() string {
	return decimal.Decimal(*v).String()
}

func (v *decimalValue) Set(s string) error {
	d, err := decimal.Parse(s)
	if err != nil {
		return err
	}
	*v = decimalValue(d)
	return nil
}

func (v *decimalValue) Type() string {
	return "decimal"
}
