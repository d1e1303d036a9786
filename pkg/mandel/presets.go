package mandel

import (
	"fmt"
	"sort"
)

// Landmark windows.
var (
	FullSet = MustParseWindow("-2", "0.5", "-1.25", "1.25")

	// SeahorseValley lies between the main cardioid and the period-2 bulb.
	SeahorseValley = MustParseWindow("-0.8", "-0.7", "0.05", "0.15")

	ElephantValley = MustParseWindow("-1.85", "-1.75", "-0.10", "-0.02")

	SpiralMinibrot       = MustParseWindow("-0.7435", "-0.7420", "0.1310", "0.1325")
	TripleSpiral         = MustParseWindow("-0.7480", "-0.7450", "0.0950", "0.0980")
	ValleyOfTheDragon    = MustParseWindow("-0.7400", "-0.7350", "0.1800", "0.1850")
	MinibrotInMiniSpiral = MustParseWindow("-1.7390", "-1.7375", "-0.0235", "-0.0220")
)

var presets = map[string]Window{
	"full":                 FullSet,
	"seahorse-valley":      SeahorseValley,
	"elephant-valley":      ElephantValley,
	"spiral-minibrot":      SpiralMinibrot,
	"triple-spiral":        TripleSpiral,
	"valley-of-dragon":     ValleyOfTheDragon,
	"mini-spiral-minibrot": MinibrotInMiniSpiral,
}

// Preset returns a landmark window by name.
func Preset(name string) (Window, error) {
	w, ok := presets[name]
	if !ok {
		return Window{}, fmt.Errorf("%w: unknown preset %q", ErrInvalidWindow, name)
	}
	return w, nil
}

// PresetNames lists the landmark names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
