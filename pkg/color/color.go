// Package color assigns stable terminal colors to names.
package color

import (
	"hash/fnv"

	fcolor "github.com/fatih/color"
)

// Palette used for names, in assignment order.
var nameColors = []fcolor.Attribute{
	fcolor.FgHiRed,
	fcolor.FgHiGreen,
	fcolor.FgHiYellow,
	fcolor.FgHiBlue,
	fcolor.FgHiMagenta,
	fcolor.FgHiCyan,
	fcolor.FgRed,
	fcolor.FgGreen,
	fcolor.FgYellow,
	fcolor.FgBlue,
	fcolor.FgMagenta,
	fcolor.FgCyan,
}

// ForName returns the same color for the same name on every run.
func ForName(name string) *fcolor.Color {
	return fcolor.New(nameColors[index(name)])
}

func index(name string) int {
	h := fnv.New32a()
	h.Write([]byte(name))
	return int(h.Sum32() % uint32(len(nameColors)))
}

// Name renders name in its color. An empty name is rendered dim as placeholder.
func Name(name, placeholder string) string {
	if name == "" {
		return fcolor.New(fcolor.Faint).Sprint(placeholder)
	}
	return ForName(name).Sprint(name)
}
