package terminal

import (
	"github.com/muesli/termenv"
)

// Capabilities holds detected terminal capabilities relevant to rendering.
type Capabilities struct {
	Profile   termenv.Profile
	TrueColor bool
}

// Detect probes the terminal environment.
func Detect() Capabilities {
	profile := termenv.ColorProfile()
	return Capabilities{
		Profile:   profile,
		TrueColor: profile == termenv.TrueColor,
	}
}

// ChromaFormatter returns the chroma formatter name matching the terminal's
// color depth.
func (c Capabilities) ChromaFormatter() string {
	if c.TrueColor {
		return "terminal16m"
	}
	return "terminal256"
}
