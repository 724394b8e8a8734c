package tui

import (
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Cosmetic listening animation: a pulsing circle plus a fake
// waveform, redrawn ~25 times a second while the microphone is open.

const (
	tickInterval = 40 * time.Millisecond

	minRadius = 3.0
	maxRadius = 6.0
	pulseStep = 0.18

	waveBars    = 14
	wavePhaseBy = 0.12
)

type tickMsg time.Time

func animTick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type animState struct {
	radius  float64
	growing bool
	phase   float64
}

func newAnimState() animState {
	return animState{radius: minRadius, growing: true}
}

// step advances one frame: the radius walks between its bounds,
// flipping direction at each end, and the waveform phase advances.
func (a *animState) step() {
	if a.growing {
		a.radius += pulseStep
		if a.radius >= maxRadius {
			a.radius = maxRadius
			a.growing = false
		}
	} else {
		a.radius -= pulseStep
		if a.radius <= minRadius {
			a.radius = minRadius
			a.growing = true
		}
	}
	a.phase += wavePhaseBy
}

// circle renders a filled disc of the current radius, centered in a
// fixed-size block so the layout does not jump while pulsing.
// Terminal cells are about twice as tall as wide, so the vertical
// axis is compressed by two.
func (a *animState) circle() string {
	const (
		xBox = int(maxRadius) + 1
		yBox = int(maxRadius)/2 + 1
	)

	var b strings.Builder
	r2 := a.radius * a.radius
	for y := -yBox; y <= yBox; y++ {
		for x := -xBox; x <= xBox; x++ {
			if float64(x*x+4*y*y) <= r2+0.5 {
				b.WriteString("█")
			} else {
				b.WriteString(" ")
			}
		}
		if y < yBox {
			b.WriteString("\n")
		}
	}
	return b.String()
}

var waveLevels = []rune("▁▂▃▄▅▆▇█")

// wave renders the bar row. Heights come from the advancing phase the
// same way the original drew them: a triangle wave per bar, offset by
// the bar index.
func (a *animState) wave(active bool) string {
	var b strings.Builder
	for i := 0; i < waveBars; i++ {
		if !active {
			b.WriteRune(waveLevels[0])
			continue
		}
		t := math.Mod(float64(i)*0.3+a.phase, 3.0)
		h := math.Abs(t - 1.5) / 1.5 // 0..1 triangle
		idx := int(h * float64(len(waveLevels)-1))
		b.WriteRune(waveLevels[idx])
	}
	return b.String()
}
