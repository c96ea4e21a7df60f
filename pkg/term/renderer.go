// Package term draws the creature in a terminal and turns mouse input into
// pointer events.
package term

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/gdamore/tcell/v2"

	"github.com/teslashibe/go-beetle/pkg/creature"
	"github.com/teslashibe/go-beetle/pkg/motion"
)

const (
	bodyRadius    = 0.45
	maxOffset     = 0.3
	returnRate    = 3.0
	rippleSpeed   = 1.5
	rippleWidth   = 0.04
	maxRipple     = 1.6
	maxParticles  = 64
	particleDrift = 0.25
)

var (
	calmColor   = [3]float64{40, 150, 160}
	tensedColor = [3]float64{225, 45, 40}
	bloodStyle  = tcell.StyleDefault.Foreground(tcell.NewRGBColor(170, 10, 20))
	cursorStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

type ripple struct {
	origin   motion.Vec2
	radius   float64
	strength float64
}

type particle struct {
	pos  motion.Vec2
	life float64
}

// Renderer implements creature.Renderer on a tcell screen. It is also a
// creature.FrameSink: each frame advances its animations and redraws.
// All methods must be called from the loop goroutine.
type Renderer struct {
	screen tcell.Screen
	rng    *rand.Rand

	breathSpeed float64
	breathDepth float64
	pause       float64
	lag         float64
	color       float64
	noise       float64
	goosebumps  float64

	breathPhase float64
	offset      motion.Vec2
	returning   bool

	bleeding  bool
	particles []particle
	ripples   []ripple

	cursor     motion.Vec2
	influence  float64
	attraction float64

	status string
}

var _ creature.Renderer = (*Renderer)(nil)
var _ creature.FrameSink = (*Renderer)(nil)

// NewRenderer draws on s. The caller owns s and must Init it first.
func NewRenderer(s tcell.Screen) *Renderer {
	return &Renderer{
		screen:      s,
		rng:         rand.New(rand.NewSource(1)),
		breathSpeed: 1.2,
		breathDepth: 1,
	}
}

func (r *Renderer) SetBreathSpeed(v float64) { r.breathSpeed = v }
func (r *Renderer) SetBreathDepth(v float64) { r.breathDepth = v }
func (r *Renderer) SetPauseFactor(v float64) { r.pause = v }
func (r *Renderer) SetResponseLag(v float64) { r.lag = v }
func (r *Renderer) SetColorProgress(v float64) { r.color = v }
func (r *Renderer) SetNoiseAmount(v float64) { r.noise = v }
func (r *Renderer) SetGoosebumps(v float64) { r.goosebumps = v }

// ApplyRolling shifts the body along the pointer's motion. Response lag
// softens how much of the motion lands.
func (r *Renderer) ApplyRolling(delta motion.Vec2, strength float64) {
	k := strength * (1 - 0.5*r.lag)
	r.offset = r.offset.Add(delta.Scale(k))
	if l := r.offset.Len(); l > maxOffset {
		r.offset = r.offset.Scale(maxOffset / l)
	}
	r.returning = false
}

func (r *Renderer) ReturnToOrigin() { r.returning = true }

func (r *Renderer) StartBleeding() { r.bleeding = true }

func (r *Renderer) StopBleeding() { r.bleeding = false }

// ProcessEvaporation ages blood particles and, while bleeding, sheds new
// ones from the rim of the body.
func (r *Renderer) ProcessEvaporation(dt, rate float64) {
	kept := r.particles[:0]
	for _, p := range r.particles {
		p.life -= rate * dt
		p.pos.Y -= particleDrift * dt
		if p.life > 0 {
			kept = append(kept, p)
		}
	}
	r.particles = kept

	if r.bleeding && len(r.particles) < maxParticles {
		a := r.rng.Float64() * 2 * math.Pi
		rim := motion.Vec2{X: math.Cos(a), Y: math.Sin(a)}.Scale(bodyRadius)
		r.particles = append(r.particles, particle{pos: r.offset.Add(rim), life: 1})
	}
}

func (r *Renderer) TriggerRipple(origin motion.Vec2, strength float64) {
	r.ripples = append(r.ripples, ripple{origin: origin, strength: strength})
}

func (r *Renderer) SetCursorWorldPos(p motion.Vec2) { r.cursor = p }
func (r *Renderer) SetCursorInfluence(v float64) { r.influence = v }
func (r *Renderer) SetCursorAttraction(v float64) { r.attraction = v }

// OnFrame advances animations by the frame's dt and redraws.
func (r *Renderer) OnFrame(f creature.Frame) {
	dt := f.Delta
	if motion.ValidDelta(dt) {
		r.advance(dt)
	}
	r.status = fmt.Sprintf("%-9s %-10s trauma %.2f  tension %.2f  breath %.2f",
		f.Phase, f.Gesture, f.Params.Trauma, f.Params.Tension, f.Params.BreathSpeed)
	r.Draw()
}

func (r *Renderer) advance(dt float64) {
	// pauses hold the breath at the top of the inhale
	r.breathPhase = math.Mod(r.breathPhase+r.breathSpeed*dt*(1-0.5*r.pause), 2*math.Pi)

	if r.returning {
		r.offset = r.offset.Scale(math.Exp(-returnRate * dt))
		if r.offset.Len() < 1e-3 {
			r.offset = motion.Vec2{}
			r.returning = false
		}
	}

	kept := r.ripples[:0]
	for _, rp := range r.ripples {
		rp.radius += rippleSpeed * dt
		if rp.radius < maxRipple {
			kept = append(kept, rp)
		}
	}
	r.ripples = kept
}

// center is where the body is drawn: its rolled offset, leaning toward
// the cursor when attracted.
func (r *Renderer) center() motion.Vec2 {
	lean := r.cursor.Sub(r.offset).Scale(0.1 * r.attraction * r.influence)
	return r.offset.Add(lean)
}

func (r *Renderer) radius() float64 {
	return bodyRadius * (1 + 0.08*r.breathDepth*math.Sin(r.breathPhase))
}

// Draw renders the current state to the screen.
func (r *Renderer) Draw() {
	s := r.screen
	w, h := s.Size()
	s.Clear()
	if w < 2 || h < 3 {
		s.Show()
		return
	}

	c := r.center()
	rad := r.radius()
	body := tcell.StyleDefault.Foreground(bodyColor(r.color))

	for y := 0; y < h-1; y++ {
		for x := 0; x < w; x++ {
			p := cellToNorm(x, y, w, h)
			d := p.Sub(c).Len()
			edge := rad * (1 + r.noise*0.15*(hash(x, y)-0.5))
			if d <= edge {
				s.SetContent(x, y, r.texture(x, y, d/edge), nil, body)
			}
		}
	}

	for _, rp := range r.ripples {
		fade := 1 - rp.radius/maxRipple
		v := int32(255 * math.Min(1, fade*math.Max(rp.strength, 0.3)))
		st := tcell.StyleDefault.Foreground(tcell.NewRGBColor(v, v, v))
		for y := 0; y < h-1; y++ {
			for x := 0; x < w; x++ {
				d := cellToNorm(x, y, w, h).Sub(rp.origin).Len()
				if math.Abs(d-rp.radius) < rippleWidth {
					s.SetContent(x, y, '·', nil, st)
				}
			}
		}
	}

	for _, p := range r.particles {
		if x, y, ok := normToCell(p.pos, w, h); ok {
			s.SetContent(x, y, '•', nil, bloodStyle)
		}
	}

	if x, y, ok := normToCell(r.cursor, w, h); ok {
		s.SetContent(x, y, '+', nil, cursorStyle)
	}

	for i, ch := range r.status {
		if i >= w {
			break
		}
		s.SetContent(i, h-1, ch, nil, statusStyle)
	}

	s.Show()
}

// texture picks the fill glyph; goosebumps break up the surface.
func (r *Renderer) texture(x, y int, depth float64) rune {
	if r.goosebumps > 0.3 && hash(x+7, y+3) < r.goosebumps*0.5 {
		return '░'
	}
	if depth > 0.85 {
		return '▓'
	}
	return '█'
}

// Status returns the status line drawn under the creature.
func (r *Renderer) Status() string {
	return r.status
}

// Offset returns how far the body has rolled from the center.
func (r *Renderer) Offset() motion.Vec2 {
	return r.offset
}

// Bleeding reports whether the creature is currently shedding particles.
func (r *Renderer) Bleeding() bool {
	return r.bleeding
}

// Particles returns the number of live blood particles.
func (r *Renderer) Particles() int {
	return len(r.particles)
}

// Ripples returns the number of expanding ripples.
func (r *Renderer) Ripples() int {
	return len(r.ripples)
}

func bodyColor(progress float64) tcell.Color {
	t := math.Max(0, math.Min(1, progress))
	var rgb [3]int32
	for i := range rgb {
		rgb[i] = int32(calmColor[i] + (tensedColor[i]-calmColor[i])*t)
	}
	return tcell.NewRGBColor(rgb[0], rgb[1], rgb[2])
}

// hash is a cheap stable per-cell value in [0, 1).
func hash(x, y int) float64 {
	n := uint32(x)*374761393 + uint32(y)*668265263
	n = (n ^ (n >> 13)) * 1274126177
	return float64(n^(n>>16)) / float64(math.MaxUint32+1)
}
