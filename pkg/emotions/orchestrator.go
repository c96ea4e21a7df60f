package emotions

import (
	"math"
)

// Orchestrator is the emotional phase machine. It is driven once per frame by
// Update and is not safe for concurrent use.
type Orchestrator struct {
	cfg       Config
	reactions *ReactionBank

	phase    Phase
	phaseAge float64
	sustain  float64 // phase-local sustained-velocity timer

	idle        float64 // sampler idle time, as of the last frame
	hasListened bool
	returned    bool

	listenProgress float64
	healProgress   float64

	tension float64
	trauma  float64

	breathMult float64
	depth      float64
	lag        float64
	color      float64
	goose      float64

	out Output
}

// NewOrchestrator creates an orchestrator in Peace.
func NewOrchestrator(cfg Config) *Orchestrator {
	o := &Orchestrator{
		cfg:       cfg,
		reactions: NewReactionBank(cfg.Reactions),
	}
	o.Reset()
	return o
}

// Reset returns to Peace with every accumulator at baseline.
func (o *Orchestrator) Reset() {
	*o = Orchestrator{
		cfg:        o.cfg,
		reactions:  o.reactions,
		breathMult: 1,
		depth:      1,
		lag:        1,
	}
	o.reactions.Reset()
	o.out = o.output(Input{}, Effects{}, Peace)
}

// Update consumes one frame of input. A non-positive or non-finite dt leaves
// every accumulator untouched and returns the previous output.
func (o *Orchestrator) Update(in Input, dt float64) Output {
	if !validDelta(dt) {
		return o.out
	}
	c := o.cfg

	vel := in.Velocity
	if math.IsNaN(vel) || math.IsInf(vel, 0) {
		vel = 0
	}
	in.Velocity = vel

	o.phaseAge += dt
	o.idle = in.IdleTime
	if !(o.idle > 0) || math.IsInf(o.idle, 0) {
		o.idle = 0
		o.returned = false
	}
	if vel > c.ListenResetVelocity {
		o.hasListened = false
	}

	poked := o.reactions.Update(in.Gesture, dt)
	o.updateTension(vel, poked, dt)

	var eff Effects
	prev := o.phase
	o.step(vel, dt, &eff)
	o.smooth(in, dt)

	intensity := touchIntensity(in.Radius, in.Pressure)
	if poked {
		eff.Ripple = true
		eff.RippleOrigin = in.Position
		eff.RippleStrength = intensity
	}
	if !o.returned && o.idle >= c.ReturnToOriginIdle {
		o.returned = true
		eff.ReturnToOrigin = true
	}

	o.out = o.output(in, eff, prev)
	return o.out
}

func (o *Orchestrator) updateTension(vel float64, poked bool, dt float64) {
	c := o.cfg
	r := o.reactions.Values()

	if vel > c.TensionVelocity {
		o.tension += c.TensionGainRate * dt
	} else {
		o.tension -= c.TensionDecayRate * dt
	}
	o.tension -= c.StrokeTensionDrain * r.StrokeCalm * dt
	o.tension += c.TrembleTensionFeed * r.TrembleNervous * dt
	o.tension = clamp01(o.tension)

	if poked {
		o.tension = math.Max(o.tension, math.Min(o.tension+c.PokeTensionSpike, c.PokeTensionCap))
	}
}

// step evaluates the transition rules of the current phase.
func (o *Orchestrator) step(vel, dt float64, eff *Effects) {
	c := o.cfg

	switch o.phase {
	case Peace:
		o.addTrauma(-c.IdleTraumaDecay * dt)
		o.sustain = sustained(o.sustain, vel > c.TensionVelocity, dt)
		switch {
		case !o.hasListened && o.idle >= c.ListenIdleMin && o.idle < c.ListenIdleMax:
			o.hasListened = true
			o.transitionTo(Listening, eff)
		case o.sustain >= c.TensionSustain:
			o.transitionTo(Tension, eff)
		}

	case Listening:
		o.addTrauma(-c.IdleTraumaDecay * dt)
		if vel > c.ListenInterruptVelocity {
			o.transitionTo(Peace, eff)
			return
		}
		if c.ListenDuration > 0 {
			o.listenProgress = clamp01(o.listenProgress + dt/c.ListenDuration)
		} else {
			o.listenProgress = 1
		}
		if o.listenProgress >= 1 {
			o.depth = math.Min(o.depth*c.ListenDepthBoost, c.MaxBreathDepth)
			o.transitionTo(Peace, eff)
		}

	case Tension:
		o.sustain = sustained(o.sustain, vel > c.BleedVelocity, dt)
		switch {
		case o.sustain >= c.BleedSustain:
			o.transitionTo(Bleeding, eff)
		case vel < c.TensionVelocity && o.tension <= 0:
			o.transitionTo(Peace, eff)
		}

	case Bleeding:
		eff.Evaporation = c.EvaporationRate
		if o.phaseAge > c.BleedTraumaDelay {
			o.addTrauma(c.BleedTraumaRate * dt)
		}
		if o.idle > c.BleedIdleExit {
			if o.trauma > c.TraumaThreshold {
				o.transitionTo(Trauma, eff)
			} else {
				o.transitionTo(Healing, eff)
			}
		}

	case Trauma:
		switch {
		case o.phaseAge > c.TraumaMinAge:
			o.transitionTo(Healing, eff)
		case vel > c.ExitVelocity:
			o.transitionTo(Peace, eff)
		}

	case Healing:
		if vel > c.ExitVelocity {
			o.transitionTo(Peace, eff)
			return
		}
		if c.HealingDuration > 0 {
			o.healProgress += dt / c.HealingDuration
		} else {
			o.healProgress = 1
		}
		o.addTrauma(-c.HealingTraumaDecay * dt)
		if o.healProgress >= 1 && o.trauma < c.HealingExitTrauma {
			o.transitionTo(Peace, eff)
		}
	}
}

// transitionTo is the only place the phase changes. Phase-local timers are
// reset on every change.
func (o *Orchestrator) transitionTo(next Phase, eff *Effects) {
	if next == o.phase {
		return
	}
	if o.phase == Bleeding {
		eff.StopBleeding = true
	}
	if next == Bleeding {
		eff.StartBleeding = true
	}
	o.phase = next
	o.phaseAge = 0
	o.sustain = 0
	o.listenProgress = 0
	o.healProgress = 0
}

// smooth advances the continuous outputs toward their phase targets.
func (o *Orchestrator) smooth(in Input, dt float64) {
	c := o.cfg

	breath := 1.0
	switch o.phase {
	case Tension, Bleeding:
		breath = c.TensionBreath
	case Trauma:
		breath = c.TraumaBreath
	}
	breath = o.reactions.BreathMultiplier(breath, in.AngularVelocity)

	blend := c.PhaseBlendRate
	if o.phase == Healing {
		blend = c.HealingRestoreRate
	}
	o.breathMult = approach(o.breathMult, breath, blend, dt)
	o.depth = approach(o.depth, 1, c.DepthRelaxRate, dt)

	lagTarget := o.lagTarget()
	switch o.phase {
	case Trauma:
		o.lag = lagTarget
	default:
		o.lag = approach(o.lag, lagTarget, blend, dt)
	}
	o.lag = clamp(o.lag, c.MinResponseLag, 1)

	bleed := 0.0
	if o.phase == Bleeding {
		bleed = c.ColorBleedBoost
	}
	colorTarget := clamp01(in.Velocity*c.ColorVelocityWeight + o.tension*c.ColorTensionWeight + bleed)
	o.color = approach(o.color, colorTarget, c.ColorSmoothing, dt)

	gooseTarget := math.Max(o.tension, o.reactions.Goosebumps())
	o.goose = clamp01(o.goose + (gooseTarget-o.goose)*c.GoosebumpSmoothing)
}

func (o *Orchestrator) lagTarget() float64 {
	c := o.cfg
	var lag float64
	if o.phase == Trauma {
		lag = c.TraumaLagBase - c.TraumaLagSpan*o.trauma
	} else {
		lag = 1 - c.ResidualLagSpan*o.trauma
	}
	return clamp(lag, c.MinResponseLag, 1)
}

func (o *Orchestrator) output(in Input, eff Effects, prev Phase) Output {
	c := o.cfg
	r := o.reactions.Values()

	pause := 0.0
	if o.phase == Listening {
		pause = math.Sin(math.Pi * o.listenProgress)
	}

	intensity := touchIntensity(in.Radius, in.Pressure)
	roll := 0.0
	if in.Velocity >= c.IdleVelocity {
		roll = clamp01(in.Velocity*4) * o.lag * intensity
	}
	influence := 0.0
	if !o.returned {
		influence = intensity * 0.6
		if in.Contact {
			influence = intensity
		}
	}

	return Output{
		Phase:         o.phase,
		PreviousPhase: prev,
		PhaseChanged:  prev != o.phase,
		Gesture:       in.Gesture,

		BreathSpeed:   c.BaseBreathSpeed * o.breathMult,
		BreathDepth:   o.depth,
		PauseFactor:   pause,
		ResponseLag:   o.lag,
		ColorProgress: o.color,
		NoiseAmount:   c.BaseNoise * (1 + o.tension) * (1 - c.Reactions.StrokeNoiseDamp*r.StrokeCalm),
		Goosebumps:    o.goose,

		Trauma:  o.trauma,
		Tension: o.tension,

		RollStrength:     roll,
		CursorInfluence:  influence,
		CursorAttraction: o.attraction(r),

		Reactions: r,
		Effects:   eff,
	}
}

// attraction is positive when the creature leans toward the cursor and
// negative when it shies away.
func (o *Orchestrator) attraction(r Reactions) float64 {
	switch o.phase {
	case Tension:
		return clamp(-0.3-0.4*o.tension, -1, 1)
	case Bleeding:
		return -0.8
	case Trauma:
		return clamp(-0.5-0.5*o.trauma, -1, 1)
	default:
		return lerp(0.2, 0.6, r.StrokeCalm)
	}
}

func (o *Orchestrator) addTrauma(d float64) {
	o.trauma = clamp01(o.trauma + d)
}

func sustained(t float64, active bool, dt float64) float64 {
	if active {
		return t + dt
	}
	return 0
}

// touchIntensity scales effect strengths from touch metrics. Devices that
// report neither radius nor pressure get a neutral 1.
func touchIntensity(radius, pressure float64) float64 {
	if math.IsNaN(radius) || math.IsInf(radius, 0) {
		radius = 0
	}
	if math.IsNaN(pressure) || math.IsInf(pressure, 0) {
		pressure = 0
	}
	if radius <= 0 && pressure <= 0 {
		return 1
	}
	return clamp(0.5+pressure+2*radius, 0.5, 1.5)
}

// Phase returns the active phase.
func (o *Orchestrator) Phase() Phase { return o.phase }

// PhaseAge returns seconds spent in the active phase.
func (o *Orchestrator) PhaseAge() float64 { return o.phaseAge }

// Trauma returns the persistent trauma level in [0,1].
func (o *Orchestrator) Trauma() float64 { return o.trauma }

// Tension returns the tension accumulator in [0,1].
func (o *Orchestrator) Tension() float64 { return o.tension }

// IdleTime returns the idle time seen in the last frame's input.
func (o *Orchestrator) IdleTime() float64 { return o.idle }

// HasListenedThisIdle reports whether Listening already fired in the current
// idle session.
func (o *Orchestrator) HasListenedThisIdle() bool { return o.hasListened }

// Reactions returns the gesture reaction bank.
func (o *Orchestrator) Reactions() *ReactionBank { return o.reactions }

// Output returns the most recent output.
func (o *Orchestrator) Output() Output { return o.out }

// Config returns the active configuration.
func (o *Orchestrator) Config() Config { return o.cfg }

// SetConfig replaces the configuration. Accumulators keep their values.
func (o *Orchestrator) SetConfig(cfg Config) {
	o.cfg = cfg
	o.reactions.cfg = cfg.Reactions
}
