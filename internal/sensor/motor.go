package sensor

// MotorGround trusts the motor's stability classification.
type MotorGround struct {
	maxSlope float64
	info     GroundInfo
}

func (g *MotorGround) Evaluate(m Motor) {
	info := GroundInfo{
		Grounded:       m.IsStableOnGround(),
		Normal:         m.GroundNormal(),
		FoundAnyGround: m.FoundAnyGround(),
	}
	info.SlopeAngle, info.Walkable = classify(info.Normal, g.maxSlope)
	g.info = info
}

func (g *MotorGround) Info() GroundInfo { return g.info }
func (g *MotorGround) Grounded() bool { return g.info.Grounded }

// MotorFall reports an edge when the motor could not snap or is not stable.
type MotorFall struct {
	overEdge bool
}

func (f *MotorFall) Evaluate(m Motor) {
	f.overEdge = m.SnappingPrevented() || !m.IsStableOnGround()
}

func (f *MotorFall) IsOverEdge() bool { return f.overEdge }
