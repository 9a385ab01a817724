package physics

const (
	DefaultCapsuleRadius  = 0.3
	DefaultCapsuleHeight  = 1.8
	DefaultStepHeight     = 0.35
	DefaultSnapDistance   = 0.3
	DefaultMaxStableAngle = 45.0

	GroundProbeDistance    = 0.02
	CastStepFraction       = 0.25
	RayStep                = 0.05
	CollisionAxisTolerance = 1e-9
	SkinWidth              = 1e-4
	MinimumResidualSpeed   = 1e-4
)
