package body

import "github.com/Versifine/stride/internal/locomotion"

// Input is the single action format shared by the binary and debug controls.
// It aliases locomotion.Input to avoid field divergence.
type Input = locomotion.Input

type Camera = locomotion.Camera
