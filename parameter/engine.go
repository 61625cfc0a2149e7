package parameter

import "time"

// Frame Loop & Engine Timing
const (
	// FramesPerSecond is the target frame rate of the update/render loop
	FramesPerSecond = 60

	// FramePeriod is the wall-clock budget of one update+render cycle
	FramePeriod = time.Second / FramesPerSecond

	// MaxFrameSkips bounds the update-only passes performed after a stall in one iteration
	MaxFrameSkips = 2

	// YieldThreshold is the number of consecutive frames without sleep before the loop yields
	YieldThreshold = 16

	// OverrunLogInterval throttles frame overrun warnings
	OverrunLogInterval = 5 * time.Second

	// FPSSampleFrames is the number of frames averaged for the fps metric
	FPSSampleFrames = 30
)

// Pools
const (
	// MissilePoolCapacity bounds live player missiles
	MissilePoolCapacity = 8

	// DefaultPoolCapacity is used when a pool is created with a non-positive capacity
	DefaultPoolCapacity = 5
)
