package parameter

import "time"

// Player
const (
	PlayerMaxFuel   = 100
	PlayerMaxShield = 100

	// PlayerTurnRate is the angular velocity change per rotate key press (radians/frame)
	PlayerTurnRate = 0.01

	// PlayerThrust is the velocity change per thrust key press (cells/frame)
	PlayerThrust = 0.05

	// PlayerFireCooldown is the minimum interval between missiles
	PlayerFireCooldown = 250 * time.Millisecond

	// PlayerInitialY is the spawn row offset from the bottom of the field
	PlayerInitialY = 6

	// PlayerMaxSpeed caps thrust accumulation (cells/frame)
	PlayerMaxSpeed = 1.0
)

// Missiles
const (
	// MissileSpeed is added to the player velocity along the heading (cells/frame)
	MissileSpeed = 0.6

	// ExplosionTicksPerFrame is the number of updates each explosion frame stays on screen
	ExplosionTicksPerFrame = 8

	// ExplosionFrames is the explosion animation length
	ExplosionFrames = 4
)

// Damage & Score
const (
	DamageEnemyCollision = 50
	DamageAsteroidLarge  = 30
	DamageAsteroidMedium = 20
	DamageAsteroidSmall  = 10
	DamageMissileOnEnemy = 50

	EnemyMaxShield = 100

	ScoreMissileHit = 10

	// LifeScoreInterval grants a shield refill every N points
	LifeScoreInterval = 500
)

// Enemies
const (
	// EnemySteerTicks is the number of updates between enemy course corrections
	EnemySteerTicks = 10
)

// Asteroids
const (
	// AsteroidMinSpeedSq keeps asteroids drifting; slower ones get a random kick
	AsteroidMinSpeedSq = 0.01

	// AsteroidSplitCount is the number of fragments a split asteroid produces
	AsteroidSplitCount = 3

	// AsteroidSplitSpeedup scales fragment speed relative to the parent
	AsteroidSplitSpeedup = 1.25

	// AsteroidAnimTicks is the number of updates between asteroid glyph frames
	AsteroidAnimTicks = 6
)

// Levels & Flow
const (
	// NextLevelDelay postpones the first spawn after a level change
	NextLevelDelay = 500 * time.Millisecond
)
