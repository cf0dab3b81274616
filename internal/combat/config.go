package combat

import "time"

// ToolType selects the capability set a tool grants. Tools are explicit
// variants, not a class hierarchy.
type ToolType string

const (
	ToolNone      ToolType = ""
	ToolHammer    ToolType = "hammer"
	ToolSlingshot ToolType = "slingshot"
)

// ParseTool validates a tool name received from a client.
func ParseTool(value string) (ToolType, bool) {
	switch ToolType(value) {
	case ToolHammer, ToolSlingshot:
		return ToolType(value), true
	default:
		return ToolNone, false
	}
}

// HammerConfig tunes block placement and demolition.
type HammerConfig struct {
	Range         float64 `json:"range" jsonschema:"description=Maximum reach in world units"`
	Damage        float64 `json:"damage" jsonschema:"description=Damage per swing against own blocks"`
	RatePerMinute float64 `json:"ratePerMinute" jsonschema:"description=Maximum swings per minute"`
}

// SlingshotConfig tunes projectile firing.
type SlingshotConfig struct {
	MaxSpeed        float64       `json:"maxSpeed" jsonschema:"description=Upper bound on launch speed"`
	Gravity         float64       `json:"gravity" jsonschema:"description=Downward acceleration applied to projectiles"`
	Lifetime        time.Duration `json:"lifetime" jsonschema:"description=Flight time before a projectile expires"`
	RatePerMinute   float64       `json:"ratePerMinute" jsonschema:"description=Maximum shots per minute"`
	BaseDamage      float64       `json:"baseDamage" jsonschema:"description=Flat damage component per hit"`
	SpeedMultiplier float64       `json:"speedMultiplier" jsonschema:"description=Damage added per unit of impact speed"`
	AmmoCapacity    int           `json:"ammoCapacity" jsonschema:"description=Projectiles carried before a refill"`
	RefillInterval  time.Duration `json:"refillInterval" jsonschema:"description=Delay before a spent projectile is restored"`
}

// Config collects every validator tunable. Loaded once at startup and
// injected; handlers never fetch tuning ad hoc.
type Config struct {
	Hammer    HammerConfig    `json:"hammer"`
	Slingshot SlingshotConfig `json:"slingshot"`

	// OriginTolerance bounds how far a claimed fire origin may sit from the
	// player's actual position.
	OriginTolerance float64 `json:"originTolerance" jsonschema:"description=Allowed error between claimed and actual fire origin"`
	// HitTolerance bounds the distance between the re-derived projectile
	// position and the claimed hit-part position.
	HitTolerance float64 `json:"hitTolerance" jsonschema:"description=Allowed error between re-derived and claimed hit positions"`
	// PingTolerance is the slack granted on top of measured ping in every
	// latency-sensitive comparison.
	PingTolerance time.Duration `json:"pingTolerance" jsonschema:"description=Latency slack for cooldown and timestamp checks"`
	// MaxKickOffenses removes a player once their offense counter reaches it.
	MaxKickOffenses int `json:"maxKickOffenses" jsonschema:"description=Offense count that triggers removal"`
	// StartingBlocks seeds the block resource on spawn.
	StartingBlocks int `json:"startingBlocks" jsonschema:"description=Block resource granted on spawn"`
	// PlayerMaxHealth is the respawn health pool.
	PlayerMaxHealth float64 `json:"playerMaxHealth" jsonschema:"description=Character health on spawn"`
}

// DefaultConfig returns the production tuning defaults.
func DefaultConfig() Config {
	return Config{
		Hammer: HammerConfig{
			Range:         15,
			Damage:        25,
			RatePerMinute: 500,
		},
		Slingshot: SlingshotConfig{
			MaxSpeed:        100,
			Gravity:         40,
			Lifetime:        10 * time.Second,
			RatePerMinute:   400,
			BaseDamage:      10,
			SpeedMultiplier: 0.35,
			AmmoCapacity:    4,
			RefillInterval:  2 * time.Second,
		},
		OriginTolerance: 4,
		HitTolerance:    8,
		PingTolerance:   50 * time.Millisecond,
		MaxKickOffenses: 3,
		StartingBlocks:  12,
		PlayerMaxHealth: 100,
	}
}

// Cooldown converts a per-minute rate into the minimum interval between uses.
func Cooldown(ratePerMinute float64) time.Duration {
	if ratePerMinute <= 0 {
		return 0
	}
	return time.Duration(60 / ratePerMinute * float64(time.Second))
}
