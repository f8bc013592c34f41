package motor

import "github.com/milk9111/grapplefps/physics"

// Settings tune the force-based controller. Forces are in solver units per
// second and are multiplied by the tick length before being applied.
type Settings struct {
	MoveSpeed            float64 `yaml:"move_speed"`
	MaxSpeed             float64 `yaml:"max_speed"`
	CounterMovement      float64 `yaml:"counter_movement"`
	CounterThreshold     float64 `yaml:"counter_threshold"`
	MaxSlopeAngle        float64 `yaml:"max_slope_angle"`
	WallRunSpeed         float64 `yaml:"wall_run_speed"`
	JumpCooldown         float64 `yaml:"jump_cooldown"`
	JumpForce            float64 `yaml:"jump_force"`
	SlideForce           float64 `yaml:"slide_force"`
	SlideCounterMovement float64 `yaml:"slide_counter_movement"`
	CrouchHeight         float64 `yaml:"crouch_height"`
	CrouchCameraDrop     float64 `yaml:"crouch_camera_drop"`
	GroundBias           float64 `yaml:"ground_bias"`
	SlideDownForce       float64 `yaml:"slide_down_force"`
	SlideSpeedThreshold  float64 `yaml:"slide_speed_threshold"`
	SprintSpeedThreshold float64 `yaml:"sprint_speed_threshold"`
	AirMultiplier        float64 `yaml:"air_multiplier"`
	// GroundDebounceTicks is how many ticks grounded survives without a floor contact.
	GroundDebounceTicks float64           `yaml:"ground_debounce_ticks"`
	GroundMask          physics.LayerMask `yaml:"ground_mask"`
}

func DefaultSettings() Settings {
	return Settings{
		MoveSpeed:            4500,
		MaxSpeed:             20,
		CounterMovement:      0.175,
		CounterThreshold:     0.01,
		MaxSlopeAngle:        35,
		WallRunSpeed:         1000,
		JumpCooldown:         0.25,
		JumpForce:            550,
		SlideForce:           400,
		SlideCounterMovement: 0.2,
		CrouchHeight:         1,
		CrouchCameraDrop:     0.5,
		GroundBias:           10,
		SlideDownForce:       3000,
		SlideSpeedThreshold:  0.5,
		SprintSpeedThreshold: 12,
		AirMultiplier:        0.5,
		GroundDebounceTicks:  3,
		GroundMask:           physics.LayerGround,
	}
}
