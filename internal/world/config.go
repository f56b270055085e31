package world

import (
	"encoding/json"
	"fmt"
	"os"
)

// Platform is an immutable horizontal surface loaded from configuration.
type Platform struct {
	ID     string  `json:"id"`
	XStart float64 `json:"x_start"`
	XEnd   float64 `json:"x_end"`
	YTop   float64 `json:"y_top"`
	Height float64 `json:"height"`
	Color  string  `json:"color"`
}

// Wall is an immutable vertical surface loaded from configuration.
type Wall struct {
	ID      string  `json:"id"`
	X       float64 `json:"x"`
	YBottom float64 `json:"y_bottom"`
	YTop    float64 `json:"y_top"`
	Width   float64 `json:"width"`
	Color   string  `json:"color"`
}

// PhysicsConfig pins the movement and collision constants, plus the
// ground geometry and player footprint used by collision resolution.
type PhysicsConfig struct {
	TickHz       int     `json:"tick_hz"`
	Gravity      float64 `json:"gravity"`
	VXMax        float64 `json:"vx_max"`
	VYMin        float64 `json:"vy_min"`
	VYMax        float64 `json:"vy_max"`
	VJump        float64 `json:"v_jump"`
	VWallJump    float64 `json:"v_wall_jump"`
	AMove        float64 `json:"a_move"`
	AFriction    float64 `json:"a_friction"`
	Epsilon      float64 `json:"epsilon"`
	GroundY      float64 `json:"ground_y"`
	PlayerWidth  float64 `json:"player_width"`
	PlayerHeight float64 `json:"player_height"`
	GroundColor  string  `json:"ground_color"`
}

// Dt returns the fixed tick duration in seconds.
func (p PhysicsConfig) Dt() float64 {
	if p.TickHz <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / float64(p.TickHz)
}

// Config is the frozen level geometry and physics tuning consulted by the
// physics engine on every tick. GET /api/config serves its client-facing
// subset (geometry, ground and player footprint), not the tuning constants.
type Config struct {
	IdleTimeoutSeconds int           `json:"idle_timeout_seconds"`
	Physics            PhysicsConfig `json:"physics"`
	Platforms          []Platform    `json:"platforms"`
	Walls              []Wall        `json:"walls"`
}

// DefaultConfig mirrors the reference implementation's fallback geometry,
// extended with a single wall so wall-sliding has a fixture to exercise
// (the source's own default has none).
func DefaultConfig() Config {
	return Config{
		IdleTimeoutSeconds: 180,
		Physics: PhysicsConfig{
			TickHz:       60,
			Gravity:      30,
			VXMax:        10,
			VYMin:        -40,
			VYMax:        15,
			VJump:        12,
			VWallJump:    8,
			AMove:        20,
			AFriction:    30,
			Epsilon:      0.05,
			GroundY:      -10,
			PlayerWidth:  1.5,
			PlayerHeight: 1.5,
			GroundColor:  "#8B6F47",
		},
		Platforms: []Platform{
			{ID: "platform_1", XStart: -3, XEnd: 3, YTop: 2, Height: 0.5, Color: "#B34733"},
		},
		Walls: []Wall{
			{ID: "wall_1", X: 6, YBottom: -10, YTop: 6, Width: 0.5, Color: "#666666"},
		},
	}
}

// LoadConfig reads level geometry from a JSON file, falling back to
// DefaultConfig when path is empty. An unreadable or unparsable file is an
// error.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read game config %q: %w", path, err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse game config %q: %w", path, err)
	}
	if cfg.Physics.TickHz == 0 {
		cfg.Physics.TickHz = DefaultConfig().Physics.TickHz
	}
	if cfg.IdleTimeoutSeconds == 0 {
		cfg.IdleTimeoutSeconds = DefaultConfig().IdleTimeoutSeconds
	}
	return cfg, nil
}
