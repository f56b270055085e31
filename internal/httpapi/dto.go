// Package httpapi is the HTTP/SSE edge: short command handlers that
// validate a request and enqueue an intake event, plus the long-lived
// /events stream that subscribes a client to the broadcast buses. No
// handler here ever acquires the World's write guard.
package httpapi

import "sidescroller/internal/world"

// configResponse is the GET /api/config wire shape: only the fields a
// client needs to render the frozen level, not the full tuning surface
// the physics engine consults internally.
type configResponse struct {
	Physics   physicsConfigResponse `json:"physics"`
	Platforms []world.Platform      `json:"platforms"`
	Walls     []world.Wall          `json:"walls"`
}

type physicsConfigResponse struct {
	GroundY      float64 `json:"ground_y"`
	PlayerWidth  float64 `json:"player_width"`
	PlayerHeight float64 `json:"player_height"`
	GroundColor  string  `json:"ground_color"`
}

func newConfigResponse(cfg world.Config) configResponse {
	return configResponse{
		Physics: physicsConfigResponse{
			GroundY:      cfg.Physics.GroundY,
			PlayerWidth:  cfg.Physics.PlayerWidth,
			PlayerHeight: cfg.Physics.PlayerHeight,
			GroundColor:  cfg.Physics.GroundColor,
		},
		Platforms: cfg.Platforms,
		Walls:     cfg.Walls,
	}
}

// initRequest is the POST /api/player/init body.
type initRequest struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
}

// commandRequest is the POST /api/player/command body.
type commandRequest struct {
	PlayerID string         `json:"player_id"`
	Command  commandPayload `json:"command"`
}

type commandPayload struct {
	Type string `json:"type"`
}

// chatRequest is the POST /api/chat body.
type chatRequest struct {
	PlayerID string `json:"player_id"`
	Text     string `json:"text"`
}

// errorResponse is the short JSON reason returned alongside 4xx/5xx.
type errorResponse struct {
	Error string `json:"error"`
}
