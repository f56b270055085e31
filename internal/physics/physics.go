// Package physics implements the deterministic per-tick step function
// that advances the World's players. Step is a pure function over its
// inputs except for the World mutation itself: given an equal world and
// an equal intent map it always produces the same result, because
// players are always visited in sorted-id order.
package physics

import (
	"github.com/google/uuid"

	"sidescroller/internal/world"
)

// Step advances every player in w by one tick of duration dt, applying the
// intent each player declared (absent players are treated as having no
// intent this tick). The caller must already hold w's write guard.
func Step(w *world.World, intents map[uuid.UUID]world.Intent, dt float64) {
	cfg := w.Config.Physics
	for _, p := range w.SortedPlayers() {
		p.PrevY = p.Y
		intent := intents[p.ID]
		// A jump's impulse is the vertical velocity the tick ends with;
		// gravity acts on it from the next tick on.
		jumped := intent == world.IntentJump && !p.Contact.IsFlying()
		applyIntent(p, intent, cfg, dt)
		if !jumped {
			applyGravity(p, cfg, dt)
		}
		integrate(p, dt)
		resolveCollisions(p, w.Config, cfg)
		clampVelocities(p, cfg)
	}
}

func applyIntent(p *world.Player, intent world.Intent, cfg world.PhysicsConfig, dt float64) {
	switch intent {
	case world.IntentMoveLeft:
		if !blockedAgainstWall(p, -1) {
			p.VX -= cfg.AMove * dt
		}
		p.FacingRight = false
	case world.IntentMoveRight:
		if !blockedAgainstWall(p, 1) {
			p.VX += cfg.AMove * dt
		}
		p.FacingRight = true
	case world.IntentStop:
		friction := cfg.AFriction * dt
		switch {
		case p.VX > 0:
			p.VX -= friction
			if p.VX < 0 {
				p.VX = 0
			}
		case p.VX < 0:
			p.VX += friction
			if p.VX > 0 {
				p.VX = 0
			}
		}
	case world.IntentJump:
		tryJump(p, cfg)
	}
}

// blockedAgainstWall reports whether a horizontal push in the given
// direction (-1 left, +1 right) is into the wall a Sliding player is
// pressed against; such pushes are clamped to zero acceleration.
func blockedAgainstWall(p *world.Player, direction float64) bool {
	if !p.Contact.IsSliding() {
		return false
	}
	if p.Contact.Side == world.SideRight && direction > 0 {
		return true
	}
	if p.Contact.Side == world.SideLeft && direction < 0 {
		return true
	}
	return false
}

func tryJump(p *world.Player, cfg world.PhysicsConfig) {
	switch {
	case p.Contact.IsGrounded():
		p.VY = cfg.VJump
		p.Contact = world.Flying()
	case p.Contact.IsSliding():
		p.VY = cfg.VJump
		if p.Contact.Side == world.SideRight {
			p.VX = -cfg.VWallJump
		} else {
			p.VX = cfg.VWallJump
		}
		p.Contact = world.Flying()
	}
}

func applyGravity(p *world.Player, cfg world.PhysicsConfig, dt float64) {
	if p.Contact.IsGrounded() {
		return
	}
	p.VY -= cfg.Gravity * dt
	if p.VY < cfg.VYMin {
		p.VY = cfg.VYMin
	}
}

func integrate(p *world.Player, dt float64) {
	p.X += p.VX * dt
	p.Y += p.VY * dt
}

func resolveCollisions(p *world.Player, cfg world.Config, phys world.PhysicsConfig) {
	resolveGround(p, phys)
	resolvePlatformLanding(p, cfg, phys)
	resolveWalls(p, cfg, phys)
	resolvePlatformEdge(p, cfg, phys)
}

func resolveGround(p *world.Player, phys world.PhysicsConfig) {
	if p.Y < phys.GroundY {
		p.Y = phys.GroundY
		p.VY = 0
		p.Contact = world.Grounded(nil)
	}
}

// resolvePlatformLanding snaps a falling player onto the highest platform
// whose top they crossed this tick, landing from above.
func resolvePlatformLanding(p *world.Player, cfg world.Config, phys world.PhysicsConfig) {
	if p.Contact.IsGrounded() {
		return
	}
	if p.VY > 0 {
		return
	}
	var best *world.Platform
	for i := range cfg.Platforms {
		plat := &cfg.Platforms[i]
		if p.X < plat.XStart || p.X > plat.XEnd {
			continue
		}
		if p.PrevY < plat.YTop || p.Y > plat.YTop {
			continue
		}
		if best == nil || plat.YTop > best.YTop {
			best = plat
		}
	}
	if best == nil {
		return
	}
	p.Y = best.YTop
	p.VY = 0
	id := best.ID
	p.Contact = world.Grounded(&id)
}

// resolveWalls snaps a player's x to a wall face it crossed this tick
// while airborne and within the wall's vertical span, transitioning to
// Sliding.
func resolveWalls(p *world.Player, cfg world.Config, phys world.PhysicsConfig) {
	if p.Contact.IsGrounded() {
		return
	}
	if p.Y < phys.GroundY+phys.Epsilon {
		return
	}
	for i := range cfg.Walls {
		wall := &cfg.Walls[i]
		if p.Y < wall.YBottom || p.Y > wall.YTop {
			continue
		}
		if p.X < wall.X || p.X > wall.X+wall.Width {
			continue
		}
		// Entered the wall's span this tick; snap to the face the player
		// was moving toward and start sliding against it.
		if p.VX >= 0 {
			p.X = wall.X
			p.VX = 0
			p.Contact = world.Sliding(world.SideRight, &wall.ID)
		} else {
			p.X = wall.X + wall.Width
			p.VX = 0
			p.Contact = world.Sliding(world.SideLeft, &wall.ID)
		}
		return
	}
}

// resolvePlatformEdge transitions a Grounded player to Flying once their x
// leaves the span of the platform they were standing on (the Ground plane
// has no edges, so this never fires for Grounded{nil}).
func resolvePlatformEdge(p *world.Player, cfg world.Config, phys world.PhysicsConfig) {
	if !p.Contact.IsGrounded() || p.Contact.PlatformID == nil {
		return
	}
	for i := range cfg.Platforms {
		plat := &cfg.Platforms[i]
		if plat.ID != *p.Contact.PlatformID {
			continue
		}
		if p.X < plat.XStart || p.X > plat.XEnd {
			p.Contact = world.Flying()
		}
		return
	}
}

func clampVelocities(p *world.Player, cfg world.PhysicsConfig) {
	if p.VX > cfg.VXMax {
		p.VX = cfg.VXMax
	} else if p.VX < -cfg.VXMax {
		p.VX = -cfg.VXMax
	}
	if p.VY > cfg.VYMax {
		p.VY = cfg.VYMax
	} else if p.VY < cfg.VYMin {
		p.VY = cfg.VYMin
	}
}
