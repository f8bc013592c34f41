package system

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/milk9111/grapplefps/common"
	"github.com/milk9111/grapplefps/ecs"
	"github.com/milk9111/grapplefps/ecs/component"
)

const defaultScale = 12.0

// view maps world X/Y onto the screen with the camera at the center. World Y
// is up, screen Y is down.
type view struct {
	camX, camY float64
	scale      float64
	halfW      float64
	halfH      float64
}

func (v view) toScreen(p common.Vec3) (float32, float32) {
	x := (p.X()-v.camX)*v.scale + v.halfW
	y := v.halfH - (p.Y()-v.camY)*v.scale
	return float32(x), float32(y)
}

// rect returns the top-left corner and size of a box centered at c.
func (v view) rect(c common.Vec3, w, h float64) (x, y, sw, sh float32) {
	cx, cy := v.toScreen(c)
	sw = float32(w * v.scale)
	sh = float32(h * v.scale)
	return cx - sw/2, cy - sh/2, sw, sh
}

// RenderSystem draws the side view of the sandbox following the player.
type RenderSystem struct {
	Scale float64
	Debug bool

	player ecs.Entity
}

func NewRenderSystem(scale float64) *RenderSystem {
	if scale <= 0 {
		scale = defaultScale
	}
	return &RenderSystem{Scale: scale}
}

func (r *RenderSystem) view(w *ecs.World, screen *ebiten.Image) view {
	b := screen.Bounds()
	v := view{scale: r.Scale, halfW: float64(b.Dx()) / 2, halfH: float64(b.Dy()) / 2}

	if !r.player.Valid() || !w.IsAlive(r.player) {
		if p, ok := w.First(component.PlayerTagComponent.Kind()); ok {
			r.player = p
		}
	}
	if t, ok := ecs.Get(w, r.player, component.TransformComponent.Kind()); ok {
		v.camX = t.Position.X()
		v.camY = t.Position.Y()
	}
	return v
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}

	screen.Fill(colornames.Midnightblue)
	v := r.view(w, screen)

	ecs.ForEach3(w, component.TransformComponent.Kind(), component.PhysicsBodyComponent.Kind(), component.AppearanceComponent.Kind(), func(_ ecs.Entity, t *component.Transform, pb *component.PhysicsBody, a *component.Appearance) {
		width, height := pb.Width, pb.Height
		if pb.Body != nil {
			width, height = pb.Body.Width(), pb.Body.Height()
		}
		x, y, sw, sh := v.rect(t.Position, width, height)
		var c color.Color = colornames.White
		if a.Color != nil {
			c = a.Color
		}
		vector.FillRect(screen, x, y, sw, sh, c, false)
		if r.Debug {
			vector.StrokeRect(screen, x, y, sw, sh, 1, colornames.Lime, false)
		}
	})

	ecs.ForEach2(w, component.TransformComponent.Kind(), component.EffectComponent.Kind(), func(_ ecs.Entity, t *component.Transform, fx *component.Effect) {
		x, y, sw, sh := v.rect(t.Position, fx.Size, fx.Size)
		var c color.Color = colornames.White
		if fx.Color != nil {
			c = fx.Color
		}
		if fx.Kind == component.EffectDestroyed {
			vector.StrokeRect(screen, x, y, sw, sh, 2, c, true)
			return
		}
		vector.FillRect(screen, x, y, sw, sh, c, true)
	})

	ecs.ForEach(w, component.LineRenderComponent.Kind(), func(_ ecs.Entity, line *component.LineRender) {
		if !line.Visible {
			return
		}
		x0, y0 := v.toScreen(line.Start)
		x1, y1 := v.toScreen(line.End)
		width := line.Width
		if width <= 0 {
			width = 1
		}
		var c color.Color = colornames.Lightgrey
		if line.Color != nil {
			c = line.Color
		}
		vector.StrokeLine(screen, x0, y0, x1, y1, width, c, line.AntiAlias)
	})

	r.drawAim(w, screen, v)
	r.drawHUD(w, screen)
}

func (r *RenderSystem) drawAim(w *ecs.World, screen *ebiten.Image, v view) {
	pb, ok := ecs.Get(w, r.player, component.PhysicsBodyComponent.Kind())
	if !ok || pb.Body == nil {
		return
	}
	l, ok := ecs.Get(w, r.player, component.LookComponent.Kind())
	if !ok || l.Look == nil {
		return
	}
	cam, ok := ecs.Get(w, r.player, component.CameraComponent.Kind())
	if !ok {
		return
	}

	eye := pb.Body.Position().Add(cam.Offset)
	dir := l.Look.Forward()
	reticle := eye.Add(common.Vec3{dir.X(), dir.Y(), 0}.Mul(3))
	x, y := v.toScreen(reticle)
	vector.StrokeRect(screen, x-3, y-3, 6, 6, 1, colornames.White, false)
}

func (r *RenderSystem) drawHUD(w *ecs.World, screen *ebiten.Image) {
	weaponName := "-"
	if ws, ok := ecs.Get(w, r.player, component.WeaponSetComponent.Kind()); ok {
		if slot := ws.ActiveSlot(); slot != nil {
			weaponName = slot.Name
		}
	}
	mode := "-"
	if m, ok := ecs.Get(w, r.player, component.MotorComponent.Kind()); ok && m.Motor != nil {
		mode = m.Motor.Mode().String()
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("weapon: %s  mode: %s", weaponName, mode), 10, 10)
	if r.Debug {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %.1f  TPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()), 10, 26)
	}
}
