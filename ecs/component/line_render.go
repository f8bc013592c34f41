package component

import (
	"image/color"

	"github.com/milk9111/grapplefps/common"
)

// LineRender defines a world-space line to render.
type LineRender struct {
	Start     common.Vec3
	End       common.Vec3
	Width     float32
	Color     color.Color
	AntiAlias bool
	Visible   bool
}

var LineRenderComponent = NewComponent[LineRender]()
