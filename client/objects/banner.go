package objects

import (
	"image/color"

	"github.com/cbodonnell/coinflip/client/fonts"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font"
)

// Banner is the result text shown under the coin once a flip lands.
type Banner struct {
	*BaseObject

	x, y    float64
	text    string
	clr     color.Color
	visible bool
}

type NewBannerOptions struct {
	// X is the horizontal center of the banner.
	X float64
	// Y is the baseline of the banner.
	Y float64
	// ZIndex is the z-index of the banner.
	ZIndex int
}

func NewBanner(id string, opts NewBannerOptions) *Banner {
	return &Banner{
		BaseObject: NewBaseObject(id, &NewBaseObjectOpts{
			ZIndex: opts.ZIndex,
		}),
		x: opts.X,
		y: opts.Y,
	}
}

func (b *Banner) Show(t string, clr color.Color) {
	b.text = t
	b.clr = clr
	b.visible = true
}

func (b *Banner) Hide() {
	b.visible = false
}

func (b *Banner) Visible() bool {
	return b.visible
}

func (b *Banner) Text() string {
	return b.text
}

func (b *Banner) Draw(screen *ebiten.Image) {
	if !b.visible {
		return
	}
	f := fonts.MPlusLargeFont
	bounds, _ := font.BoundString(f, b.text)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(b.x-float64(bounds.Max.X>>6)/2, b.y)
	op.ColorScale.ScaleWithColor(b.clr)
	text.DrawWithOptions(screen, b.text, f, op)
}
