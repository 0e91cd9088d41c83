package objects

import (
	"image/color"
	"time"

	"github.com/cbodonnell/coinflip/client/animations"
	"github.com/cbodonnell/coinflip/client/fonts"
	"github.com/cbodonnell/coinflip/client/input"
	"github.com/cbodonnell/coinflip/pkg/collisions"
	"github.com/cbodonnell/coinflip/pkg/flip"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/solarlune/resolv"
	"golang.org/x/image/font"
)

var (
	HeadsColor = color.NRGBA{R: 230, G: 180, B: 40, A: 255}
	TailsColor = color.NRGBA{R: 170, G: 180, B: 195, A: 255}

	rimColor    = color.NRGBA{R: 90, G: 70, B: 30, A: 255}
	letterColor = color.NRGBA{R: 60, G: 45, B: 20, A: 255}
)

// Coin draws the coin, plays the spin and reports clicks on it.
type Coin struct {
	*BaseObject

	x, y     float64
	radius   float64
	duration time.Duration
	onClick  func()

	spin      *animations.Spin
	hitSpace  *resolv.Space
	hitObject *resolv.Object
	faces     map[flip.Outcome]*ebiten.Image
}

type NewCoinOptions struct {
	// X is the horizontal center of the coin.
	X float64
	// Y is the vertical center of the coin.
	Y float64
	// Radius is the radius of the coin.
	Radius float64
	// SpinDuration is how long the spin runs.
	SpinDuration time.Duration
	// HitSpace receives the clickable bounds of the coin.
	HitSpace *resolv.Space
	// OnClick is called when the coin is clicked or tapped.
	OnClick func()
	// ZIndex is the z-index of the coin.
	ZIndex int
}

func NewCoin(id string, opts NewCoinOptions) *Coin {
	return &Coin{
		BaseObject: NewBaseObject(id, &NewBaseObjectOpts{
			ZIndex: opts.ZIndex,
		}),
		x:        opts.X,
		y:        opts.Y,
		radius:   opts.Radius,
		duration: opts.SpinDuration,
		onClick:  opts.OnClick,
		spin:     animations.NewSpin(),
		hitSpace: opts.HitSpace,
	}
}

func (c *Coin) Init() error {
	c.faces = map[flip.Outcome]*ebiten.Image{
		flip.OutcomeHeads: c.renderFace("H", HeadsColor),
		flip.OutcomeTails: c.renderFace("T", TailsColor),
	}
	if c.hitSpace != nil {
		c.hitObject = resolv.NewObject(c.x-c.radius, c.y-c.radius, 2*c.radius, 2*c.radius, collisions.HitSpaceTagCoin)
		c.hitSpace.Add(c.hitObject)
	}
	return nil
}

func (c *Coin) Destroy() error {
	if c.hitSpace != nil && c.hitObject != nil {
		c.hitSpace.Remove(c.hitObject)
	}
	for _, img := range c.faces {
		img.Deallocate()
	}
	return nil
}

func (c *Coin) renderFace(letter string, clr color.Color) *ebiten.Image {
	size := int(2 * c.radius)
	img := ebiten.NewImage(size, size)
	r := float32(c.radius)
	vector.DrawFilledCircle(img, r, r, r, clr, true)
	vector.StrokeCircle(img, r, r, r-4, 4, rimColor, true)

	f := fonts.MPlusLargeFont
	bounds, _ := font.BoundString(f, letter)
	w := (bounds.Max.X - bounds.Min.X).Ceil()
	h := (bounds.Max.Y - bounds.Min.Y).Ceil()
	text.Draw(img, letter, f, int(c.radius)-w/2, int(c.radius)+h/2, letterColor)
	return img
}

// StartSpin starts the spin that ends on outcome.
func (c *Coin) StartSpin(outcome flip.Outcome) {
	c.spin.Start(outcome, c.duration)
}

// Land stops the coin on outcome.
func (c *Coin) Land(outcome flip.Outcome) {
	c.spin.Land(outcome)
}

// Rest puts the coin back to its initial position.
func (c *Coin) Rest() {
	c.spin.Reset()
}

func (c *Coin) Update() error {
	c.spin.Step(animations.FrameStep(ebiten.TPS()))

	if c.onClick == nil || c.hitSpace == nil {
		return nil
	}
	x, y, ok := input.JustPressedPosition()
	if !ok {
		return nil
	}
	if !c.contains(float64(x), float64(y)) {
		return nil
	}
	c.onClick()
	return nil
}

// contains checks the point against the hit bounds and then the circle.
func (c *Coin) contains(x, y float64) bool {
	if len(collisions.PointCheck(c.hitSpace, x, y, collisions.HitSpaceTagCoin)) == 0 {
		return false
	}
	dx, dy := x-c.x, y-c.y
	return dx*dx+dy*dy <= c.radius*c.radius
}

func (c *Coin) Draw(screen *ebiten.Image) {
	img := c.faces[c.spin.Face()]
	if img == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-c.radius, -c.radius)
	op.GeoM.Scale(1, c.spin.ScaleY())
	op.GeoM.Translate(c.x, c.y)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(img, op)
}
