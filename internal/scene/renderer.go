package scene

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Text is the copy burned into every frame.
type Text struct {
	Title     string
	Highlight string
	Caption   string
}

// DefaultText is the reel's title card.
var DefaultText = Text{
	Title:     "AI COVER",
	Highlight: "THE WORLD",
	Caption:   "Future Atlas • 2024",
}

const (
	titleSize   = 164
	captionSize = 38
)

var (
	accent  = color.NRGBA{110, 242, 255, 255}
	paper   = color.NRGBA{247, 248, 251, 255}
	deepSky = color.NRGBA{3, 7, 18, 255}
)

// ContextProvider hands out the drawing context of a surface. It returns nil
// when no context can be acquired.
type ContextProvider interface {
	Context() *gg.Context
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithText replaces the title card copy.
func WithText(t Text) Option {
	return func(r *Renderer) { r.text = t }
}

// Renderer repaints the whole scene for a given elapsed time.
type Renderer struct {
	params Params
	text   Text
	width  float64
	height float64

	titleFace   font.Face
	captionFace font.Face

	// additive layer, reallocated when the target size changes
	glow *gg.Context
}

// NewRenderer creates a renderer for a width x height logical surface.
func NewRenderer(params Params, width, height int, opts ...Option) (*Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("scene size must be positive, got %dx%d", width, height)
	}
	r := &Renderer{
		params: params.Clone(),
		text:   DefaultText,
		width:  float64(width),
		height: float64(height),
	}
	for _, opt := range opts {
		opt(r)
	}

	var err error
	if r.titleFace, err = loadFace(gobold.TTF, titleSize); err != nil {
		return nil, fmt.Errorf("title font: %w", err)
	}
	if r.captionFace, err = loadFace(goregular.TTF, captionSize); err != nil {
		return nil, fmt.Errorf("caption font: %w", err)
	}
	return r, nil
}

func loadFace(ttf []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull}), nil
}

// Params returns a copy of the seeded layout.
func (r *Renderer) Params() Params {
	return r.params.Clone()
}

// Text returns the title card copy.
func (r *Renderer) Text() Text {
	return r.text
}

// Frame draws onto the target's context. It is a no-op when the target has
// no context to give.
func (r *Renderer) Frame(target ContextProvider, elapsed float64) {
	if target == nil {
		return
	}
	dc := target.Context()
	if dc == nil {
		return
	}
	r.Draw(dc, elapsed)
}

// Draw repaints dc from scratch. elapsed is in seconds since the first frame.
func (r *Renderer) Draw(dc *gg.Context, elapsed float64) {
	if math.IsNaN(elapsed) || math.IsInf(elapsed, 0) {
		elapsed = 0
	}
	ratio := float64(dc.Width()) / r.width

	dc.Push()
	defer dc.Pop()
	dc.Identity()
	dc.Scale(ratio, ratio)

	cx := r.width / 2
	cy := r.height * 0.48

	r.drawBackground(dc, ratio)
	r.drawStars(dc, ratio, elapsed)
	r.drawSphere(dc, ratio, cx, cy)
	r.drawRings(dc, ratio, cx, cy, elapsed)
	r.drawSpokes(dc, ratio, cx, cy, elapsed)
	r.drawDots(dc, cx, cy, elapsed)
	r.drawBand(dc, ratio, cy)
	r.drawArcs(dc, ratio, cx, cy, elapsed)
	r.drawPulse(dc, ratio, cx, cy, elapsed)
	r.drawText(dc, cx)
}

// Gradients are evaluated in device space, so their geometry is scaled by hand.

func (r *Renderer) drawBackground(dc *gg.Context, ratio float64) {
	g := gg.NewLinearGradient(0, 0, 0, r.height*ratio)
	g.AddColorStop(0, hex(0x03, 0x07, 0x12))
	g.AddColorStop(0.5, hex(0x0b, 0x10, 0x22))
	g.AddColorStop(1, hex(0x02, 0x04, 0x0a))
	dc.SetFillStyle(g)
	dc.DrawRectangle(0, 0, r.width, r.height)
	dc.Fill()
}

func (r *Renderer) drawStars(dc *gg.Context, ratio, t float64) {
	layer := r.glowLayer(dc, ratio)
	for _, s := range r.params.Stars {
		twinkle := (math.Sin(t*2+s.TwinkleOffset) + 1) / 2
		layer.SetColor(withAlpha(accent, 0.15+twinkle*0.7))
		layer.DrawCircle(s.X, s.Y, s.Size)
		layer.Fill()
	}
	addLayer(rgba(dc), rgba(layer), rgba(dc).Bounds())
}

func (r *Renderer) drawSphere(dc *gg.Context, ratio, cx, cy float64) {
	g := gg.NewRadialGradient((cx-60)*ratio, (cy-120)*ratio, 80*ratio, cx*ratio, cy*ratio, 320*ratio)
	g.AddColorStop(0, hex(0x6e, 0xf2, 0xff))
	g.AddColorStop(0.5, hex(0x1f, 0x7f, 0xd6))
	g.AddColorStop(1, withAlpha(deepSky, 0.9))
	dc.SetFillStyle(g)
	dc.DrawCircle(cx, cy, 310)
	dc.Fill()

	dc.SetColor(withAlpha(accent, 0.3))
	dc.SetLineWidth(4 * ratio)
	dc.DrawCircle(cx, cy, 305)
	dc.Stroke()
}

func (r *Renderer) drawRings(dc *gg.Context, ratio, cx, cy, t float64) {
	dc.SetColor(withAlpha(paper, 0.08))
	dc.SetLineWidth(3 * ratio)
	for _, ring := range r.params.Rings {
		dc.Push()
		dc.Translate(cx, cy)
		dc.Rotate(ring.Rotation + t*ring.Drift)
		dc.DrawEllipse(0, 0, ring.Radius*1.8, ring.Radius)
		dc.Stroke()
		dc.Pop()
	}
}

func (r *Renderer) drawSpokes(dc *gg.Context, ratio, cx, cy, t float64) {
	dc.Push()
	defer dc.Pop()
	dc.Translate(cx, cy)
	dc.Rotate(t * 0.1)
	dc.SetColor(withAlpha(accent, 0.25))
	dc.SetLineWidth(2.4 * ratio)
	for i := 0; i < 360; i += 36 {
		angle := gg.Radians(float64(i))
		inner := 120 + math.Sin(t*1.5+float64(i))*25
		outer := 280 + math.Cos(t*1.2+float64(i))*40
		dc.MoveTo(math.Cos(angle)*inner, math.Sin(angle)*inner)
		dc.LineTo(math.Cos(angle)*outer, math.Sin(angle)*outer)
		dc.Stroke()
	}
}

func (r *Renderer) drawDots(dc *gg.Context, cx, cy, t float64) {
	dc.Push()
	defer dc.Pop()
	dc.Translate(cx, cy)
	dc.Rotate(-t * 0.08)
	dc.SetColor(withAlpha(accent, 0.25))
	for i := 0; i < 16; i++ {
		angle := float64(i) / 16 * math.Pi * 2
		radius := 150 + math.Sin(t*2+angle*4)*40
		dc.DrawCircle(math.Cos(angle)*90, math.Sin(angle)*90, radius*0.12)
		dc.Fill()
	}
}

func (r *Renderer) drawBand(dc *gg.Context, ratio, cy float64) {
	const bandHeight = 360
	top := cy - bandHeight/2
	g := gg.NewLinearGradient(0, top*ratio, 0, (top+bandHeight)*ratio)
	g.AddColorStop(0, withAlpha(deepSky, 0))
	g.AddColorStop(0.5, withAlpha(color.NRGBA{12, 16, 28, 255}, 0.9))
	g.AddColorStop(1, withAlpha(deepSky, 0))
	dc.SetFillStyle(g)
	dc.DrawRectangle(0, top, r.width, bandHeight)
	dc.Fill()
}

func (r *Renderer) drawArcs(dc *gg.Context, ratio, cx, cy, t float64) {
	const arcCount = 30
	dc.Push()
	defer dc.Pop()
	dc.Translate(cx, cy)
	dc.Rotate(t * 0.12)
	dc.SetColor(withAlpha(accent, 0.5))
	dc.SetLineWidth(2 * ratio)
	for i := 0; i < arcCount; i++ {
		progress := float64(i) / arcCount * math.Pi * 2
		radius := 200 + math.Sin(t*1.3+progress*3)*25
		dc.NewSubPath()
		dc.DrawArc(0, 0, radius, progress, progress+math.Pi/6)
		dc.Stroke()
	}
}

func (r *Renderer) drawPulse(dc *gg.Context, ratio, cx, cy, t float64) {
	radius := 200 + math.Sin(t*2.5)*30
	layer := r.glowLayer(dc, ratio)
	layer.SetColor(withAlpha(accent, 0.18))
	layer.DrawCircle(cx, cy, radius)
	layer.Fill()

	pad := 2.0
	box := image.Rect(
		int((cx-radius-pad)*ratio), int((cy-radius-pad)*ratio),
		int((cx+radius+pad)*ratio)+1, int((cy+radius+pad)*ratio)+1,
	)
	addLayer(rgba(dc), rgba(layer), box)
}

func (r *Renderer) drawText(dc *gg.Context, cx float64) {
	dc.SetFontFace(r.titleFace)
	dc.SetColor(withAlpha(paper, 0.9))
	dc.DrawStringAnchored(r.text.Title, cx, r.height*0.82, 0.5, 0)
	dc.SetColor(withAlpha(accent, 0.95))
	dc.DrawStringAnchored(r.text.Highlight, cx, r.height*0.92, 0.5, 0)

	dc.SetFontFace(r.captionFace)
	dc.SetColor(withAlpha(paper, 0.75))
	dc.DrawStringAnchored(r.text.Caption, cx, r.height*0.97, 0.5, 0)
}

// glowLayer returns a cleared, transparent layer the size of dc with the same
// logical scale applied.
func (r *Renderer) glowLayer(dc *gg.Context, ratio float64) *gg.Context {
	if r.glow == nil || r.glow.Width() != dc.Width() || r.glow.Height() != dc.Height() {
		r.glow = gg.NewContext(dc.Width(), dc.Height())
	}
	r.glow.Identity()
	r.glow.SetColor(color.Transparent)
	r.glow.Clear()
	r.glow.Scale(ratio, ratio)
	return r.glow
}

func rgba(dc *gg.Context) *image.RGBA {
	return dc.Image().(*image.RGBA)
}

func hex(r, g, b uint8) color.NRGBA {
	return color.NRGBA{r, g, b, 255}
}

func withAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = uint8(math.Round(math.Max(0, math.Min(1, a)) * 255))
	return c
}
