package certificate

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"golang.org/x/image/draw"
	"little-genius/internal/domain"
)

const (
	width  = 1400
	height = 1000

	confettiDots = 100
	defaultName  = "Young Explorer"
	title        = "Little Genius Explorer"
)

var whitespace = regexp.MustCompile(`\s+`)

// Filename is the download name of a certificate for player.
func Filename(player, ext string) string {
	if strings.TrimSpace(player) == "" {
		player = "Player"
	}
	return "LittleGeniusExplorer_Certificate_" + whitespace.ReplaceAllString(player, "_") + "." + ext
}

// Lines are the texts printed on every certificate, top to bottom.
func Lines(result domain.ResultSummary) []string {
	name := result.PlayerName
	if strings.TrimSpace(name) == "" {
		name = defaultName
	}
	return []string{
		title,
		"Certificate of Achievement",
		"Awarded to",
		name,
		fmt.Sprintf("Score: %d / %d (%s)", result.Score, result.TotalQuestions, result.ModeLabel),
		result.Timestamp.Format("2 Jan 2006"),
	}
}

// PNGRenderer draws certificates as PNG images. Only the confetti is random.
type PNGRenderer struct {
	seed    func() int64
	regular *typeface
	bold    *typeface
}

// NewPNGRenderer builds a renderer on the bundled Go fonts. extraFonts (TTF/OTF
// data, e.g. Noto Sans Telugu and Devanagari) are consulted in order for runes
// the Go fonts lack.
func NewPNGRenderer(extraFonts ...[]byte) (*PNGRenderer, error) {
	regular, bold, err := newTypefaces(extraFonts)
	if err != nil {
		return nil, err
	}
	return &PNGRenderer{
		seed:    func() int64 { return time.Now().UnixNano() },
		regular: regular,
		bold:    bold,
	}, nil
}

const textMaxWidth = width - 2*120

type textLine struct {
	y     int
	size  float64
	bold  bool
	color color.RGBA
}

var layout = []textLine{
	{y: 190, size: 72, bold: true, color: color.RGBA{0x25, 0x63, 0xeb, 0xff}},
	{y: 290, size: 56, bold: true, color: color.RGBA{0x1f, 0x29, 0x37, 0xff}},
	{y: 370, size: 36, color: color.RGBA{0x37, 0x41, 0x51, 0xff}},
	{y: 480, size: 80, bold: true, color: color.RGBA{0xdb, 0x27, 0x77, 0xff}},
	{y: 570, size: 44, color: color.RGBA{0x1e, 0x3a, 0x8a, 0xff}},
	{y: 650, size: 32, color: color.RGBA{0x11, 0x18, 0x27, 0xff}},
}

func (r *PNGRenderer) Render(result domain.ResultSummary) (domain.Certificate, error) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	paintGradient(img)
	paintBorder(img, 40, 20, color.RGBA{0x25, 0x63, 0xeb, 0xff})

	for i, text := range Lines(result) {
		l := layout[i]
		tf := r.regular
		if l.bold {
			tf = r.bold
		}
		line, err := tf.fit(text, l.size, textMaxWidth)
		if err != nil {
			return domain.Certificate{}, fmt.Errorf("lay out %q: %w", text, err)
		}
		line.draw(img, l.y, l.color)
	}
	paintConfetti(img, rand.New(rand.NewSource(r.seed())))

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return domain.Certificate{}, fmt.Errorf("encode png: %w", err)
	}
	return domain.Certificate{
		Filename:    Filename(result.PlayerName, "png"),
		ContentType: "image/png",
		Data:        buf.Bytes(),
	}, nil
}

// paintGradient fills a pink, yellow, blue diagonal gradient.
func paintGradient(img *image.RGBA) {
	stops := []color.RGBA{
		{0xfb, 0xcf, 0xe8, 0xff},
		{0xfe, 0xf9, 0xc3, 0xff},
		{0xba, 0xe6, 0xfd, 0xff},
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			t := (float64(x)/width + float64(y)/height) / 2
			from, to, local := stops[0], stops[1], t*2
			if t >= 0.5 {
				from, to, local = stops[1], stops[2], (t-0.5)*2
			}
			img.SetRGBA(x, y, lerp(from, to, local))
		}
	}
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 { return uint8(float64(x) + (float64(y)-float64(x))*t) }
	return color.RGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), 0xff}
}

func paintBorder(img *image.RGBA, inset, thickness int, c color.RGBA) {
	outer := image.Rect(inset-thickness/2, inset-thickness/2, width-inset+thickness/2, height-inset+thickness/2)
	inner := outer.Inset(thickness)
	src := image.NewUniform(c)
	for _, r := range []image.Rectangle{
		image.Rect(outer.Min.X, outer.Min.Y, outer.Max.X, inner.Min.Y),
		image.Rect(outer.Min.X, inner.Max.Y, outer.Max.X, outer.Max.Y),
		image.Rect(outer.Min.X, inner.Min.Y, inner.Min.X, inner.Max.Y),
		image.Rect(inner.Max.X, inner.Min.Y, outer.Max.X, inner.Max.Y),
	} {
		draw.Draw(img, r, src, image.Point{}, draw.Src)
	}
}

func paintConfetti(img *image.RGBA, rnd *rand.Rand) {
	for i := 0; i < confettiDots; i++ {
		cx := rnd.Float64() * width
		cy := rnd.Float64() * height
		radius := rnd.Float64()*8 + 2
		c := hslToRGB(rnd.Float64()*360, 0.8, 0.7)
		fillCircle(img, cx, cy, radius, c)
	}
}

func fillCircle(img *image.RGBA, cx, cy, r float64, c color.RGBA) {
	for y := int(cy - r); y <= int(cy+r); y++ {
		for x := int(cx - r); x <= int(cx+r); x++ {
			if !(image.Point{X: x, Y: y}).In(img.Rect) {
				continue
			}
			dx, dy := float64(x)-cx, float64(y)-cy
			if dx*dx+dy*dy <= r*r {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

func hslToRGB(h, s, l float64) color.RGBA {
	chroma := (1 - math.Abs(2*l-1)) * s
	hp := h / 60
	x := chroma * (1 - math.Abs(math.Mod(hp, 2)-1))
	var r, g, b float64
	switch {
	case hp < 1:
		r, g = chroma, x
	case hp < 2:
		r, g = x, chroma
	case hp < 3:
		g, b = chroma, x
	case hp < 4:
		g, b = x, chroma
	case hp < 5:
		r, b = x, chroma
	default:
		r, b = chroma, x
	}
	m := l - chroma/2
	return color.RGBA{uint8((r + m) * 255), uint8((g + m) * 255), uint8((b + m) * 255), 0xff}
}
