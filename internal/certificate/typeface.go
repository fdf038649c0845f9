package certificate

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// DefaultFontPaths are the usual install locations of the Noto faces covering
// Telugu and Devanagari names. Missing files are skipped.
var DefaultFontPaths = []string{
	"/usr/share/fonts/truetype/noto/NotoSansTelugu-Regular.ttf",
	"/usr/share/fonts/truetype/noto/NotoSansDevanagari-Regular.ttf",
	"/usr/share/fonts/noto/NotoSansTelugu-Regular.ttf",
	"/usr/share/fonts/noto/NotoSansDevanagari-Regular.ttf",
	"/usr/share/fonts/google-noto/NotoSansTelugu-Regular.ttf",
	"/usr/share/fonts/google-noto/NotoSansDevanagari-Regular.ttf",
}

// ReadFonts reads the font files that exist among paths.
func ReadFonts(paths []string) [][]byte {
	var out [][]byte
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				log.Printf("certificate: read font %s: %v", path, err)
			}
			continue
		}
		out = append(out, data)
	}
	return out
}

// typeface draws text with a chain of fonts. Each rune uses the first font that
// has a glyph for it; runes no font covers are drawn as boxed code points.
type typeface struct {
	fonts []*sfnt.Font
}

func newTypeface(primary []byte, extra [][]byte) (*typeface, error) {
	t := &typeface{}
	for i, data := range append([][]byte{primary}, extra...) {
		f, err := opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse font %d: %w", i, err)
		}
		t.fonts = append(t.fonts, f)
	}
	return t, nil
}

func newTypefaces(extra [][]byte) (regular, bold *typeface, err error) {
	if regular, err = newTypeface(goregular.TTF, extra); err != nil {
		return nil, nil, err
	}
	if bold, err = newTypeface(gobold.TTF, extra); err != nil {
		return nil, nil, err
	}
	return regular, bold, nil
}

// segment is a run of text drawn with one font; font is -1 for uncovered runes.
type segment struct {
	font  int
	text  string
	width fixed.Int26_6
}

type shapedLine struct {
	size     float64
	faces    []font.Face
	segments []segment
	width    fixed.Int26_6
}

func (t *typeface) faces(size float64) ([]font.Face, error) {
	faces := make([]font.Face, 0, len(t.fonts))
	for _, f := range t.fonts {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			return nil, err
		}
		faces = append(faces, face)
	}
	return faces, nil
}

func (t *typeface) cover(buf *sfnt.Buffer, r rune) int {
	for i, f := range t.fonts {
		if idx, err := f.GlyphIndex(buf, r); err == nil && idx != 0 {
			return i
		}
	}
	return -1
}

// shape splits text into per-font segments at the given size.
func (t *typeface) shape(text string, size float64) (shapedLine, error) {
	faces, err := t.faces(size)
	if err != nil {
		return shapedLine{}, err
	}
	line := shapedLine{size: size, faces: faces}
	var buf sfnt.Buffer
	var current strings.Builder
	currentFont := 0
	flush := func() {
		if current.Len() == 0 {
			return
		}
		seg := segment{font: currentFont, text: current.String()}
		if seg.font < 0 {
			seg.width = fixed.I(boxAdvance(size)) * fixed.Int26_6(len([]rune(seg.text)))
		} else {
			seg.width = font.MeasureString(faces[seg.font], seg.text)
		}
		line.segments = append(line.segments, seg)
		line.width += seg.width
		current.Reset()
	}
	for _, r := range text {
		idx := t.cover(&buf, r)
		if idx != currentFont {
			flush()
			currentFont = idx
		}
		current.WriteRune(r)
	}
	flush()
	return line, nil
}

// fit shapes text at size, shrinking it until the line is at most maxWidth pixels wide.
func (t *typeface) fit(text string, size float64, maxWidth int) (shapedLine, error) {
	line, err := t.shape(text, size)
	for i := 0; err == nil && i < 4 && line.width.Ceil() > maxWidth; i++ {
		size = size * float64(maxWidth) / float64(line.width.Ceil()) * 0.98
		line, err = t.shape(text, size)
	}
	return line, err
}

// draw renders the line horizontally centered on dst with its baseline at y.
func (l shapedLine) draw(dst *image.RGBA, y int, c color.RGBA) {
	src := image.NewUniform(c)
	dot := fixed.Point26_6{X: fixed.I((dst.Bounds().Dx() - l.width.Ceil()) / 2), Y: fixed.I(y)}
	for _, seg := range l.segments {
		if seg.font < 0 {
			for _, r := range seg.text {
				drawCodePoint(dst, r, dot.X.Round(), y, l.size, c)
				dot.X += fixed.I(boxAdvance(l.size))
			}
			continue
		}
		d := font.Drawer{Dst: dst, Src: src, Face: l.faces[seg.font], Dot: dot}
		d.DrawString(seg.text)
		dot.X += seg.width
	}
}

func boxAdvance(size float64) int {
	return int(size*0.75) + 4
}

// drawCodePoint draws an outlined box holding the rune's hex code point, so a
// name written in a script no font covers still renders distinctly.
func drawCodePoint(dst *image.RGBA, r rune, x, baseline int, size float64, c color.RGBA) {
	h := int(size * 0.8)
	w := boxAdvance(size) - 4
	box := image.Rect(x, baseline-h, x+w, baseline)
	src := image.NewUniform(c)
	for _, edge := range []image.Rectangle{
		image.Rect(box.Min.X, box.Min.Y, box.Max.X, box.Min.Y+2),
		image.Rect(box.Min.X, box.Max.Y-2, box.Max.X, box.Max.Y),
		image.Rect(box.Min.X, box.Min.Y, box.Min.X+2, box.Max.Y),
		image.Rect(box.Max.X-2, box.Min.Y, box.Max.X, box.Max.Y),
	} {
		draw.Draw(dst, edge, src, image.Point{}, draw.Over)
	}

	hex := strings.ToUpper(strconv.FormatInt(int64(r), 16))
	if len(hex) < 4 {
		hex = strings.Repeat("0", 4-len(hex)) + hex
	}
	face := basicfont.Face7x13
	metrics := face.Metrics()
	tw := font.MeasureString(face, hex).Ceil()
	th := (metrics.Ascent + metrics.Descent).Ceil()
	small := image.NewRGBA(image.Rect(0, 0, tw, th))
	d := font.Drawer{Dst: small, Src: src, Face: face, Dot: fixed.Point26_6{Y: metrics.Ascent}}
	d.DrawString(hex)

	inner := box.Inset(4)
	target := image.Rect(inner.Min.X, inner.Min.Y+inner.Dy()/4, inner.Max.X, inner.Max.Y-inner.Dy()/4)
	draw.NearestNeighbor.Scale(dst, target, small, small.Bounds(), draw.Over, nil)
}
