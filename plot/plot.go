// Package plot draws a contact map as a picture. Certain contacts are
// black, uncertain ones grey. Mers go along both axes in the order of
// the structure.
package plot

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/andrew-torda/matrix"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/andrew-torda/cmap/cmap"
	"github.com/andrew-torda/cmap/contact"
)

const (
	fontSize = 12.
	border   = 4 // pixels round the map and title
)

var shades = [...]color.Gray{
	contact.NoContact: {Y: 255},
	contact.Uncertain: {Y: 150},
	contact.Certain:   {Y: 0},
}

// Options says how to draw.
type Options struct {
	Scale int    // pixels per mer
	Title string // empty for no title
}

// raster puts the scores into a matrix indexed by position in the
// structure, not by ind.
func raster(m *cmap.Map) (*matrix.FMatrix2d, error) {
	mers := m.Structure().Mers()
	pos := make(map[int]int, len(mers))
	for i, mr := range mers {
		pos[mr.Ind] = i
	}
	r := matrix.NewFMatrix2d(len(mers), len(mers))
	for c := range m.All() {
		i, ok1 := pos[c.Ind1]
		j, ok2 := pos[c.Ind2]
		if ok1 && ok2 {
			r.Mat[i][j] = float32(c.Score)
		}
	}
	if err := m.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

// Render draws the map.
func Render(m *cmap.Map, opt Options) (*image.Gray, error) {
	if opt.Scale < 1 {
		return nil, fmt.Errorf("scale %d must be at least 1", opt.Scale)
	}
	r, err := raster(m)
	if err != nil {
		return nil, err
	}
	n := len(r.Mat)
	top := border
	if opt.Title != "" {
		top += int(fontSize) + border
	}
	side := n * opt.Scale
	img := image.NewGray(image.Rect(0, 0, side+2*border, side+top+border))
	draw.Draw(img, img.Bounds(), image.NewUniform(shades[contact.NoContact]), image.Point{}, draw.Src)
	for i, row := range r.Mat {
		for j, sc := range row {
			if sc == 0 {
				continue
			}
			px := image.Rect(border+j*opt.Scale, top+i*opt.Scale, border+(j+1)*opt.Scale, top+(i+1)*opt.Scale)
			draw.Draw(img, px, image.NewUniform(shades[int(sc)]), image.Point{}, draw.Src)
		}
	}
	if opt.Title != "" {
		if err := title(img, opt.Title); err != nil {
			return nil, err
		}
	}
	return img, nil
}

func title(img draw.Image, s string) error {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return err
	}
	c := freetype.NewContext()
	c.SetDPI(72)
	c.SetFont(f)
	c.SetFontSize(fontSize)
	c.SetClip(img.Bounds())
	c.SetDst(img)
	c.SetSrc(image.Black)
	pt := freetype.Pt(border, border+int(c.PointToFixed(fontSize)>>6))
	_, err = c.DrawString(s, pt)
	return err
}

// WritePNG draws the map and writes it to w.
func WritePNG(w io.Writer, m *cmap.Map, opt Options) error {
	img, err := Render(m, opt)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
