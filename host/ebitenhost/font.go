package ebitenhost

import (
	"github.com/hajimehoshi/ebiten/v2/examples/resources/fonts"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

const osdFontSize = 8

func loadFace(scale int) (text.Face, error) {
	tt, err := opentype.Parse(fonts.MPlus1pRegular_ttf)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(tt, &opentype.FaceOptions{
		Size:    osdFontSize,
		DPI:     float64(72 * scale),
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	return text.NewGoXFace(face), nil
}
