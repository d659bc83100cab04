package covers

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/cespare/xxhash/v2"
)

const (
	placeholderGrid   = 5
	placeholderSquare = 12
	placeholderBorder = 6
)

var placeholderBackground = color.NRGBA{0xf8, 0xf8, 0xf8, 0xff}

var placeholderColors = []color.NRGBA{
	{0xe2, 0x4e, 0x1b, 0xff},
	{0x20, 0x6f, 0xb2, 0xff},
	{0x2e, 0x8a, 0x3e, 0xff},
	{0x8e, 0x1c, 0x4a, 0xff},
	{0x5e, 0x35, 0xb1, 0xff},
	{0xc6, 0x28, 0x28, 0xff},
	{0x28, 0x35, 0x93, 0xff},
	{0xed, 0x6c, 0x02, 0xff},
}

// Placeholder renders a mirrored block pattern derived from the book id, used
// in place of a missing cover. The same id always yields the same PNG.
func Placeholder(bookID string) ([]byte, error) {
	sum := xxhash.Sum64String(bookID)
	fg := placeholderColors[sum%uint64(len(placeholderColors))]
	bits := sum >> 24

	side := placeholderGrid*placeholderSquare + placeholderBorder*2
	img := image.NewPaletted(image.Rect(0, 0, side, side), color.Palette{placeholderBackground, fg})

	// only the left half plus the middle column is drawn from the hash
	col, row := 0, 0
	for i := 0; i < placeholderGrid*(placeholderGrid+1)/2; i++ {
		if bits&1 == 1 {
			fillSquare(img, col, row)
			fillSquare(img, placeholderGrid-1-col, row)
		}
		bits >>= 1
		row++
		if row >= placeholderGrid {
			row = 0
			col++
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode placeholder for %s: %w", bookID, err)
	}
	return buf.Bytes(), nil
}

func fillSquare(img *image.Paletted, col, row int) {
	x0 := placeholderBorder + col*placeholderSquare
	y0 := placeholderBorder + row*placeholderSquare
	for y := y0; y < y0+placeholderSquare; y++ {
		for x := x0; x < x0+placeholderSquare; x++ {
			img.SetColorIndex(x, y, 1)
		}
	}
}
