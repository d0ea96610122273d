// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package viewer

import (
	"fmt"
	"unicode/utf16"
)

// Palette assigns each rule name a stable background color. A Palette belongs
// to one render and is not safe for concurrent use.
type Palette struct {
	colors map[string]string
}

func NewPalette() *Palette {
	return &Palette{colors: map[string]string{}}
}

// Color returns the rule swatch as an hsla() CSS color.
func (p *Palette) Color(name string) string {
	if c, ok := p.colors[name]; ok {
		return c
	}
	c := fmt.Sprintf("hsla(%d, 70%%, 70%%, 0.3)", Hue(name))
	p.colors[name] = c
	return c
}

// Hue is the rule name's hash modulo 360. The remainder keeps the sign of the
// hash, so hues range over (-360, 360).
func Hue(name string) int {
	return int(Hash(name) % 360)
}

// Hash is the classic hash*31 + c string hash over UTF-16 code units with
// 32-bit wraparound.
func Hash(s string) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(c)
	}
	return h
}
