package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// VariantImage is one image of a variant option at fixed widths.
type VariantImage struct {
	Src200  string `json:"src_200x"`
	Src400  string `json:"src_400x"`
	Src800  string `json:"src_800x"`
	Src1200 string `json:"src_1200x"`
	Src1600 string `json:"src_1600x"`
	Src2000 string `json:"src_2000x"`
}

// SrcSet renders the width-descriptor list for an <img srcset>. Missing
// widths are left out.
func (img VariantImage) SrcSet() string {
	widths := []struct {
		src string
		w   int
	}{
		{img.Src200, 200},
		{img.Src400, 400},
		{img.Src800, 800},
		{img.Src1200, 1200},
		{img.Src1600, 1600},
		{img.Src2000, 2000},
	}

	parts := make([]string, 0, len(widths))
	for _, w := range widths {
		if w.src == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %dw", w.src, w.w))
	}
	return strings.Join(parts, ", ")
}

// VariantImages maps an option value (e.g. a color) to its ordered images.
type VariantImages map[string][]VariantImage

// ParseVariantImages decodes the product-card variant image payload.
func ParseVariantImages(data []byte) (VariantImages, error) {
	var images VariantImages
	if err := json.Unmarshal(data, &images); err != nil {
		return VariantImages{}, fmt.Errorf("parsing variant images: %w", err)
	}
	if images == nil {
		images = VariantImages{}
	}
	return images, nil
}

// Preload is the first image of one option, ready to warm the browser cache.
type Preload struct {
	Option string `json:"option"`
	Src    string `json:"src"`
	SrcSet string `json:"srcset"`
}

// PreloadSet returns one preload per option that has images, sorted by
// option value.
func (vi VariantImages) PreloadSet() []Preload {
	options := make([]string, 0, len(vi))
	for option, images := range vi {
		if len(images) > 0 {
			options = append(options, option)
		}
	}
	sort.Strings(options)

	out := make([]Preload, 0, len(options))
	for _, option := range options {
		first := vi[option][0]
		out = append(out, Preload{Option: option, Src: first.Src800, SrcSet: first.SrcSet()})
	}
	return out
}
