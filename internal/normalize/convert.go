package normalize

import (
	"fmt"

	"github.com/longbridgeapp/opencc"
)

// NewConverter builds the script converter for a convert mode. Chinese
// modes map onto OpenCC conversion profiles; "jp" and the empty mode do no
// transliteration beyond the alias tables and return nil.
func NewConverter(mode string) (Converter, error) {
	var profile string
	switch mode {
	case "zh_cn":
		profile = "t2s"
	case "zh_tw":
		profile = "s2t"
	case "jp", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown convert mode: %q", mode)
	}

	cc, err := opencc.New(profile)
	if err != nil {
		return nil, fmt.Errorf("initializing opencc %s: %w", profile, err)
	}
	return &openccConverter{cc: cc}, nil
}

type openccConverter struct {
	cc *opencc.OpenCC
}

func (c *openccConverter) Convert(text string) (string, error) {
	return c.cc.Convert(text)
}
