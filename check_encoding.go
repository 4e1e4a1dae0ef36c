package platformcheck

import (
	"context"

	"golang.org/x/text/encoding"
)

// utf8Sample is text the project prints in reports and plots.
type utf8Sample struct {
	Category string
	Text     string
}

var utf8Samples = []utf8Sample{
	{Category: "Greek", Text: "φβγακ"},
	{Category: "Math", Text: "≈±×∈∞→"},
	{Category: "Emoji", Text: "✅❌⚠️"},
	{Category: "Subscripts", Text: "r₀r₁r₂"},
}

// roundTrip encodes s with codec and decodes it back.
func roundTrip(codec encoding.Encoding, s string) (string, error) {
	encoded, err := codec.NewEncoder().String(s)
	if err != nil {
		return "", err
	}
	return codec.NewDecoder().String(encoded)
}

func (c *Checker) checkUTF8Support(context.Context) bool {
	c.out.Section("UTF-8 Support Check")

	ok, clean := true, true
	for _, sample := range utf8Samples {
		decoded, err := roundTrip(c.codec, sample.Text)
		switch {
		case err != nil:
			c.out.Fail("%s: FAILED - %v", sample.Category, err)
			ok = false
		case decoded != sample.Text:
			c.out.Warn("%s: round trip altered text (%q)", sample.Category, decoded)
			clean = false
		default:
			c.out.Pass("%s: %s", sample.Category, sample.Text)
		}
	}

	if name, isUTF8 := consoleEncoding(); !isUTF8 {
		c.out.Warn("Console encoding %s is not UTF-8 (may cause display problems)", name)
		clean = false
	}

	switch {
	case !ok:
		c.out.Fail("UTF-8 encoding errors detected")
	case !clean:
		c.out.Warn("UTF-8 issues detected (may cause display problems)")
	default:
		c.out.Pass("UTF-8 fully supported")
	}
	return ok
}
