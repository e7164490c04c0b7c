package landing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Shape(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	assert.Equal(t, "GPTunnel", c.Brand)
	assert.Len(t, c.Hero.Stats, 3)
	assert.Len(t, c.Grid, 6)
	assert.Len(t, c.Pricing.Plans, 3)
	assert.Len(t, c.Contact.Cards, 3)
	assert.Len(t, c.Contact.Fields, 4)
	assert.Len(t, c.Footer.Socials, 4)

	hl := c.HighlightedPlans()
	require.Len(t, hl, 1)
	assert.Equal(t, "Про", hl[0].Name)
	assert.Equal(t, "2990₽", hl[0].Price)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Content)
		want   string
	}{
		{"two highlighted", func(c *Content) { c.Pricing.Plans[0].Highlighted = true }, "exactly one highlighted plan, got 2"},
		{"none highlighted", func(c *Content) { c.Pricing.Plans[1].Highlighted = false }, "got 0"},
		{"no plans", func(c *Content) { c.Pricing.Plans = nil }, "no pricing plans"},
		{"no nav", func(c *Content) { c.Nav = nil }, "nav has no links"},
		{"plan without features", func(c *Content) { c.Pricing.Plans[2].Features = nil }, `plan "Бизнес" lists no features`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestIconID(t *testing.T) {
	tests := map[string]string{
		"Zap":           "lucide:zap",
		"BrainCircuit":  "lucide:brain-circuit",
		"MessageSquare": "lucide:message-square",
		"ImagePlus":     "lucide:image-plus",
		"MapPin":        "lucide:map-pin",
		"DollarSign":    "lucide:dollar-sign",
		"Github":        "lucide:github",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, IconID(in))
		})
	}
}
