package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type tally struct {
	score   int
	blocked bool
}

func TestApplyOrderAndVisibility(t *testing.T) {
	rs := []Rule[tally]{
		{Name: "base", Then: func(c *tally) { c.score = 50 }},
		{Name: "bonus", When: func(c *tally) bool { return c.score >= 50 }, Then: func(c *tally) { c.score += 20 }},
		{Name: "block", When: func(c *tally) bool { return c.score > 60 }, Then: func(c *tally) { c.blocked = true }},
		{Name: "never", When: func(c *tally) bool { return false }, Then: func(c *tally) { c.score = 0 }},
	}

	var c tally
	fired := Apply(&c, rs)

	assert.Equal(t, 70, c.score)
	assert.True(t, c.blocked)
	assert.Equal(t, []string{"base", "bonus", "block"}, fired)
}

func TestApplyNilPredicateAndEffect(t *testing.T) {
	var c tally
	fired := Apply(&c, []Rule[tally]{{Name: "noop"}})
	assert.Equal(t, []string{"noop"}, fired)
	assert.Zero(t, c.score)
}
