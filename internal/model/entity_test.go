package model

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountryFor(t *testing.T) {
	c, ok := CountryFor("Bitel")
	require.True(t, ok)
	assert.Equal(t, "Peru", c)

	c, ok = CountryFor("Metfone")
	require.True(t, ok)
	assert.Equal(t, "Cambodia", c)

	_, ok = CountryFor("Verizon")
	assert.False(t, ok)
}

func TestOperatorsAllMapToACountry(t *testing.T) {
	ops := Operators()
	require.Len(t, ops, 10)
	for _, op := range ops {
		_, ok := CountryFor(op)
		assert.True(t, ok, op)
	}
}

func TestNewCodeFormat(t *testing.T) {
	now := time.Date(2024, 10, 10, 15, 30, 0, 0, time.UTC)
	re := regexp.MustCompile(`^Peru-20241010-\d{3}$`)
	for i := 0; i < 50; i++ {
		code := NewCode("Peru", now)
		assert.Regexp(t, re, code)
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []Status{StatusInprocess, StatusAccepted, StatusClosed, StatusWithdrawn} {
		assert.True(t, ValidStatus(s))
	}
	assert.False(t, ValidStatus("Done"))
	assert.False(t, ValidStatus(""))
}

func TestValidPriority(t *testing.T) {
	assert.True(t, ValidPriority(PriorityNormal))
	assert.True(t, ValidPriority(PriorityUrgent))
	assert.False(t, ValidPriority("High"))
}

func TestHasResponseAndSolution(t *testing.T) {
	var tk Ticket
	assert.False(t, tk.HasResponse())
	assert.False(t, tk.HasSolution())

	empty := ""
	tk.Response = &empty
	assert.False(t, tk.HasResponse())

	text := "working on it"
	tk.Response = &text
	tk.Solution = &text
	assert.True(t, tk.HasResponse())
	assert.True(t, tk.HasSolution())
}
