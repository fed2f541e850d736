package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCodeEquivalentSpellings(t *testing.T) {
	variants := []string{"CSC 301", "csc-301", "Csc301", "CSC.301", " csc 301 "}
	want := NormalizeCode(variants[0])
	for _, v := range variants {
		assert.Equal(t, want, NormalizeCode(v), "variant %q", v)
	}
	assert.Equal(t, "CSC301", want)
}

func TestNormalizeCodeStripsNonAlphanumerics(t *testing.T) {
	assert.Equal(t, "MTH1012", NormalizeCode("MTH-101/2"))
	assert.Equal(t, "", NormalizeCode("  --  "))
}

func TestNormalizeTitleCollapsesPunctuationAndWhitespace(t *testing.T) {
	got := NormalizeTitle("Intro.  to:  Computer-Science, I", false)
	assert.Equal(t, "INTRO TO COMPUTER SCIENCE I", got)
}

func TestNormalizeTitleStopwordRemoval(t *testing.T) {
	kept := NormalizeTitle("Introduction to the Theory of Computation", false)
	stripped := NormalizeTitle("Introduction to the Theory of Computation", true)
	assert.Equal(t, "INTRODUCTION TO THE THEORY OF COMPUTATION", kept)
	assert.Equal(t, "INTRODUCTION THEORY COMPUTATION", stripped)
}
