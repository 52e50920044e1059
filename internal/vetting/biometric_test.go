package vetting

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateFace(t *testing.T) {
	assert.True(t, EvaluateFace(FaceScan{Confidence: 0.87}))
	assert.True(t, EvaluateFace(FaceScan{Confidence: 0.85}))
	assert.False(t, EvaluateFace(FaceScan{Confidence: 0.84}))
	assert.False(t, EvaluateFace(FaceScan{}))
}

func TestEvaluateID(t *testing.T) {
	assert.True(t, EvaluateID(IDScan{OCRMatchScore: 0.92, IDNumberMatch: true}))
	assert.False(t, EvaluateID(IDScan{OCRMatchScore: 0.92, IDNumberMatch: false}))
	assert.False(t, EvaluateID(IDScan{OCRMatchScore: 0.80, IDNumberMatch: true}))
}
