package model_test

import (
	"bytes"
	"testing"

	"github.com/grexie/planet/pkg/model"
	"github.com/stretchr/testify/assert"
)

func TestParamsFromEnv(t *testing.T) {
	t.Setenv("PLANET_BATCH_SIZE", "16")
	t.Setenv("PLANET_THRESHOLD", "0.3")
	t.Setenv("PLANET_IMAGE_SIZE", "8")
	t.Setenv("PLANET_UNKNOWN_POLICY", "reject")
	t.Setenv("PLANET_TUNE_THRESHOLDS", "true")

	p := model.NewParamsFromDefaults()
	assert.Equal(t, 16, p.BatchSize)
	assert.Equal(t, 0.3, p.Threshold)
	assert.Equal(t, 32, p.ImageSize)
	assert.Equal(t, "reject", p.UnknownPolicy)
	assert.Equal(t, "image_name", p.IDColumn)
	assert.Equal(t, model.DefaultBeta, p.Beta)
	assert.True(t, p.TuneThresholds)

	var buf bytes.Buffer
	p.Write(&buf, "Config")
	assert.Contains(t, buf.String(), "PLANET_BATCH_SIZE")
}

func TestBounds(t *testing.T) {
	assert.Equal(t, 1, model.BoundBatchSize(0))
	assert.Equal(t, 1.0, model.BoundThreshold(3))
	assert.Equal(t, 0.9, model.BoundValidationSplit(1))
}
