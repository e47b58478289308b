package moonphase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrubberRendersNewestInput(t *testing.T) {
	log := &recordingLogger{}
	s := NewScrubber(NewRenderer(solid(30, 30, white), WithLogger(log)))

	// A drag delivers many ages before the worker gets to run.
	var last PhaseInput
	for age := 0.0; age < SynodicMonth; age++ {
		last = PhaseInput{IlluminatedFraction: FractionForAge(age), AgeDays: age, Latitude: 40}
		s.Submit(last)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go s.Run(ctx)

	res, err := s.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, last, res.Input)
	assert.True(t, res.Available())
	assert.Equal(t, 1, log.count("moon render"))

	latest, ok := s.Latest()
	assert.True(t, ok)
	assert.Equal(t, last, latest.Input)
}

func TestScrubberWaitHonorsContext(t *testing.T) {
	s := NewScrubber(NewRenderer(solid(10, 10, white)))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	_, ok := s.Latest()
	assert.False(t, ok)
}
