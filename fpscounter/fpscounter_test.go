package fpscounter

import "testing"

func TestNewDefaultsWindowWhenInvalid(t *testing.T) {
	c := New(0)
	if c.samples.Len() != DefaultSamples {
		t.Errorf("window = %d, want %d", c.samples.Len(), DefaultSamples)
	}
}

func TestUpdateProducesPositiveFPS(t *testing.T) {
	c := New(3)
	c.Update()
	c.Update()
	if got := c.Averaged(); got <= 0 {
		t.Errorf("Averaged() = %v, want > 0", got)
	}
	if got := c.FPS(); got <= 0 {
		t.Errorf("FPS() = %v, want > 0", got)
	}
}
