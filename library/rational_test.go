package library

import "testing"

func TestNearestRationalExactIntegerFPS(t *testing.T) {
	num, den := NearestRational(30, 16)
	if float64(num)/float64(den) != 30 {
		t.Errorf("NearestRational(30, 16) = %d/%d, want exactly 30", num, den)
	}
}

func TestNearestRationalApproximatesFractionalFPS(t *testing.T) {
	// NTSC-style 29.97 should land close to 30000/1001, within the
	// tolerance a denominator of at most 16 can achieve.
	num, den := NearestRational(29.97, 16)
	got := float64(num) / float64(den)
	if diff := got - 29.97; diff > 0.05 || diff < -0.05 {
		t.Errorf("NearestRational(29.97, 16) = %d/%d = %v, want within 0.05 of 29.97", num, den, got)
	}
}

func TestNearestRationalNonPositiveFPSFallsBackTo30(t *testing.T) {
	num, den := NearestRational(0, 16)
	if num != 30 || den != 1 {
		t.Errorf("NearestRational(0, 16) = %d/%d, want 30/1", num, den)
	}
	num, den = NearestRational(-5, 16)
	if num != 30 || den != 1 {
		t.Errorf("NearestRational(-5, 16) = %d/%d, want 30/1", num, den)
	}
}

func TestNearestRationalRespectsMaxDenominator(t *testing.T) {
	_, den := NearestRational(29.97, 4)
	if den > 4 {
		t.Errorf("den = %d, want <= 4", den)
	}
}
