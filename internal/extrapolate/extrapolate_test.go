package extrapolate

import (
	"math"
	"testing"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestValue_Linear(t *testing.T) {
	got, err := Value(0, 100, 25)
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if got != 25 {
		t.Errorf("Expected 25, got %v", got)
	}

	got, err = Value(100, 0, 25)
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if got != 75 {
		t.Errorf("Expected 75, got %v", got)
	}
}

func TestValue_MidpointBetweenPositiveEndpoints(t *testing.T) {
	got, err := Value(50, 100, 50)
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if got != 75 {
		t.Errorf("Expected 75, got %v", got)
	}
}

func TestValue_EqualEndpoints(t *testing.T) {
	got, err := Value(42, 42, 73)
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if got != 42 {
		t.Errorf("Expected 42, got %v", got)
	}
}

func TestState_ThresholdKeepsFromSide(t *testing.T) {
	from := strPtr("on")
	to := strPtr("off")

	if got := State(from, to, 50); got == nil || *got != "on" {
		t.Errorf("Expected 'on' at exactly 50%%, got %v", got)
	}
	if got := State(from, to, 50.0001); got == nil || *got != "off" {
		t.Errorf("Expected 'off' just past 50%%, got %v", got)
	}
	if got := State(from, to, 0); got == nil || *got != "on" {
		t.Errorf("Expected 'on' at 0%%, got %v", got)
	}
	if got := State(from, to, 100); got == nil || *got != "off" {
		t.Errorf("Expected 'off' at 100%%, got %v", got)
	}
}

func TestState_MissingSideBorrows(t *testing.T) {
	on := strPtr("on")

	if got := State(nil, on, 10); got == nil || *got != "on" {
		t.Errorf("Expected borrowed 'on' for nil from side, got %v", got)
	}
	if got := State(on, nil, 90); got == nil || *got != "on" {
		t.Errorf("Expected borrowed 'on' for nil to side, got %v", got)
	}
	if got := State(nil, nil, 50); got != nil {
		t.Errorf("Expected nil for both sides missing, got %v", *got)
	}
}

func TestBrightness_Linear(t *testing.T) {
	got, err := Brightness(intPtr(100), intPtr(200), 50, 0)
	if err != nil {
		t.Fatalf("Brightness failed: %v", err)
	}
	if got == nil || *got != 150 {
		t.Errorf("Expected 150, got %v", got)
	}
}

func TestBrightness_MissingSideIsZero(t *testing.T) {
	// Unlike other attributes, a missing brightness side means 0 so lights
	// fade in from and out to darkness
	got, err := Brightness(nil, intPtr(200), 50, 0)
	if err != nil {
		t.Fatalf("Brightness failed: %v", err)
	}
	if got == nil || *got != 100 {
		t.Errorf("Expected 100 fading in, got %v", got)
	}

	got, err = Brightness(intPtr(200), nil, 75, 0)
	if err != nil {
		t.Fatalf("Brightness failed: %v", err)
	}
	if got == nil || *got != 50 {
		t.Errorf("Expected 50 fading out, got %v", got)
	}

	got, err = Brightness(nil, nil, 50, 0)
	if err != nil {
		t.Fatalf("Brightness failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for both sides missing, got %v", *got)
	}
}

func TestBrightness_ModifierClampsHigh(t *testing.T) {
	// 200 at +100% would be 400; the modifier clamps instead of erroring
	got, err := Brightness(intPtr(200), intPtr(200), 50, 100)
	if err != nil {
		t.Fatalf("Brightness failed: %v", err)
	}
	if got == nil || *got != 255 {
		t.Errorf("Expected 255 after clamping, got %v", got)
	}
}

func TestBrightness_ModifierScalesDown(t *testing.T) {
	got, err := Brightness(intPtr(100), intPtr(100), 50, -50)
	if err != nil {
		t.Fatalf("Brightness failed: %v", err)
	}
	if got == nil || *got != 50 {
		t.Errorf("Expected 50 at -50%%, got %v", got)
	}

	got, err = Brightness(intPtr(10), intPtr(10), 50, -100)
	if err != nil {
		t.Fatalf("Brightness failed: %v", err)
	}
	if got == nil || *got != 0 {
		t.Errorf("Expected 0 at -100%%, got %v", got)
	}
}

func TestColorTempKelvin(t *testing.T) {
	got, err := ColorTempKelvin(intPtr(2700), intPtr(6500), 50)
	if err != nil {
		t.Fatalf("ColorTempKelvin failed: %v", err)
	}
	if got == nil || *got != 4600 {
		t.Errorf("Expected 4600, got %v", got)
	}

	// A missing side borrows the full value instead of defaulting
	got, err = ColorTempKelvin(nil, intPtr(6500), 10)
	if err != nil {
		t.Fatalf("ColorTempKelvin failed: %v", err)
	}
	if got == nil || *got != 6500 {
		t.Errorf("Expected borrowed 6500, got %v", got)
	}
}

func TestRGB_PerChannel(t *testing.T) {
	from := &[3]int{255, 0, 100}
	to := &[3]int{0, 255, 200}

	got, err := RGB(from, to, 50)
	if err != nil {
		t.Fatalf("RGB failed: %v", err)
	}
	expected := [3]int{128, 128, 150}
	if got == nil || *got != expected {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestRGB_MissingSideBorrowsWholeValue(t *testing.T) {
	to := &[3]int{10, 20, 30}

	got, err := RGB(nil, to, 25)
	if err != nil {
		t.Fatalf("RGB failed: %v", err)
	}
	if got == nil || *got != *to {
		t.Errorf("Expected borrowed %v, got %v", *to, got)
	}
}

func TestHS_ChannelsRounded(t *testing.T) {
	from := &[2]float64{30, 100}
	to := &[2]float64{60, 0}

	got, err := HS(from, to, 33)
	if err != nil {
		t.Fatalf("HS failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected a result, got nil")
	}
	if math.Abs(got[0]-40) > 0.0001 || math.Abs(got[1]-67) > 0.0001 {
		t.Errorf("Expected [40 67], got %v", *got)
	}
}

func TestRGBWW_PerChannel(t *testing.T) {
	from := &[5]int{255, 0, 0, 100, 0}
	to := &[5]int{0, 255, 0, 0, 200}

	got, err := RGBWW(from, to, 50)
	if err != nil {
		t.Fatalf("RGBWW failed: %v", err)
	}
	expected := [5]int{128, 128, 0, 50, 100}
	if got == nil || *got != expected {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}
