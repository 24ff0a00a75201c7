package utils

import (
	"testing"

	"github.com/decker502/lanedefense/pkg/config"
)

func TestUnitScreenPosition(t *testing.T) {
	t.Run("地面单位不偏移", func(t *testing.T) {
		x, y := UnitScreenPosition(200, config.LaneY, false)
		if x != 200 || y != config.LaneY {
			t.Errorf("got (%v, %v), 期望 (200, %v)", x, y, config.LaneY)
		}
	})

	t.Run("飞行单位抬高", func(t *testing.T) {
		_, y := UnitScreenPosition(200, config.LaneY+3, true)
		want := config.LaneY + 3 - config.FlyingAltitude
		if y != want {
			t.Errorf("got y=%v, 期望 %v", y, want)
		}
	})
}

func TestCenteredRect(t *testing.T) {
	r := CenteredRect(100, 300, 20, 40)
	if r.X != 90 || r.Y != 260 || r.W != 20 || r.H != 40 {
		t.Errorf("CenteredRect() = %+v", r)
	}
	if !r.Contains(90, 260) {
		t.Error("左上角应在矩形内")
	}
	if r.Contains(110, 280) {
		t.Error("右边界不应在矩形内")
	}
}

func TestBarWidth(t *testing.T) {
	tests := []struct {
		name     string
		value    int
		max      int
		expected float64
	}{
		{"满", 100, 100, 40},
		{"四分之一", 25, 100, 10},
		{"空", 0, 100, 0},
		{"上限为零", 5, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BarWidth(tt.value, tt.max, 40); got != tt.expected {
				t.Errorf("BarWidth(%d, %d) = %v, 期望 %v", tt.value, tt.max, got, tt.expected)
			}
		})
	}
}
