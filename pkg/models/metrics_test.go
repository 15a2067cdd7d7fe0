package models

import (
	"math"
	"reflect"
	"testing"
	"time"
)

func TestClampPercent(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-5, 0},
		{0, 0},
		{42.5, 42.5},
		{100, 100},
		{100.01, 100},
		{math.Inf(1), 100},
	}
	for _, tt := range tests {
		if got := ClampPercent(tt.in); got != tt.want {
			t.Errorf("ClampPercent(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSnapshotHelpers(t *testing.T) {
	s := NewSnapshot(FamilyDisk, "svc", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	s.Measurements[MeasureUsagePercent] = 40
	s.Measurements[MeasureFreeGB] = 60
	s.Unsupported = []string{MeasureTotalGB}

	if v, ok := s.Value(MeasureUsagePercent); !ok || v != 40 {
		t.Errorf("Value(usage_percent) = %v, %v, want 40, true", v, ok)
	}
	if _, ok := s.Value(MeasureTotalGB); ok {
		t.Error("Value(total_gb) reported present for an unsupported measurement")
	}
	if !s.IsUnsupported(MeasureTotalGB) || s.IsUnsupported(MeasureFreeGB) {
		t.Errorf("IsUnsupported mismatch for %v", s.Unsupported)
	}
	want := []string{MeasureFreeGB, MeasureUsagePercent}
	if got := s.MeasurementNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("MeasurementNames() = %v, want %v", got, want)
	}
}
