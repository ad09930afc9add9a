package trace

import (
	"testing"
)

func TestGenerationTrace_RecordParameters_AppendsRecord(t *testing.T) {
	// GIVEN a trace configured for stages
	gt := NewGenerationTrace(TraceConfig{Level: TraceLevelStages})

	// WHEN a parameter record is recorded
	gt.RecordParameters(ParameterRecord{Family: FamilyAmplitude, Values: []float64{1, 2}})

	// THEN the trace contains one record with correct data
	if len(gt.Parameters) != 1 {
		t.Fatalf("expected 1 parameter record, got %d", len(gt.Parameters))
	}
	if gt.Parameters[0].Family != FamilyAmplitude {
		t.Errorf("expected family %s, got %s", FamilyAmplitude, gt.Parameters[0].Family)
	}
}

func TestGenerationTrace_MultipleRecords_PreservesOrder(t *testing.T) {
	// GIVEN a trace
	gt := NewGenerationTrace(TraceConfig{Level: TraceLevelStages})

	// WHEN multiple records are added
	gt.RecordImage(ImageRecord{Stage: StageExpected, Rows: 1, Cols: 1, Data: []float64{1}})
	gt.RecordImage(ImageRecord{Stage: StageMeasurements, Rows: 1, Cols: 1, Data: []float64{2}})

	// THEN order is preserved
	if gt.Images[0].Stage != StageExpected || gt.Images[1].Stage != StageMeasurements {
		t.Errorf("expected [expected, measurements], got [%s, %s]", gt.Images[0].Stage, gt.Images[1].Stage)
	}
}

func TestGenerationTrace_Image_LooksUpStage(t *testing.T) {
	gt := NewGenerationTrace(TraceConfig{Level: TraceLevelStages})
	gt.RecordImage(ImageRecord{Stage: StageExpected, Rows: 1, Cols: 2, Data: []float64{1, 2}})

	r, ok := gt.Image(StageExpected)
	if !ok || r.Cols != 2 {
		t.Errorf("Image(expected) = %+v, %v; want the recorded 1x2 image", r, ok)
	}
	if _, ok := gt.Image(StageMeasurements); ok {
		t.Error("Image(measurements) found a record that was never added")
	}

	var nilTrace *GenerationTrace
	if _, ok := nilTrace.Image(StageExpected); ok {
		t.Error("nil trace reported a record")
	}
}

func TestGenerationTrace_Enabled(t *testing.T) {
	var nilTrace *GenerationTrace
	if nilTrace.Enabled() {
		t.Error("nil trace must be disabled")
	}
	if NewGenerationTrace(TraceConfig{Level: TraceLevelNone}).Enabled() {
		t.Error("level none must be disabled")
	}
	if !NewGenerationTrace(TraceConfig{Level: TraceLevelStages}).Enabled() {
		t.Error("level stages must be enabled")
	}
}

func TestIsValidTraceLevel(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"none", true},
		{"stages", true},
		{"", true},
		{"decisions", false},
		{"STAGES", false},
	}
	for _, tt := range tests {
		if got := IsValidTraceLevel(tt.level); got != tt.valid {
			t.Errorf("IsValidTraceLevel(%q) = %v, want %v", tt.level, got, tt.valid)
		}
	}
}
