package trace

// TraceLevel controls the verbosity of generation tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelStages captures the prior draw and every image stage.
	TraceLevelStages TraceLevel = "stages"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:   true,
	TraceLevelStages: true,
	"":               true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// GenerationTrace collects stage records during one generation run.
type GenerationTrace struct {
	Config     TraceConfig
	Seed       string
	Parameters []ParameterRecord
	Images     []ImageRecord
}

// NewGenerationTrace creates a GenerationTrace ready for recording.
func NewGenerationTrace(config TraceConfig) *GenerationTrace {
	return &GenerationTrace{
		Config:     config,
		Parameters: make([]ParameterRecord, 0),
		Images:     make([]ImageRecord, 0),
	}
}

// Enabled reports whether records should be collected. Safe on a nil trace.
func (gt *GenerationTrace) Enabled() bool {
	return gt != nil && gt.Config.Level == TraceLevelStages
}

// RecordParameters appends a parameter family record.
func (gt *GenerationTrace) RecordParameters(record ParameterRecord) {
	gt.Parameters = append(gt.Parameters, record)
}

// RecordImage appends an image stage record.
func (gt *GenerationTrace) RecordImage(record ImageRecord) {
	gt.Images = append(gt.Images, record)
}

// Image returns the record of the named stage, or false if it was not recorded.
func (gt *GenerationTrace) Image(stage string) (ImageRecord, bool) {
	if gt == nil {
		return ImageRecord{}, false
	}
	for _, r := range gt.Images {
		if r.Stage == stage {
			return r, true
		}
	}
	return ImageRecord{}, false
}
