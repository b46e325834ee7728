package core

type (
	// Logger is implemented by services/logger. Args may carry an error, a map of extras or the current user.
	Logger interface {
		Debug(msg string, args ...interface{})
		Info(msg string, args ...interface{})
		Warn(msg string, args ...interface{})
		Error(msg string, args ...interface{})
		Fatal(msg string, args ...interface{})
	}

	// MetricsRecorder collects application counters.
	MetricsRecorder interface {
		InterestCreated(field string)
		VisualizationComputed(kind string, groups int)
		FeedbackRequested(outcome string)
	}

	NopMetrics struct{}
)

var _ MetricsRecorder = NopMetrics{}

func (NopMetrics) InterestCreated(string)            {}
func (NopMetrics) VisualizationComputed(string, int) {}
func (NopMetrics) FeedbackRequested(string)          {}
