package processor

import (
	"sort"
	"strings"
)

// Known stream types
const (
	StreamTypeExpense = "expense"
)

// ErrUnknownStreamType indicates a stream type with no registered processor
type ErrUnknownStreamType struct {
	StreamType string
	Known      []string
}

func (e ErrUnknownStreamType) Error() string {
	return "unknown stream type: " + e.StreamType + ", must be one of: " + strings.Join(e.Known, ", ")
}

// Factory maps configured stream types to their processors. Resolution
// happens once at startup so a misconfigured type fails fast instead of
// surfacing mid-stream.
type Factory struct {
	processors map[string]EventProcessor
}

func NewFactory() *Factory {
	return &Factory{
		processors: make(map[string]EventProcessor),
	}
}

// Register binds a processor to a stream type, replacing any previous binding
func (f *Factory) Register(streamType string, p EventProcessor) {
	f.processors[streamType] = p
}

// GetProcessor resolves the processor for the given stream type
func (f *Factory) GetProcessor(streamType string) (EventProcessor, error) {
	p, ok := f.processors[streamType]
	if !ok {
		known := make([]string, 0, len(f.processors))
		for t := range f.processors {
			known = append(known, t)
		}
		sort.Strings(known)
		return nil, ErrUnknownStreamType{StreamType: streamType, Known: known}
	}
	return p, nil
}
