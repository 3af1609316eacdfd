package ui

// Result summarises one fixture once diag is done with it.
type Result struct {
	Scopes   int
	Locals   int
	Errors   int
	Warnings int
	Cached   bool // served from the result cache without binding
	Failed   bool // the fixture could not be loaded or bound
}

// Event marks a fixture as started or, with Done set, finished with Result.
type Event struct {
	File   string
	Done   bool
	Result Result
}

// Sink receives progress events.
type Sink interface {
	Emit(Event)
}

// ChannelSink forwards events to a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) Emit(ev Event) {
	if s.Ch != nil {
		s.Ch <- ev
	}
}

// NopSink drops every event.
type NopSink struct{}

func (NopSink) Emit(Event) {}
