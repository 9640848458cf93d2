package mail

import "sync"

// Message is a recorded outgoing email.
type Message struct {
	Subject string
	Body    string
	To      []string
}

// Recorder is a Dispatcher that records messages instead of sending them.
// Tests inject it to assert on notification triggers.
type Recorder struct {
	mu       sync.Mutex
	messages []Message

	// Err, when set, is returned from Send without recording.
	Err error
}

var _ Dispatcher = (*Recorder)(nil)

// Send records the message.
func (r *Recorder) Send(subject, body string, to []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.messages = append(r.messages, Message{Subject: subject, Body: body, To: to})
	return nil
}

// Messages returns a copy of everything sent so far.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}
