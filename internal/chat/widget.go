package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jask/chatwidget/internal/attachment"
)

type AttachmentState int

const (
	AttachmentEmpty AttachmentState = iota
	AttachmentSelected
)

func (s AttachmentState) String() string {
	if s == AttachmentSelected {
		return "selected"
	}
	return "empty"
}

// Request is a message ready to be sent to the chat endpoint.
type Request struct {
	Seq     uint64
	Message string
}

// Widget is the chat widget controller.
type Widget struct {
	visible    bool
	input      string
	transcript Transcript
	file       *attachment.File
	scroll     int

	ordering Ordering
	seq      uint64
	pending  []*exchange

	now   func() time.Time
	newID func() string
}

func New(ordering Ordering) *Widget {
	if ordering == "" {
		ordering = OrderArrival
	}
	return &Widget{
		ordering: ordering,
		scroll:   -1,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (w *Widget) Visible() bool           { return w.visible }
func (w *Widget) Ordering() Ordering      { return w.ordering }
func (w *Widget) Input() string           { return w.input }
func (w *Widget) SetInput(s string)       { w.input = s }
func (w *Widget) Transcript() *Transcript { return &w.transcript }

// ScrollTarget is the index of the newest entry, or -1 for an empty transcript.
func (w *Widget) ScrollTarget() int { return w.scroll }

// InFlight counts exchanges that were sent and have not finished.
func (w *Widget) InFlight() int {
	n := 0
	for _, ex := range w.pending {
		if !ex.done {
			n++
		}
	}
	return n
}

// Toggle flips the panel between shown and hidden.
func (w *Widget) Toggle() {
	w.visible = !w.visible
}

// HandleEnter sends the input when key is Enter and ignores anything else.
func (w *Widget) HandleEnter(key string) (Request, bool) {
	if !strings.EqualFold(key, "enter") {
		return Request{}, false
	}
	return w.Send()
}

// Send appends the trimmed input as a user entry, clears the input and
// returns the request to dispatch. Blank input is ignored.
func (w *Widget) Send() (Request, bool) {
	msg := strings.TrimSpace(w.input)
	if msg == "" {
		return Request{}, false
	}
	w.seq++
	req := Request{Seq: w.seq, Message: msg}
	w.appendEntry(req.Seq, RoleUser, msg)
	w.input = ""
	w.pending = append(w.pending, &exchange{seq: req.Seq})
	return req, true
}

// Deliver records the reply for seq and returns the entries it appended.
// Under OrderSend the slice may be empty (reply held) or hold several
// released replies. Unknown or finished exchanges are ignored.
func (w *Widget) Deliver(seq uint64, reply string) []Entry {
	ex := w.exchange(seq)
	if ex == nil || ex.done {
		return nil
	}
	ex.done, ex.hasReply, ex.reply = true, true, reply
	return w.flush()
}

// Fail finishes seq without a reply. The transcript gets nothing for it, but
// replies held behind it are released.
func (w *Widget) Fail(seq uint64) []Entry {
	ex := w.exchange(seq)
	if ex == nil || ex.done {
		return nil
	}
	ex.done = true
	return w.flush()
}

func (w *Widget) exchange(seq uint64) *exchange {
	for _, ex := range w.pending {
		if ex.seq == seq {
			return ex
		}
	}
	return nil
}

func (w *Widget) flush() []Entry {
	var out []Entry
	if w.ordering == OrderSend {
		n := 0
		for n < len(w.pending) && w.pending[n].done {
			if ex := w.pending[n]; ex.hasReply {
				out = append(out, w.appendEntry(ex.seq, RoleBot, ex.reply))
			}
			n++
		}
		w.pending = w.pending[n:]
		return out
	}
	kept := w.pending[:0]
	for _, ex := range w.pending {
		if !ex.done {
			kept = append(kept, ex)
			continue
		}
		if ex.hasReply {
			out = append(out, w.appendEntry(ex.seq, RoleBot, ex.reply))
		}
	}
	w.pending = kept
	return out
}

func (w *Widget) appendEntry(seq uint64, role Role, text string) Entry {
	e := Entry{ID: w.newID(), Seq: seq, Role: role, Text: text, At: w.now()}
	w.transcript.append(e)
	w.scroll = w.transcript.Len() - 1
	return e
}

// HandleFileSelect stages the first file of the selection. An empty
// selection changes nothing.
func (w *Widget) HandleFileSelect(files []attachment.File) bool {
	if len(files) == 0 {
		return false
	}
	f := files[0]
	w.file = &f
	return true
}

// RemoveFile clears the staged file. Calling it with nothing staged is a no-op.
func (w *Widget) RemoveFile() {
	w.file = nil
}

func (w *Widget) Attachment() (attachment.File, bool) {
	if w.file == nil {
		return attachment.File{}, false
	}
	return *w.file, true
}

// AttachmentState is derived from the staged file, so the display can never
// disagree with the selection.
func (w *Widget) AttachmentState() AttachmentState {
	if w.file == nil {
		return AttachmentEmpty
	}
	return AttachmentSelected
}
