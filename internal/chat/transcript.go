package chat

import "time"

type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Entry is one rendered line of the conversation.
type Entry struct {
	ID string
	// Seq is the exchange the entry belongs to; a user entry and the bot
	// reply to it share the same Seq.
	Seq  uint64
	Role Role
	Text string
	At   time.Time
}

// Transcript is append-only for the lifetime of the widget.
type Transcript struct {
	entries []Entry
}

func (t *Transcript) append(e Entry) {
	t.entries = append(t.entries, e)
}

// Entries returns a copy; callers cannot mutate the transcript through it.
func (t *Transcript) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t *Transcript) Len() int { return len(t.entries) }

// LastOf returns the newest entry with the given role.
func (t *Transcript) LastOf(role Role) (Entry, bool) {
	for i := len(t.entries) - 1; i >= 0; i-- {
		if t.entries[i].Role == role {
			return t.entries[i], true
		}
	}
	return Entry{}, false
}
