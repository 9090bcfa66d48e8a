package lair

import "fmt"

// ActionKind classifies a log entry.
type ActionKind int

const (
	Comment ActionKind = iota
	Gather
	Downgrade
	Destroy
	Add
	Manual
)

func (k ActionKind) String() string {
	switch k {
	case Comment:
		return "comment"
	case Gather:
		return "gather"
	case Downgrade:
		return "downgrade"
	case Destroy:
		return "destroy"
	case Add:
		return "add"
	case Manual:
		return "manual"
	}
	return fmt.Sprintf("ActionKind(%d)", int(k))
}

// PieceCount pairs the piece leaving the source with the piece arriving at
// the target. Names are display names; Tgt is empty when nothing arrives.
type PieceCount struct {
	Src   string
	Tgt   string
	Count int
}

// Entry is one line of the action log.
type Entry struct {
	Kind         ActionKind
	Text         string
	SrcLand      string
	TgtLand      string
	Pieces       []PieceCount
	Intermediate []string
	// Mult is the per-piece gather cost.
	Mult int
	// CSV is the raw actions.csv row of a manual action.
	CSV []string
}

// TotalCount is the number of gathers (or pieces) the entry accounts for.
func (e Entry) TotalCount() int {
	n := 0
	for _, p := range e.Pieces {
		n += p.Count
	}
	if e.Mult > 1 {
		n *= e.Mult
	}
	return n
}

// Record is a log entry at a nesting level.
type Record struct {
	Nest  int
	Entry Entry
}

// Log is an ordered, nested action log.
type Log struct {
	indent  int
	Records []Record
}

// NewLog returns an empty top-level log.
func NewLog() *Log {
	return &Log{}
}

// Add appends an entry at the current indent.
func (l *Log) Add(e Entry) {
	l.Records = append(l.Records, Record{Nest: l.indent, Entry: e})
}

// Commentf appends a comment entry.
func (l *Log) Commentf(format string, args ...any) {
	l.Add(Entry{Kind: Comment, Text: fmt.Sprintf(format, args...)})
}

// Indent runs fn with entries nested one level deeper.
func (l *Log) Indent(fn func()) {
	l.indent++
	defer func() { l.indent-- }()
	fn()
}

// Fork returns an empty child log one level deeper. Its entries are
// appended to l by Join.
func (l *Log) Fork() *Log {
	return &Log{indent: l.indent + 1}
}

// Join appends all records of a forked child.
func (l *Log) Join(child *Log) {
	l.Records = append(l.Records, child.Records...)
}

// Clone returns an independent copy of the log.
func (l *Log) Clone() *Log {
	c := &Log{indent: l.indent, Records: make([]Record, len(l.Records))}
	copy(c.Records, l.Records)
	return c
}
