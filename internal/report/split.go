package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// MessageLimit leaves room under the 2000-byte chat limit for a header.
	MessageLimit = 1900
	// EmojiCost is what the chat server charges for one :emoji: beyond its
	// name.
	EmojiCost = 21
)

// Splitter breaks a markdown list into chat-sized messages. A second-level
// bullet is never separated from its children, and a toplevel item that
// spans messages is repeated with a "- cont." suffix.
type Splitter struct {
	// ForceCommitOnToplevel starts a new message at every toplevel item.
	ForceCommitOnToplevel bool

	entries   []string
	toplevel  string
	curLength int
	messages  []string
}

// Split returns the message bodies for text.
func (s *Splitter) Split(text string) []string {
	s.entries, s.toplevel, s.curLength, s.messages = nil, "", 0, nil
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "-") {
			s.toplevel = cutToplevel(line)
			if s.ForceCommitOnToplevel {
				s.commit(0)
			}
		}
		s.append(line)
	}
	s.commit(-1)
	return s.messages
}

func (s *Splitter) commit(nextNest int) {
	if len(s.entries) == 0 {
		return
	}
	upto := len(s.entries)
	if nextNest > 1 {
		for i := len(s.entries) - 1; i > 0; i-- {
			if strings.HasPrefix(s.entries[i], "  -") {
				upto = i
				break
			}
		}
	}
	s.messages = append(s.messages, strings.Join(s.entries[:upto], "\n"))
	leftover := s.entries[upto:]

	s.curLength = 0
	s.entries = nil
	if nextNest > 0 {
		s.append(s.toplevel + " - cont.")
	}
	for _, l := range leftover {
		s.append(l)
	}
}

func (s *Splitter) append(line string) {
	line = spaceEmojis(line)
	cost := len(line) + 1 + strings.Count(line, ":")/2*EmojiCost
	if s.curLength+cost > MessageLimit {
		nest := 0
		if i := strings.Index(line, "-"); i > 0 {
			nest = i / 2
		}
		s.commit(nest)
	}
	s.curLength += cost
	s.entries = append(s.entries, line)
}

// spaceEmojis surrounds every :emoji: with spaces so the chat server
// renders it.
func spaceEmojis(line string) string {
	idx := 0
	for {
		rel := strings.IndexByte(line[idx:], ':')
		if rel < 0 {
			return line
		}
		start := idx + rel
		if start >= len(line)-1 || line[start+1] == ' ' {
			idx = start + 1
			continue
		}
		closing := strings.IndexByte(line[start+1:], ':')
		if closing < 0 {
			return line
		}
		end := start + 1 + closing + 1
		before, after := "", ""
		if start > 0 && line[start-1] != ' ' {
			before = " "
		}
		if end < len(line) && line[end] != ' ' {
			after = " "
		}
		line = line[:start] + before + line[start:end] + after + line[end:]
		idx = end
	}
}

// WriteMessages replaces dir with one msgNN.md file per message, each
// headed by "<prefix> [i/n]<suffix>".
func WriteMessages(dir string, messages []string, prefix, suffix string) error {
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for i, m := range messages {
		name := filepath.Join(dir, fmt.Sprintf("msg%02d.md", i+1))
		content := fmt.Sprintf("%s [%d/%d]%s\n%s", prefix, i+1, len(messages), suffix, m)
		if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	return nil
}
