package entity

import (
	"bytes"
	"encoding/json"
)

// NotesKind tells which shape a Notes value arrived in
type NotesKind int

const (
	NotesAbsent NotesKind = iota
	NotesText
	NotesList
)

// Notes is the free-text notes field. Stored records and API clients send
// either a single (possibly multi-line) string, a list of strings, or nothing.
type Notes struct {
	Kind NotesKind
	Text string
	List []string
}

// TextNotes builds Notes from a single string
func TextNotes(text string) Notes {
	return Notes{Kind: NotesText, Text: text}
}

// ListNotes builds Notes from individual lines
func ListNotes(lines ...string) Notes {
	return Notes{Kind: NotesList, List: lines}
}

// UnmarshalJSON accepts null, a string, or an array of strings. Notes are
// optional decoration, so any other shape decodes as absent and non-string
// entries of an array are dropped.
func (n *Notes) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*n = Notes{}
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			*n = TextNotes(s)
		}
	case '[':
		var entries []json.RawMessage
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil
		}
		lines := make([]string, 0, len(entries))
		for _, entry := range entries {
			var line string
			if len(entry) > 0 && entry[0] == '"' && json.Unmarshal(entry, &line) == nil {
				lines = append(lines, line)
			}
		}
		*n = ListNotes(lines...)
	}
	return nil
}

// MarshalJSON writes the notes back in the shape they arrived in
func (n Notes) MarshalJSON() ([]byte, error) {
	switch n.Kind {
	case NotesText:
		return json.Marshal(n.Text)
	case NotesList:
		if n.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(n.List)
	default:
		return []byte("null"), nil
	}
}
