// Package media formats metadata of non-text attachments into a
// human-readable summary. It is pure: no state, no failure path, blank
// optional fields are simply omitted.
package media

import (
	"fmt"
	"strings"
)

type Kind string

const (
	KindPhoto    Kind = "photo"
	KindDocument Kind = "document"
	KindAudio    Kind = "audio"
	KindVideo    Kind = "video"
)

// Attachment carries the transport-agnostic metadata of one attachment.
// Kind-specific fields are zero for kinds they do not apply to.
type Attachment struct {
	Kind     Kind
	FileID   string
	FileSize int

	// photo / video
	Width  int
	Height int

	// document
	FileName string
	MimeType string

	// audio / video
	Title     string
	Performer string
	Duration  int // seconds
}

// Describe renders the attachment summary sent back to the user.
func Describe(a Attachment) string {
	var b strings.Builder

	switch a.Kind {
	case KindPhoto:
		b.WriteString("Photo received!\n")
		writeLine(&b, "File ID", a.FileID)
		writeInt(&b, "Size (bytes)", a.FileSize)
		writeInt(&b, "Width", a.Width)
		writeInt(&b, "Height", a.Height)
	case KindDocument:
		b.WriteString("Document received!\n")
		writeLine(&b, "File name", a.FileName)
		writeLine(&b, "File ID", a.FileID)
		writeInt(&b, "Size (bytes)", a.FileSize)
		writeLine(&b, "MIME type", a.MimeType)
	case KindAudio:
		b.WriteString("Audio received!\n")
		writeLine(&b, "Track title", a.Title)
		writeLine(&b, "Performer", a.Performer)
		writeInt(&b, "Duration (sec)", a.Duration)
		writeLine(&b, "File ID", a.FileID)
		writeInt(&b, "Size (bytes)", a.FileSize)
	case KindVideo:
		b.WriteString("Video received!\n")
		writeLine(&b, "File ID", a.FileID)
		writeInt(&b, "Size (bytes)", a.FileSize)
		if a.Width > 0 && a.Height > 0 {
			fmt.Fprintf(&b, "Width x Height: %d x %d\n", a.Width, a.Height)
		}
		writeInt(&b, "Duration (sec)", a.Duration)
	default:
		b.WriteString("Attachment received!\n")
		writeLine(&b, "File ID", a.FileID)
		writeInt(&b, "Size (bytes)", a.FileSize)
	}

	return strings.TrimRight(b.String(), "\n")
}

func writeLine(b *strings.Builder, label, value string) {
	if value != "" {
		fmt.Fprintf(b, "%s: %s\n", label, value)
	}
}

func writeInt(b *strings.Builder, label string, value int) {
	if value > 0 {
		fmt.Fprintf(b, "%s: %d\n", label, value)
	}
}
