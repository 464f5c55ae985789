package proc

import (
	"fmt"
	"os"
)

type redirectKind int

const (
	redirectPiped redirectKind = iota
	redirectInherit
	redirectNull
	redirectFile
)

// Redirect describes where one of a child's standard streams goes.
type Redirect struct {
	kind  redirectKind
	file  *os.File
	owned bool // closed by the engine once handed to the child
}

// Piped connects the stream to the parent through an OS pipe.
func Piped() Redirect { return Redirect{kind: redirectPiped} }

// Inherit shares the parent's own stream with the child.
func Inherit() Redirect { return Redirect{kind: redirectInherit} }

// Null connects the stream to the null device.
func Null() Redirect { return Redirect{kind: redirectNull} }

// File connects the stream to an open file. The caller keeps ownership of f
// and must close it, also when Spawn fails. A nil file behaves like Null.
func File(f *os.File) Redirect {
	if f == nil {
		return Null()
	}
	return Redirect{kind: redirectFile, file: f}
}

// ownedFile is a File redirect the engine closes after spawning.
func ownedFile(f *os.File) Redirect {
	return Redirect{kind: redirectFile, file: f, owned: true}
}

// IsPiped reports whether the stream is connected through a pipe.
func (r Redirect) IsPiped() bool {
	return r.kind == redirectPiped
}

// String returns a short description of the redirection.
func (r Redirect) String() string {
	switch r.kind {
	case redirectPiped:
		return "piped"
	case redirectInherit:
		return "inherit"
	case redirectNull:
		return "null"
	case redirectFile:
		return fmt.Sprintf("file(%s)", r.file.Name())
	default:
		return "unknown"
	}
}
