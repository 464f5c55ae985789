package main

import (
	"testing"

	// Verify all core dependencies can be imported
	_ "github.com/charmbracelet/bubbles/progress"
	_ "github.com/charmbracelet/bubbles/spinner"
	_ "github.com/charmbracelet/bubbletea"
	_ "github.com/charmbracelet/lipgloss"
	_ "github.com/charmbracelet/log"
	_ "github.com/google/uuid"
	_ "github.com/mattn/go-isatty"
	_ "github.com/stretchr/testify/assert"
	_ "github.com/stretchr/testify/require"
	_ "golang.org/x/sync/semaphore"
	_ "gopkg.in/yaml.v3"
)

func TestImports(t *testing.T) {
	t.Log("All core dependencies imported successfully")
}
