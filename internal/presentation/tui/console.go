// Package tui renders hydroplant state to a terminal.
package tui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/aretw0/hydroplant/pkg/domain"
	"github.com/aretw0/hydroplant/pkg/view"
)

// Console is a line-oriented presenter and notifier.
type Console struct {
	mu      sync.Mutex
	out     io.Writer
	profile termenv.Profile
	render  func(string) (string, error)
	quiet   bool
}

// Option configures the Console.
type Option func(*Console)

// WithProfile forces a color profile. termenv.Ascii disables styling.
func WithProfile(p termenv.Profile) Option {
	return func(c *Console) {
		c.profile = p
		c.render = NewRenderer(p != termenv.Ascii)
	}
}

// WithQuiet suppresses the decorative cues (drops, art, confetti).
func WithQuiet(quiet bool) Option {
	return func(c *Console) {
		c.quiet = quiet
	}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// NewConsole writes to out, styling only when out is a terminal.
func NewConsole(out io.Writer, opts ...Option) *Console {
	c := &Console{out: out, profile: termenv.Ascii}
	if IsTerminal(out) {
		c.profile = termenv.ColorProfile()
	}
	c.render = NewRenderer(c.profile != termenv.Ascii)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Profile returns the color profile in use.
func (c *Console) Profile() termenv.Profile {
	return c.profile
}

func (c *Console) println(text, color string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if color == "" || c.profile == termenv.Ascii {
		fmt.Fprintln(c.out, text)
		return
	}
	fmt.Fprintln(c.out, c.profile.String(text).Foreground(c.profile.Color(color)))
}

func (c *Console) ShowAccount(display string) {
	c.println("Connected: "+display, "#93c5fd")
}

func (c *Console) SetConnectAvailable(available bool) {}

func (c *Console) SetBusy(busy bool) {
	if busy {
		c.println("Waiting for confirmation...", "#a1a1aa")
	}
}

func (c *Console) ShowSnapshot(s domain.Snapshot) {
	c.println(fmt.Sprintf("Water count: %s  Stage: %d/%d", s.WaterCount, s.Stage, domain.MaxStage), "")
}

func (c *Console) StageChanged(stage int) {
	if c.quiet {
		return
	}
	c.println(strings.TrimPrefix(Plant(stage), "\n"), "#86efac")
}

func (c *Console) Watering() {
	if c.quiet {
		return
	}
	c.println("  ~ ~ ~  watering  ~ ~ ~", "#7dd3fc")
}

func (c *Console) Milestone(s domain.Snapshot) {
	if c.quiet {
		c.println("Bloomed!", "")
		return
	}
	c.println("  * . * . *  Your plant is in full bloom!  * . * . *", "#ffd166")
}

// Alert writes a user-facing alert.
func (c *Console) Alert(message string) {
	c.println("! "+message, "#ff7a7a")
}

// StatusCard renders a state summary.
func (c *Console) StatusCard(st view.State) string {
	var b strings.Builder
	b.WriteString("# Hydration Plant\n\n")
	b.WriteString("| Field | Value |\n|---|---|\n")
	account := st.Account
	if account == "" {
		account = "not connected"
	}
	fmt.Fprintf(&b, "| Account | %s |\n", account)
	if st.Snapshot != nil {
		fmt.Fprintf(&b, "| Water count | %s |\n", st.Snapshot.WaterCount)
		fmt.Fprintf(&b, "| Stage | %d / %d |\n", st.Snapshot.Stage, domain.MaxStage)
	} else {
		b.WriteString("| Water count | unknown |\n")
	}
	if st.Bloomed {
		b.WriteString("\n**In full bloom.**\n")
	}
	if len(st.Alerts) > 0 {
		b.WriteString("\n## Alerts\n\n")
		for _, a := range st.Alerts {
			fmt.Fprintf(&b, "- %s\n", a)
		}
	}

	md := b.String()
	out, err := c.render(md)
	if err != nil {
		return md
	}
	return out
}

// PrintStatus writes StatusCard to the console.
func (c *Console) PrintStatus(st view.State) {
	card := c.StatusCard(st)
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprint(c.out, card)
}
