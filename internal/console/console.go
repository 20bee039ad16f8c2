// Package console drives the interactive menus. Every menu is an explicit
// loop over three states: waiting for a choice, running the chosen item, and
// leaving. Invalid input keeps the menu waiting; end of input leaves every
// menu.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"recipecost/internal/config"
	"recipecost/internal/core"
	"recipecost/internal/logger"
)

// State is the position of a menu loop.
type State int

// Menu loop states.
const (
	AwaitingChoice State = iota
	Dispatched
	Exit
)

func (s State) String() string {
	switch s {
	case AwaitingChoice:
		return "awaiting-choice"
	case Dispatched:
		return "dispatched"
	default:
		return "exit"
	}
}

// Mode selects which menu items are offered.
type Mode int

const (
	// Member may add, edit and remove records.
	Member Mode = iota
	// Guest may only view records.
	Guest
)

// Collections bundles the collections the menus operate on.
type Collections struct {
	Ingredients *core.Ingredients
	Recipes     *core.Recipes
	Meals       *core.Meals
	Credentials *core.Credentials
}

// Console reads commands from in and writes prompts and results to out.
type Console struct {
	in    *bufio.Scanner
	out   io.Writer
	st    styles
	log   *logger.Logger
	c     Collections
	files config.Files
	mode  Mode
	eof   bool
	inErr error
	quit  bool
	trace func(menu string, s State)
}

// maxLineBytes bounds a single input line.
const maxLineBytes = 1 << 20

// New returns a console over the given collections and file names.
func New(in io.Reader, out io.Writer, c Collections, files config.Files, log *logger.Logger) *Console {
	if log == nil {
		log = logger.Nop()
	}
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 4096), maxLineBytes)
	return &Console{in: sc, out: out, st: newStyles(out), log: log, c: c, files: files}
}

// Run shows the gate menu until the user exits or input ends. A read
// failure ends the session like end of input and is returned.
func (c *Console) Run(ctx context.Context) error {
	c.runMenu(ctx, c.gateMenu())
	c.log.Info("console closed (eof=%v)", c.eof)
	if c.inErr != nil {
		return fmt.Errorf("read input: %w", c.inErr)
	}
	return ctx.Err()
}

type item struct {
	key     string
	label   string
	members bool
	// run returns true when the menu should be left afterwards.
	run func(ctx context.Context) bool
}

type menu struct {
	title string
	items []item
}

func (m menu) visible(mode Mode) []item {
	out := make([]item, 0, len(m.items))
	for _, it := range m.items {
		if it.members && mode == Guest {
			continue
		}
		out = append(out, it)
	}
	return out
}

// match accepts an item's 1-based position or its key, ignoring case.
func match(items []item, input string) (item, bool) {
	input = strings.TrimSpace(input)
	if n, err := strconv.Atoi(input); err == nil {
		if n >= 1 && n <= len(items) {
			return items[n-1], true
		}
		return item{}, false
	}
	for _, it := range items {
		if strings.EqualFold(it.key, input) {
			return it, true
		}
	}
	return item{}, false
}

func (c *Console) runMenu(ctx context.Context, m menu) {
	items := m.visible(c.mode)
	var chosen item
	state := AwaitingChoice
	for state != Exit {
		c.onState(m.title, state)
		switch state {
		case AwaitingChoice:
			if ctx.Err() != nil || c.quit {
				state = Exit
				continue
			}
			c.render(m.title, items)
			line, ok := c.readLine("Press the number or first character of an operation: ")
			if !ok {
				state = Exit
				continue
			}
			it, found := match(items, line)
			if !found {
				c.warnf("Please enter a valid key!")
				continue
			}
			chosen = it
			state = Dispatched
		case Dispatched:
			c.log.Debug("menu %q: %s", m.title, chosen.label)
			if chosen.run(ctx) || c.eof || c.quit {
				state = Exit
			} else {
				state = AwaitingChoice
			}
		}
	}
	c.onState(m.title, Exit)
}

func (c *Console) onState(menu string, s State) {
	if c.trace != nil {
		c.trace(menu, s)
	}
}

func (c *Console) render(title string, items []item) {
	c.println("")
	c.println(c.st.heading.Render(title))
	for i, it := range items {
		c.println(c.st.item.Render(fmt.Sprintf("%d-%s", i+1, it.label)))
	}
}

// readLine prompts and returns the next input line. It reports false once
// input is exhausted.
func (c *Console) readLine(prompt string) (string, bool) {
	if c.eof {
		return "", false
	}
	_, _ = io.WriteString(c.out, prompt)
	if !c.in.Scan() {
		c.eof = true
		c.println("")
		if err := c.in.Err(); err != nil {
			c.inErr = err
			c.log.Error("read input: %v", err)
			c.warnf("Input could not be read: %v", err)
		}
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

// readInt prompts until a whole number is entered.
func (c *Console) readInt(prompt string) (int, bool) {
	for {
		line, ok := c.readLine(prompt)
		if !ok {
			return 0, false
		}
		n, err := strconv.Atoi(line)
		if err == nil {
			return n, true
		}
		c.warnf("Invalid input. Please enter a number.")
	}
}

func (c *Console) println(s string) { _, _ = fmt.Fprintln(c.out, s) }

func (c *Console) warnf(format string, args ...any) {
	c.println(c.st.warn.Render(fmt.Sprintf(format, args...)))
}

func (c *Console) okf(format string, args ...any) {
	c.println(c.st.ok.Render(fmt.Sprintf(format, args...)))
}
