// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"io"
	"sync"

	"github.com/Thermoquad/e2ecan/pkg/e2e"
	"github.com/charmbracelet/lipgloss"
)

var indicatorOKStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("0")).
	Background(lipgloss.Color("10")).
	Padding(0, 1)

var indicatorFaultStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("15")).
	Background(lipgloss.Color("9")).
	Padding(0, 1)

// renderIndicator renders the indicator as a colored lamp
func renderIndicator(ind e2e.Indicator) string {
	if ind == e2e.IndicatorOK {
		return indicatorOKStyle.Render("● " + ind.String())
	}
	return indicatorFaultStyle.Render("● " + ind.String())
}

// consoleIndicator prints indicator changes to w.
// mu, when set, is held while writing so output shared with other
// goroutines is not interleaved.
type consoleIndicator struct {
	w       io.Writer
	mu      sync.Locker
	current e2e.Indicator
	set     bool
}

// SetIndicator implements e2e.IndicatorSink; repeated states are not reprinted
func (c *consoleIndicator) SetIndicator(ind e2e.Indicator) {
	if c.mu != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
	}
	if c.set && c.current == ind {
		return
	}
	c.current = ind
	c.set = true
	fmt.Fprintf(c.w, "INDICATOR %s (%s)\n", renderIndicator(ind), ind.Color())
}
