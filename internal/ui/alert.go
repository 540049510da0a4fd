package ui

import (
	"fmt"
	"io"
)

// PrintAlerter shows alerts as a boxed line, for one-shot commands.
type PrintAlerter struct {
	W io.Writer
}

// Alert prints msg.
func (a PrintAlerter) Alert(msg string) {
	fmt.Fprintln(a.W, StyleAlert.Render(msg))
}
