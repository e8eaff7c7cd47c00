// ----------------------------------------------------------------------------
// FILE: lexer/window.go
// ----------------------------------------------------------------------------
// PACKAGE: lexer
// PURPOSE: The bounded look-ahead window the parser drives: a three-token
//          ring (previous, current, next). Shift re-lexes the vacated slot.
// ----------------------------------------------------------------------------

package lexer

import "sigmafox/token"

// Window is the parser-facing cursor over a Lexer's token stream.
type Window struct {
	lx       *Lexer
	Previous token.Token
	Current  token.Token
	Next     token.Token
}

// NewWindow primes the ring by scanning the first two tokens so Current and
// Next are both valid before the parser asks anything of it.
func NewWindow(lx *Lexer) *Window {
	w := &Window{lx: lx}
	w.Current = lx.NextToken()
	w.Next = lx.NextToken()
	return w
}

// Shift advances the window by one token: Current becomes Previous, Next
// becomes Current, and a fresh token is scanned into Next.
func (w *Window) Shift() {
	w.Previous = w.Current
	w.Current = w.Next
	w.Next = w.lx.NextToken()
}
