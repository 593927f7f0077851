package out

import (
	"context"
	"fmt"
	"io"

	cartout "storefront/internal/modules/cart/port/out"
)

// WriterNavigator prints a hint instead of switching screens; the CLI has
// no login surface of its own.
type WriterNavigator struct {
	w    io.Writer
	hint string
}

func NewWriterNavigator(w io.Writer, hint string) cartout.Navigator {
	return WriterNavigator{w: w, hint: hint}
}

func (n WriterNavigator) Navigate(_ context.Context, route string) {
	if n.hint != "" {
		fmt.Fprintln(n.w, n.hint)
		return
	}
	fmt.Fprintf(n.w, "navigate: %s\n", route)
}

// FuncNavigator forwards routes to fn.
type FuncNavigator func(route string)

func (f FuncNavigator) Navigate(_ context.Context, route string) {
	if f != nil {
		f(route)
	}
}
