package vm

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"jvmlite/internal/classfile"
	"jvmlite/internal/runtime"
)

var (
	debugTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Padding(0, 1)

	debugBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	debugLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// dumpClass prints a styled one-screen summary of a just-loaded class,
// in the manner of a debugger's "loaded module" banner.
func dumpClass(class *classfile.Class) {
	rows := fmt.Sprintf("%s %s\n%s %s\n%s %d\n%s %d\n%s %d",
		debugLabel.Render("class     "), class.Name,
		debugLabel.Render("super     "), class.SuperName,
		debugLabel.Render("methods   "), len(class.Methods),
		debugLabel.Render("fields    "), len(class.Fields),
		debugLabel.Render("constants "), len(class.ConstantPool),
	)
	fmt.Fprintln(os.Stderr, debugTitle.Render("loaded class"))
	fmt.Fprintln(os.Stderr, debugBox.Render(rows))
}

// dumpResult prints a styled summary of a method invocation's outcome.
func dumpResult(methodName string, v runtime.Value, hasResult bool) {
	var value string
	if !hasResult {
		value = "(void)"
	} else {
		switch v.Kind {
		case runtime.KindInt:
			value = fmt.Sprintf("%d (int)", v.Int32())
		case runtime.KindLong:
			value = fmt.Sprintf("%d (long)", v.Int64())
		case runtime.KindFloat:
			value = fmt.Sprintf("%g (float)", v.Float32Val())
		case runtime.KindDouble:
			value = fmt.Sprintf("%g (double)", v.Float64Val())
		case runtime.KindRef:
			if ref := v.RefVal(); ref != nil {
				value = fmt.Sprintf("%q (ref)", ref.Get())
			} else {
				value = "null (ref)"
			}
		}
	}
	rows := fmt.Sprintf("%s %s\n%s %s",
		debugLabel.Render("method"), methodName,
		debugLabel.Render("result"), value,
	)
	fmt.Fprintln(os.Stderr, debugTitle.Render("returned"))
	fmt.Fprintln(os.Stderr, debugBox.Render(rows))
}
