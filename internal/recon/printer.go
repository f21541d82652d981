package recon

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	colorTarget  = color.New(color.Bold)
	colorService = color.New(color.FgGreen, color.Bold)
	colorWarn    = color.New(color.FgYellow)
	colorBad     = color.New(color.FgRed, color.Bold)
	colorMuted   = color.New(color.FgHiBlack)
)

// expiryWarnDays marks certificates close enough to expiry to highlight.
const expiryWarnDays = 30

// Print writes a colored overview of s. fatih/color turns itself off when
// stdout is not a terminal.
func Print(w io.Writer, s Summary) {
	colorTarget.Fprintf(w, "%s", s.Target)
	if s.Source != "" {
		colorMuted.Fprintf(w, " (%s)", s.Source)
	}
	fmt.Fprintln(w)

	if len(s.OpenServices) == 0 {
		colorMuted.Fprintln(w, "  no open services")
	}
	for _, p := range s.OpenServices {
		colorService.Fprintf(w, "  %-10s %-8s %-12s", p.Port, p.State, p.Service)
		if p.Version != "" {
			colorWarn.Fprintf(w, " %s", p.Version)
		}
		fmt.Fprintln(w)
	}

	for _, url := range s.Web.URLs() {
		if missing := s.Web.MissingHeadersByURL[url]; len(missing) > 0 {
			colorWarn.Fprintf(w, "  %s missing %s\n", url, strings.Join(missing, ", "))
		}
	}

	if d := s.SSLDaysUntilExpiry; d != nil {
		c := colorMuted
		if *d < expiryWarnDays {
			c = colorBad
		}
		c.Fprintf(w, "  certificate expires in %d days\n", *d)
	}
	colorMuted.Fprintf(w, "  %d checklist items\n", len(s.Checklist))
}
