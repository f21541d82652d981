package recon

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/san-kum/gyropulse/internal/logging"
)

const DefaultToolTimeout = 2 * time.Minute

// Raw is the unprocessed output of one collection, one string per section.
type Raw struct {
	Target     string `json:"target"`
	Scan       string `json:"scan"`
	DNS        string `json:"dns"`
	Subdomains string `json:"subdomains"`
	Web        string `json:"web"`
	SSL        string `json:"ssl"`
}

// Orchestrator runs the collection stages for a target one after another.
type Orchestrator struct {
	Runner      ToolRunner
	ToolTimeout time.Duration
	log         *zap.Logger
}

func NewOrchestrator(r ToolRunner, log *zap.Logger) *Orchestrator {
	return &Orchestrator{Runner: r, ToolTimeout: DefaultToolTimeout, log: logging.OrNop(log)}
}

// Collect gathers every section for target. It only fails when ctx is
// done; missing or failing tools are written into the report.
func (o *Orchestrator) Collect(ctx context.Context, target string) (Raw, error) {
	raw := Raw{Target: target}
	stages := []struct {
		name string
		dst  *string
		fn   func(context.Context, string) string
	}{
		{"scan", &raw.Scan, o.scan},
		{"dns", &raw.DNS, o.dns},
		{"subdomains", &raw.Subdomains, o.subdomains},
		{"web", &raw.Web, o.web},
		{"ssl", &raw.SSL, o.ssl},
	}
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			return raw, errors.Wrapf(err, "recon %s interrupted before %s", target, st.name)
		}
		start := time.Now()
		*st.dst = st.fn(ctx, target)
		o.log.Debug("stage done", zap.String("target", target), zap.String("stage", st.name),
			zap.Duration("took", time.Since(start)))
	}
	return raw, ctx.Err()
}

// run returns stdout, or stderr when stdout is empty.
func (o *Orchestrator) run(ctx context.Context, name string, stdin string, args ...string) string {
	timeout := o.ToolTimeout
	if timeout <= 0 {
		timeout = DefaultToolTimeout
	}
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	stdout, stderr, err := o.Runner.Run(tctx, name, args, stdin)
	if err != nil {
		o.log.Warn("tool failed", zap.String("tool", name), zap.Error(err))
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Sprintf("%s timed out after %s", name, timeout)
		}
		return fmt.Sprintf("%s failed: %v", name, errors.Cause(err))
	}
	if stdout != "" {
		return stdout
	}
	return stderr
}

func notInstalled(tool string) string { return tool + " not installed" }

func (o *Orchestrator) scan(ctx context.Context, target string) string {
	switch {
	case o.Runner.LookPath("nmap"):
		return o.run(ctx, "nmap", "", "-T4", "-F", "-sV", target)
	case o.Runner.LookPath("masscan"):
		return o.run(ctx, "masscan", "", "-p1-65535", target, "--rate=1000")
	}
	return notInstalled("nmap/masscan")
}

func (o *Orchestrator) dns(ctx context.Context, target string) string {
	hasDig := o.Runner.LookPath("dig")
	dig := func(args ...string) string {
		if !hasDig {
			return notInstalled("dig") + "\n"
		}
		return o.run(ctx, "dig", "", append([]string{"+noall", "+answer"}, args...)...)
	}

	parts := []string{
		"# dig A\n" + dig(target),
		"# dig MX\n" + dig("MX", target),
		"# dig NS\n" + dig("NS", target),
		"# dig TXT\n" + dig("TXT", target),
		"# Reverse PTR\n" + dig("-x", target),
	}

	whois := notInstalled("whois")
	if o.Runner.LookPath("whois") {
		lines := strings.Split(o.run(ctx, "whois", "", target), "\n")
		if len(lines) > 100 {
			lines = lines[:100]
		}
		whois = strings.Join(lines, "\n")
	}
	parts = append(parts, "# whois\n"+whois+"\n")
	return strings.Join(parts, "\n")
}

func (o *Orchestrator) subdomains(ctx context.Context, target string) string {
	switch {
	case o.Runner.LookPath("subfinder"):
		return o.run(ctx, "subfinder", "", "-silent", "-d", target)
	case o.Runner.LookPath("amass"):
		return o.run(ctx, "amass", "", "enum", "-d", target)
	}
	return notInstalled("subfinder/amass")
}

func (o *Orchestrator) web(ctx context.Context, target string) string {
	var lines []string
	hasWayback := o.Runner.LookPath("waybackurls")
	for _, url := range []string{"http://" + target, "https://" + target} {
		if !o.Runner.LookPath("curl") {
			lines = append(lines, notInstalled("curl"))
			break
		}
		lines = append(lines, "# Headers for "+url, o.run(ctx, "curl", "", "-I", "-s", url), "")
		lines = append(lines, "# Wayback URLs for "+url)
		if hasWayback {
			lines = append(lines, o.run(ctx, "waybackurls", url))
		} else {
			lines = append(lines, notInstalled("waybackurls"))
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// ssl pipes the s_client handshake into x509 to print the leaf certificate.
func (o *Orchestrator) ssl(ctx context.Context, target string) string {
	if !o.Runner.LookPath("openssl") {
		return notInstalled("openssl")
	}
	cert := o.run(ctx, "openssl", "", "s_client", "-connect", target+":443", "-servername", target)
	return o.run(ctx, "openssl", cert, "x509", "-noout", "-issuer", "-subject", "-dates")
}
