package recon_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gyropulse/internal/recon"
)

type call struct {
	name  string
	args  []string
	stdin string
}

// fakeRunner answers for the tools in installed and records every call.
type fakeRunner struct {
	mu        sync.Mutex
	installed map[string]bool
	reply     func(c call) (string, string, error)
	calls     []call
}

func newFakeRunner(tools ...string) *fakeRunner {
	f := &fakeRunner{installed: map[string]bool{}}
	for _, t := range tools {
		f.installed[t] = true
	}
	f.reply = func(c call) (string, string, error) {
		return c.name + " " + strings.Join(c.args, " ") + "\n", "", nil
	}
	return f
}

func (f *fakeRunner) LookPath(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.installed[name]
}

func (f *fakeRunner) Run(_ context.Context, name string, args []string, stdin string) (string, string, error) {
	c := call{name: name, args: args, stdin: stdin}
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
	return f.reply(c)
}

func (f *fakeRunner) callsTo(name string) []call {
	var out []call
	for _, c := range f.calls {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}

var _ = Describe("Orchestrator", func() {
	ctx := context.Background()

	It("records missing tools instead of failing", func() {
		o := recon.NewOrchestrator(newFakeRunner(), nil)
		raw, err := o.Collect(ctx, "example.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(raw.Target).To(Equal("example.com"))
		Expect(raw.Scan).To(Equal("nmap/masscan not installed"))
		Expect(raw.DNS).To(HavePrefix("# dig A\ndig not installed\n"))
		Expect(raw.DNS).To(ContainSubstring("# whois\nwhois not installed\n"))
		Expect(raw.Subdomains).To(Equal("subfinder/amass not installed"))
		Expect(raw.Web).To(Equal("curl not installed"))
		Expect(raw.SSL).To(Equal("openssl not installed"))
	})

	It("prefers nmap and falls back to masscan", func() {
		r := newFakeRunner("nmap", "masscan")
		raw, _ := recon.NewOrchestrator(r, nil).Collect(ctx, "10.0.0.1")
		Expect(raw.Scan).To(Equal("nmap -T4 -F -sV 10.0.0.1\n"))
		Expect(r.callsTo("masscan")).To(BeEmpty())

		r = newFakeRunner("masscan")
		raw, _ = recon.NewOrchestrator(r, nil).Collect(ctx, "10.0.0.1")
		Expect(raw.Scan).To(Equal("masscan -p1-65535 10.0.0.1 --rate=1000\n"))
	})

	It("picks subfinder before amass", func() {
		raw, _ := recon.NewOrchestrator(newFakeRunner("subfinder", "amass"), nil).Collect(ctx, "example.com")
		Expect(raw.Subdomains).To(Equal("subfinder -silent -d example.com\n"))
		raw, _ = recon.NewOrchestrator(newFakeRunner("amass"), nil).Collect(ctx, "example.com")
		Expect(raw.Subdomains).To(Equal("amass enum -d example.com\n"))
	})

	It("runs every dig query and truncates whois", func() {
		r := newFakeRunner("dig", "whois")
		r.reply = func(c call) (string, string, error) {
			if c.name == "whois" {
				lines := make([]string, 150)
				for i := range lines {
					lines[i] = fmt.Sprintf("line %d", i)
				}
				return strings.Join(lines, "\n"), "", nil
			}
			return strings.Join(c.args, " ") + "\n", "", nil
		}
		raw, _ := recon.NewOrchestrator(r, nil).Collect(ctx, "example.com")

		Expect(r.callsTo("dig")).To(HaveLen(5))
		Expect(raw.DNS).To(ContainSubstring("# dig MX\n+noall +answer MX example.com\n"))
		Expect(raw.DNS).To(ContainSubstring("# Reverse PTR\n+noall +answer -x example.com\n"))
		Expect(raw.DNS).To(ContainSubstring("line 99\n"))
		Expect(raw.DNS).NotTo(ContainSubstring("line 100"))
	})

	It("falls back to stderr when a tool prints nothing on stdout", func() {
		r := newFakeRunner("nmap")
		r.reply = func(c call) (string, string, error) { return "", "permission denied", nil }
		raw, _ := recon.NewOrchestrator(r, nil).Collect(ctx, "example.com")
		Expect(raw.Scan).To(Equal("permission denied"))
	})

	It("probes both schemes and feeds waybackurls on stdin", func() {
		r := newFakeRunner("curl", "waybackurls")
		r.reply = func(c call) (string, string, error) {
			if c.name == "waybackurls" {
				return c.stdin + "/archived", "", nil
			}
			return "Server: test", "", nil
		}
		raw, _ := recon.NewOrchestrator(r, nil).Collect(ctx, "example.com")

		Expect(r.callsTo("curl")).To(HaveLen(2))
		Expect(r.callsTo("curl")[1].args).To(Equal([]string{"-I", "-s", "https://example.com"}))
		Expect(raw.Web).To(ContainSubstring("# Headers for http://example.com\nServer: test\n"))
		Expect(raw.Web).To(ContainSubstring("# Wayback URLs for https://example.com\nhttps://example.com/archived\n"))
	})

	It("notes a missing waybackurls per URL", func() {
		raw, _ := recon.NewOrchestrator(newFakeRunner("curl"), nil).Collect(ctx, "example.com")
		Expect(strings.Count(raw.Web, "waybackurls not installed")).To(Equal(2))
	})

	It("pipes the handshake into x509", func() {
		r := newFakeRunner("openssl")
		r.reply = func(c call) (string, string, error) {
			if c.args[0] == "s_client" {
				return "-----BEGIN CERTIFICATE-----", "", nil
			}
			return "subject=CN = example.com\n", "", nil
		}
		raw, _ := recon.NewOrchestrator(r, nil).Collect(ctx, "example.com")

		calls := r.callsTo("openssl")
		Expect(calls).To(HaveLen(2))
		Expect(calls[0].args).To(Equal([]string{"s_client", "-connect", "example.com:443", "-servername", "example.com"}))
		Expect(calls[1].stdin).To(Equal("-----BEGIN CERTIFICATE-----"))
		Expect(raw.SSL).To(Equal("subject=CN = example.com\n"))
	})

	It("reports tool timeouts in the section", func() {
		r := newFakeRunner("nmap")
		r.reply = func(c call) (string, string, error) {
			return "", "", &recon.ToolError{Tool: c.name, Args: c.args, Err: context.DeadlineExceeded}
		}
		o := recon.NewOrchestrator(r, nil)
		o.ToolTimeout = 5 * time.Second
		raw, err := o.Collect(ctx, "example.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(raw.Scan).To(Equal("nmap timed out after 5s"))
	})

	It("stops when the context is cancelled", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		r := newFakeRunner("nmap")
		_, err := recon.NewOrchestrator(r, nil).Collect(cctx, "example.com")
		Expect(err).To(MatchError(context.Canceled))
		Expect(r.calls).To(BeEmpty())
	})

	It("collects many targets in input order", func() {
		o := recon.NewOrchestrator(newFakeRunner("nmap"), nil)
		targets := []string{"a.test", "b.test", "c.test", "d.test"}
		results, err := o.RunAll(ctx, targets, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(len(targets)))
		for i, res := range results {
			Expect(res.Err).NotTo(HaveOccurred())
			Expect(res.Target).To(Equal(targets[i]))
			Expect(res.Raw.Scan).To(ContainSubstring(targets[i]))
		}
	})
})
