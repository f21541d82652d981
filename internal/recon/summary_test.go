package recon_test

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gyropulse/internal/recon"
)

const sampleScan = `Starting Nmap 7.94 ( https://nmap.org )
PORT    STATE SERVICE VERSION
22/tcp  open  ssh     OpenSSH 8.9p1
80/tcp  open  http    nginx 1.18.0
Nmap done: 1 IP address (1 host up)`

const sampleDNS = `# dig A
example.com.  300 IN A 93.184.216.34

# dig MX

# dig NS
example.com.  300 IN NS a.iana-servers.net.

# dig TXT

# Reverse PTR

# whois
Domain Name: EXAMPLE.COM
`

const sampleWeb = `# Headers for http://example.com
HTTP/1.1 301 Moved Permanently
Server: nginx
Location: https://example.com/

# Wayback URLs for http://example.com
http://example.com/a
http://example.com/b

# Headers for https://example.com
HTTP/2 200
server: nginx
strict-transport-security: max-age=31536000
x-frame-options: DENY

# Wayback URLs for https://example.com
waybackurls not installed
`

const sampleSSL = `issuer=C = US, O = Let's Encrypt, CN = R3
subject=CN = example.com
notBefore=Jan  1 00:00:00 2026 GMT
notAfter=Mar 31 12:00:00 2026 GMT`

var now = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func sampleRaw() recon.Raw {
	return recon.Raw{
		Target:     "example.com",
		Scan:       sampleScan,
		DNS:        sampleDNS,
		Subdomains: "www.example.com\nsubfinder warning: not installed plugin\n\nmail.example.com\n",
		Web:        sampleWeb,
		SSL:        sampleSSL,
	}
}

var _ = Describe("Summarize", func() {
	var s recon.Summary

	BeforeEach(func() {
		s = recon.Summarize(sampleRaw(), "out/recon_example.com.json", now)
	})

	It("parses nmap service lines", func() {
		Expect(s.OpenServices).To(Equal([]recon.Service{
			{Port: "22/tcp", State: "open", Service: "ssh", Version: "OpenSSH 8.9p1"},
			{Port: "80/tcp", State: "open", Service: "http", Version: "nginx 1.18.0"},
		}))
	})

	It("parses masscan discoveries", func() {
		Expect(recon.ParsePorts("Discovered open port 443/tcp on 10.0.0.1\n")).To(Equal([]recon.Service{
			{Port: "443/tcp", State: "open", Service: "unknown"},
		}))
	})

	It("keeps DNS records per section", func() {
		Expect(s.DNSRecords["dig A"]).To(Equal([]string{"example.com.  300 IN A 93.184.216.34"}))
		Expect(s.DNSRecords["dig MX"]).To(BeEmpty())
		Expect(s.DNSRecords["dig NS"]).To(HaveLen(1))
		Expect(s.DNSRecords["Reverse PTR"]).To(BeEmpty())
	})

	It("drops tool notices from subdomains", func() {
		Expect(s.Subdomains).To(Equal([]string{"www.example.com", "mail.example.com"}))
		Expect(s.SubdomainCount).To(Equal(2))
	})

	It("collects headers, missing headers and banners", func() {
		Expect(s.Web.HeadersByURL["http://example.com"]).To(HaveKeyWithValue("location", "https://example.com/"))
		Expect(s.Web.MissingHeadersByURL["http://example.com"]).To(Equal(recon.SecurityHeaders))
		Expect(s.Web.MissingHeadersByURL["https://example.com"]).To(Equal([]string{
			"content-security-policy", "x-content-type-options", "referrer-policy", "permissions-policy",
		}))
		Expect(s.Web.ServerBanners).To(Equal(map[string]string{
			"http://example.com":  "nginx",
			"https://example.com": "nginx",
		}))
	})

	It("counts wayback samples without spilling into the next block", func() {
		Expect(s.Web.WaybackCounts).To(Equal(map[string]int{
			"http://example.com":  2,
			"https://example.com": 0,
		}))
	})

	It("reads certificate fields and expiry", func() {
		Expect(s.SSL).To(HaveKeyWithValue("subject", "CN = example.com"))
		Expect(s.SSL).To(HaveKeyWithValue("issuer", "C = US, O = Let's Encrypt, CN = R3"))
		Expect(s.SSLDaysUntilExpiry).NotTo(BeNil())
		Expect(*s.SSLDaysUntilExpiry).To(Equal(30))
	})

	It("builds the checklist in report order", func() {
		Expect(s.Checklist).To(Equal([]string{
			"Review exposed service: 22/tcp ssh (OpenSSH 8.9p1)",
			"Review exposed service: 80/tcp http (nginx 1.18.0)",
			"DNS: MX records not present in output.",
			"DNS: TXT records not present in output.",
			"Web headers for http://example.com: missing strict-transport-security, content-security-policy, x-frame-options, x-content-type-options, referrer-policy, permissions-policy",
			"Web headers for https://example.com: missing content-security-policy, x-content-type-options, referrer-policy, permissions-policy",
			"Web headers for http://example.com: Server banner is 'nginx' (consider minimizing).",
			"Web headers for https://example.com: Server banner is 'nginx' (consider minimizing).",
			"Wayback URLs for http://example.com: 2 samples found (review for exposed endpoints).",
			"SSL subject: CN = example.com",
			"SSL issuer: C = US, O = Let's Encrypt, CN = R3",
		}))
	})

	It("handles a report where every tool was missing", func() {
		empty := recon.Summarize(recon.Raw{
			Target:     "bare.test",
			Scan:       "nmap/masscan not installed",
			Subdomains: "subfinder/amass not installed",
			Web:        "curl not installed",
			SSL:        "openssl not installed",
		}, "", now)
		Expect(empty.OpenServices).To(BeEmpty())
		Expect(empty.Subdomains).To(BeEmpty())
		Expect(empty.Web.HeadersByURL).To(BeEmpty())
		Expect(empty.SSLDaysUntilExpiry).To(BeNil())
		Expect(empty.Checklist).To(HaveLen(3))
	})
})

var _ = Describe("DaysUntil", func() {
	DescribeTable("openssl dates",
		func(date string, want int, ok bool) {
			got, gotOK := recon.DaysUntil(date, now)
			Expect(gotOK).To(Equal(ok))
			if ok {
				Expect(got).To(Equal(want))
			}
		},
		Entry("padded day", "Mar  3 12:00:00 2026 GMT", 2, true),
		Entry("two digit day", "Mar 11 12:00:00 2026 GMT", 10, true),
		Entry("partial day rounds down", "Mar  2 11:00:00 2026 GMT", 0, true),
		Entry("expired rounds toward past", "Mar  1 11:00:00 2026 GMT", -1, true),
		Entry("garbage", "next tuesday", 0, false),
	)
})

var _ = Describe("Render", func() {
	var s recon.Summary

	BeforeEach(func() {
		color.NoColor = true
		s = recon.Summarize(sampleRaw(), "recon_example.com.json", now)
	})

	It("writes the text checklist", func() {
		out, err := recon.Render([]recon.Summary{s}, "text", false)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(HavePrefix("Target: example.com\nSource: recon_example.com.json\n"))
		Expect(out).To(ContainSubstring("Open services: 22/tcp ssh, 80/tcp http\n"))
		Expect(out).To(ContainSubstring("Subdomains found: 2\n"))
		Expect(out).To(ContainSubstring("Web endpoints with headers: 2\n"))
		Expect(out).To(ContainSubstring("SSL cert expiry: Mar 31 12:00:00 2026 GMT (30 days)\n"))
		Expect(out).To(ContainSubstring("\n\nChecklist:\n- Review exposed services and confirm they should be public:\n  - 22/tcp ssh (OpenSSH 8.9p1)\n"))
		Expect(out).To(HaveSuffix("- SSL issuer: C = US, O = Let's Encrypt, CN = R3"))
	})

	It("notes when nothing needs review", func() {
		quiet := recon.Summarize(recon.Raw{
			Target: "quiet.test",
			DNS:    "# dig MX\nmx.\n# dig NS\nns.\n# dig TXT\ntxt.\n",
		}, "", now)
		out, err := recon.Render([]recon.Summary{quiet}, "md", false)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Open services: (none detected in scan output)"))
		Expect(out).To(ContainSubstring("Subdomains found: none / tool missing"))
		Expect(out).To(HaveSuffix("Checklist:\n- (No additional checklist items detected from output.)"))
	})

	It("separates several text reports", func() {
		out, err := recon.Render([]recon.Summary{s, s}, "txt", false)
		Expect(err).NotTo(HaveOccurred())
		Expect(strings.Count(out, "\n"+strings.Repeat("=", 72)+"\n")).To(Equal(1))
		Expect(strings.Count(out, "Target: example.com")).To(Equal(2))
	})

	It("writes one JSON object for one report and an array for several", func() {
		out, err := recon.Render([]recon.Summary{s}, "json", false)
		Expect(err).NotTo(HaveOccurred())
		var obj map[string]any
		Expect(json.Unmarshal([]byte(out), &obj)).To(Succeed())
		Expect(obj).To(HaveKeyWithValue("subdomain_count", BeNumerically("==", 2)))
		Expect(obj).To(HaveKeyWithValue("ssl_days_until_expiry", BeNumerically("==", 30)))
		Expect(obj).To(HaveKey("checklist"))

		out, err = recon.Render([]recon.Summary{s, s}, "JSON", true)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(HavePrefix("[\n  {"))
		var arr []map[string]any
		Expect(json.Unmarshal([]byte(out), &arr)).To(Succeed())
		Expect(arr).To(HaveLen(2))
	})

	It("writes null expiry when there is no certificate", func() {
		out, err := recon.Render([]recon.Summary{recon.Summarize(recon.Raw{Target: "x"}, "", now)}, "json", false)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring(`"ssl_days_until_expiry":null`))
	})

	It("rejects unknown formats", func() {
		_, err := recon.Render([]recon.Summary{s}, "yaml", false)
		Expect(err).To(MatchError(ContainSubstring("unsupported format")))
	})

	It("prints a colored overview", func() {
		var buf bytes.Buffer
		recon.Print(&buf, s)
		Expect(buf.String()).To(ContainSubstring("example.com (recon_example.com.json)\n"))
		Expect(buf.String()).To(ContainSubstring("22/tcp"))
		Expect(buf.String()).To(ContainSubstring("certificate expires in 30 days"))
		Expect(buf.String()).To(ContainSubstring("11 checklist items"))
	})
})

var _ = Describe("Reports", func() {
	It("round trips the text form", func() {
		raw := recon.Raw{
			Target:     "example.com",
			Scan:       "22/tcp open ssh",
			DNS:        "# dig A\n1.2.3.4",
			Subdomains: "www.example.com",
			Web:        "curl not installed",
			SSL:        "subject=CN = example.com",
		}
		Expect(recon.ParseText(recon.FormatText(raw))).To(Equal(raw))
	})

	It("ignores text before the first section", func() {
		raw := recon.ParseText("noise\nReconnaissance Report for host.test\n=== SSL ===\nissuer=x\n\n")
		Expect(raw.Target).To(Equal("host.test"))
		Expect(raw.SSL).To(Equal("issuer=x"))
		Expect(raw.Scan).To(BeEmpty())
	})

	DescribeTable("safe file stems",
		func(in, want string) { Expect(recon.SafeStem(in)).To(Equal(want)) },
		Entry("host", "example.com", "example.com"),
		Entry("url", "https://a.test/x?y=1", "https_a.test_x_y_1"),
		Entry("only separators", "///", "target"),
		Entry("empty", "", "target"),
	)

	It("saves and reloads reports from a directory", func() {
		dir := GinkgoT().TempDir()
		raw := sampleRaw()
		jsonPath, textPath, err := recon.Save(dir, raw)
		Expect(err).NotTo(HaveOccurred())
		Expect(filepath.Base(jsonPath)).To(Equal("recon_example.com.json"))
		Expect(filepath.Base(textPath)).To(Equal("recon_example.com.txt"))

		files, err := recon.ReportFiles([]string{dir})
		Expect(err).NotTo(HaveOccurred())
		Expect(files).To(Equal([]string{jsonPath}))

		loaded, err := recon.LoadRaw(jsonPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(Equal(raw))

		fromText, err := recon.LoadRaw(textPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(fromText.Target).To(Equal("example.com"))
		Expect(fromText.Scan).To(Equal(strings.TrimSpace(raw.Scan)))
	})

	It("fails on a missing input", func() {
		_, err := recon.ReportFiles([]string{filepath.Join(GinkgoT().TempDir(), "nope")})
		Expect(err).To(HaveOccurred())
	})
})
