package recon

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

// SecurityHeaders are the response headers a public endpoint is expected
// to send.
var SecurityHeaders = []string{
	"strict-transport-security",
	"content-security-policy",
	"x-frame-options",
	"x-content-type-options",
	"referrer-policy",
	"permissions-policy",
}

// DNSLabels are the dig sections of a DNS report, in output order.
var DNSLabels = []string{"dig A", "dig MX", "dig NS", "dig TXT", "Reverse PTR"}

var (
	nmapPort    = regexp.MustCompile(`^(\d+/\w+)\s+(\w+)\s+([-/\w]+)\s*(.*)$`)
	masscanPort = regexp.MustCompile(`^Discovered open port (\d+/\w+)`)
	headersFor  = regexp.MustCompile(`(?m)^# Headers for (.+)$`)
	waybackFor  = regexp.MustCompile(`(?m)^# Wayback URLs for (.+)$`)
	anyHeading  = regexp.MustCompile(`(?m)^# .+$`)
)

type Service struct {
	Port    string `json:"port"`
	State   string `json:"state"`
	Service string `json:"service"`
	Version string `json:"version"`
}

type WebSummary struct {
	HeadersByURL        map[string]map[string]string `json:"headers_by_url"`
	MissingHeadersByURL map[string][]string          `json:"missing_headers_by_url"`
	ServerBanners       map[string]string            `json:"server_banners"`
	WaybackCounts       map[string]int               `json:"wayback_counts"`

	urls []string // header blocks in report order
}

// Summary is the structured digest of one raw report.
type Summary struct {
	Target             string              `json:"target"`
	Source             string              `json:"source"`
	OpenServices       []Service           `json:"open_services"`
	Subdomains         []string            `json:"subdomains"`
	SubdomainCount     int                 `json:"subdomain_count"`
	DNSRecords         map[string][]string `json:"dns_records"`
	Web                WebSummary          `json:"web"`
	SSL                map[string]string   `json:"ssl"`
	SSLDaysUntilExpiry *int                `json:"ssl_days_until_expiry"`
	Checklist          []string            `json:"checklist"`
}

// Summarize parses raw. now anchors the certificate expiry count.
func Summarize(raw Raw, source string, now time.Time) Summary {
	s := Summary{
		Target:       raw.Target,
		Source:       source,
		OpenServices: ParsePorts(raw.Scan),
		Subdomains:   ParseSubdomains(raw.Subdomains),
		DNSRecords:   ParseDNS(raw.DNS),
		SSL:          ParseSSL(raw.SSL),
		Checklist:    []string{},
	}
	s.SubdomainCount = len(s.Subdomains)

	headers, urls := parseWebHeaders(raw.Web)
	s.Web = WebSummary{
		HeadersByURL:        headers,
		MissingHeadersByURL: map[string][]string{},
		ServerBanners:       map[string]string{},
		WaybackCounts:       ParseWaybackCounts(raw.Web),
		urls:                urls,
	}
	for _, url := range urls {
		if missing := MissingHeaders(headers[url]); len(missing) > 0 {
			s.Web.MissingHeadersByURL[url] = missing
		}
		if server := headers[url]["server"]; server != "" {
			s.Web.ServerBanners[url] = server
		}
	}

	if notAfter := s.SSL["notAfter"]; notAfter != "" {
		if days, ok := DaysUntil(notAfter, now); ok {
			s.SSLDaysUntilExpiry = &days
		}
	}

	s.Checklist = s.checklist()
	return s
}

func (s Summary) checklist() []string {
	items := []string{}
	for _, p := range s.OpenServices {
		items = append(items, "Review exposed service: "+p.Port+" "+p.Service+versionSuffix(p.Version))
	}
	items = append(items, s.dnsGaps()...)
	for _, url := range s.Web.URLs() {
		if missing, ok := s.Web.MissingHeadersByURL[url]; ok {
			items = append(items, fmt.Sprintf("Web headers for %s: missing %s", url, strings.Join(missing, ", ")))
		}
	}
	for _, url := range s.Web.URLs() {
		if server, ok := s.Web.ServerBanners[url]; ok {
			items = append(items, bannerItem(url, server))
		}
	}
	for _, url := range s.waybackURLs() {
		if n := s.Web.WaybackCounts[url]; n > 0 {
			items = append(items, waybackItem(url, n))
		}
	}
	items = append(items, s.sslItems()...)
	return items
}

func (s Summary) dnsGaps() []string {
	var out []string
	for _, label := range DNSLabels {
		if label == "dig A" || label == "Reverse PTR" {
			continue
		}
		if len(s.DNSRecords[label]) == 0 {
			out = append(out, fmt.Sprintf("DNS: %s records not present in output.", strings.TrimPrefix(label, "dig ")))
		}
	}
	return out
}

func (s Summary) sslItems() []string {
	var out []string
	if v := s.SSL["subject"]; v != "" {
		out = append(out, "SSL subject: "+v)
	}
	if v := s.SSL["issuer"]; v != "" {
		out = append(out, "SSL issuer: "+v)
	}
	return out
}

// waybackURLs orders the wayback counts by their header block, then any
// remaining ones alphabetically.
func (s Summary) waybackURLs() []string {
	seen := map[string]bool{}
	var out []string
	for _, url := range s.Web.URLs() {
		if _, ok := s.Web.WaybackCounts[url]; ok {
			out = append(out, url)
			seen[url] = true
		}
	}
	for _, url := range sortedKeys(s.Web.WaybackCounts) {
		if !seen[url] {
			out = append(out, url)
		}
	}
	return out
}

func versionSuffix(v string) string {
	if v == "" {
		return ""
	}
	return " (" + v + ")"
}

func bannerItem(url, server string) string {
	return fmt.Sprintf("Web headers for %s: Server banner is '%s' (consider minimizing).", url, server)
}

func waybackItem(url string, n int) string {
	return fmt.Sprintf("Wayback URLs for %s: %d samples found (review for exposed endpoints).", url, n)
}

// ParsePorts reads nmap service lines and masscan discoveries.
func ParsePorts(scan string) []Service {
	out := []Service{}
	for _, line := range strings.Split(scan, "\n") {
		line = strings.TrimSpace(line)
		if m := nmapPort.FindStringSubmatch(line); m != nil {
			out = append(out, Service{Port: m[1], State: m[2], Service: m[3], Version: strings.TrimSpace(m[4])})
			continue
		}
		if m := masscanPort.FindStringSubmatch(line); m != nil {
			out = append(out, Service{Port: m[1], State: "open", Service: "unknown"})
		}
	}
	return out
}

// sectionAfter returns the body under "# label" up to the next heading.
func sectionAfter(label, text string) string {
	re := regexp.MustCompile(`(?m)^# ` + regexp.QuoteMeta(label) + `[ \t]*$`)
	loc := re.FindStringIndex(text)
	if loc == nil {
		return ""
	}
	rest := text[loc[1]:]
	if next := anyHeading.FindStringIndex(rest); next != nil {
		rest = rest[:next[0]]
	}
	return strings.TrimSpace(rest)
}

func ParseDNS(dns string) map[string][]string {
	out := make(map[string][]string, len(DNSLabels))
	for _, label := range DNSLabels {
		recs := []string{}
		for _, ln := range strings.Split(sectionAfter(label, dns), "\n") {
			ln = strings.TrimSpace(ln)
			if ln != "" && !strings.HasPrefix(ln, "#") {
				recs = append(recs, ln)
			}
		}
		out[label] = recs
	}
	return out
}

// ParseSubdomains drops blank lines and missing-tool notices.
func ParseSubdomains(text string) []string {
	out := []string{}
	for _, ln := range strings.Split(text, "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" || strings.Contains(strings.ToLower(ln), "not installed") {
			continue
		}
		out = append(out, ln)
	}
	return out
}

// ParseWebHeaders maps each probed URL to its lower-cased response headers.
func ParseWebHeaders(web string) map[string]map[string]string {
	h, _ := parseWebHeaders(web)
	return h
}

func parseWebHeaders(web string) (map[string]map[string]string, []string) {
	out := map[string]map[string]string{}
	var order []string
	for _, b := range splitBlocks(headersFor, web) {
		body, _, _ := strings.Cut(b.body, "# Wayback URLs for")
		headers := map[string]string{}
		for _, line := range strings.Split(body, "\n") {
			key, val, ok := strings.Cut(line, ":")
			if !ok {
				continue
			}
			headers[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(val)
		}
		if _, dup := out[b.url]; !dup {
			order = append(order, b.url)
		}
		out[b.url] = headers
	}
	return out, order
}

// ParseWaybackCounts counts archived URLs per probed URL. A block stops at
// the next header block.
func ParseWaybackCounts(web string) map[string]int {
	out := map[string]int{}
	for _, b := range splitBlocks(waybackFor, web) {
		body, _, _ := strings.Cut(b.body, "# Headers for")
		var lines []string
		for _, ln := range strings.Split(body, "\n") {
			if strings.TrimSpace(ln) != "" && !strings.HasPrefix(ln, "#") {
				lines = append(lines, strings.TrimSpace(ln))
			}
		}
		if len(lines) > 0 && strings.Contains(strings.ToLower(lines[0]), "not installed") {
			out[b.url] = 0
			continue
		}
		out[b.url] = len(lines)
	}
	return out
}

type block struct {
	url  string
	body string
}

// splitBlocks cuts text at every match of heading, whose first group is
// the URL. Text before the first heading is dropped.
func splitBlocks(heading *regexp.Regexp, text string) []block {
	locs := heading.FindAllStringSubmatchIndex(text, -1)
	out := make([]block, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		out = append(out, block{
			url:  strings.TrimSpace(text[loc[2]:loc[3]]),
			body: text[loc[1]:end],
		})
	}
	return out
}

// ParseSSL reads the key=value lines printed by openssl x509.
func ParseSSL(text string) map[string]string {
	out := map[string]string{}
	for _, line := range strings.Split(text, "\n") {
		key, val, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		out[strings.TrimSpace(key)] = strings.TrimSpace(val)
	}
	return out
}

// MissingHeaders lists the SecurityHeaders absent from headers.
func MissingHeaders(headers map[string]string) []string {
	var out []string
	for _, h := range SecurityHeaders {
		if _, ok := headers[h]; !ok {
			out = append(out, h)
		}
	}
	return out
}

var certLayouts = []string{
	"Jan 2 15:04:05 2006 MST",
	"Jan 2 15:04:05 2006 GMT",
}

// DaysUntil counts whole days from now to an openssl date such as
// "Mar 14 12:00:00 2026 GMT", rounding down. The zone is taken as UTC.
func DaysUntil(date string, now time.Time) (int, bool) {
	date = strings.Join(strings.Fields(date), " ")
	for _, layout := range certLayouts {
		t, err := time.Parse(layout, date)
		if err != nil {
			continue
		}
		t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
		return int(math.Floor(t.Sub(now).Hours() / 24)), true
	}
	return 0, false
}

// URLs returns the probed URLs in report order. A summary decoded from
// JSON has no order, so the URLs come back sorted.
func (w WebSummary) URLs() []string {
	if w.urls != nil {
		return w.urls
	}
	return sortedKeys(w.HeadersByURL)
}
