package recon

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

const (
	FormatTextName = "text"
	FormatMarkdown = "md"
	FormatJSON     = "json"
)

var reportSeparator = "\n" + strings.Repeat("=", 72) + "\n"

// Text renders s as the human-readable checklist.
func (s Summary) Text() string {
	lines := []string{"Target: " + s.Target, "Source: " + s.Source}

	if len(s.OpenServices) > 0 {
		ports := make([]string, len(s.OpenServices))
		for i, p := range s.OpenServices {
			ports[i] = p.Port + " " + p.Service
		}
		lines = append(lines, "Open services: "+strings.Join(ports, ", "))
	} else {
		lines = append(lines, "Open services: (none detected in scan output)")
	}

	if s.SubdomainCount > 0 {
		lines = append(lines, fmt.Sprintf("Subdomains found: %d", s.SubdomainCount))
	} else {
		lines = append(lines, "Subdomains found: none / tool missing")
	}

	if n := len(s.Web.HeadersByURL); n > 0 {
		lines = append(lines, fmt.Sprintf("Web endpoints with headers: %d", n))
	} else {
		lines = append(lines, "Web endpoints with headers: none / tool missing")
	}

	if notAfter := s.SSL["notAfter"]; notAfter != "" {
		if s.SSLDaysUntilExpiry != nil {
			lines = append(lines, fmt.Sprintf("SSL cert expiry: %s (%d days)", notAfter, *s.SSLDaysUntilExpiry))
		} else {
			lines = append(lines, "SSL cert expiry: "+notAfter)
		}
	}

	lines = append(lines, "", "Checklist:")
	items := 0
	if len(s.OpenServices) > 0 {
		lines = append(lines, "- Review exposed services and confirm they should be public:")
		for _, p := range s.OpenServices {
			lines = append(lines, "  - "+p.Port+" "+p.Service+versionSuffix(p.Version))
		}
		items++
	}
	for _, gap := range s.dnsGaps() {
		lines = append(lines, "- "+gap)
		items++
	}
	for _, url := range s.Web.URLs() {
		if missing, ok := s.Web.MissingHeadersByURL[url]; ok {
			lines = append(lines, fmt.Sprintf("- Web headers for %s: missing %s", url, strings.Join(missing, ", ")))
			items++
		}
		if server, ok := s.Web.ServerBanners[url]; ok {
			lines = append(lines, "- "+bannerItem(url, server))
			items++
		}
		if n := s.Web.WaybackCounts[url]; n > 0 {
			lines = append(lines, "- "+waybackItem(url, n))
			items++
		}
	}
	for _, it := range s.sslItems() {
		lines = append(lines, "- "+it)
		items++
	}
	if items == 0 {
		lines = append(lines, "- (No additional checklist items detected from output.)")
	}
	return strings.Join(lines, "\n")
}

// Render serializes summaries as text, md or json. A single summary
// renders as a JSON object, several as an array.
func Render(summaries []Summary, format string, pretty bool) (string, error) {
	switch strings.ToLower(format) {
	case FormatTextName, "txt", FormatMarkdown:
		chunks := make([]string, len(summaries))
		for i, s := range summaries {
			chunks[i] = s.Text()
		}
		return strings.Join(chunks, reportSeparator), nil
	case FormatJSON:
		var payload any = summaries
		if len(summaries) == 1 {
			payload = summaries[0]
		}
		var (
			data []byte
			err  error
		)
		if pretty {
			data, err = json.MarshalIndent(payload, "", "  ")
		} else {
			data, err = json.Marshal(payload)
		}
		if err != nil {
			return "", errors.Wrap(err, "could not encode summary")
		}
		return string(data), nil
	}
	return "", errors.Errorf("unsupported format: %s", format)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
