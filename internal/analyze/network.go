package analyze

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/histlens/histlens/internal/history"
)

// Security issue kinds.
const (
	IssueInsecureHTTP       = "insecure-http"
	IssueCredentialExposure = "credential-exposure"
	IssueSuspiciousEndpoint = "suspicious-endpoint"
)

// NetworkAnalysis reports on network endpoint usage.
type NetworkAnalysis struct {
	TotalNetworkCommands int
	UniqueEndpoints      int
	ProtocolBreakdown    map[string]int
	Issues               []SecurityIssue
	TopEndpoints         []EndpointStats
	Patterns             []ConnectionPattern
	SecurityScore        float64
}

// SecurityIssue is one class of risky network usage with the commands
// that triggered it.
type SecurityIssue struct {
	Kind             string
	Description      string
	Severity         Severity
	AffectedCommands []string
	Recommendation   string
}

// EndpointStats aggregates usage of one endpoint.
type EndpointStats struct {
	Endpoint  string
	Protocol  string
	UseCount  int
	FirstSeen time.Time
	LastSeen  time.Time
	Secure    bool
}

// ConnectionPattern is one recognized usage pattern.
type ConnectionPattern struct {
	Kind        string
	Description string
	Frequency   int
	Risk        Severity
}

var credentialMarkers = []string{
	"password=", "pwd=", "pass=", "token=", "key=", "secret=",
	"user:", "username:", "login:", "auth:", "api_key=",
}

var suspiciousDomains = []string{
	"bit.ly", "tinyurl.com", "t.co", "goo.gl",
	"pastebin.com", "hastebin.com",
	"raw.githubusercontent.com",
}

// Network computes the endpoint usage report. With no network commands the
// security score is a perfect 1.0.
func Network(cmds []history.Command) NetworkAnalysis {
	var netCmds []*history.Command
	for i := range cmds {
		if len(cmds[i].NetworkEndpoints) > 0 {
			netCmds = append(netCmds, &cmds[i])
		}
	}

	protocols := make(map[string]int)
	byEndpoint := make(map[string]*EndpointStats)
	for _, c := range netCmds {
		for _, endpoint := range c.NetworkEndpoints {
			protocol := endpointProtocol(endpoint)
			protocols[protocol]++

			s := byEndpoint[endpoint]
			if s == nil {
				s = &EndpointStats{
					Endpoint:  endpoint,
					Protocol:  protocol,
					FirstSeen: c.Timestamp,
					LastSeen:  c.Timestamp,
					Secure:    isSecureEndpoint(endpoint),
				}
				byEndpoint[endpoint] = s
			}
			s.UseCount++
			if c.Timestamp.Before(s.FirstSeen) {
				s.FirstSeen = c.Timestamp
			}
			if c.Timestamp.After(s.LastSeen) {
				s.LastSeen = c.Timestamp
			}
		}
	}

	top := make([]EndpointStats, 0, len(byEndpoint))
	for _, s := range byEndpoint {
		top = append(top, *s)
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].UseCount != top[j].UseCount {
			return top[i].UseCount > top[j].UseCount
		}
		return top[i].Endpoint < top[j].Endpoint
	})
	unique := len(top)
	if len(top) > 20 {
		top = top[:20]
	}

	a := NetworkAnalysis{
		TotalNetworkCommands: len(netCmds),
		UniqueEndpoints:      unique,
		ProtocolBreakdown:    protocols,
		Issues:               securityIssues(netCmds),
		TopEndpoints:         top,
		Patterns:             connectionPatterns(netCmds),
	}
	a.SecurityScore = networkSecurityScore(a, byEndpoint)
	return a
}

func endpointProtocol(endpoint string) string {
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		return "HTTPS"
	case strings.HasPrefix(endpoint, "http://"):
		return "HTTP"
	case strings.HasPrefix(endpoint, "ssh://"):
		return "SSH"
	case strings.HasPrefix(endpoint, "db://"):
		return "Database"
	case strings.Contains(endpoint, ":22"):
		return "SSH"
	case strings.Contains(endpoint, ":80"):
		return "HTTP"
	case strings.Contains(endpoint, ":443"):
		return "HTTPS"
	default:
		return "Unknown"
	}
}

func isSecureEndpoint(endpoint string) bool {
	return strings.HasPrefix(endpoint, "https://") ||
		strings.HasPrefix(endpoint, "ssh://") ||
		strings.Contains(endpoint, ":22") ||
		strings.Contains(endpoint, ":443")
}

func securityIssues(cmds []*history.Command) []SecurityIssue {
	var issues []SecurityIssue

	var insecure []string
	for _, c := range cmds {
		for _, endpoint := range c.NetworkEndpoints {
			if strings.HasPrefix(endpoint, "http://") {
				insecure = append(insecure, c.Command)
				break
			}
		}
	}
	if len(insecure) > 0 {
		issues = append(issues, SecurityIssue{
			Kind:             IssueInsecureHTTP,
			Description:      fmt.Sprintf("%d commands using insecure HTTP protocol", len(insecure)),
			Severity:         SeverityMedium,
			AffectedCommands: insecure,
			Recommendation:   "Use HTTPS instead of HTTP for secure communication",
		})
	}

	var credentials []string
	for _, c := range cmds {
		if containsCredentials(c.Command) {
			credentials = append(credentials, c.Command)
		}
	}
	if len(credentials) > 0 {
		issues = append(issues, SecurityIssue{
			Kind:             IssueCredentialExposure,
			Description:      "Commands may contain exposed credentials",
			Severity:         SeverityHigh,
			AffectedCommands: credentials,
			Recommendation:   "Use environment variables or credential files instead of inline credentials",
		})
	}

	var suspicious []string
	for _, c := range cmds {
		for _, endpoint := range c.NetworkEndpoints {
			if isSuspiciousEndpoint(endpoint) {
				suspicious = append(suspicious, c.Command)
				break
			}
		}
	}
	if len(suspicious) > 0 {
		issues = append(issues, SecurityIssue{
			Kind:             IssueSuspiciousEndpoint,
			Description:      "Connections to potentially suspicious endpoints detected",
			Severity:         SeverityMedium,
			AffectedCommands: suspicious,
			Recommendation:   "Verify the legitimacy of these endpoints before connecting",
		})
	}

	return issues
}

func containsCredentials(command string) bool {
	lower := strings.ToLower(command)
	for _, marker := range credentialMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func isSuspiciousEndpoint(endpoint string) bool {
	for _, domain := range suspiciousDomains {
		if strings.Contains(endpoint, domain) {
			return true
		}
	}
	return false
}

func connectionPatterns(cmds []*history.Command) []ConnectionPattern {
	countWith := func(match func(string) bool) int {
		n := 0
		for _, c := range cmds {
			for _, endpoint := range c.NetworkEndpoints {
				if match(endpoint) {
					n++
					break
				}
			}
		}
		return n
	}

	var patterns []ConnectionPattern
	if n := countWith(func(e string) bool { return strings.Contains(e, "api.") }); n > 10 {
		patterns = append(patterns, ConnectionPattern{
			Kind:        "API Usage",
			Description: fmt.Sprintf("High API usage detected (%d commands)", n),
			Frequency:   n,
			Risk:        SeverityLow,
		})
	}
	if n := countWith(func(e string) bool { return strings.HasPrefix(e, "db://") }); n > 5 {
		patterns = append(patterns, ConnectionPattern{
			Kind:        "Database Access",
			Description: fmt.Sprintf("Database connections detected (%d commands)", n),
			Frequency:   n,
			Risk:        SeverityMedium,
		})
	}
	if n := countWith(func(e string) bool { return strings.HasPrefix(e, "ssh://") }); n > 3 {
		patterns = append(patterns, ConnectionPattern{
			Kind:        "Remote Access",
			Description: fmt.Sprintf("SSH connections detected (%d commands)", n),
			Frequency:   n,
			Risk:        SeverityLow,
		})
	}
	return patterns
}

// networkSecurityScore starts at 1.0, subtracts per-issue penalties scaled
// by how much of the traffic they affect, and grants up to 0.2 back for
// secure protocol usage.
func networkSecurityScore(a NetworkAnalysis, byEndpoint map[string]*EndpointStats) float64 {
	if a.TotalNetworkCommands == 0 {
		return 1.0
	}

	score := 1.0
	for _, issue := range a.Issues {
		affected := float64(len(issue.AffectedCommands)) / float64(a.TotalNetworkCommands)
		score -= severityWeight(issue.Severity) * affected
	}

	secure, total := 0, 0
	for _, s := range byEndpoint {
		total += s.UseCount
		if s.Secure {
			secure += s.UseCount
		}
	}
	if total > 0 {
		score += float64(secure) / float64(total) * 0.2
	}

	return clamp01(score)
}
