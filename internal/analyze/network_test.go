package analyze

import (
	"testing"
	"time"

	"github.com/histlens/histlens/internal/history"
)

func netCmd(text string, ts time.Time, endpoints ...string) history.Command {
	c := cmd(text, ts)
	c.NetworkEndpoints = endpoints
	return c
}

func TestNetwork_EmptyInput(t *testing.T) {
	a := Network(nil)

	if a.TotalNetworkCommands != 0 || a.UniqueEndpoints != 0 {
		t.Errorf("counts = %d/%d, want 0/0", a.TotalNetworkCommands, a.UniqueEndpoints)
	}
	if a.SecurityScore != 1.0 {
		t.Errorf("SecurityScore = %v, want 1.0", a.SecurityScore)
	}
}

func TestEndpointProtocol(t *testing.T) {
	tests := []struct {
		endpoint string
		protocol string
		secure   bool
	}{
		{"https://api.example.com/data", "HTTPS", true},
		{"http://example.com", "HTTP", false},
		{"ssh://web-01", "SSH", true},
		{"db://db.internal", "Database", false},
		{"host.example.com:22", "SSH", true},
		{"host.example.com:80", "HTTP", false},
		{"host.example.com:443", "HTTPS", true},
		{"plainhost", "Unknown", false},
	}

	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			if got := endpointProtocol(tt.endpoint); got != tt.protocol {
				t.Errorf("protocol = %q, want %q", got, tt.protocol)
			}
			if got := isSecureEndpoint(tt.endpoint); got != tt.secure {
				t.Errorf("secure = %v, want %v", got, tt.secure)
			}
		})
	}
}

func TestNetwork_SecureHTTPSScenario(t *testing.T) {
	a := Network([]history.Command{
		netCmd("curl https://api.example.com/data", statsNow, "https://api.example.com/data"),
	})

	if a.TotalNetworkCommands != 1 || a.UniqueEndpoints != 1 {
		t.Fatalf("counts = %d/%d", a.TotalNetworkCommands, a.UniqueEndpoints)
	}
	if a.ProtocolBreakdown["HTTPS"] != 1 {
		t.Errorf("ProtocolBreakdown = %v", a.ProtocolBreakdown)
	}
	top := a.TopEndpoints[0]
	if top.Protocol != "HTTPS" || !top.Secure {
		t.Errorf("top endpoint = %+v", top)
	}
	if len(a.Issues) != 0 {
		t.Errorf("Issues = %v, want none", a.Issues)
	}
	// 1.0 base + 0.2 secure bonus clamps back to 1.0.
	if a.SecurityScore != 1.0 {
		t.Errorf("SecurityScore = %v, want 1.0", a.SecurityScore)
	}
}

func TestNetwork_InsecureHTTPIssue(t *testing.T) {
	a := Network([]history.Command{
		netCmd("curl http://example.com", statsNow, "http://example.com"),
	})

	if len(a.Issues) != 1 {
		t.Fatalf("got %d issues, want 1", len(a.Issues))
	}
	issue := a.Issues[0]
	if issue.Kind != IssueInsecureHTTP || issue.Severity != SeverityMedium {
		t.Errorf("issue = %+v", issue)
	}
	if len(issue.AffectedCommands) != 1 {
		t.Errorf("AffectedCommands = %v", issue.AffectedCommands)
	}
	// 1.0 - 0.2 medium penalty, no secure usage.
	if diff := a.SecurityScore - 0.8; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("SecurityScore = %v, want 0.8", a.SecurityScore)
	}
}

func TestNetwork_CredentialExposure(t *testing.T) {
	tests := []struct {
		name    string
		command string
		want    bool
	}{
		{"token in query", "curl https://api.example.com?token=abc123", true},
		{"uppercase marker", "curl https://x.dev?API_KEY=s3cret", true},
		{"password assignment", "mysql -h db.x --password=hunter2", true},
		{"clean", "curl https://api.example.com/data", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := containsCredentials(tt.command); got != tt.want {
				t.Errorf("containsCredentials(%q) = %v, want %v", tt.command, got, tt.want)
			}
		})
	}
}

func TestNetwork_SuspiciousEndpointIssue(t *testing.T) {
	a := Network([]history.Command{
		netCmd("curl https://bit.ly/xyz", statsNow, "https://bit.ly/xyz"),
	})

	var found *SecurityIssue
	for i := range a.Issues {
		if a.Issues[i].Kind == IssueSuspiciousEndpoint {
			found = &a.Issues[i]
		}
	}
	if found == nil {
		t.Fatalf("no suspicious-endpoint issue in %v", a.Issues)
	}
	if found.Severity != SeverityMedium {
		t.Errorf("Severity = %v", found.Severity)
	}
}

func TestNetwork_TopEndpointsOrdering(t *testing.T) {
	cmds := []history.Command{
		netCmd("curl https://b.example.com", statsNow, "https://b.example.com"),
		netCmd("curl https://a.example.com", statsNow, "https://a.example.com"),
		netCmd("curl https://b.example.com", statsNow.Add(time.Minute), "https://b.example.com"),
	}

	top := Network(cmds).TopEndpoints
	if len(top) != 2 {
		t.Fatalf("got %d endpoints, want 2", len(top))
	}
	if top[0].Endpoint != "https://b.example.com" || top[0].UseCount != 2 {
		t.Errorf("top[0] = %+v", top[0])
	}
	if top[1].Endpoint != "https://a.example.com" {
		t.Errorf("top[1] = %+v", top[1])
	}
	if !top[0].FirstSeen.Equal(statsNow) || !top[0].LastSeen.Equal(statsNow.Add(time.Minute)) {
		t.Errorf("seen range = %v..%v", top[0].FirstSeen, top[0].LastSeen)
	}
}

func TestNetwork_ConnectionPatterns(t *testing.T) {
	var cmds []history.Command
	for i := 0; i < 6; i++ {
		cmds = append(cmds, netCmd("psql -h db.internal", statsNow, "db://db.internal"))
	}

	patterns := Network(cmds).Patterns
	if len(patterns) != 1 {
		t.Fatalf("got %d patterns, want 1", len(patterns))
	}
	if patterns[0].Kind != "Database Access" || patterns[0].Frequency != 6 {
		t.Errorf("pattern = %+v", patterns[0])
	}
	if patterns[0].Risk != SeverityMedium {
		t.Errorf("Risk = %v", patterns[0].Risk)
	}
}
