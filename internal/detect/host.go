package detect

import "fmt"

// LocalHost is the host identifier for commands with no remote-execution idiom.
const LocalHost = "local"

// Host identifies where a command executes. Remote idioms are checked with
// first-match-wins priority SSH > Docker > Kubernetes; anything else runs
// locally. Returned identifiers are tagged: "ssh:user@host",
// "docker:container", "k8s:pod", or "local".
func (r *Ruleset) Host(command string) string {
	if m := r.sshHost.FindStringSubmatch(command); m != nil {
		user := m[1]
		if user == "" {
			user = "unknown"
		}
		return fmt.Sprintf("ssh:%s@%s", user, m[2])
	}

	if m := r.dockerCtr.FindStringSubmatch(command); m != nil {
		return fmt.Sprintf("docker:%s", m[1])
	}

	if m := r.k8sPod.FindStringSubmatch(command); m != nil {
		return fmt.Sprintf("k8s:%s", m[1])
	}

	return LocalHost
}
