package detect

import "regexp"

// Endpoints extracts every network destination referenced by a command:
// HTTP(S) URLs passed to curl or wget, SSH targets as "ssh://host", and
// database hosts (psql/mysql/redis-cli via -h or @) as "db://host". All
// matches are collected in that order; no match yields an empty slice.
func (r *Ruleset) Endpoints(command string) []string {
	var endpoints []string

	for _, re := range []*regexp.Regexp{r.curlURL, r.wgetURL} {
		if m := re.FindStringSubmatch(command); m != nil {
			endpoints = append(endpoints, m[1])
		}
	}

	if m := r.sshDest.FindStringSubmatch(command); m != nil {
		endpoints = append(endpoints, "ssh://"+m[1])
	}

	if m := r.dbDest.FindStringSubmatch(command); m != nil {
		host := m[1]
		if host == "" {
			host = m[2]
		}
		if host != "" {
			endpoints = append(endpoints, "db://"+host)
		}
	}

	return endpoints
}
