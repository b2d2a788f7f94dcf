// Package detect classifies raw shell command text. Five independent,
// stateless classifiers each produce one category of annotation: execution
// host, network endpoints, package operations, danger assessment, and
// experiment signal. All pattern tables live in a Ruleset built once at
// startup and passed by reference; the classifiers never mutate it and
// never fail, since a non-match degrades to an empty or false annotation.
package detect

import (
	"regexp"
	"strings"
)

// Ruleset holds the compiled pattern tables every classifier consults.
// Construct it once with DefaultRuleset and share it freely; all methods
// are safe for concurrent use.
type Ruleset struct {
	sshHost   *regexp.Regexp
	dockerCtr *regexp.Regexp
	k8sPod    *regexp.Regexp

	curlURL *regexp.Regexp
	wgetURL *regexp.Regexp
	sshDest *regexp.Regexp
	dbDest  *regexp.Regexp

	managers []managerPattern

	dangerPatterns []dangerPattern
	riskyCommands  []riskyCommand

	learningCommands []string
	helpPatterns     []*regexp.Regexp
	testPatterns     []*regexp.Regexp
	explorableTools  []string
}

type managerPattern struct {
	manager string
	re      *regexp.Regexp
}

type dangerPattern struct {
	re     *regexp.Regexp
	score  float64
	reason string
}

type riskyCommand struct {
	name   string
	score  float64
	reason string
}

// DefaultRuleset compiles the built-in pattern tables.
func DefaultRuleset() *Ruleset {
	return &Ruleset{
		sshHost:   regexp.MustCompile(`ssh\s+(?:(\w+)@)?([^\s]+)`),
		dockerCtr: regexp.MustCompile(`docker\s+(?:exec|run).*?(?:-it\s+)?([^\s]+)`),
		k8sPod:    regexp.MustCompile(`kubectl\s+exec.*?([^\s]+)`),

		curlURL: regexp.MustCompile(`curl\s+.*?(https?://[^\s]+)`),
		wgetURL: regexp.MustCompile(`wget\s+.*?(https?://[^\s]+)`),
		sshDest: regexp.MustCompile(`ssh\s+(?:\w+@)?([^\s]+)`),
		dbDest:  regexp.MustCompile(`(?:psql|mysql|redis-cli).*?(?:-h\s+([^\s]+)|@([^\s]+))`),

		managers: []managerPattern{
			{"npm", regexp.MustCompile(`npm\s+(install|remove|update)\s+([^\s]+)`)},
			{"apt", regexp.MustCompile(`(?:apt|apt-get)\s+(install|remove|update)\s+([^\s]+)`)},
			{"pip", regexp.MustCompile(`pip\s+(install|uninstall)\s+([^\s]+)`)},
			{"cargo", regexp.MustCompile(`cargo\s+(install|uninstall)\s+([^\s]+)`)},
			{"brew", regexp.MustCompile(`brew\s+(install|uninstall|update)\s+([^\s]+)`)},
		},

		dangerPatterns: []dangerPattern{
			{regexp.MustCompile(`rm\s+-rf\s+/`), 1.0, "Recursive delete from root"},
			{regexp.MustCompile(`chmod\s+777`), 0.8, "Overly permissive permissions"},
			{regexp.MustCompile(`sudo\s+rm`), 0.7, "Privileged file deletion"},
			{regexp.MustCompile(`dd\s+.*of=/dev/`), 0.9, "Direct disk write"},
			{regexp.MustCompile(`mkfs`), 0.9, "Filesystem creation"},
			{regexp.MustCompile(`curl.*\|\s*(?:bash|sh)`), 0.8, "Pipe to shell execution"},
			{regexp.MustCompile(`wget.*-O-.*\|\s*(?:bash|sh)`), 0.8, "Pipe to shell execution"},
		},
		riskyCommands: []riskyCommand{
			{"rm", 0.6, "File deletion"},
			{"rmdir", 0.5, "Directory deletion"},
			{"mv", 0.3, "File movement"},
			{"cp", 0.2, "File copying"},
			{"chmod", 0.4, "Permission change"},
			{"chown", 0.4, "Ownership change"},
			{"sudo", 0.5, "Privileged execution"},
		},

		learningCommands: []string{"man", "help", "tldr", "info", "which", "type", "whatis", "apropos"},
		helpPatterns: []*regexp.Regexp{
			regexp.MustCompile(`--help`),
			regexp.MustCompile(`-h\b`),
			regexp.MustCompile(`--usage`),
		},
		testPatterns: []*regexp.Regexp{
			regexp.MustCompile(`\btest\b`),
			regexp.MustCompile(`\btry\b`),
			regexp.MustCompile(`\bplay\b`),
			regexp.MustCompile(`\bsandbox\b`),
			regexp.MustCompile(`\bexperiment\b`),
			regexp.MustCompile(`\bdemo\b`),
		},
		explorableTools: []string{"jq", "ffmpeg", "docker", "kubectl", "git", "curl", "grep"},
	}
}

// firstWord returns the first whitespace-separated token, or "" for blank input.
func firstWord(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
