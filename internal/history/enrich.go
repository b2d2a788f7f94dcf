package history

import "github.com/histlens/histlens/internal/detect"

// Enrich applies every classifier to the command text exactly once and
// writes the results into the record. It never fails: non-matches leave
// the defaults (local host, empty lists, not dangerous, not experimental).
func Enrich(rules *detect.Ruleset, c *Command) {
	c.HostID = rules.Host(c.Command)
	c.NetworkEndpoints = rules.Endpoints(c.Command)
	c.PackagesUsed = rules.Packages(c.Command)

	danger := rules.Danger(c.Command)
	c.IsDangerous = danger.Dangerous
	c.DangerScore = danger.Score
	c.DangerReasons = danger.Reasons

	exp := rules.Experiment(c.Command)
	c.IsExperiment = exp.Experiment
	c.ExperimentTags = exp.Tags
}
