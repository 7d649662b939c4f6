package search

import (
	"regexp"
	"strings"
)

// conjunctionTokens are the connector phrases that signal a compound
// query. Multi-word tokens are listed first so regex alternation
// prefers the longer match.
var conjunctionTokens = []string{
	"as well as",
	"along with",
	"together with",
	"in addition to",
	"and",
	"or",
	"plus",
	"also",
}

// questionWords are the question markers counted by the classifier and
// used as split positions by the multi-question strategy.
var questionWords = []string{"how", "what", "where", "when", "why", "which", "who"}

// topicCluster is one fixed keyword cluster for multi-topic detection.
type topicCluster struct {
	name     string
	keywords []string
}

// topicClusters is the fixed topic table. Order matters: detection and
// the multi_topic strategy iterate it in this order, keeping output
// deterministic.
var topicClusters = []topicCluster{
	{"authentication", []string{"auth", "authentication", "login", "signin", "credential", "credentials", "password", "token", "oauth", "session"}},
	{"logging", []string{"log", "logs", "logging", "logger", "trace", "tracing", "audit"}},
	{"database", []string{"database", "db", "sql", "table", "schema", "migration", "orm", "transaction"}},
	{"api", []string{"api", "endpoint", "rest", "route", "handler", "request", "response", "grpc", "webhook"}},
	{"testing", []string{"test", "tests", "testing", "mock", "mocks", "fixture", "assert", "coverage"}},
	{"memory", []string{"memory", "cache", "caching", "buffer", "heap", "allocation", "leak"}},
	{"file", []string{"file", "files", "filesystem", "directory", "folder", "upload", "download"}},
	{"network", []string{"network", "socket", "http", "tcp", "udp", "connection", "dns", "proxy"}},
	{"ui", []string{"ui", "frontend", "view", "render", "rendering", "component", "widget", "layout"}},
	{"config", []string{"config", "configuration", "settings", "environment", "env", "flag", "flags"}},
}

var (
	conjunctionRe   = regexp.MustCompile(`(?i)\b(?:` + strings.Join(conjunctionTokens, "|") + `)\b`)
	questionWordRe  = regexp.MustCompile(`(?i)\b(?:` + strings.Join(questionWords, "|") + `)\b`)
	nonWordSplitRe  = regexp.MustCompile(`[^a-z0-9_]+`)
)

// Classifier decides whether a query warrants decomposition at all,
// using lightweight lexical signals only. It is pure: no side effects,
// no errors possible. False positives are harmless because the
// decomposer degrades gracefully to the original query when no
// strategy actually splits it.
type Classifier struct {
	maxSimpleLength int
	maxSimpleWords  int
}

// NewClassifier creates a classifier with the given thresholds.
func NewClassifier(cfg Config) *Classifier {
	return &Classifier{
		maxSimpleLength: cfg.MaxSimpleLength,
		maxSimpleWords:  cfg.MaxSimpleWords,
	}
}

// IsComplex reports whether the query looks compound. A query is
// complex if ANY of the following hold:
//   - it contains a conjunction token as a whole word,
//   - it contains two or more distinct question-marker words,
//   - its keywords touch two or more topic clusters,
//   - splitting on top-level commas yields two or more segments,
//   - it exceeds both the length and word-count thresholds.
func (c *Classifier) IsComplex(query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return false
	}

	if conjunctionRe.MatchString(query) {
		return true
	}

	if countDistinctQuestionWords(query) >= 2 {
		return true
	}

	if len(detectTopics(query)) >= 2 {
		return true
	}

	if strings.Contains(query, ",") && len(splitTopLevelTrimmed(query)) >= 2 {
		return true
	}

	if len(query) > c.maxSimpleLength && len(strings.Fields(query)) > c.maxSimpleWords {
		return true
	}

	return false
}

// countDistinctQuestionWords counts how many different question markers
// appear as whole words.
func countDistinctQuestionWords(query string) int {
	seen := make(map[string]struct{}, 2)
	for _, m := range questionWordRe.FindAllString(query, -1) {
		seen[strings.ToLower(m)] = struct{}{}
	}
	return len(seen)
}

// detectTopics returns the names of topic clusters whose keywords
// appear in the query, in fixed cluster-table order.
func detectTopics(query string) []string {
	words := queryWordSet(query)

	var topics []string
	for _, cluster := range topicClusters {
		for _, kw := range cluster.keywords {
			if _, ok := words[kw]; ok {
				topics = append(topics, cluster.name)
				break
			}
		}
	}
	return topics
}

// queryWordSet lowercases the query and splits it into a word set on
// non-alphanumeric boundaries.
func queryWordSet(query string) map[string]struct{} {
	words := nonWordSplitRe.Split(strings.ToLower(query), -1)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}
