// Package featureflags evaluates FEATURE_FLAGS rules such as
// "voucher_attachments=on,realtime=25%".
package featureflags

import (
	"hash/fnv"
	"strconv"
	"strings"
)

const (
	// VoucherAttachments attaches the stored voucher file to academy emails.
	VoucherAttachments = "voucher_attachments"
	// Realtime enables the /api/ws channel.
	Realtime = "realtime"
)

// Definition describes a flag the backend reads and its state when
// FEATURE_FLAGS does not mention it.
type Definition struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Default     bool   `json:"default"`
}

// Known lists the flags evaluated by the backend.
var Known = []Definition{
	{Name: VoucherAttachments, Description: "Attach uploaded vouchers to new-enrollment emails", Default: false},
	{Name: Realtime, Description: "Serve the /api/ws notification socket", Default: true},
}

type ruleKind int

const (
	ruleOff ruleKind = iota
	ruleOn
	rulePercent
)

type rule struct {
	kind    ruleKind
	percent int
	raw     string
}

// Manager holds the parsed rules. A nil Manager disables every flag.
type Manager struct {
	rules    map[string]rule
	defaults map[string]bool
}

// NewManager parses a comma-separated list of name=value pairs. Values are
// on/true/1, off/false/0 or N% for a deterministic per-user rollout.
// Malformed pairs are skipped.
func NewManager(raw string) *Manager {
	m := &Manager{
		rules:    make(map[string]rule),
		defaults: make(map[string]bool, len(Known)),
	}
	for _, def := range Known {
		m.defaults[def.Name] = def.Default
	}

	for _, pair := range strings.Split(raw, ",") {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		name, value = normalize(name), normalize(value)
		if name == "" || value == "" {
			continue
		}
		if r, ok := parseRule(value); ok {
			m.rules[name] = r
		}
	}
	return m
}

func parseRule(value string) (rule, bool) {
	switch value {
	case "on", "true", "1":
		return rule{kind: ruleOn, raw: value}, true
	case "off", "false", "0":
		return rule{kind: ruleOff, raw: value}, true
	}
	pct, ok := strings.CutSuffix(value, "%")
	if !ok {
		return rule{}, false
	}
	n, err := strconv.Atoi(pct)
	if err != nil {
		return rule{}, false
	}
	switch {
	case n <= 0:
		return rule{kind: ruleOff, raw: value}, true
	case n >= 100:
		return rule{kind: ruleOn, raw: value}, true
	}
	return rule{kind: rulePercent, percent: n, raw: value}, true
}

// Enabled reports whether name is on for userID. Percentage rollouts need a
// user id; unconfigured flags fall back to their Known default.
func (m *Manager) Enabled(name string, userID string) bool {
	if m == nil {
		return false
	}
	name = normalize(name)

	r, ok := m.rules[name]
	if !ok {
		return m.defaults[name]
	}
	switch r.kind {
	case ruleOn:
		return true
	case rulePercent:
		return userID != "" && rolloutBucket(name, userID) < r.percent
	}
	return false
}

// EnabledFunc binds name so callers can evaluate it per user.
func (m *Manager) EnabledFunc(name string) func(userID string) bool {
	return func(userID string) bool { return m.Enabled(name, userID) }
}

// Raw returns the configured values as written in FEATURE_FLAGS.
func (m *Manager) Raw() map[string]string {
	if m == nil {
		return map[string]string{}
	}
	out := make(map[string]string, len(m.rules))
	for name, r := range m.rules {
		out[name] = r.raw
	}
	return out
}

// Snapshot evaluates every configured and known flag for one user.
func (m *Manager) Snapshot(userID string) map[string]bool {
	if m == nil {
		return map[string]bool{}
	}
	out := make(map[string]bool, len(m.rules)+len(m.defaults))
	for name := range m.defaults {
		out[name] = m.Enabled(name, userID)
	}
	for name := range m.rules {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(name string, userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name + ":" + userID))
	return int(h.Sum32() % 100)
}
