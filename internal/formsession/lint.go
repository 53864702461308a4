package formsession

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/edvin/modelerd/internal/model"
)

// Issue is one lint finding against a form schema.
type Issue struct {
	RuleID    string `json:"rule_id"`
	Component string `json:"component,omitempty"`
	Message   string `json:"message"`
}

// Linter evaluates a form schema against an engine profile.
type Linter interface {
	Lint(ctx context.Context, schema []byte, profile model.EngineProfile) ([]Issue, error)
}

// RuleSet is the YAML-configured lint policy for form schemas.
type RuleSet struct {
	// AllowedTypes is the closed set of component types the target
	// engine accepts. Empty means all types pass.
	AllowedTypes []string `yaml:"allowed_types"`
	// RequireKeyFor lists component types that must carry a non-empty
	// binding key.
	RequireKeyFor []string `yaml:"require_key_for"`
	// TypeMinVersions gates component types on a minimum engine
	// version (e.g. "datetime: 8.4").
	TypeMinVersions map[string]string `yaml:"type_min_versions"`
}

// RuleLinter lints form schemas against a RuleSet.
type RuleLinter struct {
	rules RuleSet
}

func NewRuleLinter(rules RuleSet) *RuleLinter {
	return &RuleLinter{rules: rules}
}

// LoadRuleSet reads a RuleSet from a YAML file.
func LoadRuleSet(path string) (RuleSet, error) {
	var rules RuleSet
	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("read lint rules: %w", err)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return rules, fmt.Errorf("parse lint rules %s: %w", path, err)
	}
	return rules, nil
}

type formComponent struct {
	Type string `json:"type"`
	Key  string `json:"key"`
	ID   string `json:"id"`
}

// Lint checks every component of the schema. Callers must not invoke
// it without a complete engine profile; the session guards that.
func (l *RuleLinter) Lint(ctx context.Context, schema []byte, profile model.EngineProfile) ([]Issue, error) {
	var form struct {
		Components []formComponent `json:"components"`
	}
	if err := json.Unmarshal(schema, &form); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	var issues []Issue
	for _, c := range form.Components {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		issues = append(issues, l.lintComponent(c, profile)...)
	}
	return issues, nil
}

func (l *RuleLinter) lintComponent(c formComponent, profile model.EngineProfile) []Issue {
	var issues []Issue

	if len(l.rules.AllowedTypes) > 0 && !contains(l.rules.AllowedTypes, c.Type) {
		issues = append(issues, Issue{
			RuleID:    "allowed-types",
			Component: c.ID,
			Message:   fmt.Sprintf("component type %q is not supported by the target engine", c.Type),
		})
	}

	if contains(l.rules.RequireKeyFor, c.Type) && c.Key == "" {
		issues = append(issues, Issue{
			RuleID:    "require-key",
			Component: c.ID,
			Message:   fmt.Sprintf("component type %q requires a binding key", c.Type),
		})
	}

	if minVersion, ok := l.rules.TypeMinVersions[c.Type]; ok && versionLess(profile.Version, minVersion) {
		issues = append(issues, Issue{
			RuleID:    "min-version",
			Component: c.ID,
			Message:   fmt.Sprintf("component type %q requires engine %s or later", c.Type, minVersion),
		})
	}

	return issues
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// versionLess compares dotted numeric versions segment by segment.
// Non-numeric segments compare as zero.
func versionLess(a, b string) bool {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) || i < len(bs); i++ {
		av, bv := 0, 0
		if i < len(as) {
			av, _ = strconv.Atoi(as[i])
		}
		if i < len(bs) {
			bv, _ = strconv.Atoi(bs[i])
		}
		if av != bv {
			return av < bv
		}
	}
	return false
}
