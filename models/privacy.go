package models

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// PrivacyPolicy is a bitmask of the privacy behaviours enabled for a run.
type PrivacyPolicy uint8

const (
	// AbsolutePrivacy drops every record taken inside a privacy area.
	AbsolutePrivacy PrivacyPolicy = 1 << iota
	// NoPosition blanks the position columns inside a privacy area.
	NoPosition
	// NoPrivacy records everything; only the InsidePrivacyArea flag is set.
	NoPrivacy
	// OverridePrivacy writes confirmed records in full even inside an area.
	OverridePrivacy

	AllPrivacyPolicies = AbsolutePrivacy | NoPosition | NoPrivacy | OverridePrivacy
)

var policyNames = []struct {
	bit  PrivacyPolicy
	name string
}{
	{AbsolutePrivacy, "AbsolutePrivacy"},
	{NoPosition, "NoPosition"},
	{NoPrivacy, "NoPrivacy"},
	{OverridePrivacy, "OverridePrivacy"},
}

// Has reports whether every bit of flag is set.
func (p PrivacyPolicy) Has(flag PrivacyPolicy) bool {
	return p&flag == flag
}

// String renders the enabled flags joined by "|". An empty mask is
// reported as NoPrivacy, which is how it behaves.
func (p PrivacyPolicy) String() string {
	var parts []string
	for _, n := range policyNames {
		if p&n.bit != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "NoPrivacy"
	}
	return strings.Join(parts, "|")
}

// ParsePrivacyPolicy accepts "AbsolutePrivacy|OverridePrivacy" style masks.
func ParsePrivacyPolicy(s string) (PrivacyPolicy, error) {
	var p PrivacyPolicy
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' }) {
		bit, err := parsePolicyName(part)
		if err != nil {
			return 0, err
		}
		p |= bit
	}
	return p, nil
}

func parsePolicyName(name string) (PrivacyPolicy, error) {
	name = strings.TrimSpace(name)
	for _, n := range policyNames {
		if strings.EqualFold(n.name, name) {
			return n.bit, nil
		}
	}
	return 0, fmt.Errorf("unknown privacy policy %q", name)
}

// UnmarshalYAML accepts a list of policy names, a "|" separated string or
// the raw integer mask stored by the device settings page.
func (p *PrivacyPolicy) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var names []string
		if err := node.Decode(&names); err != nil {
			return err
		}
		var mask PrivacyPolicy
		for _, n := range names {
			bit, err := parsePolicyName(n)
			if err != nil {
				return err
			}
			mask |= bit
		}
		*p = mask
		return nil
	case yaml.ScalarNode:
		if v, err := strconv.ParseUint(node.Value, 0, 8); err == nil {
			*p = PrivacyPolicy(v)
			return nil
		}
		mask, err := ParsePrivacyPolicy(node.Value)
		if err != nil {
			return err
		}
		*p = mask
		return nil
	default:
		return fmt.Errorf("privacy policy: unexpected YAML node at line %d", node.Line)
	}
}

// MarshalYAML writes the mask as a list of names.
func (p PrivacyPolicy) MarshalYAML() (interface{}, error) {
	var names []string
	for _, n := range policyNames {
		if p&n.bit != 0 {
			names = append(names, n.name)
		}
	}
	return names, nil
}
