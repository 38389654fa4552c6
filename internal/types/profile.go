package types

import "encoding/json"

// Trait family keys used inside a cumulative psychology profile.
const (
	FamilyBigFive  = "big_five"
	FamilyDISC     = "disc"
	FamilySchwartz = "schwartz_values"
)

// TraitEntry is one scalar trait read: a 0-10 score plus the qualitative
// evidence behind it and the suggested sales strategy.
type TraitEntry struct {
	Score     int    `json:"score"`
	Rationale string `json:"rationale"`
	Strategy  string `json:"strategy"`
}

type TraitFamily map[string]TraitEntry

// CumulativeProfile is the session-long psychometric read of a customer.
// Unknown trait families are carried through untouched in Extra so a newer
// producer can ship families this version does not interpret yet.
type CumulativeProfile struct {
	BigFive        TraitFamily
	DISC           TraitFamily
	SchwartzValues []string
	Extra          map[string]any
}

func (p CumulativeProfile) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(p.Extra)+3)
	for k, v := range p.Extra {
		m[k] = v
	}
	if len(p.BigFive) > 0 {
		m[FamilyBigFive] = p.BigFive
	}
	if len(p.DISC) > 0 {
		m[FamilyDISC] = p.DISC
	}
	if len(p.SchwartzValues) > 0 {
		m[FamilySchwartz] = p.SchwartzValues
	}
	return json.Marshal(m)
}

func (p *CumulativeProfile) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	for k, raw := range m {
		switch k {
		case FamilyBigFive:
			if err := json.Unmarshal(raw, &p.BigFive); err != nil {
				return err
			}
		case FamilyDISC:
			if err := json.Unmarshal(raw, &p.DISC); err != nil {
				return err
			}
		case FamilySchwartz:
			if err := json.Unmarshal(raw, &p.SchwartzValues); err != nil {
				return err
			}
		default:
			var v any
			if err := json.Unmarshal(raw, &v); err != nil {
				return err
			}
			if p.Extra == nil {
				p.Extra = map[string]any{}
			}
			p.Extra[k] = v
		}
	}
	return nil
}

// Family returns the named scalar trait family, or nil for unknown names.
func (p CumulativeProfile) Family(name string) TraitFamily {
	switch name {
	case FamilyBigFive:
		return p.BigFive
	case FamilyDISC:
		return p.DISC
	}
	return nil
}

// ClarifyingQuestion is raised when the evidence for a trait is too thin
// to resolve ambiguity; a later update marks it answered.
type ClarifyingQuestion struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Answered bool   `json:"answered"`
	Trait    string `json:"trait,omitempty"`
}

// CustomerArchetype is a single categorical summary of the profile with
// advisory guidance for the sales team. Absent (nil) means insufficient
// data; the "neutral" key means computed but inconclusive.
type CustomerArchetype struct {
	ArchetypeKey string `json:"archetype_key"`
	Confidence   int    `json:"confidence"`
	Advisory     string `json:"advisory"`
}
