package cards

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Library holds the loaded card pool keyed by card ID.
type Library struct {
	cards map[string]*Card
	order []string
}

// Get returns a card by ID.
func (l *Library) Get(id string) (*Card, bool) {
	card, ok := l.cards[id]
	return card, ok
}

// All returns the cards in file order.
func (l *Library) All() []*Card {
	out := make([]*Card, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.cards[id])
	}
	return out
}

// Size returns the number of loaded cards.
func (l *Library) Size() int {
	return len(l.cards)
}

type cardFile struct {
	Cards []cardDoc `yaml:"cards"`
}

type cardDoc struct {
	ID           string      `yaml:"id"`
	Name         string      `yaml:"name"`
	Cost         costDoc     `yaml:"cost"`
	GoAgain      bool        `yaml:"go_again"`
	VisualEffect string      `yaml:"visual_effect"`
	Effects      []effectDoc `yaml:"effects"`
}

type costDoc struct {
	Energy   int `yaml:"energy"`
	Momentum int `yaml:"momentum"`
}

type effectDoc struct {
	Kind         string           `yaml:"kind"`
	Value        int              `yaml:"value"`
	ValueRef     *refDoc          `yaml:"value_ref"`
	Stat         string           `yaml:"stat"`
	Status       string           `yaml:"status"`
	Token        string           `yaml:"token"`
	Count        int              `yaml:"count"`
	Permanent    bool             `yaml:"permanent"`
	Targeting    *targetingDoc    `yaml:"targeting"`
	Destination  *destinationDoc  `yaml:"destination"`
	Conditionals []conditionalDoc `yaml:"conditionals"`
	Prompt       string           `yaml:"prompt"`
	DoNotExhaust bool             `yaml:"do_not_exhaust"`
}

type refDoc struct {
	Kind  string `yaml:"kind"`
	Index int    `yaml:"index"`
}

type targetingDoc struct {
	Affinity     string           `yaml:"affinity"`
	Scope        string           `yaml:"scope"`
	Lane         string           `yaml:"lane"`
	Restrictions []restrictionDoc `yaml:"restrictions"`
}

type restrictionDoc struct {
	Stat  string  `yaml:"stat"`
	Op    string  `yaml:"op"`
	Value int     `yaml:"value"`
	Ref   *refDoc `yaml:"ref"`
}

type destinationDoc struct {
	Lane     string  `yaml:"lane"`
	Adjacent bool    `yaml:"adjacent"`
	Ref      *refDoc `yaml:"ref"`
}

type conditionalDoc struct {
	Timing        string        `yaml:"timing"`
	Condition     conditionDoc  `yaml:"condition"`
	GrantedEffect *effectDoc    `yaml:"granted_effect"`
	BonusValue    int           `yaml:"bonus_value"`
	GoAgain       bool          `yaml:"go_again"`
}

type conditionDoc struct {
	Kind      string `yaml:"kind"`
	Stat      string `yaml:"stat"`
	Threshold int    `yaml:"threshold"`
}

// LoadLibrary reads a YAML card file into a Library. Effect kinds the engine
// does not recognize load as KindUnknown; the router skips them at commit
// time, so new content can ship ahead of engine support.
func LoadLibrary(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read card file: %w", err)
	}
	return ParseLibrary(data)
}

// ParseLibrary parses YAML card data.
func ParseLibrary(data []byte) (*Library, error) {
	var file cardFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse card file: %w", err)
	}

	lib := &Library{cards: make(map[string]*Card, len(file.Cards))}
	for i, doc := range file.Cards {
		if doc.ID == "" {
			return nil, fmt.Errorf("card %d: missing id", i)
		}
		if _, exists := lib.cards[doc.ID]; exists {
			return nil, fmt.Errorf("card %d: duplicate id %q", i, doc.ID)
		}
		card, err := doc.toCard()
		if err != nil {
			return nil, fmt.Errorf("card %q: %w", doc.ID, err)
		}
		lib.cards[doc.ID] = card
		lib.order = append(lib.order, doc.ID)
	}
	return lib, nil
}

func (d cardDoc) toCard() (*Card, error) {
	card := &Card{
		ID:           d.ID,
		Name:         d.Name,
		Cost:         Cost{Energy: d.Cost.Energy, Momentum: d.Cost.Momentum},
		GoAgain:      d.GoAgain,
		VisualEffect: d.VisualEffect,
	}
	for i, effDoc := range d.Effects {
		eff, err := effDoc.toEffect()
		if err != nil {
			return nil, fmt.Errorf("effect %d: %w", i, err)
		}
		card.Effects = append(card.Effects, eff)
	}
	return card, nil
}

func (d effectDoc) toEffect() (ChainEffect, error) {
	eff := ChainEffect{
		Kind:         ParseEffectKind(d.Kind),
		Value:        d.Value,
		Stat:         Stat(d.Stat),
		Status:       Status(d.Status),
		Token:        d.Token,
		Count:        d.Count,
		Permanent:    d.Permanent,
		Prompt:       d.Prompt,
		DoNotExhaust: d.DoNotExhaust,
	}

	if d.ValueRef != nil {
		ref, err := d.ValueRef.toRef()
		if err != nil {
			return ChainEffect{}, fmt.Errorf("value_ref: %w", err)
		}
		if ref.Kind != RefPriorCardCost && ref.Kind != RefPriorValue {
			return ChainEffect{}, fmt.Errorf("value_ref: %s does not yield a value", ref.Kind)
		}
		eff.ValueRef = &ref
	}

	eff.Targeting = Targeting{Affinity: AffinityAny, Scope: ScopeNone}
	if d.Targeting != nil {
		eff.Targeting = Targeting{
			Affinity: Affinity(d.Targeting.Affinity),
			Scope:    TargetScope(d.Targeting.Scope),
			Lane:     d.Targeting.Lane,
		}
		if eff.Targeting.Affinity == "" {
			eff.Targeting.Affinity = AffinityAny
		}
		if eff.Targeting.Scope == "" {
			eff.Targeting.Scope = ScopeNone
		}
		for j, resDoc := range d.Targeting.Restrictions {
			res := Restriction{
				Stat:  Stat(resDoc.Stat),
				Op:    CompareOp(resDoc.Op),
				Value: resDoc.Value,
			}
			if resDoc.Ref != nil {
				ref, err := resDoc.Ref.toRef()
				if err != nil {
					return ChainEffect{}, fmt.Errorf("restriction %d: %w", j, err)
				}
				if ref.Kind != RefPriorTarget {
					return ChainEffect{}, fmt.Errorf("restriction %d: %s does not yield a target", j, ref.Kind)
				}
				res.Ref = &ref
			}
			eff.Targeting.Restrictions = append(eff.Targeting.Restrictions, res)
		}
	}

	if d.Destination != nil {
		eff.Destination = &Destination{
			Lane:     d.Destination.Lane,
			Adjacent: d.Destination.Adjacent,
		}
		if d.Destination.Ref != nil {
			ref, err := d.Destination.Ref.toRef()
			if err != nil {
				return ChainEffect{}, fmt.Errorf("destination ref: %w", err)
			}
			if !ref.Kind.IsLane() {
				return ChainEffect{}, fmt.Errorf("destination ref: %s does not yield a lane", ref.Kind)
			}
			eff.Destination.Ref = &ref
		}
	}

	for j, ruleDoc := range d.Conditionals {
		rule := ConditionalRule{
			Timing: Timing(ruleDoc.Timing),
			Condition: Condition{
				Kind:      ConditionKind(ruleDoc.Condition.Kind),
				Stat:      Stat(ruleDoc.Condition.Stat),
				Threshold: ruleDoc.Condition.Threshold,
			},
			BonusValue: ruleDoc.BonusValue,
			GoAgain:    ruleDoc.GoAgain,
		}
		if rule.Timing != TimingPre && rule.Timing != TimingPost {
			return ChainEffect{}, fmt.Errorf("conditional %d: bad timing %q", j, ruleDoc.Timing)
		}
		if ruleDoc.GrantedEffect != nil {
			granted, err := ruleDoc.GrantedEffect.toEffect()
			if err != nil {
				return ChainEffect{}, fmt.Errorf("conditional %d: %w", j, err)
			}
			rule.GrantedEffect = &granted
		}
		eff.Conditionals = append(eff.Conditionals, rule)
	}

	return eff, nil
}

func (d refDoc) toRef() (Ref, error) {
	kind, err := ParseRefKind(d.Kind)
	if err != nil {
		return Ref{}, err
	}
	if d.Index < 0 {
		return Ref{}, fmt.Errorf("ref index %d out of range", d.Index)
	}
	return Ref{Kind: kind, Index: d.Index}, nil
}
