package pricing

import (
	"fmt"

	"restaurant-pos/internal/domain"
)

// SelectionPolicy checks the options picked for one modifier group.
type SelectionPolicy interface {
	Validate(group domain.ModifierGroup, picks []domain.SelectedModifier) error
}

// SingleChoice allows at most one option, and requires one when Required.
type SingleChoice struct {
	Required bool
}

func (p SingleChoice) Validate(group domain.ModifierGroup, picks []domain.SelectedModifier) error {
	if len(picks) > 1 {
		return selectionError(group, "accepts a single option")
	}
	if p.Required && len(picks) == 0 {
		return selectionError(group, "is required")
	}
	return nil
}

// MultiChoice allows between Min and Max options. Max of zero is unbounded.
type MultiChoice struct {
	Min int
	Max int
}

func (p MultiChoice) Validate(group domain.ModifierGroup, picks []domain.SelectedModifier) error {
	if len(picks) < p.Min {
		return selectionError(group, fmt.Sprintf("needs at least %d option(s)", p.Min))
	}
	if p.Max > 0 && len(picks) > p.Max {
		return selectionError(group, fmt.Sprintf("accepts at most %d option(s)", p.Max))
	}
	return nil
}

func PolicyFor(group domain.ModifierGroup) SelectionPolicy {
	if group.SelectionMode != domain.SelectionMultiple {
		return SingleChoice{Required: group.Required}
	}
	lower := group.MinSelect
	if group.Required && lower < 1 {
		lower = 1
	}
	return MultiChoice{Min: lower, Max: group.MaxSelect}
}

type ModifierPick struct {
	GroupID  string `json:"groupId"`
	OptionID string `json:"optionId"`
}

// ResolveSelections checks every group, including required groups with no pick.
func ResolveSelections(groups []domain.ModifierGroup, picks []ModifierPick) ([]domain.SelectedModifier, error) {
	byGroup := make(map[string][]domain.SelectedModifier, len(groups))
	index := make(map[string]domain.ModifierGroup, len(groups))
	for _, g := range groups {
		index[g.ID] = g
	}

	seen := make(map[ModifierPick]bool, len(picks))
	for _, p := range picks {
		group, ok := index[p.GroupID]
		if !ok {
			return nil, fmt.Errorf("%w: group %q", ErrUnknownModifier, p.GroupID)
		}
		opt, ok := group.Option(p.OptionID)
		if !ok {
			return nil, fmt.Errorf("%w: option %q in group %q", ErrUnknownModifier, p.OptionID, group.Name)
		}
		if !opt.Available {
			return nil, fmt.Errorf("%w: %s", ErrModifierUnavailable, opt.Name)
		}
		if seen[p] {
			return nil, selectionError(group, fmt.Sprintf("lists %q more than once", opt.Name))
		}
		seen[p] = true
		byGroup[group.ID] = append(byGroup[group.ID], domain.SelectedModifier{
			GroupID:    group.ID,
			GroupName:  group.Name,
			OptionID:   opt.ID,
			OptionName: opt.Name,
			Price:      opt.Price,
		})
	}

	var out []domain.SelectedModifier
	for _, g := range groups {
		if err := PolicyFor(g).Validate(g, byGroup[g.ID]); err != nil {
			return nil, err
		}
		out = append(out, byGroup[g.ID]...)
	}
	return out, nil
}

func selectionError(group domain.ModifierGroup, reason string) error {
	return &ValidationError{Field: fmt.Sprintf("modifier group %q", group.Name), Reason: reason, Err: ErrModifierSelection}
}
