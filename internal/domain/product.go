package domain

import "time"

// SelectionMode tells how many options of a ModifierGroup may be picked.
type SelectionMode string

const (
	SelectionSingle   SelectionMode = "single"
	SelectionMultiple SelectionMode = "multiple"
)

type Product struct {
	ID             string          `json:"id"`
	RestaurantID   string          `json:"-"`
	CategoryID     string          `json:"categoryId"`
	Key            string          `json:"key"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Price          float64         `json:"price"`
	Available      bool            `json:"available"`
	ModifierGroups []ModifierGroup `json:"modifierGroups,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

type ModifierOption struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Available bool    `json:"available"`
}

// MinSelect and MaxSelect only apply to SelectionMultiple; zero means unset.
type ModifierGroup struct {
	ID            string           `json:"id"`
	ProductID     string           `json:"productId,omitempty"`
	Name          string           `json:"name"`
	SelectionMode SelectionMode    `json:"selectionMode"`
	Required      bool             `json:"required"`
	MinSelect     int              `json:"minSelect,omitempty"`
	MaxSelect     int              `json:"maxSelect,omitempty"`
	Position      int              `json:"position"`
	Options       []ModifierOption `json:"options"`
}

func (g ModifierGroup) Option(id string) (ModifierOption, bool) {
	for _, o := range g.Options {
		if o.ID == id {
			return o, true
		}
	}
	return ModifierOption{}, false
}
