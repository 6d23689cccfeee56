package domain

import (
	"errors"
	"fmt"
	"time"
)

type Product struct {
	ID                    string                `json:"id"`
	Name                  string                `json:"name"`
	Description           string                `json:"description,omitempty"`
	PriceCents            int64                 `json:"priceCents"`
	DailyRentalPriceCents int64                 `json:"dailyRentalPriceCents"`
	Currency              string                `json:"currency"`
	StockQuantity         int                   `json:"stockQuantity"`
	ForSale               bool                  `json:"isForSale"`
	ForRent               bool                  `json:"isForRent"`
	Customizable          bool                  `json:"isCustomizable"`
	Options               []CustomizationOption `json:"customizationOptions,omitempty"`
	Images                []string              `json:"images,omitempty"`
	CreatedAt             time.Time             `json:"createdAt"`
}

// OptionKind is the closed set of customization option shapes. Stored option
// data that does not match one of these kinds is rejected at the boundary.
type OptionKind string

const (
	OptionDropdown        OptionKind = "dropdown"
	OptionCheckbox        OptionKind = "checkbox"
	OptionText            OptionKind = "text"
	OptionTextarea        OptionKind = "textarea"
	OptionTextImageUpload OptionKind = "textImageUpload"
)

type CustomizationOption struct {
	Name     string         `json:"name"`
	Kind     OptionKind     `json:"kind"`
	Required bool           `json:"required"`
	Choices  []OptionChoice `json:"choices,omitempty"`
}

type OptionChoice struct {
	Label      string `json:"label"`
	PriceCents int64  `json:"priceCents"`
}

// ValidOptionKind reports whether k belongs to the closed option set.
func ValidOptionKind(k OptionKind) bool {
	switch k {
	case OptionDropdown, OptionCheckbox, OptionText, OptionTextarea, OptionTextImageUpload:
		return true
	}
	return false
}

// ValidateOptions checks a product's customization options. Choice lists are
// mandatory for dropdowns and checkboxes and forbidden elsewhere.
func ValidateOptions(opts []CustomizationOption) error {
	for _, opt := range opts {
		if opt.Name == "" {
			return errors.New("customization option name required")
		}
		if !ValidOptionKind(opt.Kind) {
			return fmt.Errorf("unknown customization option kind %q", opt.Kind)
		}
		switch opt.Kind {
		case OptionDropdown, OptionCheckbox:
			if len(opt.Choices) == 0 {
				return fmt.Errorf("option %q requires at least one choice", opt.Name)
			}
		default:
			if len(opt.Choices) > 0 {
				return fmt.Errorf("option %q does not take choices", opt.Name)
			}
		}
	}
	return nil
}
