package catalog

import (
	"slices"

	"mathiphone/internal/domain"
)

var models = map[string][]string{
	domain.CategoryIPhone:    {"16", "15", "14", "13", "12", "11", "se"},
	domain.CategoryMacBook:   {"air", "pro"},
	domain.CategoryWatch:     {"series-9", "ultra-2", "se"},
	domain.CategoryAirPods:   {"pro-2", "3", "max"},
	domain.CategoryIPad:      {"pro", "air", "mini"},
	domain.CategoryAccessory: {"lightning", "usb-c", "magsafe", "pencil", "keyboard", "airtag"},
}

var types = map[string][]string{
	domain.CategoryIPhone:    {"pro-max", "pro", "plus", "normal", "mini", "se"},
	domain.CategoryMacBook:   {"m1", "m2", "m3", "14", "16"},
	domain.CategoryWatch:     {"normal", "ultra", "se"},
	domain.CategoryAirPods:   {"pro", "normal", "max"},
	domain.CategoryIPad:      {"pro", "air", "mini"},
	domain.CategoryAccessory: {"lightning", "usb-c", "magsafe", "pencil", "keyboard", "airtag"},
}

// Models lists the model options of a category. Unknown or "all" yields nil.
func Models(category string) []string { return models[category] }

// Types lists the type options of a category.
func Types(category string) []string { return types[category] }

func ValidCategory(c string) bool { return slices.Contains(domain.Categories, c) }

func ValidCondition(c string) bool { return slices.Contains(domain.Conditions, c) }

func ValidBattery(b string) bool { return slices.Contains(BatteryBuckets, b) }

// TracksBattery is false for categories whose products carry no battery reading.
func TracksBattery(category string) bool { return category != domain.CategoryAccessory }

// Defaults are the pre-filled values of a new product form.
type Defaults struct {
	Model     string
	Type      string
	Storage   string
	Condition string
	Battery   int
	Warranty  int
}

var defaults = map[string]Defaults{
	domain.CategoryIPhone:    {Model: "16", Type: "pro-max", Storage: "256GB", Condition: domain.ConditionExcellent, Battery: 90, Warranty: 6},
	domain.CategoryMacBook:   {Model: "air", Type: "m1", Storage: "512GB", Condition: domain.ConditionExcellent, Battery: 90, Warranty: 6},
	domain.CategoryWatch:     {Model: "series-9", Type: "ultra", Storage: "512GB", Condition: domain.ConditionExcellent, Battery: 90, Warranty: 6},
	domain.CategoryAirPods:   {Model: "pro-2", Type: "pro", Condition: domain.ConditionExcellent, Battery: 90, Warranty: 6},
	domain.CategoryIPad:      {Model: "pro", Type: "pro", Storage: "256GB", Condition: domain.ConditionExcellent, Battery: 90, Warranty: 6},
	domain.CategoryAccessory: {Model: "pencil", Type: "pencil", Condition: domain.ConditionSealed, Warranty: 6},
}

func DefaultsFor(category string) Defaults { return defaults[category] }

// ValidModel reports whether m is a model of category, or of any category when
// category is unset.
func ValidModel(category, m string) bool { return validOption(models, category, m) }

// ValidType is ValidModel for types.
func ValidType(category, t string) bool { return validOption(types, category, t) }

func validOption(opts map[string][]string, category, v string) bool {
	if ValidCategory(category) {
		return slices.Contains(opts[category], v)
	}
	for _, list := range opts {
		if slices.Contains(list, v) {
			return true
		}
	}
	return false
}
