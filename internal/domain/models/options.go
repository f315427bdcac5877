package models

import "sort"

type Country struct {
	ID     int64  `json:"id"`
	NameTH string `json:"name_th"`
	NameEN string `json:"name_en"`
}

type Wholesaler struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// ConditionOptions is the reference bundle used to populate select and multiselect inputs.
type ConditionOptions struct {
	Countries   []Country         `json:"countries"`
	Regions     map[string]string `json:"regions"`
	Wholesalers []Wholesaler      `json:"wholesalers"`
	TourTypes   map[string]string `json:"tour_types"`
}

func (o ConditionOptions) Country(id int64) (Country, bool) {
	for _, c := range o.Countries {
		if c.ID == id {
			return c, true
		}
	}
	return Country{}, false
}

func (o ConditionOptions) Wholesaler(id int64) (Wholesaler, bool) {
	for _, w := range o.Wholesalers {
		if w.ID == id {
			return w, true
		}
	}
	return Wholesaler{}, false
}

// SortedKeys returns map keys in a stable order for display.
func SortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
