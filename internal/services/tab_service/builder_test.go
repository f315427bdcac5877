package services

import (
	"encoding/json"
	"testing"

	"tour_admin/internal/domain/models"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cond(t *testing.T, ct models.ConditionType, v models.ConditionValue) models.Condition {
	t.Helper()

	c, err := models.NewCondition(ct)
	require.NoError(t, err)
	if v != nil {
		c, err = c.WithValue(v)
		require.NoError(t, err)
	}
	return c
}

// sampleValues holds a non-empty value for every condition type.
func sampleValues() map[models.ConditionType]models.ConditionValue {
	return map[models.ConditionType]models.ConditionValue{
		models.ConditionPriceMin:            models.NumberOf(10000),
		models.ConditionPriceMax:            models.NumberOf(50000),
		models.ConditionCountries:           models.IDList{392, 764},
		models.ConditionRegions:             models.KeyList{"asia"},
		models.ConditionWholesalers:         models.IDList{1},
		models.ConditionDepartureWithinDays: models.NumberOf(30),
		models.ConditionHasDiscount:         models.FlagOf(true),
		models.ConditionDiscountMinPercent:  models.NumberOf(10),
		models.ConditionTourType:            models.Choice("join"),
		models.ConditionMinDays:             models.NumberOf(3),
		models.ConditionMaxDays:             models.NumberOf(7),
		models.ConditionIsPremium:           models.FlagOf(false),
		models.ConditionCreatedWithinDays:   models.NumberOf(14),
		models.ConditionHasAvailableSeats:   models.FlagOf(true),
		models.ConditionMinViews:            models.NumberOf(100),
	}
}

func TestRuleBuilder_Add(t *testing.T) {
	b := NewRuleBuilder(models.TourTab{})

	for i := 0; i < 3; i++ {
		assert.Equal(t, i, b.Add())
	}

	require.Equal(t, 3, b.Len())
	for _, c := range b.Conditions() {
		assert.Equal(t, models.ConditionPriceMin, c.Type)
		assert.True(t, c.IsEmpty())
	}
}

func TestRuleBuilder_UpdateTypeResetsValue(t *testing.T) {
	values := sampleValues()

	for _, from := range models.ConditionTypes() {
		for _, to := range models.ConditionTypes() {
			if from == to {
				continue
			}

			b := NewRuleBuilder(models.TourTab{Conditions: []models.Condition{cond(t, from, values[from])}})

			require.NoError(t, b.UpdateType(0, to))

			got, err := b.Condition(0)
			require.NoError(t, err)
			assert.Equal(t, to, got.Type, "%s -> %s", from, to)
			assert.Equal(t, models.EmptyValue(to), got.Value, "%s -> %s", from, to)
		}
	}
}

func TestRuleBuilder_CountriesToPriceMin(t *testing.T) {
	b := NewRuleBuilder(models.TourTab{})
	i := b.Add()
	require.NoError(t, b.UpdateType(i, models.ConditionCountries))
	require.NoError(t, b.UpdateValue(i, models.IDList{392, 764}))

	require.NoError(t, b.UpdateType(i, models.ConditionPriceMin))

	got, err := b.Condition(i)
	require.NoError(t, err)
	assert.Equal(t, models.ConditionPriceMin, got.Type)
	assert.Equal(t, models.Number{}, got.Value)

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"price_min","value":null}`, string(raw))
}

func TestRuleBuilder_UpdateTypeSameTypeKeepsValue(t *testing.T) {
	b := NewRuleBuilder(models.TourTab{Conditions: []models.Condition{
		cond(t, models.ConditionMinDays, models.NumberOf(4)),
	}})

	require.NoError(t, b.UpdateType(0, models.ConditionMinDays))

	got, _ := b.Condition(0)
	assert.Equal(t, models.NumberOf(4), got.Value)
}

func TestRuleBuilder_UpdateTypeUnknown(t *testing.T) {
	b := NewRuleBuilder(models.TourTab{})
	b.Add()

	err := b.UpdateType(0, "flight_class")

	assert.ErrorIs(t, err, models.ErrUnknownConditionType)
	got, _ := b.Condition(0)
	assert.Equal(t, models.ConditionPriceMin, got.Type)
}

func TestRuleBuilder_UpdateValue(t *testing.T) {
	tests := []struct {
		name    string
		ct      models.ConditionType
		value   models.ConditionValue
		wantErr error
	}{
		{name: "number", ct: models.ConditionPriceMin, value: models.NumberOf(9900)},
		{name: "ids", ct: models.ConditionCountries, value: models.IDList{392}},
		{name: "keys", ct: models.ConditionRegions, value: models.KeyList{"europe"}},
		{name: "list into number", ct: models.ConditionPriceMin, value: models.IDList{392}, wantErr: ErrValueShape},
		{name: "ids into regions", ct: models.ConditionRegions, value: models.IDList{1}, wantErr: ErrValueShape},
		{name: "flag into choice", ct: models.ConditionTourType, value: models.FlagOf(true), wantErr: ErrValueShape},
		{name: "nil", ct: models.ConditionHasDiscount, value: nil, wantErr: ErrValueShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewRuleBuilder(models.TourTab{Conditions: []models.Condition{
				cond(t, models.ConditionIsPremium, models.FlagOf(true)),
				cond(t, tt.ct, nil),
			}})
			before := b.Conditions()

			err := b.UpdateValue(1, tt.value)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, cmp.Diff(before, b.Conditions()))
				return
			}

			require.NoError(t, err)
			got, _ := b.Condition(1)
			assert.Equal(t, tt.ct, got.Type)
			assert.Equal(t, tt.value, got.Value)
			assert.Empty(t, cmp.Diff(before[0], b.Conditions()[0]))
		})
	}
}

func TestRuleBuilder_Remove(t *testing.T) {
	values := sampleValues()
	types := []models.ConditionType{
		models.ConditionPriceMin,
		models.ConditionCountries,
		models.ConditionHasDiscount,
		models.ConditionTourType,
		models.ConditionRegions,
	}

	for i := range types {
		b := NewRuleBuilder(models.TourTab{})
		for _, ct := range types {
			idx := b.Add()
			require.NoError(t, b.UpdateType(idx, ct))
			require.NoError(t, b.UpdateValue(idx, values[ct]))
		}
		before := b.Conditions()

		require.NoError(t, b.Remove(i))

		after := b.Conditions()
		require.Len(t, after, len(before)-1)
		if diff := cmp.Diff(before[:i], after[:i]); diff != "" {
			t.Errorf("remove(%d) changed earlier entries (-want +got):\n%s", i, diff)
		}
		if diff := cmp.Diff(before[i+1:], after[i:]); diff != "" {
			t.Errorf("remove(%d) did not shift later entries (-want +got):\n%s", i, diff)
		}
	}
}

func TestRuleBuilder_IndexOutOfRange(t *testing.T) {
	b := NewRuleBuilder(models.TourTab{})
	b.Add()

	for _, i := range []int{-1, 1, 5} {
		assert.ErrorIs(t, b.UpdateType(i, models.ConditionCountries), ErrIndexOutOfRange)
		assert.ErrorIs(t, b.UpdateValue(i, models.NumberOf(1)), ErrIndexOutOfRange)
		assert.ErrorIs(t, b.Remove(i), ErrIndexOutOfRange)
	}
	assert.Equal(t, 1, b.Len())
}

func TestRuleBuilder_ConditionsIsACopy(t *testing.T) {
	b := NewRuleBuilder(models.TourTab{})
	b.Add()

	list := b.Conditions()
	list[0] = cond(t, models.ConditionIsPremium, models.FlagOf(true))

	got, _ := b.Condition(0)
	assert.Equal(t, models.ConditionPriceMin, got.Type)
}

func TestRuleBuilder_Defaults(t *testing.T) {
	tab := NewRuleBuilder(models.TourTab{Name: "ทัวร์ยอดนิยม"}).Tab()

	assert.Equal(t, models.DefaultDisplayLimit, tab.DisplayLimit)
	assert.Equal(t, models.SortPopular, tab.SortBy)
	assert.Empty(t, tab.Conditions)
}

func TestSerialize_OptionalStrings(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "spaces", input: "   "},
		{name: "tabs and newlines", input: "\t\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewRuleBuilder(models.TourTab{Name: "Japan"})
			b.Edit(func(tab *models.TourTab) {
				tab.Slug = tt.input
				tab.Description = tt.input
				tab.Icon = tt.input
				tab.BadgeText = tt.input
				tab.BadgeColor = tt.input
			})

			req := b.Serialize()

			assert.Nil(t, req.Slug)
			assert.Nil(t, req.Description)
			assert.Nil(t, req.Icon)
			assert.Nil(t, req.BadgeText)
			assert.Nil(t, req.BadgeColor)

			raw, err := json.Marshal(req)
			require.NoError(t, err)

			var body map[string]any
			require.NoError(t, json.Unmarshal(raw, &body))
			for _, key := range []string{"slug", "description", "icon", "badge_text", "badge_color"} {
				assert.NotContains(t, body, key)
			}
			assert.Equal(t, []any{}, body["conditions"])
		})
	}
}

func TestSerialize_TrimsValues(t *testing.T) {
	b := NewRuleBuilder(models.TourTab{
		Name:       "  ทัวร์ญี่ปุ่น ",
		BadgeText:  " HOT ",
		BadgeColor: "red",
	})

	req := b.Serialize()

	assert.Equal(t, "ทัวร์ญี่ปุ่น", req.Name)
	require.NotNil(t, req.BadgeText)
	assert.Equal(t, "HOT", *req.BadgeText)
	require.NotNil(t, req.BadgeColor)
	assert.Equal(t, "red", *req.BadgeColor)
}

func TestSerialize_KeepsConditionOrder(t *testing.T) {
	conditions := []models.Condition{
		cond(t, models.ConditionCountries, models.IDList{392, 764}),
		cond(t, models.ConditionPriceMax, models.NumberOf(30000)),
		cond(t, models.ConditionHasDiscount, models.FlagOf(true)),
	}
	b := NewRuleBuilder(models.TourTab{Name: "x", Conditions: conditions})

	raw, err := json.Marshal(b.Serialize())
	require.NoError(t, err)

	var body struct {
		Conditions json.RawMessage `json:"conditions"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.JSONEq(t, `[
		{"type":"countries","value":[392,764]},
		{"type":"price_max","value":30000},
		{"type":"has_discount","value":true}
	]`, string(body.Conditions))
}
