package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type DisplayMode string

const (
	DisplayCard   DisplayMode = "card"
	DisplayPeriod DisplayMode = "period"
)

func (m DisplayMode) Valid() bool {
	return m == DisplayCard || m == DisplayPeriod
}

// DisplayModes is a set of places a festival badge may appear. It may be empty.
// It is sent as a JSON array in card, period order with duplicates dropped.
type DisplayModes map[DisplayMode]struct{}

func NewDisplayModes(modes ...DisplayMode) DisplayModes {
	set := make(DisplayModes, len(modes))
	for _, m := range modes {
		set[m] = struct{}{}
	}
	return set
}

func (s DisplayModes) Has(m DisplayMode) bool {
	_, ok := s[m]
	return ok
}

// List returns the modes in canonical order, followed by unknown modes as given.
func (s DisplayModes) List() []DisplayMode {
	out := make([]DisplayMode, 0, len(s))
	for _, m := range []DisplayMode{DisplayCard, DisplayPeriod} {
		if s.Has(m) {
			out = append(out, m)
		}
	}
	for m := range s {
		if !m.Valid() {
			out = append(out, m)
		}
	}
	return out
}

func (s DisplayModes) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.List())
}

func (s *DisplayModes) UnmarshalJSON(data []byte) error {
	var modes []DisplayMode
	if err := json.Unmarshal(data, &modes); err != nil {
		return err
	}
	*s = NewDisplayModes(modes...)
	return nil
}

// ImagePosition anchors a cover image inside its frame: "<x> <y>" with
// x in {left, center, right} and y in {top, center, bottom}.
type ImagePosition string

const DefaultImagePosition ImagePosition = "center center"

var (
	horizontalAnchors = []string{"left", "center", "right"}
	verticalAnchors   = []string{"top", "center", "bottom"}
)

// ImagePositions returns the 3x3 anchor grid row by row.
func ImagePositions() []ImagePosition {
	out := make([]ImagePosition, 0, 9)
	for _, y := range verticalAnchors {
		for _, x := range horizontalAnchors {
			out = append(out, ImagePosition(x+" "+y))
		}
	}
	return out
}

// ParseImagePosition accepts "x y", "x-y" and the CSS shorthand "center".
func ParseImagePosition(s string) (ImagePosition, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "center" {
		return DefaultImagePosition, nil
	}

	parts := strings.Fields(strings.ReplaceAll(s, "-", " "))
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid image position %q", s)
	}

	// "top left" is accepted as well as "left top"
	if parts[0] == "top" || parts[0] == "bottom" || parts[1] == "left" || parts[1] == "right" {
		parts[0], parts[1] = parts[1], parts[0]
	}

	if !contains(horizontalAnchors, parts[0]) || !contains(verticalAnchors, parts[1]) {
		return "", fmt.Errorf("invalid image position %q", s)
	}

	return ImagePosition(parts[0] + " " + parts[1]), nil
}

func (p ImagePosition) Valid() bool {
	for _, candidate := range ImagePositions() {
		if candidate == p {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// AssetState is the position of an entity in the create-then-attach lifecycle.
type AssetState int

const (
	AssetDraft AssetState = iota
	AssetPersisted
	AssetAttached
)

func (s AssetState) String() string {
	switch s {
	case AssetDraft:
		return "draft"
	case AssetPersisted:
		return "persisted"
	case AssetAttached:
		return "assets_attached"
	}
	return "unknown"
}

type FestivalHoliday struct {
	ID                 int64         `json:"id"`
	Name               string        `json:"name"`
	Description        string        `json:"description,omitempty"`
	StartDate          string        `json:"start_date"`
	EndDate            string        `json:"end_date"`
	BadgeText          string        `json:"badge_text,omitempty"`
	BadgeColor         string        `json:"badge_color,omitempty"`
	BadgeIcon          string        `json:"badge_icon,omitempty"`
	DisplayModes       DisplayModes  `json:"display_modes"`
	ImageURL           string        `json:"image_url,omitempty"`
	CoverImageURL      string        `json:"cover_image_url,omitempty"`
	CoverImagePosition ImagePosition `json:"cover_image_position,omitempty"`
	IsActive           bool          `json:"is_active"`
	SortOrder          int           `json:"sort_order"`
	CreatedAt          *time.Time    `json:"created_at,omitempty"`
	UpdatedAt          *time.Time    `json:"updated_at,omitempty"`
}

func (f FestivalHoliday) State() AssetState {
	switch {
	case f.ID == 0:
		return AssetDraft
	case f.ImageURL != "" || f.CoverImageURL != "":
		return AssetAttached
	default:
		return AssetPersisted
	}
}

func (f FestivalHoliday) Badge() BadgeColor {
	return ResolveBadgeColor(f.BadgeColor)
}

// FestivalPageSettings is the process-wide hero banner of the festival page.
type FestivalPageSettings struct {
	Title              string        `json:"title,omitempty"`
	Subtitle           string        `json:"subtitle,omitempty"`
	CoverImageURL      string        `json:"cover_image_url,omitempty"`
	CoverImagePosition ImagePosition `json:"cover_image_position,omitempty"`
}
