package model

import (
	"strconv"
	"strings"
	"time"
)

// Game is a catalog entry published by a user. Games are immutable after
// publication; rating and review count are initialized to zero and not
// mutated anywhere in this service.
//
// JSON field names match the records stored under `game:<id>` keys by the
// original client, including the denormalized author snapshot.
type Game struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	CoverImage  string    `json:"coverImage"`
	Screenshots []string  `json:"screenshots"`
	LicenseLink string    `json:"licenseLink"`
	FreeLink    string    `json:"freeLink"`
	Author      string    `json:"author"`
	AuthorID    string    `json:"authorId"`
	CreatedAt   time.Time `json:"createdAt"`
	Rating      float64   `json:"rating"`
	Reviews     int       `json:"reviews"`
}

// IsFree reports whether the game has no price set. The price is stored as
// the raw form string; empty means free.
func (g *Game) IsFree() bool {
	return strings.TrimSpace(g.Price) == ""
}

// PriceValue parses the stored price string. Returns 0 for free games or
// unparseable input.
func (g *Game) PriceValue() float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(g.Price), 64)
	if err != nil {
		return 0
	}
	return v
}

// GameForm carries the publish-game form fields. Screenshots arrive as one
// comma-separated string, exactly as typed into the form.
type GameForm struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
	CoverImage  string `json:"cover_image"`
	Screenshots string `json:"screenshots"`
	LicenseLink string `json:"license_link"`
	FreeLink    string `json:"free_link"`
}

// ParseScreenshots splits a comma-separated screenshot list, trims each entry
// and drops empty ones.
func ParseScreenshots(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
