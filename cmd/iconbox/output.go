// ABOUTME: Output helpers for the iconbox CLI
// ABOUTME: JSON views of store types plus colorized collection trees and icon tables

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/2389/iconbox/internal/store"
)

type collectionView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  *string   `json:"parent_id"`
	IconCount int       `json:"icon_count"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

type iconView struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Path         string    `json:"path"`
	Tags         []string  `json:"tags"`
	CollectionID string    `json:"collection_id"`
	CreatedAt    time.Time `json:"created_at"`
	FileSize     int64     `json:"file_size"`
	Favorite     bool      `json:"favorite"`
	SVGContent   string    `json:"svg_content,omitempty"`
}

func toCollectionView(c *store.Collection) collectionView {
	return collectionView{
		ID:        c.ID,
		Name:      c.Name,
		ParentID:  c.ParentID,
		IconCount: c.IconCount,
		Color:     c.Color,
		CreatedAt: c.CreatedAt,
	}
}

func toIconView(i *store.Icon, withContent bool) iconView {
	v := iconView{
		ID:           i.ID,
		Name:         i.Name,
		Path:         i.Path,
		Tags:         i.Tags,
		CollectionID: i.CollectionID,
		CreatedAt:    i.CreatedAt,
		FileSize:     i.FileSize,
		Favorite:     i.Favorite,
	}
	if withContent {
		v.SVGContent = i.SVGContent
	}
	return v
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// swatch renders a colored bullet for a collection's hex color.
func swatch(hex string) string {
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return "●"
	}
	return color.RGB(r, g, b).Sprint("●")
}

// printCollectionTree prints collections nested under their parents.
// Collections whose parent is missing are shown at the top level.
func printCollectionTree(w io.Writer, collections []*store.Collection) {
	byID := make(map[string]bool, len(collections))
	for _, c := range collections {
		byID[c.ID] = true
	}

	children := make(map[string][]*store.Collection)
	var roots []*store.Collection
	for _, c := range collections {
		if c.IsRoot() || !byID[*c.ParentID] {
			roots = append(roots, c)
			continue
		}
		children[*c.ParentID] = append(children[*c.ParentID], c)
	}

	visited := make(map[string]bool, len(collections))
	var walk func(c *store.Collection, depth int)
	walk = func(c *store.Collection, depth int) {
		if visited[c.ID] {
			return
		}
		visited[c.ID] = true
		fmt.Fprintf(w, "%s%s %s %s %s\n",
			strings.Repeat("  ", depth),
			swatch(c.Color),
			color.New(color.Bold).Sprint(c.Name),
			color.HiBlackString("(%s)", humanize.Comma(int64(c.IconCount))),
			color.HiBlackString("%s", c.ID),
		)
		for _, child := range children[c.ID] {
			walk(child, depth+1)
		}
	}
	for _, c := range roots {
		walk(c, 0)
	}

	// Anything left sits on a parent cycle; show it flat rather than hide it.
	var rest []*store.Collection
	for _, c := range collections {
		if !visited[c.ID] {
			rest = append(rest, c)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i].Name < rest[j].Name })
	for _, c := range rest {
		walk(c, 0)
	}
}

func printIconTable(w io.Writer, icons []*store.Icon) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FAV\tNAME\tID\tSIZE\tADDED\tTAGS")
	for _, i := range icons {
		// Plain text only: tabwriter counts escape codes toward column width.
		fav := ""
		if i.Favorite {
			fav = "★"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			fav,
			i.Name,
			i.ID,
			humanize.Bytes(uint64(max(i.FileSize, 0))),
			humanize.Time(i.CreatedAt),
			strings.Join(i.Tags, ", "),
		)
	}
	return tw.Flush()
}
