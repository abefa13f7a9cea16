// Package copywriter derives listing copy — title, descriptions, bullet
// points and search keywords — from an assembled record's attributes. Output
// is a pure function of the record's display values, so regenerating after a
// correction is always safe.
package copywriter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/stylefacet/tagger/internal/metadata"
	"github.com/stylefacet/tagger/internal/scoring"
)

const shortDescriptionLimit = 150

// Generate builds the marketing copy for a record. Fields that are absent or
// carry an empty value simply drop out of the templates.
func Generate(rec *metadata.Record) *metadata.ListingCopy {
	description := buildDescription(rec)

	return &metadata.ListingCopy{
		Title:            buildTitle(rec),
		ShortDescription: truncate(description, shortDescriptionLimit),
		Description:      description,
		BulletPoints:     buildBulletPoints(rec),
		Keywords:         buildKeywords(rec),
	}
}

func display(rec *metadata.Record, field string) string {
	attr, ok := rec.Fields[field]
	if !ok {
		return ""
	}
	return strings.TrimSpace(attr.Display())
}

// category is the most specific item-type level present.
func category(rec *metadata.Record) string {
	for _, field := range []string{
		scoring.FieldItemTypeLevel3,
		scoring.FieldItemTypeLevel2,
		scoring.FieldItemTypeLevel1,
	} {
		if value := display(rec, field); value != "" {
			return value
		}
	}
	return ""
}

// buildTitle composes Brand + Colour + Category.
func buildTitle(rec *metadata.Record) string {
	var parts []string
	for _, value := range []string{
		display(rec, scoring.FieldBrand),
		display(rec, scoring.FieldColour),
		category(rec),
	} {
		if value != "" {
			parts = append(parts, value)
		}
	}
	if len(parts) == 0 {
		return "Fashion Product"
	}
	return strings.Join(parts, " ")
}

func buildDescription(rec *metadata.Record) string {
	var nameParts []string
	for _, value := range []string{
		display(rec, scoring.FieldBrand),
		display(rec, scoring.FieldColour),
	} {
		if value != "" {
			nameParts = append(nameParts, value)
		}
	}
	if cat := category(rec); cat != "" {
		nameParts = append(nameParts, strings.ToLower(cat))
	}
	name := "product"
	if len(nameParts) > 0 {
		name = strings.Join(nameParts, " ")
	}

	material := display(rec, scoring.FieldMaterial)
	if material == "" {
		material = "quality materials"
	}

	return fmt.Sprintf("This %s is crafted from %s for comfort and durability. "+
		"Perfect for everyday wear, this piece combines style and functionality. "+
		"Made with attention to detail and quality construction.", name, material)
}

func buildBulletPoints(rec *metadata.Record) []string {
	var bullets []string
	if colour := display(rec, scoring.FieldColour); colour != "" {
		bullets = append(bullets, "Available in "+colour)
	}
	if material := display(rec, scoring.FieldMaterial); material != "" {
		bullets = append(bullets, "Made from premium "+material)
	}
	if style := display(rec, scoring.FieldStyleLevel1); style != "" {
		bullets = append(bullets, style+" design")
	}
	if pattern := display(rec, scoring.FieldPattern); pattern != "" {
		bullets = append(bullets, pattern+" pattern")
	}

	if len(bullets) < 3 {
		bullets = append(bullets,
			"High-quality construction",
			"Comfortable fit",
			"Easy to care for",
		)
	}
	if len(bullets) > 5 {
		bullets = bullets[:5]
	}
	return bullets
}

// buildKeywords collects lowercased attribute values and their individual
// tokens. The result is sorted so copy generation stays deterministic.
func buildKeywords(rec *metadata.Record) []string {
	set := make(map[string]bool)
	add := func(value string) {
		value = strings.ToLower(strings.TrimSpace(value))
		if value == "" {
			return
		}
		set[value] = true
		for _, token := range strings.Fields(value) {
			set[token] = true
		}
	}

	add(display(rec, scoring.FieldBrand))
	add(display(rec, scoring.FieldGender))
	add(category(rec))
	for _, field := range []string{
		scoring.FieldColour,
		scoring.FieldMaterial,
		scoring.FieldPattern,
		scoring.FieldStyleLevel1,
		scoring.FieldStyleLevel2,
		scoring.FieldStyleLevel3,
	} {
		add(display(rec, field))
	}

	keywords := make([]string, 0, len(set))
	for keyword := range set {
		keywords = append(keywords, keyword)
	}
	sort.Strings(keywords)
	if len(keywords) > 20 {
		keywords = keywords[:20]
	}
	return keywords
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
