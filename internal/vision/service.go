// Package vision is the collaborator boundary to the image-analysis model.
// It sends product images to a vision-capable provider and parses the
// response into a raw attribute map. Failures surface as errors here; the
// bulk and upload layers degrade them into per-field unavailable sentinels
// so the assembler never sees a crash.
package vision

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/stylefacet/tagger/internal/metadata"
	"github.com/stylefacet/tagger/internal/scoring"
)

// Fields the vision model is asked for. Brand and Size come from catalog
// data or the reviewer, not from the image.
var Fields = []string{
	scoring.FieldGender,
	scoring.FieldItemTypeLevel1,
	scoring.FieldItemTypeLevel2,
	scoring.FieldItemTypeLevel3,
	scoring.FieldStyleLevel1,
	scoring.FieldStyleLevel2,
	scoring.FieldStyleLevel3,
	scoring.FieldColour,
	scoring.FieldMaterial,
	scoring.FieldPattern,
}

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// ExtractFromFile reads an image from disk and extracts attributes.
func (s *Service) ExtractFromFile(ctx context.Context, imagePath, provider, model string) (metadata.AttributeMap, error) {
	image, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return s.Extract(ctx, image, mimeTypeFor(imagePath), provider, model)
}

// Extract runs one vision call and parses the response.
func (s *Service) Extract(ctx context.Context, image []byte, mimeType, provider, model string) (metadata.AttributeMap, error) {
	if provider == "" {
		provider = os.Getenv("TAGGER_PROVIDER")
		if provider == "" {
			provider = "gemini"
		}
	}
	if model == "" {
		model = defaultModel(provider)
	}

	var p Provider
	switch provider {
	case "gemini":
		p = NewGemini()
	case "openai":
		p = NewOpenAI()
	case "ollama":
		p = NewOllama()
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}

	config := Config{
		Model:       model,
		Temperature: 0.1, // low temperature for consistent, factual output
		Prompt:      buildAttributePrompt(),
	}

	response, err := p.Analyze(ctx, config, image, mimeType)
	if err != nil {
		return nil, err
	}

	attrs, err := ParseAttributes(response)
	if err != nil {
		return nil, err
	}

	slog.Info("Extracted attributes", "provider", provider, "model", model, "fields", len(attrs))
	return attrs, nil
}

// Unavailable builds the attribute map used when the vision call failed:
// every vision field is marked unavailable, which assembles into an Invalid,
// review-flagged record instead of blocking the pipeline.
func Unavailable() metadata.AttributeMap {
	attrs := make(metadata.AttributeMap, len(Fields))
	for _, field := range Fields {
		attrs[field] = metadata.RawAttribute{Unavailable: true}
	}
	return attrs
}

func defaultModel(provider string) string {
	switch provider {
	case "gemini":
		if model := os.Getenv("GEMINI_MODEL"); model != "" {
			return model
		}
		return "gemini-1.5-flash"
	case "openai":
		if model := os.Getenv("OPENAI_MODEL"); model != "" {
			return model
		}
		return "gpt-4o"
	case "ollama":
		if model := os.Getenv("OLLAMA_MODEL"); model != "" {
			return model
		}
		return "llava:13b"
	default:
		return ""
	}
}

func mimeTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// buildAttributePrompt creates the fashion-analysis prompt. The model must
// answer with one JSON object keyed by field name so the response parses
// directly into an attribute map.
func buildAttributePrompt() string {
	return `You are an expert fashion merchandiser tagging product photos for an e-commerce catalog.

Analyze this fashion product image and extract the following attributes:

1. gender: Men, Women, or Unisex
2. item_type_level1: top-level product family (e.g. Apparel, Footwear)
3. item_type_level2: category within that family (e.g. Topwear, Bottomwear, Shoes)
4. item_type_level3: specific product type - be very precise (e.g. Tshirts, Shirts, Jeans, Casual Shoes; "cargo shorts" is Shorts, not Pants)
5. style_level1: overall usage (Casual, Formal, Sporty, Ethnic)
6. style_level2: sub-style (e.g. Everyday, Streetwear, Business, Athletic)
7. style_level3: specific style descriptor (e.g. Basic, Professional, Performance)
8. colour: primary colour of the item (be specific: Khaki, Navy, etc.)
9. material: apparent fabric or material (Cotton, Denim, Leather, etc.)
10. pattern: Solid, Striped, Floral, Geometric, etc.

For each attribute provide your confidence between 0.0 and 1.0. Do not invent attributes you cannot see; omit a key entirely if the image gives no evidence for it.

OUTPUT FORMAT:
Respond with ONLY a JSON object mapping each attribute name to an object with "value" and "confidence":

{
  "gender": {"value": "Men", "confidence": 0.9},
  "item_type_level1": {"value": "Apparel", "confidence": 0.95},
  "colour": {"value": "Navy", "confidence": 0.85}
}

Be thorough and precise. Identify the specific product type first; everything else follows from it.`
}
