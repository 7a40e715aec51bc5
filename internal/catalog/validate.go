package catalog

import (
	"sort"
	"strings"

	"github.com/Vickmut/v0-haven-craft-website-design/pkg/pricing"
)

// ValidationError lists every rejected field of a catalog item keyed by its
// JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid catalog item: " + strings.Join(parts, "; ")
}

// normalize validates in and returns the canonical form that gets persisted:
// trimmed text, bare numeric prices, canonical category and a derived display
// price. Identity and timestamps are left untouched.
func normalize(in Item, limits MediaLimits) (Item, error) {
	out := in
	fields := map[string]string{}

	out.Name = strings.TrimSpace(in.Name)
	out.Description = strings.TrimSpace(in.Description)
	if out.Name == "" {
		fields["name"] = "is required"
	}

	if cat, ok := CanonicalCategory(in.Category); ok {
		out.Category = cat
	} else if strings.TrimSpace(in.Category) == "" {
		fields["category"] = "is required"
	} else {
		fields["category"] = "must be one of " + humanList(categories)
	}

	if strings.TrimSpace(in.OriginalPrice) == "" {
		fields["originalPrice"] = "is required"
	} else if v, err := pricing.Normalize(in.OriginalPrice); err != nil {
		fields["originalPrice"] = "must be a positive whole number"
	} else {
		out.OriginalPrice = v
	}

	if v, err := pricing.Normalize(in.DiscountedPrice); err != nil {
		fields["discountedPrice"] = "must be a positive whole number"
	} else {
		out.DiscountedPrice = v
	}

	if _, bad := fields["originalPrice"]; !bad && out.DiscountedPrice != "" {
		if _, bad := fields["discountedPrice"]; !bad && !pricing.IsDiscount(out.OriginalPrice, out.DiscountedPrice) {
			fields["discountedPrice"] = "must be less than the original price"
		}
	}

	out.Image = strings.TrimSpace(in.Image)
	if out.Image == "" {
		fields["image"] = "is required"
	} else if err := checkMediaRef(out.Image, mediaImage, limits.ImageBytes); err != nil {
		fields["image"] = err.Error()
	}

	out.VideoURL = ""
	if out.HasVideo {
		out.VideoURL = strings.TrimSpace(in.VideoURL)
		if out.VideoURL == "" {
			fields["videoUrl"] = "is required when hasVideo is set"
		} else if err := checkMediaRef(out.VideoURL, mediaVideo, limits.VideoBytes); err != nil {
			fields["videoUrl"] = err.Error()
		}
	}

	if len(fields) > 0 {
		return Item{}, &ValidationError{Fields: fields}
	}
	out.Price = displayPrice(out)
	return out, nil
}

func displayPrice(it Item) string {
	return pricing.Display(it.OriginalPrice, it.DiscountedPrice)
}

// migrate back-fills price fields on records written by older versions of the
// storefront, which only carried a display string.
func migrate(it Item) Item {
	if it.OriginalPrice == "" && it.Price != "" {
		it.OriginalPrice = pricing.LegacyAmount(it.Price)
	}
	if it.Price == "" {
		it.Price = displayPrice(it)
	}
	return it
}
