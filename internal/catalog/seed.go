package catalog

import "time"

const blobBase = "https://hebbkx1anhila5yf.public.blob.vercel-storage.com/"

// DefaultItems is the collection written to an empty slot. Every item shares
// the supplied creation time.
func DefaultItems(now time.Time) []Item {
	items := []Item{
		{
			ID:              "m1",
			Name:            "Semi Recliners",
			Description:     "5 seater, 7 seater - Premium leather recliners with adjustable positions",
			OriginalPrice:   "85000",
			DiscountedPrice: "75000",
			Category:        CategoryLivingRoom,
			Image:           blobBase + "m1-sfkS46g9ShAzHDYP6ZA8oIhUGwUbnR.png",
			HasVideo:        true,
			VideoURL:        blobBase + "v1-mdY987BWO6eqLhPgDeNYrIHICWa1nT.mp4",
		},
		{
			ID:              "m2",
			Name:            "L-shaped Seats",
			Description:     "6 seater - Comfortable sectional sofa perfect for family gatherings",
			OriginalPrice:   "65000",
			DiscountedPrice: "55000",
			Category:        CategoryLivingRoom,
			Image:           blobBase + "m2-HwqmmIN6nKl1kaRIYeN5LWmZ1kkv1Q.png",
			HasVideo:        true,
			VideoURL:        blobBase + "Untitled%20video%20-%20Made%20with%20Clipchamp%20%282%29-38JNgxJpGLdNysrMbnVnVnQU9x8XEc.mp4",
		},
		{
			ID:            "umbrella-seat",
			Name:          "Umbrella Seats",
			Description:   "Unique curved design armchair with premium upholstery",
			OriginalPrice: "20000",
			Category:      CategoryLivingRoom,
			Image:         blobBase + "Screenshot_2025_0618_133743-sGUibScxMZJ4cppv9VObX3hxFb70Up.png",
		},
		{
			ID:              "ottoman",
			Name:            "Ottoman",
			Description:     "Comfortable ottoman with ribbed upholstery design",
			OriginalPrice:   "18000",
			DiscountedPrice: "15000",
			Category:        CategoryLivingRoom,
			Image:           blobBase + "Screenshot_2025_0618_133750-SByfaqmfQ9GaydUWlEE51ZDYZQgfan.png",
		},
		{
			ID:            "chester-bed-1",
			Name:          "Chester Beds",
			Description:   "Premium upholstered beds in multiple sizes - 3½×6, 4×6, 5×6",
			OriginalPrice: "18000",
			Category:      CategoryBedroom,
			Image:         blobBase + "Screenshot_2025_0618_133808-tBWyyHmBk6IkQcztNnz4RLiT4LUAoO.png",
		},
		{
			ID:              "chester-bed-2",
			Name:            "Chester Beds (Beige)",
			Description:     "Elegant beige upholstered headboards in various sizes",
			OriginalPrice:   "22000",
			DiscountedPrice: "18000",
			Category:        CategoryBedroom,
			Image:           blobBase + "Screenshot_2025_0618_133816-66x3Ghk37yeqkhEEMZWTz869sQLeVp.png",
		},
		{
			ID:            "colorful-headboards",
			Name:          "Colorful Headboards",
			Description:   "Vibrant upholstered headboards in teal, navy, and beige",
			OriginalPrice: "20000",
			Category:      CategoryBedroom,
			Image:         blobBase + "Screenshot_2025_0618_133822-NDzUWXSMRisVOByowcZzwSDqRMFOxS.png",
		},
		{
			ID:              "orthopedic-mattress",
			Name:            "Orthopedic Mattresses",
			Description:     "Premium orthopedic mattresses for better sleep support",
			OriginalPrice:   "15000",
			DiscountedPrice: "12000",
			Category:        CategoryBedroom,
			Image:           blobBase + "Screenshot_2025_0618_133829-3YbSzOI0tRrQS7ogGKIzGv9oiLAPLN.png",
		},
	}
	for i := range items {
		items[i].CreatedAt = timePtr(now)
		items[i].Price = displayPrice(items[i])
	}
	return items
}
