package catalog

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	mp4Header = []byte("\x00\x00\x00\x18ftypisom\x00\x00\x02\x00isomiso2\x00\x00\x00\x08free")
)

func dataURI(mime string, payload []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(payload)
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	return verr.Fields
}

func TestNormalizeRequiredFields(t *testing.T) {
	_, err := normalize(Item{}, MediaLimits{}.withDefaults())
	fields := fieldsOf(t, err)
	for _, key := range []string{"name", "category", "originalPrice", "image"} {
		assert.Contains(t, fields, key)
	}
	assert.Contains(t, err.Error(), "name: is required")
}

func TestNormalizePrices(t *testing.T) {
	in := sampleItem()
	in.OriginalPrice = "abc"
	_, err := normalize(in, MediaLimits{}.withDefaults())
	assert.Equal(t, "must be a positive whole number", fieldsOf(t, err)["originalPrice"])

	in = sampleItem()
	in.OriginalPrice = "12.9999"
	in.DiscountedPrice = "10.5"
	_, err = normalize(in, MediaLimits{}.withDefaults())
	fields := fieldsOf(t, err)
	assert.Equal(t, "must be a positive whole number", fields["originalPrice"])
	assert.Equal(t, "must be a positive whole number", fields["discountedPrice"])

	in = sampleItem()
	in.DiscountedPrice = "130000"
	_, err = normalize(in, MediaLimits{}.withDefaults())
	assert.Equal(t, "must be less than the original price", fieldsOf(t, err)["discountedPrice"])

	in = sampleItem()
	in.DiscountedPrice = ""
	out, err := normalize(in, MediaLimits{}.withDefaults())
	require.NoError(t, err)
	assert.Equal(t, "From KES 120,000", out.Price)
}

func TestNormalizeCategory(t *testing.T) {
	in := sampleItem()
	in.Category = "  OUTDOOR "
	out, err := normalize(in, MediaLimits{}.withDefaults())
	require.NoError(t, err)
	assert.Equal(t, CategoryOutdoor, out.Category)

	in.Category = "Garage"
	_, err = normalize(in, MediaLimits{}.withDefaults())
	assert.Contains(t, fieldsOf(t, err)["category"], "must be one of")
}

func TestNormalizeVideo(t *testing.T) {
	in := sampleItem()
	in.HasVideo = true
	_, err := normalize(in, MediaLimits{}.withDefaults())
	assert.Contains(t, fieldsOf(t, err), "videoUrl")

	in.VideoURL = "https://cdn.havencraft.test/tour.mp4"
	out, err := normalize(in, MediaLimits{}.withDefaults())
	require.NoError(t, err)
	assert.Equal(t, in.VideoURL, out.VideoURL)

	in.HasVideo = false
	out, err = normalize(in, MediaLimits{}.withDefaults())
	require.NoError(t, err)
	assert.Empty(t, out.VideoURL, "video reference is dropped when the flag is off")
}

func TestEmbeddedMedia(t *testing.T) {
	limits := MediaLimits{}.withDefaults()

	in := sampleItem()
	in.Image = dataURI("image/png", pngHeader)
	in.HasVideo = true
	in.VideoURL = dataURI("video/mp4", mp4Header)
	_, err := normalize(in, limits)
	require.NoError(t, err)

	in.VideoURL = dataURI("video/mp4", pngHeader)
	_, err = normalize(in, limits)
	assert.Contains(t, fieldsOf(t, err)["videoUrl"], "image/png")

	in.VideoURL = "data:video/mp4,not-base64"
	_, err = normalize(in, limits)
	assert.Contains(t, fieldsOf(t, err), "videoUrl")

	in = sampleItem()
	in.Image = "ftp://example.test/a.png"
	_, err = normalize(in, limits)
	assert.Contains(t, fieldsOf(t, err), "image")
}

func TestEmbeddedMediaSizeLimit(t *testing.T) {
	limits := MediaLimits{ImageBytes: 1 << 20}.withDefaults()
	big := append([]byte{}, pngHeader...)
	big = append(big, []byte(strings.Repeat("\x00", 1<<20))...)

	in := sampleItem()
	in.Image = dataURI("image/png", big)
	_, err := normalize(in, limits)
	assert.Contains(t, fieldsOf(t, err)["image"], "exceeds 1 MB")
	assert.Equal(t, DefaultMaxVideoBytes, limits.VideoBytes)
}

func TestMigrateLegacyPrice(t *testing.T) {
	it := migrate(Item{Price: "From KES 25,000"})
	assert.Equal(t, "25000", it.OriginalPrice)
	assert.Equal(t, "From KES 25,000", it.Price)

	it = migrate(Item{OriginalPrice: "18000"})
	assert.Equal(t, "From KES 18,000", it.Price)
}

func TestCategoriesHelpers(t *testing.T) {
	assert.Equal(t, []string{"Living Room", "Bedroom", "Office", "Outdoor", "Dining"}, Categories())
	assert.Equal(t, "living-room", RoomSlug("Living Room"))
	c, ok := CanonicalCategory("living room")
	assert.True(t, ok)
	assert.Equal(t, CategoryLivingRoom, c)
}
