package util

import (
	"bytes"
	"image"
	"image/color"
	_ "image/jpeg"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractHashtags(t *testing.T) {
	tags := ExtractHashtags("Sunset in #Tbilisi! #travel #Travel #georgia_trip. #სამშობლო no#tag?")
	assert.Equal(t, []string{"tbilisi", "travel", "georgia_trip", "სამშობლო", "tag"}, tags)

	assert.Empty(t, ExtractHashtags(""))
	assert.NotNil(t, ExtractHashtags("no tags here"))
}

func TestExtractMentions(t *testing.T) {
	mentions := ExtractMentions("with @anna.k and @bob_99. thanks @anna.k")
	assert.Equal(t, []string{"anna.k", "bob_99"}, mentions)
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `[{"a":1}]`, StripCodeFence("```json\n[{\"a\":1}]\n```"))
	assert.Equal(t, `{"a":1}`, StripCodeFence("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripCodeFence("  {\"a\":1} "))
}

func TestCursorRoundTrip(t *testing.T) {
	cursor := EncodeCursor([]any{float64(1700000000000), "42"})
	values, err := DecodeCursor(cursor)
	require.NoError(t, err)
	assert.Equal(t, []any{float64(1700000000000), "42"}, values)

	values, err = DecodeCursor("")
	require.NoError(t, err)
	assert.Nil(t, values)

	_, err = DecodeCursor("%%%")
	assert.Error(t, err)
}

func TestMakeThumbnail(t *testing.T) {
	src := imaging.New(1200, 600, color.White)

	data, err := MakeThumbnail(src, 300)
	require.NoError(t, err)

	img, _, err := image.Decode(bytesReader(data))
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 150, img.Bounds().Dy())

	small := imaging.New(100, 100, color.Black)
	data, err = MakeThumbnail(small, 300)
	require.NoError(t, err)
	img, _, err = image.Decode(bytesReader(data))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
}

type validated struct {
	Token string `validate:"required"`
}

func TestValidateDTO(t *testing.T) {
	assert.NoError(t, ValidateDTO(&validated{Token: "x"}))
	err := ValidateDTO(&validated{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Token")
}

func bytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}
