package chinese

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStablePoemUUID(t *testing.T) {
	paragraphs := []string{"床前明月光，疑是地上霜。", "举头望明月，低头思故乡。"}

	first := StablePoemUUID("静夜思", "李白", paragraphs)
	second := StablePoemUUID(" 静夜思 ", "李白 ", paragraphs)

	assert.True(t, IsUUID(first))
	assert.Equal(t, first, second, "surrounding whitespace must not change the UUID")
	assert.NotEqual(t, first, StablePoemUUID("静夜思", "杜甫", paragraphs))
	assert.NotEqual(t, first, StablePoemUUID("静夜思", "李白", paragraphs[:1]))
}

func TestIsUUID(t *testing.T) {
	assert.True(t, IsUUID("0b2a8f4e-6d3c-4e9a-9a1f-2c4b6d8e0f12"))
	assert.False(t, IsUUID("not-a-uuid"))
	assert.False(t, IsUUID(""))
}
