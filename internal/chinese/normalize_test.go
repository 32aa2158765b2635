package chinese

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "床前 明月光", NormalizeText("  床前   明月光 \n"))
	assert.Equal(t, "", NormalizeText(" \t "))
}

func TestNormalizeTextArray(t *testing.T) {
	assert.Equal(t, []string{"a", "b c"}, NormalizeTextArray([]string{" a ", "", "b   c", "  "}))
	assert.Nil(t, NormalizeTextArray([]string{" ", ""}))
	assert.Nil(t, NormalizeTextArray(nil))
}

func TestNormalizePointer(t *testing.T) {
	blank := "   "
	text := " 诗仙 "

	assert.Nil(t, NormalizePointer(nil))
	assert.Nil(t, NormalizePointer(&blank))
	assert.Equal(t, "诗仙", *NormalizePointer(&text))
}

