package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestProcessor() *TextProcessor {
	return NewTextProcessor(zap.NewNop())
}

func TestTruncateTextKeepsShortInput(t *testing.T) {
	tp := newTestProcessor()
	assert.Equal(t, "hello", tp.TruncateText("hello", 100))
	assert.Equal(t, "hello", tp.TruncateText("hello", 0))
}

func TestTruncateTextStaysValidUTF8(t *testing.T) {
	tp := newTestProcessor()

	// 한 is 3 bytes; cutting at 4 bytes would split the second rune
	out := tp.TruncateText("한국어문장", 4)
	assert.True(t, utf8.ValidString(out))
	assert.True(t, strings.HasPrefix(out, "한"))
	assert.Contains(t, out, "Content truncated")
}

func TestSanitizeUTF8DropsInvalidBytes(t *testing.T) {
	tp := newTestProcessor()

	out := tp.SanitizeUTF8("ok\xff\xfetext")
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, "oktext", out)
}

func TestFoldCompatNormalizesFullwidthForms(t *testing.T) {
	assert.Equal(t, "verify", FoldCompat("ｖｅｒｉｆｙ"))
}

func TestPrefixRunes(t *testing.T) {
	assert.Equal(t, "가나다", PrefixRunes("가나다라마", 3))
	assert.Equal(t, "abc", PrefixRunes("abc", 10))
	assert.Equal(t, "", PrefixRunes("abc", 0))
}
