package trust

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRegistryMatchesRegisteredSenders(t *testing.T) {
	r := NewRegistry([]string{"1588-0000", " 1644-7777 ", ""}, zap.NewNop())

	assert.True(t, r.IsTrusted("1588-0000"))
	assert.True(t, r.IsTrusted("1644-7777"))
	assert.True(t, r.IsTrusted(" 1588-0000 "))
	assert.False(t, r.IsTrusted("01012345678"))
	assert.False(t, r.IsTrusted(""))
}

func TestEmptyRegistryTrustsNobody(t *testing.T) {
	r := NewRegistry(nil, zap.NewNop())
	assert.False(t, r.IsTrusted("1588-0000"))
}
