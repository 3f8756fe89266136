package gravatar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestURL(t *testing.T) {
	// Known MD5 of "a@x.com"
	url := URL("a@x.com")
	assert.Contains(t, url, "https://www.gravatar.com/avatar/")
	assert.Contains(t, url, "s=200")
	assert.Contains(t, url, "r=pg")
	assert.Contains(t, url, "d=mm")
}

func TestURL_Normalization(t *testing.T) {
	// Case and surrounding whitespace must not change the hash.
	assert.Equal(t, URL("a@x.com"), URL("  A@X.COM  "))
	assert.NotEqual(t, URL("a@x.com"), URL("b@x.com"))
}
