package endpoints

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	set := Resolve(1234, "u001")

	assert.Equal(t, "https://rest-u001.immedia-semi.com", set.Base)
	assert.Equal(t, set.Base+"/network/", set.Network)
	assert.Equal(t, set.Base+"/api/v1/accounts/1234/networks/", set.Arm)
	assert.Equal(t, set.Base+"/api/v1/accounts/1234/media/changed", set.Video)
	assert.Equal(t, set.Base+"/api/v3/accounts/1234/homescreen", set.Home)
}

func TestResolveDeterministic(t *testing.T) {
	a := Resolve(42, "prde")
	b := Resolve(42, "prde")
	assert.Equal(t, a, b)
}

func TestResolveBasePrefix(t *testing.T) {
	for _, tier := range []string{"prod", "u001", "e002", "sg"} {
		set := Resolve(1, tier)
		assert.True(t, strings.HasPrefix(set.Base, "https://rest-"+tier+"."), "tier %s", tier)
	}
}

func TestFromBase(t *testing.T) {
	set := FromBase("http://127.0.0.1:9999", 7)

	assert.Equal(t, "http://127.0.0.1:9999", set.Base)
	assert.Equal(t, "http://127.0.0.1:9999/network/", set.Network)
	assert.Equal(t, "http://127.0.0.1:9999/api/v1/accounts/7/networks/", set.Arm)
	assert.Equal(t, "http://127.0.0.1:9999/api/v3/accounts/7/homescreen", set.Home)
}
