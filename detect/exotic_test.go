package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExoticEncodersDetectsJSFuck(t *testing.T) {
	source := []byte(`[][(![]+[])[+[]]+([![]]+[][[]])[+!+[]+[+[]]]+(![]+[])[!+[]+!+[]]]`)
	findings := ExoticEncoders(source)
	assert.Len(t, findings, 1)
	assert.Equal(t, "jsfuck", findings[0].Name)
}

func TestExoticEncodersDetectsPacker(t *testing.T) {
	source := []byte(`eval(function(p,a,c,k,e,d){e=function(c){return c};return p}('x',1,1,'x'.split('|'),0,{}))`)
	findings := ExoticEncoders(source)
	names := map[string]bool{}
	for _, f := range findings {
		names[f.Name] = true
	}
	assert.True(t, names["packer"])
}

func TestExoticEncodersIgnoresPlainSource(t *testing.T) {
	source := []byte(`function add(a, b) { return a + b; }`)
	findings := ExoticEncoders(source)
	assert.Empty(t, findings)
}

func TestExoticEncodersDetectsURLEncodeChain(t *testing.T) {
	source := []byte(`var x = decodeURIComponent(decodeURIComponent("%2520"));`)
	findings := ExoticEncoders(source)
	names := map[string]bool{}
	for _, f := range findings {
		names[f.Name] = true
	}
	assert.True(t, names["url-encode-chain"])
}
