package checksum

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSHA256_CalculateRaw(t *testing.T) {
	calc := New()

	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "empty",
			content:  "",
			expected: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			name:     "abc",
			content:  "abc",
			expected: "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, calc.CalculateRaw([]byte(tt.content)))
		})
	}
}

func TestSame(t *testing.T) {
	calc := New()
	doc := []byte("<metadata>\n  <dc:title>T</dc:title>\n</metadata>")

	assert.True(t, Same(calc, doc, append([]byte(nil), doc...)))
	assert.False(t, Same(calc, doc, []byte("<metadata>\r\n  <dc:title>T</dc:title>\r\n</metadata>")),
		"line endings are significant")
}

func TestShort(t *testing.T) {
	assert.Equal(t, "ba7816bf8f01", Short("ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"))
	assert.Equal(t, "abc", Short("abc"))
}

func TestSHA256_ConcurrentUse(t *testing.T) {
	calc := New()
	want := calc.CalculateRaw([]byte("series"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, calc.CalculateRaw([]byte("series")))
		}()
	}
	wg.Wait()
}
