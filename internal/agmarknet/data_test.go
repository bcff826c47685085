package agmarknet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMappingIDsUnique(t *testing.T) {
	seen := map[string]string{}
	for _, c := range Commodities {
		if prev, ok := seen[c.Value]; ok {
			t.Errorf("commodity code %s shared by %s and %s", c.Value, prev, c.Text)
		}
		seen[c.Value] = c.Text
	}

	seen = map[string]string{}
	for _, s := range States {
		if prev, ok := seen[s.Value]; ok {
			t.Errorf("state code %s shared by %s and %s", s.Value, prev, s.Text)
		}
		seen[s.Value] = s.Text
	}
}

func TestMappingNamesUnique(t *testing.T) {
	names := map[string]bool{}
	for _, c := range Commodities {
		assert.False(t, names[c.Text], "duplicate commodity name %s", c.Text)
		names[c.Text] = true
	}
}
