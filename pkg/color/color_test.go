package color

import (
	"testing"

	fcolor "github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestIndexIsStable(t *testing.T) {
	assert.Equal(t, index("Alice"), index("Alice"))
	for _, name := range []string{"", "Alice", "Bob", "a very long roommate name"} {
		i := index(name)
		assert.GreaterOrEqual(t, i, 0)
		assert.Less(t, i, len(nameColors))
	}
}

func TestName(t *testing.T) {
	fcolor.NoColor = true
	assert.Equal(t, "Alice", Name("Alice", "Unassigned"))
	assert.Equal(t, "Unassigned", Name("", "Unassigned"))
}
