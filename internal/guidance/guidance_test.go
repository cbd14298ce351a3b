package guidance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFramingPerLevel(t *testing.T) {
	assert.NotEqual(t, Framing(SkillBeginner), Framing(SkillAdvanced))
	assert.Len(t, Approach(SkillIntermediate), 3)
}

func TestUnknownLevelFallsBackToBeginner(t *testing.T) {
	assert.Equal(t, Framing(SkillBeginner), Framing("wizard"))
	assert.Equal(t, Approach(SkillBeginner), Approach(""))
}
