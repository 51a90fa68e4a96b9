package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Extraction Rule Tests
// ==========================

func TestExtract_TaggedFenceWithPrefix(t *testing.T) {
	raw := "```javascript\njavascript:(function(){document.querySelector('button').click();})();\n```"

	ex := Extract(raw, SingleShot)

	assert.True(t, ex.Present)
	assert.False(t, ex.ScopeRefused)
	assert.Equal(t, "javascript:(function(){document.querySelector('button').click();})();", ex.Artifact)
}

func TestExtract_TaggedFenceNormalizesMultilineBody(t *testing.T) {
	raw := "```javascript\njavascript:(function(){\n  var b = document.querySelector('button');\n  b.click();\n})();\n```"

	ex := Extract(raw, Conversational)

	assert.True(t, ex.Present)
	assert.NotContains(t, ex.Artifact, "\n")
	assert.NotContains(t, ex.Artifact, "  ")
	assert.True(t, strings.HasPrefix(ex.Artifact, Prefix))
}

func TestExtract_WholeReplyIsArtifact(t *testing.T) {
	raw := "javascript:(function(){alert('hi')})();\n"

	ex := Extract(raw, Conversational)

	assert.True(t, ex.Present)
	assert.Equal(t, "javascript:(function(){alert('hi')})();", ex.Artifact)
}

func TestExtract_StructuralSelfInvokingInProse(t *testing.T) {
	raw := "Here you go: javascript:(function(){alert(1)})(); enjoy!"

	ex := Extract(raw, Conversational)

	assert.True(t, ex.Present)
	assert.Equal(t, "javascript:(function(){alert(1)})();", ex.Artifact)
}

func TestExtract_StructuralArrowForm(t *testing.T) {
	raw := "Try this one: javascript:(()=>{document.body.style.background='pink'})(); it works everywhere."

	ex := Extract(raw, Conversational)

	assert.True(t, ex.Present)
	assert.True(t, strings.HasPrefix(ex.Artifact, "javascript:(()=>{"))
}

func TestExtract_StructuralBareToken(t *testing.T) {
	raw := "Just drag javascript:scroll(0,0) to your bookmarks bar."

	ex := Extract(raw, Conversational)

	assert.True(t, ex.Present)
	assert.Equal(t, "javascript:scroll(0,0)", ex.Artifact)
}

func TestExtract_UntaggedFenceGetsWrapped(t *testing.T) {
	raw := "Sure!\n```\ndocument.title='hello'\n```\nDone."

	ex := Extract(raw, Conversational)

	assert.True(t, ex.Present)
	assert.Equal(t, "javascript:(function(){document.title='hello'})();", ex.Artifact)
}

func TestExtract_SingleShotBareStatementGetsWrapped(t *testing.T) {
	ex := Extract("alert('hi')", SingleShot)

	assert.True(t, ex.Present)
	assert.Equal(t, "javascript:(function(){alert('hi')})();", ex.Artifact)
}

func TestExtract_ConversationalProseYieldsNothing(t *testing.T) {
	ex := Extract("Could you tell me which button you want clicked?", Conversational)

	assert.False(t, ex.Present)
	assert.False(t, ex.ScopeRefused)
	assert.Empty(t, ex.Artifact)
}

// ==========================
// Priority and Refusal Laws
// ==========================

func TestExtract_FencedBlockWinsOverBareToken(t *testing.T) {
	raw := "As shown at javascript:void(0) above, use:\n```javascript\njavascript:(function(){alert(2)})();\n```"

	ex := Extract(raw, Conversational)

	assert.True(t, ex.Present)
	assert.Equal(t, "javascript:(function(){alert(2)})();", ex.Artifact)
}

func TestExtract_RefusalSentinelExact(t *testing.T) {
	ex := Extract(ScopeSentinel, SingleShot)

	assert.True(t, ex.ScopeRefused)
	assert.False(t, ex.Present)
	assert.Empty(t, ex.Artifact)
}

func TestExtract_RefusalBeatsExtraction(t *testing.T) {
	raw := ScopeSentinel + "\n```javascript\njavascript:(function(){alert(1)})();\n```"

	ex := Extract(raw, Conversational)

	assert.True(t, ex.ScopeRefused)
	assert.False(t, ex.Present)
	assert.Empty(t, ex.Artifact)
}

// ==========================
// Normalization and Wrapping
// ==========================

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"javascript:(function(){alert(1)})();",
		"javascript:(function(){\n\talert(1);\n})();",
		"  javascript:void(0)  ",
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once))
	}
}

func TestNormalize_CollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", Normalize("a\r\n b\t\t c\n"))
}

func TestWrap_RoundTrip(t *testing.T) {
	out := Wrap("alert( 'hi' )")

	assert.True(t, strings.HasPrefix(out, Prefix))
	assert.Contains(t, out, "alert( 'hi' )")
	assert.Equal(t, strings.Count(out, "{"), strings.Count(out, "}"))
	assert.Equal(t, strings.Count(out, "("), strings.Count(out, ")"))
	assert.NotContains(t, out, "\n")
}

func TestWrap_CollapsesMultilineBody(t *testing.T) {
	out := Wrap("var a = 1;\nvar b = 2;\nalert(a + b);")

	assert.Equal(t, "javascript:(function(){var a = 1; var b = 2; alert(a + b);})();", out)
}
