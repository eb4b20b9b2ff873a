package output

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestStatusColor_KnownAndUnknown(t *testing.T) {
	color.NoColor = true

	for _, s := range []string{"discovered", "in_progress", "resolved", "recurred", "pending", "open", "pass", "fail"} {
		assert.Equal(t, s, StatusColor(s))
	}
	assert.Equal(t, "weird", StatusColor("weird"))
	assert.Equal(t, "high", ImpactColor("high"))
}

func TestUI_WriterRouting(t *testing.T) {
	color.NoColor = true

	var out, errOut bytes.Buffer
	u := &UI{Out: &out, ErrOut: &errOut}

	u.Info("hello %s", "world")
	u.Warning("careful")
	u.Error("broken")

	assert.Contains(t, out.String(), "hello world")
	assert.Contains(t, errOut.String(), "careful")
	assert.Contains(t, errOut.String(), "broken")
}

func TestUI_VerboseAndDryRun(t *testing.T) {
	color.NoColor = true

	var out, errOut bytes.Buffer
	u := &UI{Out: &out, ErrOut: &errOut}

	u.VerboseLog("hidden")
	u.DryRunMsg("hidden")
	assert.Empty(t, out.String())
	assert.Empty(t, errOut.String())

	u.Verbose = true
	u.DryRun = true
	u.VerboseLog("shown")
	u.DryRunMsg("would save")
	assert.Contains(t, out.String(), "shown")
	assert.Contains(t, errOut.String(), "[DRY-RUN] would save")
}
