package rmw

import (
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleLogger(t *testing.T) {
	l, hook := logtest.NewNullLogger()
	l.SetLevel(logrus.WarnLevel)

	first := moduleLogger(l)
	second := moduleLogger(l)
	assert.Same(t, first, second)
	assert.Equal(t, logModule, second.GetModuleName())
	assert.Equal(t, logrus.WarnLevel, second.GetLevel())

	nodeLogger := second.WithField("node", "/robot/n")
	nodeLogger.Infof("below the module level")
	assert.Empty(t, hook.AllEntries())

	nodeLogger.Errorf("failed to %s", "destroy")
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "failed to destroy", hook.LastEntry().Message)
	assert.Equal(t, logModule, hook.LastEntry().Data["module"])
	assert.Equal(t, "/robot/n", hook.LastEntry().Data["node"])

	second.SetLevel(logrus.DebugLevel)
	nodeLogger.Debugf("now visible")
	assert.Len(t, hook.AllEntries(), 2)
}
