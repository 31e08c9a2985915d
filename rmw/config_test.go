package rmw

import (
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edwinhayes/rmwdds/dds"
)

func clearConfigEnv(t *testing.T) {
	for _, env := range []string{envDomainID, envNamespace, envSettleDelay, envLogLevel, envInitLog} {
		t.Setenv(env, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, dds.DomainID(0), cfg.DomainID)
	assert.Equal(t, DefaultSettleDelay, cfg.SettleDelay)
	assert.Equal(t, logrus.InfoLevel, cfg.LogLevel)
	assert.False(t, cfg.InitLog)
	assert.Equal(t, GlobalNS, cfg.Namespace)
	assert.Empty(t, cfg.Remappings)
	assert.Empty(t, cfg.NonRosArgs)
}

func TestLoadConfigEnvironment(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv(envDomainID, "7")
	t.Setenv(envSettleDelay, "20ms")
	t.Setenv(envLogLevel, "debug")
	t.Setenv(envInitLog, "1")
	t.Setenv(envNamespace, "/robot")

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, dds.DomainID(7), cfg.DomainID)
	assert.Equal(t, 20*time.Millisecond, cfg.SettleDelay)
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
	assert.True(t, cfg.InitLog)
	assert.Equal(t, "/robot", cfg.Namespace)
}

func TestLoadConfigArgumentsOverrideEnvironment(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv(envDomainID, "7")
	t.Setenv(envSettleDelay, "20ms")

	cfg, err := LoadConfig([]string{
		"__domain:=3",
		"__settle:=0s",
		"__name:=adder",
		"__ns:=/math",
		"__init_log:=true",
		"chatter:=/talk",
		"_rate:=10",
		"1", "2",
	})
	require.NoError(t, err)
	assert.Equal(t, dds.DomainID(3), cfg.DomainID)
	assert.Equal(t, time.Duration(0), cfg.SettleDelay)
	assert.Equal(t, "adder", cfg.NodeName)
	assert.Equal(t, "/math", cfg.Namespace)
	assert.True(t, cfg.InitLog)
	assert.Equal(t, NameMap{"chatter": "/talk"}, cfg.Remappings)
	assert.Equal(t, NameMap{"rate": "10"}, cfg.Params)
	assert.Equal(t, []string{"1", "2"}, cfg.NonRosArgs)
}

func TestLoadConfigRejectsMalformedValues(t *testing.T) {
	clearConfigEnv(t)
	for _, arg := range []string{"__domain:=x", "__settle:=-1s", "__settle:=soon", "__log_level:=loud"} {
		_, err := LoadConfig([]string{arg})
		assert.True(t, errors.Is(err, ErrInvalidArgument), arg)
	}
}

func TestConfigInitOptions(t *testing.T) {
	cfg := Config{
		DomainID:    4,
		SettleDelay: time.Millisecond,
		LogLevel:    logrus.WarnLevel,
		InitLog:     true,
		Remappings:  NameMap{"a": "b"},
	}
	opts := cfg.InitOptions()
	assert.Equal(t, dds.DomainID(4), opts.DomainID)
	assert.Equal(t, time.Millisecond, opts.SettleDelay)
	assert.True(t, opts.InitLog)
	assert.Equal(t, NameMap{"a": "b"}, opts.Remappings)
	require.NotNil(t, opts.Logger)
	assert.Equal(t, logrus.WarnLevel, opts.Logger.GetLevel())
	assert.NotNil(t, opts.Clock)
	assert.Nil(t, opts.Factory)
}
