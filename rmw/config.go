package rmw

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/edwinhayes/rmwdds/dds"
)

// DefaultSettleDelay is how long creation of a client or service waits for
// discovery to propagate before returning.
const DefaultSettleDelay = 5 * time.Millisecond

const (
	envDomainID    = "ROS_DOMAIN_ID"
	envNamespace   = "ROS_NAMESPACE"
	envSettleDelay = "RMW_DDS_SETTLE_DELAY"
	envLogLevel    = "RMW_DDS_LOG_LEVEL"
	envInitLog     = "RMW_DDS_INIT_LOG"
)

// Config is read from the environment and overridden by command line
// arguments of the form __key:=value.
type Config struct {
	DomainID    dds.DomainID
	SettleDelay time.Duration
	LogLevel    logrus.Level
	InitLog     bool
	NodeName    string
	Namespace   string
	Remappings  NameMap
	Params      NameMap
	NonRosArgs  []string
}

func processArguments(args []string) (NameMap, NameMap, NameMap, []string) {
	mapping := make(NameMap)
	params := make(NameMap)
	specials := make(NameMap)
	rest := make([]string, 0)
	for _, arg := range args {
		components := strings.Split(arg, Remap)
		if len(components) == 2 {
			key := components[0]
			value := components[1]
			if strings.HasPrefix(key, "__") {
				specials[key] = value
			} else if strings.HasPrefix(key, "_") {
				params[key[1:]] = value
			} else {
				mapping[key] = value
			}
		} else {
			rest = append(rest, arg)
		}
	}
	return mapping, params, specials, rest
}

// LoadConfig builds a Config from the environment and args.
func LoadConfig(args []string) (Config, error) {
	cfg := Config{
		SettleDelay: DefaultSettleDelay,
		LogLevel:    logrus.InfoLevel,
		Namespace:   GlobalNS,
	}

	remapping, params, specials, rest := processArguments(args)
	cfg.Remappings = remapping
	cfg.Params = params
	cfg.NonRosArgs = rest

	lookup := func(env, special string) (string, bool) {
		if value, ok := specials[special]; ok {
			return value, true
		}
		value, ok := os.LookupEnv(env)
		return value, ok && len(value) > 0
	}

	if value, ok := lookup(envDomainID, "__domain"); ok {
		id, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return cfg, errors.Wrapf(ErrInvalidArgument, "domain id %q", value)
		}
		cfg.DomainID = dds.DomainID(id)
	}
	if value, ok := lookup(envSettleDelay, "__settle"); ok {
		d, err := time.ParseDuration(value)
		if err != nil || d < 0 {
			return cfg, errors.Wrapf(ErrInvalidArgument, "settle delay %q", value)
		}
		cfg.SettleDelay = d
	}
	if value, ok := lookup(envLogLevel, "__log_level"); ok {
		level, err := logrus.ParseLevel(value)
		if err != nil {
			return cfg, errors.Wrap(ErrInvalidArgument, err.Error())
		}
		cfg.LogLevel = level
	}
	if value, ok := lookup(envInitLog, "__init_log"); ok {
		cfg.InitLog = value == "1" || strings.EqualFold(value, "true")
	}
	if value, ok := lookup(envNamespace, "__ns"); ok {
		cfg.Namespace = value
	}
	if value, ok := specials["__name"]; ok {
		cfg.NodeName = value
	}
	return cfg, nil
}

// InitOptions returns options carrying the settings of cfg.
func (cfg Config) InitOptions() InitOptions {
	opts := NewInitOptions()
	opts.DomainID = cfg.DomainID
	opts.SettleDelay = cfg.SettleDelay
	opts.InitLog = cfg.InitLog
	opts.Remappings = cfg.Remappings
	l := NewLogger()
	l.SetLevel(cfg.LogLevel)
	opts.Logger = l
	return opts
}
