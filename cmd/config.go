package cmd

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "jamcheck"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	outputFlagName   = "output"
	excludeFlagName  = "exclude"
	rootFlagName     = "root"
	plainFlagName    = "plain"
	verboseFlagName  = "verbose"
	failFastFlagName = "fail-fast"
	timeoutFlagName  = "timeout"

	packageDirKey    = "paths.package"
	testsDirKey      = "paths.tests"
	excludeConfigKey = "paths.exclude"
	sourcePatternKey = "source.pattern"
	testPatternKey   = "tests.pattern"
	lintCommandKey   = "lint.command"
	lintFlagsKey     = "lint.flags"
	testCommandKey   = "test.command"
	searchPathKey    = "env.search_path"
	failFastKey      = "run.fail_fast"
	toolTimeoutKey   = "run.tool_timeout"

	defaultReportsDir    = ".jamcheck-reports"
	defaultPackageDir    = "jamjar"
	defaultTestsDir      = "jamjar/test"
	defaultSourcePattern = "*.py"
	defaultTestPattern   = "test_*.py"
	defaultSearchPathVar = "PYTHONPATH"
	defaultFailFast      = false
	defaultToolTimeout   = time.Duration(0)

	envPrefix = "JAMCHECK"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".jamcheck.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var defaultLintCommand = []string{"pylint"}

var defaultLintFlags = []string{"--errors-only"}

var defaultTestCommand = []string{"python3", "-m", "unittest", "discover"}

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(outputFlagName, defaultReportsDir)
	viper.SetDefault(rootFlagName, "")
	viper.SetDefault(plainFlagName, false)
	viper.SetDefault(packageDirKey, defaultPackageDir)
	viper.SetDefault(testsDirKey, defaultTestsDir)
	viper.SetDefault(excludeConfigKey, []string{})
	viper.SetDefault(sourcePatternKey, defaultSourcePattern)
	viper.SetDefault(testPatternKey, defaultTestPattern)
	viper.SetDefault(lintCommandKey, defaultLintCommand)
	viper.SetDefault(lintFlagsKey, defaultLintFlags)
	viper.SetDefault(testCommandKey, defaultTestCommand)
	viper.SetDefault(searchPathKey, defaultSearchPathVar)
	viper.SetDefault(failFastKey, defaultFailFast)
	viper.SetDefault(toolTimeoutKey, defaultToolTimeout)

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return
		}

		return
	}
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
