// Structured logging for the kernel and its subsystems.

package artx_internal

import (
	"os"
	"path"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	LOGGER_CONFIG_USE_JSON_DEFAULT             = false
	LOGGER_CONFIG_LEVEL_DEFAULT                = "info"
	LOGGER_CONFIG_DISABLE_SRC_FILE_DEFAULT     = false
	LOGGER_CONFIG_LOG_FILE_DEFAULT             = "" // i.e. stderr
	LOGGER_CONFIG_LOG_FILE_MAX_SIZE_MB_DEFAULT = 10
	LOGGER_CONFIG_LOG_FILE_MAX_BACKUP_DEFAULT  = 1

	LOGGER_DEFAULT_LEVEL    = logrus.InfoLevel
	LOGGER_TIMESTAMP_FORMAT = time.RFC3339

	// Extra field added for component sub loggers:
	LOGGER_COMPONENT_FIELD_NAME = "comp"
)

// CollectableLogger wraps logrus.Logger and keeps IsEnabledForDebug in step
// with the level set through SetLevel.
type CollectableLogger struct {
	logrus.Logger
	IsEnabledForDebug bool
}

func (log *CollectableLogger) SetLevel(level logrus.Level) {
	log.Logger.SetLevel(level)
	log.IsEnabledForDebug = log.IsLevelEnabled(logrus.DebugLevel)
}

type LoggerConfig struct {
	UseJson             bool   `yaml:"use_json"`
	Level               string `yaml:"level"`
	DisableSrcFile      bool   `yaml:"disable_src_file"`
	LogFile             string `yaml:"log_file"`
	LogFileMaxSizeMB    int    `yaml:"log_file_max_size_mb"`
	LogFileMaxBackupNum int    `yaml:"log_file_max_backup_num"`
}

func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{
		UseJson:             LOGGER_CONFIG_USE_JSON_DEFAULT,
		Level:               LOGGER_CONFIG_LEVEL_DEFAULT,
		DisableSrcFile:      LOGGER_CONFIG_DISABLE_SRC_FILE_DEFAULT,
		LogFile:             LOGGER_CONFIG_LOG_FILE_DEFAULT,
		LogFileMaxSizeMB:    LOGGER_CONFIG_LOG_FILE_MAX_SIZE_MB_DEFAULT,
		LogFileMaxBackupNum: LOGGER_CONFIG_LOG_FILE_MAX_BACKUP_DEFAULT,
	}
}

// Module-relative path stripping, so logged file:line pairs read like
// "internal/scheduler.go:42" regardless of GOPATH/module cache location.
type modDirPathCache struct {
	mu         sync.Mutex
	prefixList []string
	keepNDirs  int
}

func (p *modDirPathCache) addPrefix(prefix string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, existing := range p.prefixList {
		if existing == prefix {
			return
		}
	}
	p.prefixList = append(p.prefixList, prefix)
	sort.Slice(p.prefixList, func(i, j int) bool {
		return len(p.prefixList[i]) > len(p.prefixList[j])
	})
}

func (p *modDirPathCache) stripPrefix(filePath string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, prefix := range p.prefixList {
		if strings.HasPrefix(filePath, prefix) {
			return filePath[len(prefix):]
		}
	}
	pathComp := strings.Split(filePath, "/")
	keepNComps := p.keepNDirs + 1
	if keepNComps < 1 {
		keepNComps = 1
	}
	if keepNComps < len(pathComp) {
		filePath = path.Join(pathComp[len(pathComp)-keepNComps:]...)
	}
	return filePath
}

var moduleDirPathCache = &modDirPathCache{prefixList: []string{}, keepNDirs: 1}

// AddCallerSrcPathPrefixToLogger records the caller's source directory (going
// up upNDirs levels) as a prefix to strip from logged file paths.
func AddCallerSrcPathPrefixToLogger(upNDirs int, skip int) bool {
	_, file, _, ok := runtime.Caller(skip + 1)
	if !ok {
		return false
	}
	prefix := path.Dir(file)
	for i := 0; i < upNDirs; i++ {
		prefix = path.Dir(prefix)
	}
	if prefix[len(prefix)-1] != '/' {
		prefix += "/"
	}
	moduleDirPathCache.addPrefix(prefix)
	return true
}

type logFuncFileCache struct {
	mu    sync.Mutex
	cache map[uintptr]string
}

func (c *logFuncFileCache) prettyfy(f *runtime.Frame) (function string, file string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	file, ok := c.cache[f.PC]
	if !ok {
		file = moduleDirPathCache.stripPrefix(f.File) + ":" + strconv.Itoa(f.Line)
		c.cache[f.PC] = file
	}
	return "", file
}

var callerCache = &logFuncFileCache{cache: make(map[uintptr]string)}

var logFieldOrder = map[string]int{
	logrus.FieldKeyTime:         -5,
	logrus.FieldKeyLevel:        -4,
	LOGGER_COMPONENT_FIELD_NAME: -3,
	logrus.FieldKeyFile:         -2,
	logrus.FieldKeyFunc:         -1,
	logrus.FieldKeyMsg:          1,
}

type fieldKeySortable struct{ keys []string }

func (d *fieldKeySortable) Len() int { return len(d.keys) }
func (d *fieldKeySortable) Less(i, j int) bool {
	oi, oj := logFieldOrder[d.keys[i]], logFieldOrder[d.keys[j]]
	if oi != 0 || oj != 0 {
		return oi < oj
	}
	return d.keys[i] < d.keys[j]
}
func (d *fieldKeySortable) Swap(i, j int) { d.keys[i], d.keys[j] = d.keys[j], d.keys[i] }

func sortFieldKeys(keys []string) { sort.Sort(&fieldKeySortable{keys}) }

var textFormatter = &logrus.TextFormatter{
	DisableColors:    true,
	FullTimestamp:    true,
	TimestampFormat:  LOGGER_TIMESTAMP_FORMAT,
	CallerPrettyfier: callerCache.prettyfy,
	SortingFunc:      sortFieldKeys,
}

var jsonFormatter = &logrus.JSONFormatter{
	TimestampFormat:  LOGGER_TIMESTAMP_FORMAT,
	CallerPrettyfier: callerCache.prettyfy,
}

var RootLogger = &CollectableLogger{
	Logger: logrus.Logger{
		Out:          os.Stderr,
		Hooks:        make(logrus.LevelHooks),
		Formatter:    textFormatter,
		Level:        LOGGER_DEFAULT_LEVEL,
		ReportCaller: true,
	},
}

func init() {
	// This file lives 1 dir below the module root (module/internal/logger.go).
	AddCallerSrcPathPrefixToLogger(1, 0)
}

// SetLogger (re)configures RootLogger from the given config.
func SetLogger(logCfg *LoggerConfig) error {
	if logCfg == nil {
		logCfg = DefaultLoggerConfig()
	}

	if logCfg.Level != "" {
		level, err := logrus.ParseLevel(logCfg.Level)
		if err != nil {
			return err
		}
		RootLogger.SetLevel(level)
	}

	if logCfg.UseJson {
		RootLogger.SetFormatter(jsonFormatter)
	} else {
		RootLogger.SetFormatter(textFormatter)
	}
	RootLogger.SetReportCaller(!logCfg.DisableSrcFile)

	switch logCfg.LogFile {
	case "stderr", "":
		RootLogger.SetOutput(os.Stderr)
	case "stdout":
		RootLogger.SetOutput(os.Stdout)
	default:
		logDir := path.Dir(logCfg.LogFile)
		if _, err := os.Stat(logDir); err != nil {
			if err := os.MkdirAll(logDir, os.ModePerm); err != nil {
				return err
			}
		}
		RootLogger.SetOutput(&lumberjack.Logger{
			Filename:   logCfg.LogFile,
			MaxSize:    logCfg.LogFileMaxSizeMB,
			MaxBackups: logCfg.LogFileMaxBackupNum,
		})
	}
	return nil
}

// NewCompLogger returns a logger pinned to a single subsystem, e.g. "scheduler".
func NewCompLogger(comp string) *logrus.Entry {
	return RootLogger.WithField(LOGGER_COMPONENT_FIELD_NAME, comp)
}
