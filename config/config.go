package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/juho05/log"
)

var values = make(map[string]any)

func Port() (port int) {
	if p, ok := values["PORT"]; ok {
		return p.(int)
	}
	defer func() {
		values["PORT"] = port
	}()
	def := 8765
	portStr := os.Getenv("PORT")
	if portStr == "" {
		return def
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Errorf("Invalid port '%s': not a number. Using default: %d", portStr, def)
		return def
	}
	return port
}

func LogLevel() (sev log.Severity) {
	if l, ok := values["LOG_LEVEL"]; ok {
		return l.(log.Severity)
	}
	defer func() {
		values["LOG_LEVEL"] = sev
	}()
	def := log.INFO
	logLevelStr := os.Getenv("LOG_LEVEL")
	if logLevelStr == "" {
		return def
	}
	level, err := strconv.Atoi(logLevelStr)
	if err != nil {
		log.Errorf("Invalid log level '%s': not a number. Using default: %d", logLevelStr, def)
		return def
	}
	if level < int(log.NONE) || level > int(log.TRACE) {
		log.Errorf("Invalid log level. Valid values: 0 (none), 1 (fatal), 2 (error), 3 (warning), 4 (info), 5 (trace). Using default: %d", def)
		return def
	}
	return log.Severity(level)
}

func LogFile() (file *os.File) {
	if f, ok := values["LOG_FILE"]; ok {
		return f.(*os.File)
	}
	defer func() {
		values["LOG_FILE"] = file
	}()
	def := os.Stderr
	if os.Getenv("LOG_FILE") == "" {
		return def
	}
	appnd, _ := strconv.ParseBool(os.Getenv("LOG_APPEND"))
	if appnd {
		file, err := os.OpenFile(os.Getenv("LOG_FILE"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			log.Errorf("Failed to open log file: %s. Using default: STDERR", err)
			return def
		}
		return file
	} else {
		file, err := os.Create(os.Getenv("LOG_FILE"))
		if err != nil {
			log.Errorf("Failed to create log file: %s. Using default: STDERR", err)
			return def
		}
		return file
	}
}

func SettingsFile() (path string) {
	if p, ok := values["SETTINGS_FILE"]; ok {
		return p.(string)
	}
	defer func() {
		values["SETTINGS_FILE"] = path
	}()
	path = os.Getenv("SETTINGS_FILE")
	if path != "" {
		return path
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		log.Errorf("Failed to determine user config dir: %s. Using working directory.", err)
		return "settings.json"
	}
	return filepath.Join(dir, "mkcontrol", "settings.json")
}

func SessionTTL() (ttl time.Duration) {
	if t, ok := values["SESSION_TTL_DAYS"]; ok {
		return t.(time.Duration)
	}
	defer func() {
		values["SESSION_TTL_DAYS"] = ttl
	}()
	def := 30 * 24 * time.Hour
	daysStr := os.Getenv("SESSION_TTL_DAYS")
	if daysStr == "" {
		return def
	}
	days, err := strconv.Atoi(daysStr)
	if err != nil || days <= 0 {
		log.Errorf("Invalid session TTL '%s': must be a positive number of days. Using default: 30", daysStr)
		return def
	}
	return time.Duration(days) * 24 * time.Hour
}

func BehindProxy() (behindProxy bool) {
	if b, ok := values["BEHIND_PROXY"]; ok {
		return b.(bool)
	}
	defer func() {
		values["BEHIND_PROXY"] = behindProxy
	}()
	behindProxy, _ = strconv.ParseBool(os.Getenv("BEHIND_PROXY"))
	return behindProxy
}

func RateLimitTokens() (tokens int) {
	if t, ok := values["RATE_LIMIT_TOKENS"]; ok {
		return t.(int)
	}
	defer func() {
		values["RATE_LIMIT_TOKENS"] = tokens
	}()
	def := 30
	tokensStr := os.Getenv("RATE_LIMIT_TOKENS")
	if tokensStr == "" {
		return def
	}
	tokens, err := strconv.Atoi(tokensStr)
	if err != nil || tokens <= 0 {
		log.Errorf("Invalid rate limit tokens '%s': must be a positive number. Using default: %d", tokensStr, def)
		return def
	}
	return tokens
}

func RateLimitInterval() (interval time.Duration) {
	if i, ok := values["RATE_LIMIT_INTERVAL"]; ok {
		return i.(time.Duration)
	}
	defer func() {
		values["RATE_LIMIT_INTERVAL"] = interval
	}()
	def := time.Minute
	intervalStr := os.Getenv("RATE_LIMIT_INTERVAL")
	if intervalStr == "" {
		return def
	}
	interval, err := time.ParseDuration(intervalStr)
	if err != nil || interval <= 0 {
		log.Errorf("Invalid rate limit interval '%s'. Using default: %s", intervalStr, def)
		return def
	}
	return interval
}

func ActionConcurrency() (n int) {
	if c, ok := values["ACTION_CONCURRENCY"]; ok {
		return c.(int)
	}
	defer func() {
		values["ACTION_CONCURRENCY"] = n
	}()
	def := 4
	nStr := os.Getenv("ACTION_CONCURRENCY")
	if nStr == "" {
		return def
	}
	n, err := strconv.Atoi(nStr)
	if err != nil || n <= 0 {
		log.Errorf("Invalid action concurrency '%s': must be a positive number. Using default: %d", nStr, def)
		return def
	}
	return n
}

func MediaKeyHelper() (path string) {
	if p, ok := values["MEDIAKEY_HELPER"]; ok {
		return p.(string)
	}
	defer func() {
		values["MEDIAKEY_HELPER"] = path
	}()
	path = os.Getenv("MEDIAKEY_HELPER")
	if path == "" {
		return "mediakey"
	}
	return path
}
