package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"course-synergy/internal/matcher"
	"course-synergy/internal/similarity"
)

type Config struct {
	// Sources
	SourceA Source
	SourceB Source

	// Matching
	MatchMode           matcher.Mode
	MatchStrictness     similarity.Strictness // 0 = mode default
	MaxDateDistanceDays int
	UnknownLocations    []string
	KeywordRulesPath    string

	// Logging
	LogLevel  string
	LogFormat string

	// SFTP
	SFTPHost                  string
	SFTPPort                  int
	SFTPUser                  string
	SFTPPass                  string
	SFTPDir                   string
	SFTPKnownHosts            string
	SFTPInsecureIgnoreHostKey bool
}

// Source names one provider export. Path is a local file or an http(s) URL.
type Source struct {
	Name string
	Path string
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	mode, err := matcher.ParseMode(v.GetString("MATCH_MODE"))
	if err != nil {
		return Config{}, fmt.Errorf("config: MATCH_MODE: %w", err)
	}
	strictness, err := parseStrictness(v.GetString("MATCH_STRICT"))
	if err != nil {
		return Config{}, fmt.Errorf("config: MATCH_STRICT: %w", err)
	}

	return Config{
		SourceA: Source{Name: v.GetString("SOURCE_A_NAME"), Path: v.GetString("SOURCE_A_PATH")},
		SourceB: Source{Name: v.GetString("SOURCE_B_NAME"), Path: v.GetString("SOURCE_B_PATH")},

		MatchMode:           mode,
		MatchStrictness:     strictness,
		MaxDateDistanceDays: v.GetInt("MATCH_MAX_DATE_DISTANCE_DAYS"),
		UnknownLocations:    splitAndTrim(v.GetString("UNKNOWN_LOCATIONS")),
		KeywordRulesPath:    v.GetString("KEYWORD_RULES_PATH"),

		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),

		SFTPHost:                  v.GetString("SFTP_HOST"),
		SFTPPort:                  v.GetInt("SFTP_PORT"),
		SFTPUser:                  v.GetString("SFTP_USER"),
		SFTPPass:                  v.GetString("SFTP_PASS"),
		SFTPDir:                   v.GetString("SFTP_DIR"),
		SFTPKnownHosts:            v.GetString("SFTP_KNOWN_HOSTS"),
		SFTPInsecureIgnoreHostKey: v.GetBool("SFTP_INSECURE_IGNORE_HOSTKEY"),
	}, nil
}

// MatchOptions maps the matching settings onto matcher.Options.
func (c Config) MatchOptions() matcher.Options {
	return matcher.Options{
		Mode:                c.MatchMode,
		Strictness:          c.MatchStrictness,
		MaxDateDistanceDays: c.MaxDateDistanceDays,
		UnknownLocations:    c.UnknownLocations,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SOURCE_A_NAME", "ASPY")
	v.SetDefault("SOURCE_B_NAME", "MAS")
	v.SetDefault("SOURCE_A_PATH", "")
	v.SetDefault("SOURCE_B_PATH", "")

	v.SetDefault("MATCH_MODE", string(matcher.ModeGreedy))
	v.SetDefault("MATCH_STRICT", "")
	v.SetDefault("MATCH_MAX_DATE_DISTANCE_DAYS", matcher.DefaultMaxDateDistanceDays)
	v.SetDefault("UNKNOWN_LOCATIONS", strings.Join(matcher.DefaultUnknownLocations, ","))
	v.SetDefault("KEYWORD_RULES_PATH", "")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SFTP_HOST", "")
	v.SetDefault("SFTP_PORT", 22)
	v.SetDefault("SFTP_USER", "")
	v.SetDefault("SFTP_PASS", "")
	v.SetDefault("SFTP_DIR", "/inbound")
	v.SetDefault("SFTP_KNOWN_HOSTS", "")
	v.SetDefault("SFTP_INSECURE_IGNORE_HOSTKEY", true)
}

// parseStrictness: empty keeps the mode default, otherwise a boolean.
func parseStrictness(raw string) (similarity.Strictness, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	strict, err := strconv.ParseBool(raw)
	if err != nil {
		return 0, err
	}
	if strict {
		return similarity.Strict, nil
	}
	return similarity.Permissive, nil
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
