// httpclient/config_file.go
// Loading configuration values from an INI file or environment variables.
package httpclient

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/bigkevmcd/go-configparser"
)

// configSection is the INI section configuration values are read from.
const configSection = "jamf"

// LoadConfigFromFile loads configuration values from an INI file into a
// ClientConfig. Missing options keep their zero value and fall back to the
// defaults applied at construction. Expected layout:
//
//	[jamf]
//	base_url = https://instance.jamfcloud.com
//	username = api-user
//	password = secret
//	timeout_seconds = 180
//	insecure_skip_verify = false
//	hide_deprecated = false
//	accept_format = json
//	log_level = warning
func LoadConfigFromFile(filepath string) (*ClientConfig, error) {
	p, err := configparser.NewConfigParserFromFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read the configuration file %s: %w", filepath, err)
	}

	config := &ClientConfig{}
	config.BaseURL = configString(p, "base_url")
	config.Username = configString(p, "username")
	config.Password = configString(p, "password")
	config.AcceptFormat = configString(p, "accept_format")
	config.SchemaFile = configString(p, "schema_file")
	config.LogLevel = configString(p, "log_level")
	config.LogEncoding = configString(p, "log_encoding")
	config.InsecureSkipVerify = configBool(p, "insecure_skip_verify")
	config.SuppressTLSWarnings = configBool(p, "suppress_tls_warnings")
	config.HideDeprecated = configBool(p, "hide_deprecated")

	if seconds := configString(p, "timeout_seconds"); seconds != "" {
		parsed, err := strconv.Atoi(seconds)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout_seconds %q in %s: %w", seconds, filepath, err)
		}
		config.Timeout = time.Duration(parsed) * time.Second
	}

	return config, nil
}

// LoadConfigFromEnv populates empty ClientConfig fields from JAMF_*
// environment variables. Values already present on the config win.
func LoadConfigFromEnv(config *ClientConfig) *ClientConfig {
	if config == nil {
		config = &ClientConfig{}
	}

	setFromEnv(&config.BaseURL, "JAMF_BASE_URL")
	setFromEnv(&config.Username, "JAMF_USERNAME")
	setFromEnv(&config.Password, "JAMF_PASSWORD")
	setFromEnv(&config.AcceptFormat, "JAMF_ACCEPT_FORMAT")
	setFromEnv(&config.SchemaFile, "JAMF_SCHEMA_FILE")
	setFromEnv(&config.LogLevel, "JAMF_LOG_LEVEL")
	setFromEnv(&config.LogEncoding, "JAMF_LOG_ENCODING")

	if !config.InsecureSkipVerify {
		config.InsecureSkipVerify = envBool("JAMF_INSECURE_SKIP_VERIFY")
	}
	if !config.SuppressTLSWarnings {
		config.SuppressTLSWarnings = envBool("JAMF_SUPPRESS_TLS_WARNINGS")
	}
	if !config.HideDeprecated {
		config.HideDeprecated = envBool("JAMF_HIDE_DEPRECATED")
	}
	if config.Timeout == 0 {
		if seconds, err := strconv.Atoi(os.Getenv("JAMF_TIMEOUT_SECONDS")); err == nil && seconds > 0 {
			config.Timeout = time.Duration(seconds) * time.Second
		}
	}

	return config
}

func configString(p *configparser.ConfigParser, option string) string {
	value, err := p.Get(configSection, option)
	if err != nil {
		return ""
	}
	return value
}

func configBool(p *configparser.ConfigParser, option string) bool {
	parsed, err := strconv.ParseBool(configString(p, option))
	return err == nil && parsed
}

func setFromEnv(target *string, key string) {
	if *target == "" {
		if value := os.Getenv(key); value != "" {
			*target = value
		}
	}
}

func envBool(key string) bool {
	parsed, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && parsed
}
