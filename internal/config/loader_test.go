package config_test

import (
	"errors"
	"os"
	"testing"

	"github.com/okian/solhttp/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load()

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Port, convey.ShouldEqual, 3000)
				convey.So(cfg.Host, convey.ShouldEqual, "0.0.0.0")
				convey.So(cfg.Addr(), convey.ShouldEqual, "0.0.0.0:3000")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
				convey.So(cfg.MaxBodyBytes, convey.ShouldEqual, 1<<20)
				convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"*"})
				convey.So(cfg.MetricsEnabled, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with prefixed environment variables", func() {
			_ = os.Setenv("SOLHTTP_PORT", "8080")
			_ = os.Setenv("SOLHTTP_HOST", "127.0.0.1")
			_ = os.Setenv("SOLHTTP_LOG_FORMAT", "json")
			_ = os.Setenv("SOLHTTP_MAX_BODY_BYTES", "4096")
			_ = os.Setenv("SOLHTTP_METRICS_ENABLED", "false")

			cfg, err := config.Load()

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Port, convey.ShouldEqual, 8080)
				convey.So(cfg.Addr(), convey.ShouldEqual, "127.0.0.1:8080")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.MaxBodyBytes, convey.ShouldEqual, 4096)
				convey.So(cfg.MetricsEnabled, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When only the bare PORT variable is set", func() {
			_ = os.Setenv("PORT", "9000")

			cfg, err := config.Load()

			convey.Convey("Then it should be used as the listen port", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Port, convey.ShouldEqual, 9000)
			})

			convey.Convey("And SOLHTTP_PORT should take precedence", func() {
				_ = os.Setenv("SOLHTTP_PORT", "9100")
				cfg, err := config.Load()
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Port, convey.ShouldEqual, 9100)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
host: "localhost"
port: 4000
log_level: debug
cors_allowed_origins:
  - "https://app.example.com"
docs_enabled: false
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("SOLHTTP_CONFIG", tmpFile)

			cfg, err := config.Load()

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Host, convey.ShouldEqual, "localhost")
				convey.So(cfg.Port, convey.ShouldEqual, 4000)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"https://app.example.com"})
				convey.So(cfg.DocsEnabled, convey.ShouldBeFalse)
				convey.So(cfg.MaxBodyBytes, convey.ShouldEqual, 1<<20) // from defaults
			})

			convey.Convey("And environment variables should override file values", func() {
				_ = os.Setenv("SOLHTTP_PORT", "5000")
				cfg, err := config.Load()
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Port, convey.ShouldEqual, 5000)
				convey.So(cfg.Host, convey.ShouldEqual, "localhost")
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("SOLHTTP_CONFIG", tmpFile)

			cfg, err := config.Load()

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("SOLHTTP_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load()

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the port is not a number", func() {
			_ = os.Setenv("SOLHTTP_PORT", "not_a_number")

			cfg, err := config.Load()

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the port is out of range", func() {
			_ = os.Setenv("SOLHTTP_PORT", "70000")

			cfg, err := config.Load()

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "port")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the host is empty", func() {
			_ = os.Setenv("SOLHTTP_HOST", "")

			cfg, err := config.Load()

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "host must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigValidate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New()

		convey.Convey("Then it should be valid", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When max_body_bytes is zero", func() {
			cfg.MaxBodyBytes = 0

			convey.Convey("Then validation should fail", func() {
				err := cfg.Validate()
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "max_body_bytes")
			})
		})

		convey.Convey("When host is an IPv6 literal", func() {
			cfg.Host = "::1"

			convey.Convey("Then Addr should bracket it", func() {
				convey.So(cfg.Addr(), convey.ShouldEqual, "[::1]:3000")
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"PORT",
		"SOLHTTP_CONFIG",
		"SOLHTTP_HOST",
		"SOLHTTP_PORT",
		"SOLHTTP_LOG_LEVEL",
		"SOLHTTP_LOG_FORMAT",
		"SOLHTTP_MAX_BODY_BYTES",
		"SOLHTTP_METRICS_ENABLED",
		"SOLHTTP_DOCS_ENABLED",
		"SOLHTTP_CORS_ALLOWED_ORIGINS",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "solhttp-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
