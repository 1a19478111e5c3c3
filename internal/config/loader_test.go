package config_test

import (
	"context"
	"os"
	"runtime"
	"testing"

	"github.com/okian/gaffer/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*2)
				convey.So(cfg.EMAAlpha, convey.ShouldEqual, 0.3)
				convey.So(cfg.FixtureWindow, convey.ShouldEqual, 3)
				convey.So(cfg.KellyCap, convey.ShouldEqual, 0.25)
				convey.So(cfg.SellFraction, convey.ShouldEqual, 0.6)
				convey.So(cfg.RiskWeights.Valid(), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("GAFFER_ADDR", ":8080")
			_ = os.Setenv("GAFFER_WORKER_COUNT", "16")
			_ = os.Setenv("GAFFER_EMA_ALPHA", "0.5")
			_ = os.Setenv("GAFFER_FIXTURE_WINDOW", "5")
			_ = os.Setenv("GAFFER_KELLY_CAP", "0.1")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 16)
				convey.So(cfg.EMAAlpha, convey.ShouldEqual, 0.5)
				convey.So(cfg.FixtureWindow, convey.ShouldEqual, 5)
				convey.So(cfg.KellyCap, convey.ShouldEqual, 0.1)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
worker_count: 24
ema_alpha: 0.4
sell_fraction: 0.55
ownership_threshold: 0.2
fixture_ratings:
  Arsenal: 5
  Fulham: 2
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("GAFFER_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 24)
				convey.So(cfg.EMAAlpha, convey.ShouldEqual, 0.4)
				convey.So(cfg.SellFraction, convey.ShouldEqual, 0.55)
				convey.So(cfg.OwnershipThreshold, convey.ShouldEqual, 0.2)
				convey.So(cfg.FixtureRatings["Arsenal"], convey.ShouldEqual, 5)
				convey.So(cfg.FixtureRatings["Fulham"], convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
worker_count: 24
swap_margin: 1.5
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("GAFFER_CONFIG", tmpFile)
			_ = os.Setenv("GAFFER_ADDR", ":8080")      // This should override the file
			_ = os.Setenv("GAFFER_WORKER_COUNT", "32") // This should override the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")   // Overridden by env
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 32) // Overridden by env
				convey.So(cfg.SwapMargin, convey.ShouldEqual, 1.5) // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			invalidYaml := `invalid: yaml: content: [`
			tmpFile := createTempConfigFile(invalidYaml)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("GAFFER_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldWrap, config.ErrLoadConfig)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("GAFFER_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldWrap, config.ErrLoadConfig)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("GAFFER_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with partial YAML file", func() {
			yamlContent := `
addr: ":9090"
worker_count: 16
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("GAFFER_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should merge with defaults for missing fields", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")        // From file
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 16)      // From file
				convey.So(cfg.EMAAlpha, convey.ShouldEqual, 0.3)        // From defaults
				convey.So(cfg.FixtureWindow, convey.ShouldEqual, 3)     // From defaults
				convey.So(cfg.MaxDifferentials, convey.ShouldEqual, 10) // From defaults
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("GAFFER_WORKER_COUNT", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigLoaderValidation(t *testing.T) {
	convey.Convey("Given config validation rules", t, func() {
		ctx := context.Background()

		convey.Convey("When ema_alpha falls outside (0,1)", func() {
			_ = os.Setenv("GAFFER_EMA_ALPHA", "1.2")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "ema_alpha")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When worker_count is zero", func() {
			_ = os.Setenv("GAFFER_WORKER_COUNT", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "worker_count")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When multiplier bounds are inverted", func() {
			_ = os.Setenv("GAFFER_MULTIPLIER_MIN", "1.5")
			_ = os.Setenv("GAFFER_MULTIPLIER_MAX", "0.9")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "multiplier")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When risk weights do not sum to 1", func() {
			yamlContent := `
risk_weights:
  price_volatility: 0.9
  form_variance: 0.9
  availability: 0.2
  rotation: 0.15
  fixtures: 0.1
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("GAFFER_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "risk_weights")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with various addr formats", func() {
			_ = os.Setenv("GAFFER_ADDR", "[::1]:8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should accept the addr as-is", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, "[::1]:8080")
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"GAFFER_CONFIG",
		"GAFFER_ADDR",
		"GAFFER_WORKER_COUNT",
		"GAFFER_EMA_ALPHA",
		"GAFFER_FIXTURE_WINDOW",
		"GAFFER_KELLY_CAP",
		"GAFFER_MULTIPLIER_MIN",
		"GAFFER_MULTIPLIER_MAX",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "gaffer-config-*.yaml")
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
