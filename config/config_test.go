package config_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/viper"

	"github.com/angeloszaimis/lb-demo-backend/config"
)

func TestConfig(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Config Suite")
}

var _ = Describe("Config", func() {
	var tempDir string

	BeforeEach(func() {
		viper.Reset()

		var err error
		tempDir, err = os.MkdirTemp("", "config-test-*")
		Expect(err).NotTo(HaveOccurred())

		err = os.Chdir(tempDir)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tempDir)
		os.Unsetenv("PORT")
		os.Unsetenv("INSTANCE_ID")
		os.Unsetenv("INSTANCE_COLOR")
	})

	Describe("Load", func() {
		Context("with no config file and no environment", func() {
			It("should fall back to defaults", func() {
				cfg, err := config.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Server.Port).To(Equal(5000))
				Expect(cfg.Instance.ID).To(Equal("unknown"))
				Expect(cfg.Instance.Color).To(Equal("#ffffff"))
				Expect(cfg.Logging.Level).To(Equal(config.LogLevelInfo))
			})

			It("should bind all interfaces on the default port", func() {
				cfg, err := config.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Addr()).To(Equal(":5000"))
			})
		})

		Context("with environment variables", func() {
			It("should honor PORT", func() {
				os.Setenv("PORT", "8081")
				cfg, err := config.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Server.Port).To(Equal(8081))
				Expect(cfg.Addr()).To(Equal(":8081"))
			})

			It("should echo instance labels verbatim", func() {
				os.Setenv("INSTANCE_ID", "backend-2")
				os.Setenv("INSTANCE_COLOR", "#00ff00")
				cfg, err := config.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Instance.ID).To(Equal("backend-2"))
				Expect(cfg.Instance.Color).To(Equal("#00ff00"))
			})
		})

		Context("with valid config file", func() {
			BeforeEach(func() {
				configContent := `
server:
  port: 9000
  environment: "dev"

instance:
  id: "backend-blue"
  color: "#0000ff"

logging:
  level: "debug"
`
				configPath := filepath.Join(tempDir, "config.yaml")
				err := os.WriteFile(configPath, []byte(configContent), 0644)
				Expect(err).NotTo(HaveOccurred())
			})

			It("should load configuration successfully", func() {
				cfg, err := config.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg).NotTo(BeNil())
				Expect(cfg.Server.Port).To(Equal(9000))
			})

			It("should parse instance labels", func() {
				cfg, _ := config.Load()
				Expect(cfg.Instance.ID).To(Equal("backend-blue"))
				Expect(cfg.Instance.Color).To(Equal("#0000ff"))
			})

			It("should parse log level", func() {
				cfg, _ := config.Load()
				Expect(cfg.Logging.Level).To(Equal(config.LogLevelDebug))
			})
		})
	})

	Describe("Validate", func() {
		It("should reject an out-of-range port", func() {
			cfg := &config.Config{
				Server:   config.ServerConfig{Port: 70000, Environment: config.EnvDev},
				Instance: config.InstanceConfig{ID: "unknown", Color: "#ffffff"},
				Logging:  config.LoggingConfig{Level: config.LogLevelInfo},
			}
			Expect(cfg.Validate()).To(HaveOccurred())
		})

		It("should reject an unknown environment", func() {
			cfg := &config.Config{
				Server:   config.ServerConfig{Port: 5000, Environment: "qa"},
				Instance: config.InstanceConfig{ID: "unknown", Color: "#ffffff"},
				Logging:  config.LoggingConfig{Level: config.LogLevelInfo},
			}
			Expect(cfg.Validate()).To(HaveOccurred())
		})

		It("should reject an unknown log level", func() {
			cfg := &config.Config{
				Server:   config.ServerConfig{Port: 5000, Environment: config.EnvDev},
				Instance: config.InstanceConfig{ID: "unknown", Color: "#ffffff"},
				Logging:  config.LoggingConfig{Level: "verbose"},
			}
			Expect(cfg.Validate()).To(HaveOccurred())
		})

		It("should accept the defaults", func() {
			cfg := &config.Config{
				Server:   config.ServerConfig{Port: 5000, Environment: config.EnvDev},
				Instance: config.InstanceConfig{ID: "unknown", Color: "#ffffff"},
				Logging:  config.LoggingConfig{Level: config.LogLevelInfo},
			}
			Expect(cfg.Validate()).NotTo(HaveOccurred())
		})
	})
})
