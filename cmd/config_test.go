package cmd

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/frahmantamala/hr-core/internal"
	"github.com/frahmantamala/hr-core/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const testSecret = "test-secret-that-is-long-enough-0123456789"

var _ = Describe("loadConfig", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	Context("without a config file", func() {
		It("applies defaults and environment overrides", func() {
			// Given only the secret is provided through the environment
			GinkgoT().Setenv("HRCORE_SECURITY_JWT_SECRET", testSecret)
			GinkgoT().Setenv("HRCORE_STORAGE_DRIVER", "memory")

			// When
			cfg, err := loadConfig(dir)

			// Then
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Security.JWTSecret).To(Equal(testSecret))
			Expect(cfg.Storage.Driver).To(Equal(internal.StorageDriverMemory))
			Expect(cfg.Server.Port).To(Equal(8080))
			Expect(cfg.AI.Model).To(Equal("gemini-2.5-flash"))
			Expect(cfg.AI.Timeout).To(Equal(30 * time.Second))
			Expect(cfg.RateLimit.Login).To(Equal("5-M"))
			Expect(cfg.Biometric.Reader).To(Equal(internal.BiometricReaderSimulated))
		})

		It("rejects a missing jwt secret", func() {
			GinkgoT().Setenv("HRCORE_SECURITY_JWT_SECRET", "")

			_, err := loadConfig(dir)

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("jwt secret"))
		})
	})

	Context("with a config file", func() {
		It("reads values and lets the environment win", func() {
			// Given
			yml := []byte(`
security:
  jwt_secret: "` + testSecret + `"
storage:
  driver: sqlite
  sqlite_path: /tmp/from-file.db
biometric:
  reader: http
  sync_interval: 1m
`)
			Expect(os.WriteFile(filepath.Join(dir, "config.yml"), yml, 0o600)).To(Succeed())
			GinkgoT().Setenv("HRCORE_STORAGE_SQLITE_PATH", "/tmp/from-env.db")

			// When
			cfg, err := loadConfig(dir)

			// Then
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Storage.Driver).To(Equal(internal.StorageDriverSQLite))
			Expect(cfg.Storage.SQLitePath).To(Equal("/tmp/from-env.db"))
			Expect(cfg.Biometric.Reader).To(Equal(internal.BiometricReaderHTTP))
			Expect(cfg.Biometric.SyncInterval).To(Equal(time.Minute))
		})

		It("reports an unknown storage driver", func() {
			GinkgoT().Setenv("HRCORE_SECURITY_JWT_SECRET", testSecret)
			GinkgoT().Setenv("HRCORE_STORAGE_DRIVER", "cassandra")

			_, err := loadConfig(dir)

			Expect(err).To(MatchError(ContainSubstring("unknown storage driver")))
		})
	})
})

var _ = Describe("openStore", func() {
	It("opens a seeded store on the memory backend", func() {
		GinkgoT().Setenv("HRCORE_SECURITY_JWT_SECRET", testSecret)
		GinkgoT().Setenv("HRCORE_STORAGE_DRIVER", "memory")
		GinkgoT().Setenv("HRCORE_SECURITY_BCRYPT_COST", "4")
		cfg, err := loadConfig(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())

		store, err := openStore(context.Background(), cfg, logger.Discard(), nil)

		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(store.Close)
		Expect(store.Employees()).NotTo(BeEmpty())
		Expect(store.Ping(context.Background())).To(Succeed())
	})

	It("opens a sqlite file and migrates the kv table", func() {
		GinkgoT().Setenv("HRCORE_SECURITY_JWT_SECRET", testSecret)
		GinkgoT().Setenv("HRCORE_STORAGE_DRIVER", "sqlite")
		GinkgoT().Setenv("HRCORE_STORAGE_SQLITE_PATH", filepath.Join(GinkgoT().TempDir(), "hr.db"))
		GinkgoT().Setenv("HRCORE_SECURITY_BCRYPT_COST", "4")
		cfg, err := loadConfig(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())

		store, err := openStore(context.Background(), cfg, logger.Discard(), nil)

		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(store.Close)
		Expect(store.Settings().TwoStepApproval).To(BeTrue())
	})
})
