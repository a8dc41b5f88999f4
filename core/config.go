package core

import (
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Debug    bool
		TestMode bool
		Env      string
		AppName  string
		WorkDir  string

		// fixed operator credential pair; not a security boundary
		AdminUsername string
		AdminPassword string

		DefaultFromName  string
		DefaultFromEmail string
		SendgridApiKey   string
		RollbarToken     string

		Server    ServerConfig
		Database  DatabaseConfig
		Filestore FilestoreConfig
	}

	ServerConfig struct {
		Addr            string
		SessionTTL      time.Duration
		ShutdownTimeout time.Duration
	}

	DatabaseConfig struct {
		// Path is the sqlite database file location.
		Path string
	}

	// FilestoreConfig holds the three independent backup directories:
	// registration snapshots, contact inquiries and welcome-notice copies.
	FilestoreConfig struct {
		StudentsDir string
		ContactsDir string
		EmailsDir   string
	}
)

func (c *Config) FromEmail() mail.Address {
	return mail.Address{Name: c.DefaultFromName, Address: c.DefaultFromEmail}
}

// NewConfig loads the app configuration from defaults, an optional
// config/.env.<env> file and environment variables (in increasing precedence).
func NewConfig(workDir string) (*Config, error) {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "EnLift-Institute")
	v.SetDefault("adminUsername", "admin")
	v.SetDefault("adminPassword", "admin")
	v.SetDefault("defaultFromName", "EnLift Admissions")
	v.SetDefault("defaultFromEmail", "admissions@enlift-institute.com")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.sessionTTL", 12*time.Hour)
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("database.path", filepath.Join(workDir, "enlift_students.db"))
	v.SetDefault("filestore.studentsDir", filepath.Join(workDir, "students"))
	v.SetDefault("filestore.contactsDir", filepath.Join(workDir, "contacts"))
	v.SetDefault("filestore.emailsDir", filepath.Join(workDir, "emails"))

	env := os.Getenv("ENV") // DEV (default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	if env == "TEST" {
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(workDir, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
	}
	v.AutomaticEnv()

	return &Config{
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("testMode"),
		Env:              env,
		AppName:          v.GetString("appName"),
		WorkDir:          workDir,
		AdminUsername:    v.GetString("adminUsername"),
		AdminPassword:    v.GetString("adminPassword"),
		DefaultFromName:  v.GetString("defaultFromName"),
		DefaultFromEmail: v.GetString("defaultFromEmail"),
		SendgridApiKey:   v.GetString("sendgridApiKey"),
		RollbarToken:     v.GetString("rollbarToken"),
		Server: ServerConfig{
			Addr:            v.GetString("server.addr"),
			SessionTTL:      v.GetDuration("server.sessionTTL"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
		},
		Database: DatabaseConfig{
			Path: v.GetString("database.path"),
		},
		Filestore: FilestoreConfig{
			StudentsDir: v.GetString("filestore.studentsDir"),
			ContactsDir: v.GetString("filestore.contactsDir"),
			EmailsDir:   v.GetString("filestore.emailsDir"),
		},
	}, nil
}
