package config

import (
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
)

type (
	// configuration contains the application settings
	Conf struct {
		Server Server `yaml:"server"`

		Data Data `yaml:"data"`

		// path to the chatbot flow graph
		FlowConfig string `yaml:"flow_config"`

		// seconds one request may wait for a busy data file
		LockTimeout int `yaml:"lock_timeout"`

		RunInDebug bool `yaml:"-"`
	}

	Server struct {
		Host   string `yaml:"host"`
		Listen string `yaml:"listen"`
	}

	// Data names the flat files the platform persists into.
	Data struct {
		Dir           string `yaml:"dir"`
		Therapists    string `yaml:"therapists"`
		Community     string `yaml:"community"`
		Registrations string `yaml:"registrations"`
		UploadCSV     string `yaml:"upload_csv"`
	}
)

func (c *Conf) TherapistsFile() string {
	return filepath.Join(c.Data.Dir, c.Data.Therapists)
}

func (c *Conf) CommunityFile() string {
	return filepath.Join(c.Data.Dir, c.Data.Community)
}

func (c *Conf) RegistrationsFile() string {
	return filepath.Join(c.Data.Dir, c.Data.Registrations)
}

func (c *Conf) UploadCSVFile() string {
	return filepath.Join(c.Data.Dir, c.Data.UploadCSV)
}

func (c *Conf) LockTimeoutDuration() time.Duration {
	return time.Duration(c.LockTimeout) * time.Second
}

func Inject(key string, cnf *Conf) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(key, cnf)
	}
}
