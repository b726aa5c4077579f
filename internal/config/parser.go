package config

import (
	"os"

	"therapist-discovery-backend/internal/logger"

	"github.com/goccy/go-yaml"
)

func GetConfig(configPath string, cnf *Conf) {
	logger.Debug("Loading configuration")

	input, err := os.Open(configPath)
	if err != nil {
		logger.Crit("Error while reading config!")
	}
	defer input.Close()

	decoder := yaml.NewDecoder(input)
	err = decoder.Decode(cnf)
	if err != nil {
		logger.Crit("Error while decoding config!")
	}

	if cnf.Server.Listen == "" {
		cnf.Server.Listen = ":8050"
	}
	if cnf.Data.Dir == "" {
		cnf.Data.Dir = "./data"
	}
	if cnf.Data.Therapists == "" {
		cnf.Data.Therapists = "therapists.json"
	}
	if cnf.Data.Community == "" {
		cnf.Data.Community = "community.json"
	}
	if cnf.Data.Registrations == "" {
		cnf.Data.Registrations = "registrations.csv"
	}
	if cnf.Data.UploadCSV == "" {
		cnf.Data.UploadCSV = "therapists_upload.csv"
	}
	if cnf.FlowConfig == "" {
		cnf.FlowConfig = "./config/chatbot_flow.json"
	}
	if cnf.LockTimeout <= 0 {
		cnf.LockTimeout = 2
	}
}
