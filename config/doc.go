// Package config loads binary configuration from config.yml, a .env file and
// the process environment using viper and godotenv.
//
// Environment variables address nested keys with underscores, so API_KEY
// sets api_key and SERVER_PORT sets server.port.
//
// # Usage
//
//	var cfg Config
//	if err := config.LoadConfig("transcription-server", &cfg); err != nil {
//	    return err
//	}
//	cfg.ApplyDefaults()
package config
