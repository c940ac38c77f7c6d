package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string

	Database  DatabaseConfigs
	ApiServer ServerConfigs
	Auth      AuthConfigs
	Session   SessionConfigs
	Stream    StreamConfigs
	File      FileConfigs
	Admin     AdminConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string
	Port string
	Cert string
	Key  string
}

type AuthConfigs struct {
	TokenSecret string
	AccessToken TokenConfigs
}

type TokenConfigs struct {
	Name       string
	Expiration time.Duration
}

type SessionConfigs struct {
	Secret string
	Name   string
}

type StreamConfigs struct {
	// BaseURL points to the media server serving HLS segments.
	BaseURL string

	// HlsTokenExpiration bounds the lifetime of a signed segment token.
	HlsTokenExpiration time.Duration
}

type FileConfigs struct {
	// SmiliePath is the JSON catalogue with smilie prices.
	SmiliePath string

	// SmilieDir holds the uploaded smilie images.
	SmilieDir string

	// ConfigPath is the INI file with runtime-editable settings, currently
	// only the Discord webhook.
	ConfigPath string
}

type AdminConfigs struct {
	Username string
	Password string
	Color    string
}
