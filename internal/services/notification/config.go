package notification

// Config toggles the optional delivery channels.
type Config struct {
	SMSEnabled bool `mapstructure:"sms_enabled"`
}

func DefaultConfig() *Config {
	return &Config{}
}
