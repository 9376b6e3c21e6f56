package emailjs

// Config represents the configuration for the EmailJS client
type Config struct {
	// ServiceID is the EmailJS service identifier
	ServiceID string

	// TemplateID is the email template to render
	TemplateID string

	// PublicKey authenticates the account (EmailJS calls this user_id)
	PublicKey string

	// BaseURL is the EmailJS API base URL
	BaseURL string
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.ServiceID == "" {
		return ErrInvalidConfig
	}
	if c.TemplateID == "" {
		return ErrInvalidConfig
	}
	if c.PublicKey == "" {
		return ErrInvalidConfig
	}
	if c.BaseURL == "" {
		return ErrInvalidConfig
	}
	return nil
}
