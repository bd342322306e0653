package subscription

// Seed describes one subscribed account in a YAML seed file.
type Seed struct {
	Name      string `yaml:"name"`
	Platform  string `yaml:"platform"`
	URL       string `yaml:"url"`
	AccountID string `yaml:"account_id"`
	OwnerID   string `yaml:"owner_id"`
}
